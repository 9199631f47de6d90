package block

import (
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// Sign builds and signs the block described by req without a node. The
// account named by req, if any, must be the one of signer. Work is attached
// when given.
func Sign(req model.SignRequest, signer *keys.KeyPair) (*model.StateBlock, error) {
	snapshot := model.AccountInfo{
		Balance:        req.WalletBalanceRaw,
		Representative: req.RepresentativeAddress,
	}
	if snapshot.Balance == "" {
		snapshot.Balance = "0"
	}
	if req.Frontier != "" && req.Frontier != ZeroHash {
		snapshot.Frontier = req.Frontier
		snapshot.Opened = true
	}

	var (
		params Params
		owner  string
	)
	switch {
	case req.TransactionHash != "":
		amount, err := common.ParseRaw(req.AmountRaw)
		if err != nil {
			return nil, err
		}
		params = Params{
			Kind:           KindReceive,
			Amount:         amount,
			Source:         req.TransactionHash,
			Representative: req.RepresentativeAddress,
		}
		owner = req.ToAddress

	case req.ToAddress != "":
		amount, err := common.ParseRaw(req.AmountRaw)
		if err != nil {
			return nil, err
		}
		params = Params{
			Kind:        KindSend,
			Amount:      amount,
			Destination: req.ToAddress,
		}
		owner = req.FromAddress

	default:
		params = Params{
			Kind:           KindChange,
			Representative: req.RepresentativeAddress,
		}
		owner = req.Address
	}

	if owner != "" {
		address, err := keys.NormalizeAddress(owner)
		if err != nil {
			return nil, err
		}
		if address != signer.Address {
			return nil, fmt.Errorf("%w: block account %s is not the signing key's %s",
				model.ErrInvalidAddress, owner, signer.Address)
		}
	}

	b, err := Build(snapshot, signer, params)
	if err != nil {
		return nil, err
	}
	if req.Work != "" {
		if err := SetWork(b, req.Work); err != nil {
			return nil, err
		}
	}
	return b, nil
}
