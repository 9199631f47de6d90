package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/block"
	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/config"
	"github.com/AlexZinkM/nano-wallet/internal/crypto"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"

	"github.com/urfave/cli"
)

var seedFlag = cli.BoolFlag{
	Name:  "seed",
	Usage: "Read a hex seed instead of a recovery phrase",
}
var forceFlag = cli.BoolFlag{
	Name:  "force",
	Usage: "Overwrite an existing keystore",
}

var recoverCommand = cli.Command{
	Action: recoverWallet,
	Name:   "recover",
	Usage:  "Rebuild the keystore at NANO_WALLET from a recovery phrase or seed",
	Description: "The phrase is read from NANO_MNEMONIC (a seed from NANO_SEED with --seed) " +
		"or prompted for. Only account 0 is derived, add more through the API.",
	Flags: []cli.Flag{
		seedFlag,
		forceFlag,
	},
}

func recoverWallet(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	if !ctx.Bool(forceFlag.GetName()) {
		if _, err := os.Stat(cfg.WalletPath); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite it", cfg.WalletPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	var w *model.Wallet
	if ctx.Bool(seedFlag.GetName()) {
		seed, err := config.LoadSecret("NANO_SEED", "Enter seed: ")
		if err != nil {
			return err
		}
		defer clear(seed)
		w, err = wallet.FromSeed(strings.TrimSpace(string(seed)))
		if err != nil {
			return err
		}
	} else {
		phrase, err := config.LoadSecret("NANO_MNEMONIC", "Enter recovery phrase: ")
		if err != nil {
			return err
		}
		defer clear(phrase)
		w, err = wallet.FromMnemonic(string(phrase))
		if err != nil {
			return err
		}
	}

	if err := config.LoadPassword(); err != nil {
		return err
	}
	password, err := config.GetPasswordBytes()
	if err != nil {
		return err
	}
	defer clear(password)

	if err := wallet.Save(cfg.WalletPath, w, password); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Recovered %s into %s\n", w.Accounts[0].Address, cfg.WalletPath)
	return nil
}

var encryptCommand = cli.Command{
	Action:    encryptFile,
	Name:      "encrypt",
	Usage:     "Encrypt a file with the wallet password and print the blob",
	ArgsUsage: "file",
}

// encryptFile needs no wallet; the password comes from NANO_SECRET or a prompt
func encryptFile(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "encrypt")
		return errors.New("exactly one file is required")
	}

	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	password, err := loadPassword()
	if err != nil {
		return err
	}
	defer clear(password)

	blob, err := crypto.Encrypt(data, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, blob)
	return nil
}

var decryptCommand = cli.Command{
	Action:    decryptFile,
	Name:      "decrypt",
	Usage:     "Decrypt a file in any supported keystore format and print it",
	ArgsUsage: "file",
}

func decryptFile(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "decrypt")
		return errors.New("exactly one file is required")
	}

	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	password, err := loadPassword()
	if err != nil {
		return err
	}
	defer clear(password)

	plaintext, _, err := crypto.Decrypt(string(data), password)
	if err != nil {
		return err
	}
	defer clear(plaintext)

	var out bytes.Buffer
	if err := json.Indent(&out, plaintext, "", "  "); err != nil {
		_, err = ctx.App.Writer.Write(plaintext)
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(ctx.App.Writer)
	return err
}

var signCommand = cli.Command{
	Action:    signBlock,
	Name:      "sign",
	Usage:     "Sign a block offline with a private key",
	ArgsUsage: "block_json|-",
	Description: "The block is a JSON object with walletBalanceRaw, fromAddress, toAddress, " +
		"representativeAddress, frontier, amountRaw, transactionHash and work; \"-\" reads it " +
		"from stdin. The private key is read from NANO_PRIVATE_KEY or prompted for.",
}

func signBlock(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "sign")
		return errors.New("exactly one block is required")
	}

	raw := []byte(ctx.Args().First())
	if ctx.Args().First() == "-" {
		var err error
		if raw, err = io.ReadAll(os.Stdin); err != nil {
			return err
		}
	}
	var req model.SignRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("failed to parse block: %w", err)
	}

	private, err := config.LoadSecret("NANO_PRIVATE_KEY", "Enter private key: ")
	if err != nil {
		return err
	}
	defer clear(private)

	signer, err := keys.FromPrivateKey(strings.TrimSpace(string(private)))
	if err != nil {
		return err
	}
	defer signer.Clear()

	result, err := sign(req, signer)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// sign signs req and reports the block with its hash and amount
func sign(req model.SignRequest, signer *keys.KeyPair) (*model.BlockResult, error) {
	b, err := block.Sign(req, signer)
	if err != nil {
		return nil, err
	}

	previous := req.WalletBalanceRaw
	if previous == "" {
		previous = "0"
	}
	amount, err := block.Amount(b, previous)
	if err != nil {
		return nil, err
	}

	return &model.BlockResult{
		Hash:    b.Hash,
		Subtype: b.Subtype,
		Amount:  common.RawToNano(amount),
		Block:   b,
	}, nil
}

// loadPassword reads the password for file commands and returns a copy
func loadPassword() ([]byte, error) {
	if err := config.LoadPassword(); err != nil {
		return nil, err
	}
	return config.GetPasswordBytes()
}
