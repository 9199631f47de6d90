package block

import (
	"strings"
	"testing"

	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	zeroSeed = "0000000000000000000000000000000000000000000000000000000000000000"
	frontier = "991CF190094C00F0B68E2E5F75F6BEE95A2E0BD93CEAA4A6734DB9F19B728948"
	oneNano  = "1000000000000000000000000000000"
)

func testKeys(t *testing.T, index uint32) *keys.KeyPair {
	t.Helper()

	kp, err := keys.Derive(zeroSeed, index)
	require.NoError(t, err)
	return kp
}

func raw(t *testing.T, s string) *uint256.Int {
	t.Helper()

	v, err := uint256.FromDecimal(s)
	require.NoError(t, err)
	return v
}

func TestBuildSend(t *testing.T) {
	t.Parallel()

	sender, receiver := testKeys(t, 0), testKeys(t, 1)
	snapshot := model.AccountInfo{
		Frontier:       frontier,
		Balance:        "3000000000000000000000000000000",
		Representative: sender.Address,
		Opened:         true,
	}

	b, err := Build(snapshot, sender, Params{
		Kind:        KindSend,
		Amount:      raw(t, oneNano),
		Destination: receiver.Address,
	})
	require.NoError(t, err)

	require.Equal(t, "state", b.Type)
	require.Equal(t, model.SubtypeSend, b.Subtype)
	require.Equal(t, frontier, b.Previous)
	require.Equal(t, "2000000000000000000000000000000", b.Balance)
	require.Equal(t, "E30D22B7935BCC25412FC07427391AB4C98A4AD68BAA733300D23D82C9D20AD3", b.Link)
	require.Equal(t, receiver.Address, b.LinkAsAccount)
	require.Equal(t, "886E27BB887E80CFFE9295DCF8EE9B664BD88454218CA5A770C4AE8D1D31DFC1", b.Hash)
	require.Equal(t,
		"A92B0C90CDEB5D62376D1F435924993FB7B4D002C2C9ADED57B76253151AC68D"+
			"69E075C0E190725D7C8840259AB7984E4806E3011260EBF0F1AB183B17E9D303",
		b.Signature)
	require.Empty(t, b.Work)
	require.NoError(t, Verify(b))

	root, err := WorkRoot(b)
	require.NoError(t, err)
	require.Equal(t, frontier, root)
}

func TestBuildOpen(t *testing.T) {
	t.Parallel()

	sender, receiver := testKeys(t, 0), testKeys(t, 1)

	b, err := Build(model.AccountInfo{Balance: "0"}, receiver, Params{
		Kind:           KindReceive,
		Amount:         raw(t, oneNano),
		Source:         strings.ToLower("886E27BB887E80CFFE9295DCF8EE9B664BD88454218CA5A770C4AE8D1D31DFC1"),
		Representative: sender.Address,
	})
	require.NoError(t, err)

	require.Equal(t, model.SubtypeOpen, b.Subtype)
	require.Equal(t, ZeroHash, b.Previous)
	require.Equal(t, oneNano, b.Balance)
	require.Equal(t, "886E27BB887E80CFFE9295DCF8EE9B664BD88454218CA5A770C4AE8D1D31DFC1", b.Link)
	require.Equal(t, "BB4F593C6121FDCD863D4454356AF34A787148CA5C4B5247BFA3DB9488E66812", b.Hash)
	require.Equal(t,
		"26C24C6C803BCA15617EF3F3F0649FE15AC2DE1684273D0E43ED9DBF27CA1C1C"+
			"A67BCBF78347F265DB25C946311118F2DBE3B84D06F7E707EE0691BDADFA7306",
		b.Signature)

	// Open blocks work on the account key.
	root, err := WorkRoot(b)
	require.NoError(t, err)
	require.Equal(t, "E30D22B7935BCC25412FC07427391AB4C98A4AD68BAA733300D23D82C9D20AD3", root)
}

func TestBuildReceiveOpened(t *testing.T) {
	t.Parallel()

	kp := testKeys(t, 2)
	rep := testKeys(t, 3).Address

	b, err := Build(model.AccountInfo{
		Frontier:       frontier,
		Balance:        "5",
		Representative: rep,
		Opened:         true,
	}, kp, Params{
		Kind:           KindReceive,
		Amount:         uint256.NewInt(7),
		Source:         frontier,
		Representative: kp.Address,
	})
	require.NoError(t, err)
	require.Equal(t, model.SubtypeReceive, b.Subtype)
	require.Equal(t, "12", b.Balance)
	// Representative of an opened account is kept on receive.
	require.Equal(t, rep, b.Representative)
	require.NoError(t, Verify(b))
}

func TestBuildChange(t *testing.T) {
	t.Parallel()

	kp := testKeys(t, 0)
	rep := testKeys(t, 5).Address
	snapshot := model.AccountInfo{
		Frontier:       frontier,
		Balance:        "42",
		Representative: kp.Address,
		Opened:         true,
	}

	b, err := Build(snapshot, kp, Params{Kind: KindChange, Representative: rep})
	require.NoError(t, err)
	require.Equal(t, model.SubtypeChange, b.Subtype)
	require.Equal(t, "42", b.Balance)
	require.Equal(t, ZeroHash, b.Link)
	require.Equal(t, rep, b.Representative)
	require.NoError(t, Verify(b))

	_, err = Build(model.AccountInfo{Balance: "0"}, kp, Params{Kind: KindChange, Representative: rep})
	require.ErrorIs(t, err, model.ErrUnopenedAccount)

	_, err = Build(snapshot, kp, Params{Kind: KindChange, Representative: "nano_bogus"})
	require.ErrorIs(t, err, model.ErrInvalidAddress)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	kp, dest := testKeys(t, 0), testKeys(t, 1)
	snapshot := model.AccountInfo{
		Frontier:       frontier,
		Balance:        "100",
		Representative: kp.Address,
		Opened:         true,
	}

	_, err := Build(snapshot, kp, Params{Kind: KindSend, Amount: uint256.NewInt(0), Destination: dest.Address})
	require.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = Build(snapshot, kp, Params{Kind: KindSend, Amount: uint256.NewInt(101), Destination: dest.Address})
	require.ErrorIs(t, err, model.ErrInsufficientBalance)

	_, err = Build(model.AccountInfo{Balance: "0"}, kp, Params{Kind: KindSend, Amount: uint256.NewInt(1), Destination: dest.Address})
	require.ErrorIs(t, err, model.ErrInsufficientBalance)

	_, err = Build(snapshot, kp, Params{Kind: KindSend, Amount: uint256.NewInt(1), Destination: "nano_1"})
	require.ErrorIs(t, err, model.ErrInvalidAddress)

	_, err = Build(snapshot, kp, Params{Kind: KindReceive, Amount: uint256.NewInt(1), Source: "abcd"})
	require.Error(t, err)

	max128 := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	_, err = Build(snapshot, kp, Params{Kind: KindReceive, Amount: max128, Source: frontier})
	require.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestSetWork(t *testing.T) {
	t.Parallel()

	kp := testKeys(t, 0)
	b, err := Build(model.AccountInfo{
		Frontier:       frontier,
		Balance:        "1",
		Representative: kp.Address,
		Opened:         true,
	}, kp, Params{Kind: KindChange, Representative: kp.Address})
	require.NoError(t, err)

	sig := b.Signature
	require.NoError(t, SetWork(b, "7202DF8A7C380578"))
	require.Equal(t, "7202df8a7c380578", b.Work)
	require.Equal(t, sig, b.Signature)
	require.NoError(t, Verify(b))

	require.Error(t, SetWork(b, "xyz"))
	require.Error(t, SetWork(b, "7202DF8A7C38057"))
}

// TestSendReceiveConservation checks that a send and the matching receive
// move exactly the amount and produce verifiable signatures.
func TestSendReceiveConservation(t *testing.T) {
	t.Parallel()

	sender, receiver := testKeys(t, 10), testKeys(t, 11)

	rapid.Check(t, func(rt *rapid.T) {
		balance := rapid.Uint64Min(1).Draw(rt, "balance")
		amount := rapid.Uint64Range(1, balance).Draw(rt, "amount")

		send, err := Build(model.AccountInfo{
			Frontier:       frontier,
			Balance:        uint256.NewInt(balance).Dec(),
			Representative: sender.Address,
			Opened:         true,
		}, sender, Params{Kind: KindSend, Amount: uint256.NewInt(amount), Destination: receiver.Address})
		require.NoError(rt, err)
		require.NoError(rt, Verify(send))

		moved, err := Amount(send, uint256.NewInt(balance).Dec())
		require.NoError(rt, err)
		require.Equal(rt, amount, moved.Uint64())

		open, err := Build(model.AccountInfo{Balance: "0"}, receiver, Params{
			Kind:           KindReceive,
			Amount:         moved,
			Source:         send.Hash,
			Representative: sender.Address,
		})
		require.NoError(rt, err)
		require.NoError(rt, Verify(open))
		require.Equal(rt, moved.Dec(), open.Balance)
		require.Equal(rt, send.Hash, open.Link)
	})
}
