package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexZinkM/nano-wallet/internal/crypto"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/stretchr/testify/require"
)

const zeroSeed = "0000000000000000000000000000000000000000000000000000000000000000"

func TestMain(m *testing.M) {
	if err := crypto.SetScryptN(1 << 10); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// legacyEncrypt writes the hex(iv):hex(ciphertext) AES-256-CTR format
func legacyEncrypt(t *testing.T, v any, password string) string {
	t.Helper()

	plaintext, err := json.Marshal(v)
	require.NoError(t, err)

	iv := make([]byte, aes.BlockSize)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	key := sha256.Sum256([]byte(password))
	block, err := aes.NewCipher(key[:])
	require.NoError(t, err)

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, plaintext)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext)
}

func newTestWallet(t *testing.T) *model.Wallet {
	t.Helper()

	w, err := FromSeed(zeroSeed)
	require.NoError(t, err)
	return w
}

func TestAddAccount(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	require.Len(t, w.Accounts, 1)
	require.Equal(t, "nano_3i1aq1cchnmbn9x5rsbap8b15akfh7wj7pwskuzi7ahz8oq6cobd99d4r3b7", w.Accounts[0].Address)

	acc, err := AddAccount(w, map[string]any{"userId": "a"})
	require.NoError(t, err)
	require.EqualValues(t, 1, acc.Index)
	require.Len(t, w.Accounts, 2)

	_, err = AddAccount(w, map[string]any{"userId": "a"})
	require.ErrorIs(t, err, model.ErrDuplicateMetadata)
	require.Len(t, w.Accounts, 2)

	// Numbers compare by value, not Go type.
	_, err = AddAccount(w, map[string]any{"n": 1})
	require.NoError(t, err)
	_, err = AddAccount(w, map[string]any{"n": 1.0})
	require.ErrorIs(t, err, model.ErrDuplicateMetadata)

	// Accounts without metadata never collide.
	_, err = AddAccount(w, nil)
	require.NoError(t, err)
	_, err = AddAccount(w, map[string]any{})
	require.NoError(t, err)
	require.Len(t, w.Accounts, 5)
}

func TestAddAccountSparseIndices(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	extra, err := deriveAccount(w.Seed, 7)
	require.NoError(t, err)
	w.Accounts = append(w.Accounts, extra)

	acc, err := AddAccount(w, nil)
	require.NoError(t, err)
	require.EqualValues(t, 8, acc.Index)
}

func TestFindAccount(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	joe, err := AddAccount(w, map[string]any{"userId": "joe", "tier": 2})
	require.NoError(t, err)

	found, err := FindAccount(w, ByIndex(0))
	require.NoError(t, err)
	require.Equal(t, w.Accounts[0], found)

	found, err = FindAccount(w, ByAddress(joe.Address))
	require.NoError(t, err)
	require.Equal(t, joe, found)

	legacy := "xrb_" + strings.TrimPrefix(joe.Address, "nano_")
	found, err = FindAccount(w, ByAddress(legacy))
	require.NoError(t, err)
	require.Equal(t, joe, found)

	// Partial metadata match.
	found, err = FindAccount(w, ByMetadata(map[string]any{"userId": "joe"}))
	require.NoError(t, err)
	require.Equal(t, joe, found)

	found, err = FindAccount(w, ByMetadata(map[string]any{"tier": int64(2)}))
	require.NoError(t, err)
	require.Equal(t, joe, found)

	notFound := []Criterion{
		{},
		ByIndex(999),
		ByAddress(""),
		ByAddress("nano_nonexistent"),
		ByMetadata(nil),
		ByMetadata(map[string]any{"userId": "nobody"}),
		ByMetadata(map[string]any{"userId": "joe", "tier": 3}),
	}
	for _, c := range notFound {
		_, err := FindAccount(w, c)
		require.ErrorIs(t, err, model.ErrAccountNotFound, c.String())
	}
}

func TestListAccountsIsCopy(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	list := ListAccounts(w)
	list[0].Address = "changed"
	require.NotEqual(t, "changed", w.Accounts[0].Address)
}

func TestFromMnemonic(t *testing.T) {
	t.Parallel()

	w, err := Generate()
	require.NoError(t, err)
	require.Len(t, w.Seed, 128)

	recovered, err := FromMnemonic(w.Mnemonic)
	require.NoError(t, err)
	require.Equal(t, w, recovered)

	_, err = FromMnemonic("abandon abandon")
	require.ErrorIs(t, err, model.ErrInvalidMnemonic)
}

func TestLoadCreatesWallet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wallet.txt")
	password := []byte("secret")

	w, result, err := Load(path, password)
	require.NoError(t, err)
	require.True(t, result.Created)
	require.False(t, result.Migrated)
	require.Len(t, w.Accounts, 1)
	require.Len(t, strings.Fields(w.Mnemonic), 24)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(keystoreFileMode), info.Mode().Perm())

	again, result, err := Load(path, password)
	require.NoError(t, err)
	require.False(t, result.Created)
	require.False(t, result.Migrated)
	require.Equal(t, crypto.FormatTagged, result.From)
	require.Equal(t, w, again)

	_, _, err = Load(path, []byte("wrong"))
	require.ErrorIs(t, err, model.ErrInvalidPassword)
}

func TestLoadMigratesLegacy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.txt")
	original := newTestWallet(t)
	_, err := AddAccount(original, map[string]any{"userId": "joe"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(legacyEncrypt(t, original, "mypassword")), 0600))

	w, result, err := Load(path, []byte("mypassword"))
	require.NoError(t, err)
	require.True(t, result.Migrated)
	require.Equal(t, crypto.FormatLegacy, result.From)
	require.Equal(t, original, w)

	// The file now decrypts through the tagged path only.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	format, err := crypto.Detect(string(data))
	require.NoError(t, err)
	require.Equal(t, crypto.FormatTagged, format)

	var reread model.Wallet
	format, err = crypto.DecryptJSON(string(data), []byte("mypassword"), &reread)
	require.NoError(t, err)
	require.Equal(t, crypto.FormatTagged, format)
	require.Equal(t, *original, reread)

	// No temp files left next to the keystore.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, result, err = Load(path, []byte("mypassword"))
	require.NoError(t, err)
	require.False(t, result.Migrated)
}

func TestLoadLegacyWrongPasswordLeavesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wallet.txt")
	blob := legacyEncrypt(t, newTestWallet(t), "mypassword")
	require.NoError(t, os.WriteFile(path, []byte(blob), 0600))

	_, _, err := Load(path, []byte("nope"))
	require.ErrorIs(t, err, model.ErrInvalidPassword)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, blob, string(data))
}

func TestLoadCorrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, contents := range map[string]string{
		"empty":   "",
		"garbage": "definitely not a keystore",
		"json":    `{"seed":"00"}`,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

		_, _, err := Load(path, []byte("pw"))
		require.ErrorIs(t, err, model.ErrCorruptKeystore, name)
	}

	// Decrypts fine but the seed is unusable.
	path := filepath.Join(dir, "badseed")
	blob, err := crypto.EncryptJSON(model.Wallet{Seed: "abcd"}, []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(blob), 0600))
	_, _, err = Load(path, []byte("pw"))
	require.ErrorIs(t, err, model.ErrCorruptKeystore)
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wallet.txt")
	require.NoError(t, os.WriteFile(path, []byte(legacyEncrypt(t, newTestWallet(t), "pw")), 0600))

	result, err := Migrate(path, []byte("pw"))
	require.NoError(t, err)
	require.False(t, result.AlreadyMigrated)
	require.Equal(t, crypto.FormatLegacy, result.From)
	require.Equal(t, 1, result.AccountsMigrated)

	result, err = Migrate(path, []byte("pw"))
	require.NoError(t, err)
	require.True(t, result.AlreadyMigrated)

	_, err = Migrate(filepath.Join(t.TempDir(), "missing"), []byte("pw"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSession(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wallet.txt")
	password := []byte("pw")

	s, result, err := Open(path, password)
	require.NoError(t, err)
	require.True(t, result.Created)

	sole, err := s.ResolveSource("")
	require.NoError(t, err)

	kp, err := s.KeyPair(sole)
	require.NoError(t, err)
	require.Equal(t, sole.Address, kp.Address)
	kp.Clear()

	added, err := s.AddAccount(map[string]any{"userId": "a"})
	require.NoError(t, err)

	_, err = s.ResolveSource("")
	require.ErrorIs(t, err, model.ErrAmbiguousSource)

	got, err := s.ResolveSource(added.Address)
	require.NoError(t, err)
	require.Equal(t, added, got)

	// Not persisted until Save.
	w, _, err := Load(path, password)
	require.NoError(t, err)
	require.Len(t, w.Accounts, 1)

	require.NoError(t, s.Save())
	w, _, err = Load(path, password)
	require.NoError(t, err)
	require.Len(t, w.Accounts, 2)

	s.Close()
	require.Error(t, s.Save())
	require.Len(t, s.Accounts(), 2)
}
