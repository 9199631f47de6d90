package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/nano-wallet/internal/crypto"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

const keystoreFileMode = 0600

// LoadResult describes what Load had to do to produce the wallet
type LoadResult struct {
	// Created is set when the file did not exist and a new wallet was written
	Created bool
	// Migrated is set when the file was rewritten in the tagged format
	Migrated bool
	// From is the format the file was read in
	From crypto.Format
}

// MigrateResult describes the outcome of Migrate
type MigrateResult struct {
	From             crypto.Format
	AlreadyMigrated  bool
	AccountsMigrated int
}

// Load reads and decrypts the keystore at path.
// A missing file is created with a freshly generated wallet. A file in an
// older format is re-encrypted and atomically replaced.
// password must be []byte for security (caller should zero it after use)
func Load(path string, password []byte) (*model.Wallet, *LoadResult, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		w, err := Generate()
		if err != nil {
			return nil, nil, err
		}
		if err := Save(path, w, password); err != nil {
			return nil, nil, err
		}

		log.Infof("Created new wallet at %v with account %v", path, w.Accounts[0].Address)
		return w, &LoadResult{Created: true, From: crypto.FormatTagged}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	w, format, err := decode(data, password)
	if err != nil {
		return nil, nil, err
	}

	result := &LoadResult{From: format}
	if format != crypto.FormatTagged {
		log.Infof("Migrating wallet at %v from %v format", path, format)

		if err := Save(path, w, password); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate wallet: %w", err)
		}
		result.Migrated = true
	}

	return w, result, nil
}

// Save encrypts w and atomically replaces the file at path
// password must be []byte for security (caller should zero it after use)
func Save(path string, w *model.Wallet, password []byte) error {
	blob, err := crypto.EncryptJSON(w, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	if err := writeFileAtomic(path, []byte(blob)); err != nil {
		return err
	}

	log.Debugf("Saved wallet with %d account(s) to %v", len(w.Accounts), path)
	return nil
}

// Migrate rewrites the keystore at path in the tagged format. A file that
// is already tagged is left untouched.
func Migrate(path string, password []byte) (*MigrateResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	w, format, err := decode(data, password)
	if err != nil {
		return nil, err
	}

	result := &MigrateResult{From: format, AccountsMigrated: len(w.Accounts)}
	if format == crypto.FormatTagged {
		result.AlreadyMigrated = true
		return result, nil
	}

	if err := Save(path, w, password); err != nil {
		return nil, fmt.Errorf("failed to migrate wallet: %w", err)
	}

	log.Infof("Migrated wallet at %v from %v format", path, format)
	return result, nil
}

// decode decrypts keystore file contents into a wallet
func decode(data []byte, password []byte) (*model.Wallet, crypto.Format, error) {
	if len(data) == 0 {
		return nil, crypto.FormatUnknown, fmt.Errorf("%w: file is empty", model.ErrCorruptKeystore)
	}

	var w model.Wallet
	format, err := crypto.DecryptJSON(string(data), password, &w)
	if err != nil {
		return nil, format, err
	}

	if err := validateSeed(w.Seed); err != nil {
		return nil, format, fmt.Errorf("%w: %v", model.ErrCorruptKeystore, err)
	}

	// Older files may predate the first derived account.
	if len(w.Accounts) == 0 {
		acc, err := deriveAccount(w.Seed, 0)
		if err != nil {
			return nil, format, err
		}
		w.Accounts = append(w.Accounts, acc)
	}

	return &w, format, nil
}

// writeFileAtomic writes data to a temp file in the same directory, syncs it
// and renames it over path, so readers only ever see a complete file
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(keystoreFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	// Some OSes can't rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
