package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/nano-wallet/internal/keys"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime (or read from NANO_SECRET) and stored
// in memory - use GetPasswordBytes()
type Config struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	WalletPath         string        `envconfig:"NANO_WALLET" required:"true"`
	RPCURL             string        `envconfig:"NANO_RPC" default:"https://rpc.nano.to"`
	RPCKey             string        `envconfig:"NANO_RPC_KEY"`
	Representative     string        `envconfig:"NANO_REPRESENTATIVE"`
	RPCTimeout         time.Duration `envconfig:"RPC_TIMEOUT" default:"15s"`
	RPCRateLimit       float64       `envconfig:"RPC_RATE_LIMIT" default:"10"`
	ReceiveConcurrency int           `envconfig:"RECEIVE_CONCURRENCY" default:"4"`
	PriceAPIURL        string        `envconfig:"PRICE_API_URL" default:"https://api.coingecko.com/api/v3"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile            string        `envconfig:"LOG_FILE"`
	LogMaxSizeKB       int           `envconfig:"LOG_MAX_SIZE_KB" default:"10240"`
	LogMaxFiles        int           `envconfig:"LOG_MAX_FILES" default:"3"`
	// ScryptN is the cost of newly written keystores. Existing files carry
	// their own parameters.
	ScryptN int `envconfig:"SCRYPT_N" default:"262144"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if c.RPCTimeout <= 0 {
		return errors.New("RPC_TIMEOUT must be positive")
	}
	if c.RPCRateLimit < 0 {
		return errors.New("RPC_RATE_LIMIT must not be negative")
	}
	if c.ReceiveConcurrency <= 0 {
		return errors.New("RECEIVE_CONCURRENCY must be positive")
	}
	if c.Representative != "" {
		if err := keys.ValidateAddress(c.Representative); err != nil {
			return fmt.Errorf("NANO_REPRESENTATIVE: %w", err)
		}
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetWalletPath returns path to the keystore file from configuration
func GetWalletPath() string {
	return Get().WalletPath
}

// GetRPCURL returns Nano node RPC URL from configuration
func GetRPCURL() string {
	return Get().RPCURL
}

var passwordBytes []byte

// LoadPassword takes the wallet password from NANO_SECRET when set and
// otherwise prompts for it. The variable is unset once read.
func LoadPassword() error {
	if secret, ok := os.LookupEnv("NANO_SECRET"); ok {
		_ = os.Unsetenv("NANO_SECRET")
		if secret == "" {
			return errors.New("NANO_SECRET is empty")
		}
		passwordBytes = []byte(secret)
		return nil
	}
	return PromptForPassword()
}

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := PromptSecret("Enter wallet password: ")
	if err != nil {
		return fmt.Errorf("%w: run the app interactively or set NANO_SECRET", err)
	}
	passwordBytes = raw
	return nil
}

// LoadSecret takes a secret from the environment variable name when set and
// otherwise prompts for it. The variable is unset once read. Clear the
// result when done.
func LoadSecret(name, prompt string) ([]byte, error) {
	if value, ok := os.LookupEnv(name); ok {
		_ = os.Unsetenv(name)
		if value == "" {
			return nil, fmt.Errorf("%s is empty", name)
		}
		return []byte(value), nil
	}

	raw, err := PromptSecret(prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: run interactively or set %s", err, name)
	}
	return raw, nil
}

// PromptSecret reads a non-empty line from the terminal without echo
func PromptSecret(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("input cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetPasswordBytes returns the password stored in memory.
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call LoadPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ClearPassword wipes the password from memory
func ClearPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
