// Command nanowallet serves the wallet HTTP API and carries a few offline
// keystore tools.
// Usage: go run ./cmd/nanowallet [command]
package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/nano-wallet/internal/config"
	"github.com/AlexZinkM/nano-wallet/internal/crypto"
	"github.com/AlexZinkM/nano-wallet/internal/logging"

	"github.com/urfave/cli"
)

const appVersion = "0.3.0"

var logLevelFlag = cli.StringFlag{
	Name:  "loglevel",
	Usage: "Logging level for all subsystems {trace, debug, info, warn, error, critical} or SUBSYSTEM=level pairs; overrides LOG_LEVEL",
}

// setup loads the environment configuration and starts logging
func setup(ctx *cli.Context) (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}
	cfg := config.Get()

	if cfg.LogFile != "" {
		if err := logging.InitLogRotator(cfg.LogFile, cfg.LogMaxSizeKB, cfg.LogMaxFiles); err != nil {
			return nil, err
		}
	}

	level := cfg.LogLevel
	if ctx.GlobalIsSet(logLevelFlag.GetName()) {
		level = ctx.GlobalString(logLevelFlag.GetName())
	}
	if err := logging.SetLogLevels(level); err != nil {
		return nil, err
	}

	if err := crypto.SetScryptN(cfg.ScryptN); err != nil {
		return nil, fmt.Errorf("SCRYPT_N: %w", err)
	}
	return cfg, nil
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "nanowallet"
	app.Usage = "Non-custodial Nano wallet"
	app.Version = appVersion
	app.Action = serve
	app.Commands = []cli.Command{
		migrateCommand,
		accountsCommand,
		convertCommand,
		recoverCommand,
		encryptCommand,
		decryptCommand,
		signCommand,
	}
	app.Flags = []cli.Flag{
		logLevelFlag,
	}
	app.CommandNotFound = func(c *cli.Context, command string) {
		_ = cli.ShowAppHelp(c)
		os.Exit(1)
	}
	return app
}

func main() {
	err := newApp().Run(os.Args)
	config.ClearPassword()
	logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
