package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/config"
	"github.com/AlexZinkM/nano-wallet/internal/model"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"

	"github.com/urfave/cli"
)

var migrateCommand = cli.Command{
	Action: migrate,
	Name:   "migrate",
	Usage:  "Re-encrypt an old keystore in the current format",
	Description: "Reads the keystore at NANO_WALLET in any supported format and " +
		"atomically replaces it with the current one. Current files are left untouched.",
}

// migrate rewrites the keystore without starting the server
func migrate(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	if err := config.LoadPassword(); err != nil {
		return err
	}
	password, err := config.GetPasswordBytes()
	if err != nil {
		return err
	}
	defer clear(password)

	result, err := wallet.Migrate(cfg.WalletPath, password)
	if err != nil {
		return err
	}

	if result.AlreadyMigrated {
		fmt.Fprintf(ctx.App.Writer, "%s is already in %v format\n", cfg.WalletPath, result.From)
		return nil
	}
	fmt.Fprintf(ctx.App.Writer, "Migrated %s from %v format, %d account(s)\n",
		cfg.WalletPath, result.From, result.AccountsMigrated)
	return nil
}

var accountsCommand = cli.Command{
	Action: listAccounts,
	Name:   "accounts",
	Usage:  "Print the accounts of the wallet as JSON, without private keys",
}

func listAccounts(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	if err := config.LoadPassword(); err != nil {
		return err
	}
	password, err := config.GetPasswordBytes()
	if err != nil {
		return err
	}
	defer clear(password)

	w, _, err := wallet.Load(cfg.WalletPath, password)
	if err != nil {
		return err
	}

	resp := model.AccountsResponse{Accounts: make([]model.PublicAccount, 0, len(w.Accounts))}
	for _, acc := range wallet.ListAccounts(w) {
		resp.Accounts = append(resp.Accounts, acc.Public())
	}

	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

var fromUnitFlag = cli.StringFlag{
	Name:  "from",
	Usage: "Unit of the amount, NANO or RAW",
	Value: string(common.UnitNano),
}
var toUnitFlag = cli.StringFlag{
	Name:  "to",
	Usage: "Unit to convert to, NANO or RAW",
	Value: string(common.UnitRaw),
}

var convertCommand = cli.Command{
	Action:    convert,
	Name:      "convert",
	Usage:     "Convert an amount between NANO and RAW",
	ArgsUsage: "amount",
	Flags: []cli.Flag{
		fromUnitFlag,
		toUnitFlag,
	},
}

// convert needs no wallet or configuration
func convert(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "convert")
		return errors.New("exactly one amount is required")
	}

	from, err := common.ParseUnit(ctx.String(fromUnitFlag.GetName()))
	if err != nil {
		return err
	}
	to, err := common.ParseUnit(ctx.String(toUnitFlag.GetName()))
	if err != nil {
		return err
	}

	result, err := common.Convert(ctx.Args().First(), from, to)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, result)
	return nil
}
