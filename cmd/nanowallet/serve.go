package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/nano-wallet/internal/api"
	"github.com/AlexZinkM/nano-wallet/internal/client"
	"github.com/AlexZinkM/nano-wallet/internal/config"
	"github.com/AlexZinkM/nano-wallet/internal/logging"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"
	"github.com/AlexZinkM/nano-wallet/nano"

	"github.com/urfave/cli"
)

const shutdownTimeout = 10 * time.Second

// serve unlocks the wallet and runs the HTTP API until interrupted
func serve(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	log := logging.Main()

	if err := config.LoadPassword(); err != nil {
		return err
	}
	password, err := config.GetPasswordBytes()
	if err != nil {
		return err
	}
	defer clear(password)

	session, result, err := wallet.Open(cfg.WalletPath, password)
	if err != nil {
		return fmt.Errorf("failed to open wallet: %w", err)
	}
	defer session.Close()

	switch {
	case result.Created:
		log.Infof("Created new wallet at %v", cfg.WalletPath)
	case result.Migrated:
		log.Infof("Migrated wallet at %v from %v format", cfg.WalletPath, result.From)
	}

	node := client.NewNanoClient(client.NanoConfig{
		URL:       cfg.RPCURL,
		APIKey:    cfg.RPCKey,
		Timeout:   cfg.RPCTimeout,
		RateLimit: cfg.RPCRateLimit,
	})

	orch, err := nano.New(session, node, nano.Config{
		Representative:     cfg.Representative,
		ReceiveConcurrency: cfg.ReceiveConcurrency,
		Prices:             client.NewCoinGeckoClient(cfg.PriceAPIURL),
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.SetupRouter(orch),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Infof("Wallet API listening on %v with %d account(s), node %v",
			server.Addr, len(session.Accounts()), cfg.RPCURL)
		errChan <- server.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigs:
		log.Infof("Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
