package api

import (
	"net/http"

	_ "github.com/AlexZinkM/nano-wallet/docs"
	"github.com/AlexZinkM/nano-wallet/internal/handler"
	"github.com/AlexZinkM/nano-wallet/nano"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(orch *nano.Orchestrator) http.Handler {
	nanoHandler := handler.NewNanoHandler(orch)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Account endpoints
	mux.HandleFunc("/nano/accounts", nanoHandler.Accounts)
	mux.HandleFunc("/nano/accounts/find", nanoHandler.FindAccount)
	mux.HandleFunc("/nano/save", nanoHandler.Save)

	// Ledger endpoints
	mux.HandleFunc("/nano/balance", nanoHandler.GetBalance)
	mux.HandleFunc("/nano/history", nanoHandler.TransactionHistory)
	mux.HandleFunc("/nano/send", nanoHandler.Send)
	mux.HandleFunc("/nano/receive", nanoHandler.Receive)
	mux.HandleFunc("/nano/receivable", nanoHandler.GetReceivable)
	mux.HandleFunc("/nano/account", nanoHandler.GetAccountInfo)
	mux.HandleFunc("/nano/representative", nanoHandler.ChangeRepresentative)
	mux.HandleFunc("/nano/pow", nanoHandler.Pow)

	// Utilities
	mux.HandleFunc("/nano/convert", nanoHandler.Convert)
	mux.HandleFunc("/nano/qr", nanoHandler.PaymentQR)

	return mux
}
