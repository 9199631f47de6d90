package nano

import (
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/skip2/go-qrcode"
)

// PaymentQR builds a nano: payment URI for an account of the wallet and
// renders it as a QR code. amount is NANO and optional.
func (o *Orchestrator) PaymentQR(address, amount string) (*model.QRResponse, error) {
	acc, err := o.session.ResolveSource(address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	uri := "nano:" + acc.Address
	if amount != "" {
		raw, err := common.NanoToRaw(amount)
		if err != nil {
			return nil, err
		}
		if !raw.IsZero() {
			uri += "?amount=" + raw.Dec()
		}
	}

	qr, err := generateQRCode(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.QRResponse{URI: uri, QR: qr}, nil
}

// generateQRCode generates QR code of s in base64
func generateQRCode(s string) (string, error) {
	qr, err := qrcode.New(s, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
