package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// GatewayClient membaca status transaksi dari payment gateway.
type GatewayClient interface {
	TransactionStatus(ctx context.Context, reference string) (string, error)
}

// MidtransGateway memakai Core API Midtrans.
type MidtransGateway struct {
	client    coreapi.Client
	serverKey string
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	g := &MidtransGateway{serverKey: serverKey}
	g.client.New(serverKey, env)
	return g
}

// TransactionStatus mengembalikan transaction_status mentah, misalnya "settlement".
// Core API tidak menerima context; ctx hanya dicek sebelum request.
func (g *MidtransGateway) TransactionStatus(ctx context.Context, reference string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, mErr := g.client.CheckTransaction(reference)
	if mErr != nil {
		return "", fmt.Errorf("midtrans check %s: %s", reference, mErr.GetMessage())
	}
	if resp == nil {
		return "", errors.New("midtrans: respons kosong")
	}
	return resp.TransactionStatus, nil
}

// ValidateSignature memeriksa signature_key notifikasi:
// SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	return ValidateMidtransSignature(g.serverKey, orderID, statusCode, grossAmount, signature)
}

func ValidateMidtransSignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	if serverKey == "" || signature == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
