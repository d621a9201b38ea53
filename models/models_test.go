package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutURL(t *testing.T) {
	tests := []struct {
		name    string
		details string
		want    string
	}{
		{"empty", "", ""},
		{"invalid json", "{not json", ""},
		{"checkout_url", `{"checkout_url":"https://pay.example/a"}`, "https://pay.example/a"},
		{"redirect_url preferred after checkout_url", `{"redirect_url":"https://pay.example/r","invoice_url":"https://pay.example/i"}`, "https://pay.example/r"},
		{"midtrans actions", `{"actions":[{"name":"generate-qr-code","url":"https://api.midtrans.com/qr"}]}`, "https://api.midtrans.com/qr"},
		{"no url", `{"va_number":"123"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CheckoutSubmission{PaymentDetails: tt.details}
			assert.Equal(t, tt.want, s.CheckoutURL())
		})
	}
}

func TestCheckoutItems(t *testing.T) {
	var s CheckoutSubmission
	items, err := s.Items()
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.SetItems([]CheckoutItem{{ProdukID: 7, NamaProduk: "Sneakers Putih", Size: "42", Quantity: 2, HargaSatuan: 350000}}))
	items, err = s.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "42", items[0].Size)
}

func TestCanTransitionReturn(t *testing.T) {
	assert.True(t, CanTransitionReturn(ReturnStatusPending, ReturnStatusApproved))
	assert.True(t, CanTransitionReturn(ReturnStatusApproved, ReturnStatusReturned))
	assert.True(t, CanTransitionReturn(ReturnStatusReturned, ReturnStatusCompleted))
	assert.False(t, CanTransitionReturn(ReturnStatusPending, ReturnStatusReturned))
	assert.False(t, CanTransitionReturn(ReturnStatusRejected, ReturnStatusReturned))
	assert.False(t, CanTransitionReturn("unknown", ReturnStatusReturned))
}
