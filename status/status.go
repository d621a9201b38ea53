// Package status adalah satu-satunya tempat status mentah dari backend dipetakan ke
// status tampilan. Halaman dan handler tidak boleh membandingkan string status sendiri.
package status

import (
	"net/url"
	"strings"
)

// Display adalah status yang ditampilkan ke pelanggan.
type Display string

const (
	Tertunda   Display = "Tertunda"
	Dibayar    Display = "Dibayar"
	Gagal      Display = "Gagal"
	Dibatalkan Display = "Dibatalkan"
)

// Status mentah yang ditulis backend.
const (
	RawSubmitted = "submitted"
	RawPending   = "pending"
	RawPaid      = "paid"
	RawFailed    = "failed"
	RawCancelled = "cancelled"
)

// Normalize memetakan status mentah ke Display. Nilai yang tidak dikenal, kosong,
// "submitted", "draft" maupun "pending" menjadi Tertunda.
func Normalize(raw string) Display {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "success":
		return Dibayar
	case "failed":
		return Gagal
	case "cancelled", "canceled":
		return Dibatalkan
	default:
		return Tertunda
	}
}

// NormalizePtr memperlakukan nil sama dengan string kosong.
func NormalizePtr(raw *string) Display {
	if raw == nil {
		return Tertunda
	}
	return Normalize(*raw)
}

// Combine menentukan status tampilan dari order dan checkout submission terkait.
// Status order didahulukan; submission hanya dipakai selama order masih Tertunda.
func Combine(orderRaw, submissionRaw string) Display {
	if d := Normalize(orderRaw); d != Tertunda {
		return d
	}
	return Normalize(submissionRaw)
}

// Terminal true untuk status yang memicu redirect ke halaman hasil pembayaran.
func (d Display) Terminal() bool {
	return d == Dibayar || d == Gagal
}

// RedirectPath mengembalikan halaman tujuan untuk status terminal, atau "" bila
// pelanggan tetap di halaman menunggu pembayaran.
func RedirectPath(d Display, orderID string) string {
	q := "?order_id=" + url.QueryEscape(orderID)
	switch d {
	case Dibayar:
		return "/payment/success" + q
	case Gagal:
		return "/payment/failed" + q
	default:
		return ""
	}
}

// FromGateway memetakan transaction_status Midtrans ke status mentah backend.
// Mengembalikan "" untuk status yang tidak dikenal agar tidak ditulis ke database.
func FromGateway(transactionStatus string) string {
	switch strings.ToLower(strings.TrimSpace(transactionStatus)) {
	case "capture", "settlement":
		return RawPaid
	case "deny", "failure":
		return RawFailed
	case "cancel", "expire":
		return RawCancelled
	case "pending", "authorize":
		return RawPending
	default:
		return ""
	}
}
