// Package tracking menangani pelacakan resi lewat Biteship.
package tracking

import "strings"

// Courier adalah kode kurir yang dikenali provider pelacakan.
type Courier string

const (
	CourierNone    Courier = ""
	CourierJNT     Courier = "jnt"
	CourierJNE     Courier = "jne"
	CourierSiCepat Courier = "sicepat"
)

// ResolveCourier memetakan label metode pengiriman (teks bebas) ke kode kurir.
// Label yang tidak dikenali menghasilkan CourierNone sehingga pelacakan dinonaktifkan.
func ResolveCourier(label string) Courier {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "j&t"), strings.Contains(l, "jnt"):
		return CourierJNT
	case strings.Contains(l, "jne"):
		return CourierJNE
	case strings.Contains(l, "sicepat"), strings.Contains(l, "si cepat"):
		return CourierSiCepat
	default:
		return CourierNone
	}
}

// ParseCourier menerima kode kurir dari request; kode yang tidak dikenal ditolak.
func ParseCourier(code string) (Courier, bool) {
	switch c := Courier(strings.ToLower(strings.TrimSpace(code))); c {
	case CourierJNT, CourierJNE, CourierSiCepat:
		return c, true
	default:
		c = ResolveCourier(code)
		return c, c != CourierNone
	}
}
