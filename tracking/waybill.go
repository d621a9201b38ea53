package tracking

import "strings"

const minWaybillLength = 6

// placeholder yang ditulis admin sebelum paket diserahkan ke kurir
var waybillPlaceholders = map[string]struct{}{
	"Sedang dikemas":                     {},
	"Pesanan belum dikirim ke jasa kirim": {},
	"Belum tersedia":                     {},
}

// CanTrack false berarti tombol lacak dinonaktifkan dan tidak ada request ke provider.
func CanTrack(resi string) bool {
	r := strings.TrimSpace(resi)
	if r == "" || len([]rune(r)) < minWaybillLength {
		return false
	}
	_, placeholder := waybillPlaceholders[r]
	return !placeholder
}
