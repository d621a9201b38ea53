package utils

import (
	"fmt"
	"math"
)

// FormatCurrencyIDR memformat nominal ke format Rupiah.
// Contoh: 15000.50 -> "Rp 15.000,50"
func FormatCurrencyIDR(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	integer := math.Floor(amount)
	decimal := math.Round((amount-integer)*100) / 100
	if decimal >= 1 {
		integer++
		decimal = 0
	}

	integerStr := ""
	intTemp := integer
	if intTemp == 0 {
		integerStr = "0"
	}

	for intTemp > 0 {
		remainder := int(math.Mod(intTemp, 1000))
		if intTemp >= 1000 {
			integerStr = fmt.Sprintf(".%03d%s", remainder, integerStr)
		} else {
			integerStr = fmt.Sprintf("%d%s", remainder, integerStr)
		}
		intTemp = math.Floor(intTemp / 1000)
	}

	sign := ""
	if negative {
		sign = "-"
	}

	if decimal > 0 {
		return fmt.Sprintf("%sRp %s,%02.0f", sign, integerStr, decimal*100)
	}
	return fmt.Sprintf("%sRp %s", sign, integerStr)
}
