package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// HashVerificationCode menghitung hex(SHA-256("code:pepper")).
func HashVerificationCode(code, pepper string) string {
	sum := sha256.Sum256([]byte(code + ":" + pepper))
	return hex.EncodeToString(sum[:])
}

// VerifyCode membandingkan hash kode dengan hash tersimpan secara constant-time.
func VerifyCode(code, pepper, storedHash string) bool {
	computed := HashVerificationCode(code, pepper)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(storedHash))) == 1
}

// GenerateNumericCode membuat kode angka acak dengan panjang digits.
func GenerateNumericCode(digits int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
