package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const DefaultDigits = 6

// Generator генерирует числовые одноразовые коды заданной длины.
type Generator struct {
	Digits int
}

func (g Generator) Generate() (string, error) {
	digits := g.Digits
	if digits <= 0 {
		digits = DefaultDigits
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil) //nolint:mnd
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generating otp: %s", err.Error())
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
