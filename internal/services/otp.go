package services

import (
	"crypto/rand"
	"math/big"
)

const defaultOTPLength = 4

// NewOTPGenerator returns a generator of uniformly random numeric codes with exactly
// length digits and no leading zero. Length 4 yields codes in [1000, 9999].
func NewOTPGenerator(length int) func() (string, error) {
	if length <= 0 {
		length = defaultOTPLength
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)

	return func() (string, error) {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return "", err
		}
		return n.Add(n, low).String(), nil
	}
}

// GenerateOTP returns a 4-digit code.
func GenerateOTP() (string, error) {
	return NewOTPGenerator(defaultOTPLength)()
}
