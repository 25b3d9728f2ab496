// Package random generates cryptographically random identifiers.
package random

import (
	"crypto/rand"
	"math/big"

	"github.com/myrjola/lastalibi/internal/errors"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns a random string of n letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(allowedLetters))))
		if err != nil {
			return "", errors.Wrap(err, "random letter")
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// Digits returns a random string of n decimal digits. Used for room codes that
// players type in or scan on another device.
func Digits(n uint) (string, error) {
	digits := make([]rune, n)
	for i := range digits {
		digitIndex, err := rand.Int(rand.Reader, big.NewInt(10)) //nolint:mnd // base 10
		if err != nil {
			return "", errors.Wrap(err, "random digit")
		}
		digits[i] = rune('0' + digitIndex.Int64())
	}
	return string(digits), nil
}
