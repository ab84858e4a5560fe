package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerAlphabet = "abcdefghijkmnpqrstuvwxyz"
	digitAlphabet = "23456789"

	// TemporaryPasswordAlphabet leaves out look-alike characters (0/O, 1/l/I)
	// so a password read off a terminal can be retyped.
	TemporaryPasswordAlphabet = upperAlphabet + lowerAlphabet + digitAlphabet

	minTemporaryPasswordLength = 8
)

var (
	errNegativeLength       = errors.New("length must be non-negative")
	errEmptyAlphabet        = errors.New("alphabet must not be empty")
	errShortTemporaryLength = errors.New("temporary password must be at least 8 characters")
)

// RandomString returns a cryptographically secure, unbiased string of the
// requested length drawn from alphabet.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	value := make([]byte, length)
	for index := range value {
		character, err := randomByte(alphabet)
		if err != nil {
			return "", err
		}
		value[index] = character
	}
	return string(value), nil
}

// TemporaryPassword returns a password of the given length holding at least
// one upper case letter, one lower case letter and one digit, in random
// positions.
func TemporaryPassword(length int) (string, error) {
	if length < minTemporaryPasswordLength {
		return "", errShortTemporaryLength
	}

	value := make([]byte, 0, length)
	for _, alphabet := range []string{upperAlphabet, lowerAlphabet, digitAlphabet} {
		character, err := randomByte(alphabet)
		if err != nil {
			return "", err
		}
		value = append(value, character)
	}

	rest, err := RandomString(length-len(value), TemporaryPasswordAlphabet)
	if err != nil {
		return "", err
	}
	value = append(value, rest...)

	if err := shuffle(value); err != nil {
		return "", err
	}
	return string(value), nil
}

func randomByte(alphabet string) (byte, error) {
	position, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[position], nil
}

func randomIndex(limit int) (int, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0, err
	}
	return int(position.Int64()), nil
}

// shuffle is a Fisher-Yates pass driven by crypto/rand.
func shuffle(value []byte) error {
	for index := len(value) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return err
		}
		value[index], value[swap] = value[swap], value[index]
	}
	return nil
}
