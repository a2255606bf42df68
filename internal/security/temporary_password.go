package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerLetters = "abcdefghijkmnopqrstuvwxyz"
	digits       = "23456789"

	MinTemporaryPasswordLength = 8
)

var errTemporaryPasswordTooShort = errors.New("temporary password must be at least 8 characters")

// TemporaryPassword returns a random password with at least one upper case
// letter, one lower case letter and one digit. Look-alike characters such as
// 0/O and 1/l are left out so it can be read aloud or copied by hand.
func TemporaryPassword(length int) (string, error) {
	if length < MinTemporaryPasswordLength {
		return "", errTemporaryPasswordTooShort
	}

	password := make([]byte, 0, length)
	for _, class := range []string{upperLetters, lowerLetters, digits} {
		char, err := randomChar(class)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}

	all := upperLetters + lowerLetters + digits
	for len(password) < length {
		char, err := randomChar(all)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}

	if err := shuffle(password); err != nil {
		return "", err
	}
	return string(password), nil
}

func randomChar(alphabet string) (byte, error) {
	position, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[position], nil
}

func randomIndex(n int) (int, error) {
	value, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(value.Int64()), nil
}

// shuffle is a Fisher-Yates pass so the guaranteed characters do not always
// lead the password.
func shuffle(values []byte) error {
	for i := len(values) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return err
		}
		values[i], values[j] = values[j], values[i]
	}
	return nil
}
