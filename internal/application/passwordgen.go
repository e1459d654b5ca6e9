package application

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// Character classes for generated passwords.
const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	specialChars   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	allChars       = lowercaseChars + uppercaseChars + digitChars + specialChars
)

const (
	MinPasswordLength     = 8
	DefaultPasswordLength = 12
	MasterKeyLength       = 64
)

// GeneratePassword returns a random password of the given length containing at
// least one lowercase letter, uppercase letter, digit and special character.
func GeneratePassword(length int) (string, error) {
	if length < MinPasswordLength {
		return "", fmt.Errorf("%w: password length must be at least %d, got %d", model.ErrInvalidInput, MinPasswordLength, length)
	}

	password := make([]byte, 0, length)
	for _, class := range []string{lowercaseChars, uppercaseChars, digitChars, specialChars} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}
	for len(password) < length {
		c, err := randomChar(allChars)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}

	// Fisher-Yates so the guaranteed classes are not always in front.
	for i := len(password) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

// GenerateMasterKey returns a random master key for vaults initialized without
// a user-chosen key.
func GenerateMasterKey() (string, error) {
	return GeneratePassword(MasterKeyLength)
}

func randomChar(set string) (byte, error) {
	i, err := randomIndex(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("rand index: %w", err)
	}
	return int(v.Int64()), nil
}
