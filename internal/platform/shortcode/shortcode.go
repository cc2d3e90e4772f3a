package shortcode

import (
	"crypto/rand"
	"errors"
)

// Alfabeto URL-safe sin caracteres ambiguos (0/O, 1/l/I).
const alphabet = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

const (
	// CodeLength da ~47 bits de entropía: suficiente para links de un solo
	// dose que además pasan por rate limiting.
	CodeLength = 8

	// TokenLength es el formato legacy, más largo.
	TokenLength = 32
)

// New genera un short code URL-safe no adivinable.
func New() (string, error) {
	return generate(CodeLength)
}

// NewLegacyToken genera un token en el formato legacy (más largo).
func NewLegacyToken() (string, error) {
	return generate(TokenLength)
}

func generate(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("shortcode: invalid length")
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
