package auth

import (
	"context"
	"errors"
)

// ErrBackendTimeout / ErrBackendUnavailable: fallas de infraestructura del
// verifier, distintas de un token inválido. Un token inválido termina en 401;
// estas dos no deben — el caller puede tener una sesión perfectamente válida.
var (
	ErrBackendTimeout     = errors.New("auth backend timeout")
	ErrBackendUnavailable = errors.New("auth backend unavailable")
)

// AuthVerifier verifica un token de sesión y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
