package doses

import (
	"context"
	"errors"
	"strings"

	"pet-med-tracker/internal/domain/medications"
)

// CredentialKind discrimina los tres mecanismos de prueba de identidad que
// convergen en el resolver: short code, token legacy y sesión autenticada.
// Variante etiquetada en vez de branching paralelo repetido en cada call site.
type CredentialKind string

const (
	CredentialShortCode   CredentialKind = "short_code"
	CredentialLegacyToken CredentialKind = "legacy_token"
	CredentialSession     CredentialKind = "session"
)

type Credential struct {
	Kind CredentialKind

	// ShortCode / Token: prueba por link, sin login.
	ShortCode string
	Token     string

	// UserID: prueba por sesión autenticada.
	UserID string
}

func ShortCodeCredential(code string) Credential {
	return Credential{Kind: CredentialShortCode, ShortCode: strings.TrimSpace(code)}
}

func LegacyTokenCredential(token string) Credential {
	return Credential{Kind: CredentialLegacyToken, Token: strings.TrimSpace(token)}
}

func SessionCredential(userID string) Credential {
	return Credential{Kind: CredentialSession, UserID: strings.TrimSpace(userID)}
}

// ResolveDose resuelve la credencial a exactamente una dosis sobre la que el
// caller puede actuar:
//   - short code / token legacy: la única dosis para la que se acuñó.
//     No encontrada => ErrInvalidOrExpiredLink.
//   - sesión: el caller puede actuar sobre cursos que le pertenecen; la dosis
//     objetivo es la pending más vieja de medicationID. Sin pending =>
//     ErrNoPendingDose.
//   - sin credencial usable => ErrUnauthenticated.
//
// Ninguna variante implica más confianza que "actuar sobre esta dosis":
// un short code jamás resuelve a datos de otro usuario.
func (s *Service) ResolveDose(ctx context.Context, cred Credential, medicationID string) (Dose, error) {
	switch cred.Kind {
	case CredentialShortCode:
		if cred.ShortCode == "" {
			return Dose{}, ErrInvalidOrExpiredLink
		}
		d, err := s.repo.GetByShortCode(ctx, cred.ShortCode)
		if err != nil {
			return Dose{}, ErrInvalidOrExpiredLink
		}
		return d, nil

	case CredentialLegacyToken:
		if cred.Token == "" {
			return Dose{}, ErrInvalidOrExpiredLink
		}
		d, err := s.repo.GetByOneTimeToken(ctx, cred.Token)
		if err != nil {
			return Dose{}, ErrInvalidOrExpiredLink
		}
		return d, nil

	case CredentialSession:
		if cred.UserID == "" {
			return Dose{}, ErrUnauthenticated
		}
		medicationID = strings.TrimSpace(medicationID)
		if medicationID == "" {
			return Dose{}, ErrInvalidInput
		}

		m, err := s.meds.GetByID(ctx, medicationID)
		if err != nil {
			if errors.Is(err, medications.ErrNotFound) {
				return Dose{}, ErrNotFound
			}
			return Dose{}, err
		}
		if m.OwnerUserID != cred.UserID {
			return Dose{}, ErrForbidden
		}

		d, err := s.repo.OldestPending(ctx, medicationID)
		if err != nil {
			return Dose{}, ErrNoPendingDose
		}
		return d, nil

	default:
		return Dose{}, ErrUnauthenticated
	}
}
