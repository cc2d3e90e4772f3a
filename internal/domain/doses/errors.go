package doses

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")

	// ErrInvalidOrExpiredLink: el short code o token legacy no resuelve a
	// ninguna dosis. Se muestra como mensaje plano, no se reintenta.
	ErrInvalidOrExpiredLink = errors.New("invalid or expired link")

	// ErrUnauthenticated: no hay ninguna prueba de identidad usable.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNoPendingDose: el caller con sesión no tiene dosis pending para
	// el curso. Estado informativo, no banner de error.
	ErrNoPendingDose = errors.New("no pending dose")

	// ErrAlreadyFinalized: la transición choca con otro estado terminal
	// distinto. No se pisa en silencio.
	ErrAlreadyFinalized = errors.New("dose already finalized")

	// ErrCourseAlreadyComplete: la transición excedería el total esperado.
	ErrCourseAlreadyComplete = errors.New("course already complete")
)
