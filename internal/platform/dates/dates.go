package dates

import (
	"errors"
	"strings"
	"time"
)

// Layout para fechas calendario (sin hora). Todo parseo de "YYYY-MM-DD"
// del servicio pasa por acá: parsear con time.Parse directo produce UTC
// y corre la fecha un día en zonas negativas.
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseLocal parsea "YYYY-MM-DD" como medianoche local.
func ParseLocal(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DayOf trunca un timestamp a su día calendario (medianoche, misma zona).
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween devuelve días calendario enteros entre a y b (b - a),
// truncando ambos a día primero. Un start 23:58 y un end 00:02 del día
// siguiente cuentan como 1 día, no 0.
//
// Los días truncados se reconstruyen en UTC antes de restar: la resta de
// medianoches locales cruza los cambios de hora (el día del spring-forward
// tiene 23h de pared y la división por 24 trunca un día de menos).
func DaysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	ua := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	ub := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// InclusiveDays devuelve el largo del rango [a, b] en días calendario.
// Para a == b devuelve 1. Si b es anterior a a, devuelve 0.
func InclusiveDays(a, b time.Time) int {
	n := DaysBetween(a, b) + 1
	if n < 0 {
		return 0
	}
	return n
}

// SameDay indica si dos timestamps caen en el mismo día calendario.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// ClockLabel formatea la hora en formato 12h ("3:04 PM").
func ClockLabel(t time.Time) string {
	return t.Format("3:04 PM")
}

// WeekdayLabel devuelve el nombre del día ("Monday", ...).
func WeekdayLabel(t time.Time) string {
	return t.Weekday().String()
}
