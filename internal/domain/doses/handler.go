package doses

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-med-tracker/internal/domain/medications"
	"pet-med-tracker/internal/domain/pets"
	"pet-med-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// progressReadTimeout: la lectura de progreso no bloquea la confirmación;
// pasado esto se degrada a una vista mínima.
const progressReadTimeout = 3 * time.Second

// RegisterPublicRoutes monta la superficie sin login: el link corto de
// acción y la página stateless de confirmación.
func RegisterPublicRoutes(r chi.Router, svc *Service, medsSvc *medications.Service, petsSvc *pets.Service) {
	r.Route("/dose", func(dr chi.Router) {
		dr.Get("/confirm", confirmPageHandler())
		dr.Get("/{shortCode}", doseActionPageHandler(svc, medsSvc, petsSvc))
		dr.Post("/{shortCode}/given", doseActionHandler(svc, medsSvc, petsSvc, StatusGiven))
		dr.Post("/{shortCode}/skip", doseActionHandler(svc, medsSvc, petsSvc, StatusSkipped))
	})
}

// RegisterRoutes monta los endpoints de backend (token legacy o sesión).
func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Post("/doses/transition", transitionHandler(svc))
	r.Get("/medications/{medicationID}/progress", progressHandler(svc, medsSvc))
	r.Post("/medications/{medicationID}/doses", scheduleDoseHandler(svc, medsSvc))
}

type doseResponse struct {
	ID            string     `json:"id"`
	MedicationID  string     `json:"medication_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Status        string     `json:"status"`
	GivenTime     *time.Time `json:"given_time,omitempty"`
	ShortCode     string     `json:"short_code,omitempty"`
	OneTimeToken  string     `json:"one_time_token,omitempty"`
}

type actionPageResponse struct {
	PetName        string       `json:"pet_name"`
	MedicationName string       `json:"medication_name"`
	Dosage         string       `json:"dosage"`
	Dose           doseResponse `json:"dose"`
	Progress       Progress     `json:"progress"`
	Actions        []string     `json:"actions"`
}

type transitionResponse struct {
	Applied    bool         `json:"applied"`
	Idempotent bool         `json:"idempotent"`
	Dose       doseResponse `json:"dose"`

	Redirect *NavigationIntent `json:"redirect,omitempty"`
	Degraded bool              `json:"degraded,omitempty"`
}

// doseActionPageHandler: GET /dose/{shortCode}. Presenta la dosis pending
// con contexto (mascota, medicación, progreso) y las dos acciones.
func doseActionPageHandler(svc *Service, medsSvc *medications.Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByShortCode(r.Context(), chi.URLParam(r, "shortCode"))
		if err != nil {
			writeDoseError(w, err)
			return
		}

		m, err := medsSvc.GetByID(r.Context(), d.MedicationID)
		if err != nil {
			writeDoseError(w, ErrInvalidOrExpiredLink)
			return
		}

		petName := ""
		if p, err := petsSvc.GetByID(r.Context(), m.PetID); err == nil {
			petName = p.Name
		}

		progress, _ := readProgressDegraded(r.Context(), svc, d.MedicationID)

		writeJSON(w, http.StatusOK, actionPageResponse{
			PetName:        petName,
			MedicationName: m.Name,
			Dosage:         m.Dosage,
			Dose:           toDoseResponse(d, false),
			Progress:       progress,
			Actions:        []string{"given", "skip"},
		})
	}
}

// doseActionHandler: POST /dose/{shortCode}/given|skip. Aplica la
// transición y devuelve el navigation intent hacia la confirmación.
func doseActionHandler(svc *Service, medsSvc *medications.Service, petsSvc *pets.Service, target Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred := ShortCodeCredential(chi.URLParam(r, "shortCode"))

		res, err := svc.ResolveAndApply(r.Context(), cred, "", target)
		if err != nil {
			writeDoseError(w, err)
			return
		}

		// La transición ya quedó aplicada; lo que sigue es solo contexto
		// para la confirmación y se degrada en vez de fallar.
		petName, medName := "", ""
		if m, err := medsSvc.GetByID(r.Context(), res.Dose.MedicationID); err == nil {
			medName = m.Name
			if p, err := petsSvc.GetByID(r.Context(), m.PetID); err == nil {
				petName = p.Name
			}
		}

		progress, degraded := readProgressDegraded(r.Context(), svc, res.Dose.MedicationID)
		redirect := ConfirmationIntent(petName, medName, progress, target == StatusSkipped)

		writeJSON(w, http.StatusOK, transitionResponse{
			Applied:    res.Applied,
			Idempotent: !res.Applied,
			Dose:       toDoseResponse(res.Dose, false),
			Redirect:   &redirect,
			Degraded:   degraded,
		})
	}
}

// confirmPageHandler: página stateless. Devuelve solo lo que viene en la
// URL; acá no se consulta nada más (la acción ya se autorizó y aplicó).
func confirmPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{
			"pet":        q.Get("pet"),
			"medication": q.Get("medication"),
			"given":      q.Get("given"),
			"total":      q.Get("total"),
			"next":       q.Get("next"),
			"skipped":    q.Get("skipped") == "1",
		})
	}
}

type transitionRequest struct {
	Token        string `json:"token"`
	MedicationID string `json:"medication_id"`
	Status       string `json:"status"`
}

// transitionHandler: POST /doses/transition. Acepta {token} (legacy) o
// sesión autenticada + medication_id como prueba de autorización.
func transitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		target, ok := ParseTargetStatus(req.Status)
		if !ok {
			http.Error(w, "status must be given or skipped", http.StatusBadRequest)
			return
		}

		var cred Credential
		if strings.TrimSpace(req.Token) != "" {
			cred = LegacyTokenCredential(req.Token)
		} else if claims, ok := middleware.GetClaims(r.Context()); ok && strings.TrimSpace(claims.UserID) != "" {
			cred = SessionCredential(claims.UserID)
		} else {
			writeDoseError(w, ErrUnauthenticated)
			return
		}

		res, err := svc.ResolveAndApply(r.Context(), cred, req.MedicationID, target)
		if err != nil {
			writeDoseError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, transitionResponse{
			Applied:    res.Applied,
			Idempotent: !res.Applied,
			Dose:       toDoseResponse(res.Dose, false),
		})
	}
}

// progressHandler: GET /medications/{medicationID}/progress (sesión, owner).
func progressHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")
		m, err := medsSvc.GetByID(r.Context(), medicationID)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		if m.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		progress, degraded := readProgressDegraded(r.Context(), svc, medicationID)
		writeJSON(w, http.StatusOK, map[string]any{
			"progress": progress,
			"degraded": degraded,
		})
	}
}

type scheduleDoseRequest struct {
	ScheduledTime time.Time `json:"scheduled_time"`
	ShortCode     string    `json:"short_code"`
	OneTimeToken  string    `json:"one_time_token"`
	Legacy        bool      `json:"legacy"`
}

// scheduleDoseHandler: POST /medications/{medicationID}/doses. Superficie
// REST para el colaborador de delivery (alternativa a la cola). Devuelve la
// fila con su short code recién acuñado.
func scheduleDoseHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")
		m, err := medsSvc.GetByID(r.Context(), medicationID)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		if m.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req scheduleDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Schedule(r.Context(), ScheduleInput{
			MedicationID:  medicationID,
			ScheduledTime: req.ScheduledTime,
			ShortCode:     req.ShortCode,
			OneTimeToken:  req.OneTimeToken,
			Legacy:        req.Legacy,
		})
		if err != nil {
			writeDoseError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoseResponse(d, true))
	}
}

// readProgressDegraded lee el progreso con timeout corto. Si falla o se
// pasa del timeout devuelve la vista degradada 1-de-1 (la acción ya fue
// durable; no se bloquea la confirmación por estadísticas).
func readProgressDegraded(ctx context.Context, svc *Service, medicationID string) (Progress, bool) {
	rctx, cancel := context.WithTimeout(ctx, progressReadTimeout)
	defer cancel()

	p, err := svc.Progress(rctx, medicationID)
	if err != nil {
		return Progress{
			GivenCount:     1,
			TotalCount:     1,
			RemainingCount: 0,
			Percentage:     100,
			IsComplete:     true,
		}, true
	}
	return p, false
}

func toDoseResponse(d Dose, includeCredentials bool) doseResponse {
	out := doseResponse{
		ID:            d.ID,
		MedicationID:  d.MedicationID,
		ScheduledTime: d.ScheduledTime,
		Status:        string(d.Status),
		GivenTime:     d.GivenTime,
	}
	// Los códigos solo se exponen al colaborador que crea la fila; las
	// respuestas de acción no repiten la credencial.
	if includeCredentials {
		out.ShortCode = d.ShortCode
		out.OneTimeToken = d.OneTimeToken
	}
	return out
}

func writeDoseError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidOrExpiredLink:
		// Mensaje plano, no técnico: que revise si hay un link más nuevo.
		http.Error(w, "this link is invalid or expired; check your latest reminder for a newer one", http.StatusNotFound)
	case ErrUnauthenticated:
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case ErrNoPendingDose:
		http.Error(w, "no pending dose", http.StatusNotFound)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case ErrInvalidInput:
		http.Error(w, "invalid input", http.StatusBadRequest)
	case ErrAlreadyFinalized:
		http.Error(w, "dose already recorded with a different outcome", http.StatusConflict)
	case ErrCourseAlreadyComplete:
		http.Error(w, "all doses recorded", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en pets/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
