package medications

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-med-tracker/internal/domain/pets"
	"pet-med-tracker/internal/middleware"
	"pet-med-tracker/internal/platform/dates"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, petsSvc))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))
	})
}

type createMedicationRequest struct {
	PetID         string   `json:"pet_id"`
	Name          string   `json:"medication_name"`
	Dosage        string   `json:"dosage"`
	Frequency     string   `json:"frequency"`
	ReminderTimes []string `json:"reminder_times"`
	StartDate     string   `json:"start_date"`         // YYYY-MM-DD
	EndDate       string   `json:"end_date,omitempty"` // YYYY-MM-DD, vacío = ongoing
}

type medicationResponse struct {
	ID            string    `json:"id"`
	OwnerUserID   string    `json:"owner_user_id"`
	PetID         string    `json:"pet_id"`
	Name          string    `json:"medication_name"`
	Dosage        string    `json:"dosage"`
	Frequency     string    `json:"frequency"`
	ReminderTimes []string  `json:"reminder_times"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func createMedicationHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// La mascota tiene que existir y ser del caller.
		p, err := petsSvc.GetByID(r.Context(), req.PetID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		start, err := dates.ParseLocal(req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := dates.ParseLocal(req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			PetID:         req.PetID,
			Name:          req.Name,
			Dosage:        req.Dosage,
			Frequency:     req.Frequency,
			ReminderTimes: req.ReminderTimes,
			StartDate:     start,
			EndDate:       end,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		if m.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID)
		switch err {
		case nil:
			w.WriteHeader(http.StatusNoContent)
		case ErrNotFound:
			http.Error(w, "medication not found", http.StatusNotFound)
		case ErrForbidden:
			http.Error(w, "forbidden", http.StatusForbidden)
		case ErrInvalidInput:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	out := medicationResponse{
		ID:            m.ID,
		OwnerUserID:   m.OwnerUserID,
		PetID:         m.PetID,
		Name:          m.Name,
		Dosage:        m.Dosage,
		Frequency:     m.Frequency,
		ReminderTimes: m.ReminderTimes,
		StartDate:     m.StartDate.Format(dates.Layout),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.EndDate != nil {
		out.EndDate = m.EndDate.Format(dates.Layout)
	}
	return out
}

// writeJSON duplicado a propósito por módulo (ver nota en pets/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
