package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
	"github.com/kiranshivaraju/yaktalk/internal/store"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ConsultationLog is the read side of the consultation log.
type ConsultationLog interface {
	GetConsultation(ctx context.Context, id uuid.UUID) (*models.ConsultationRecord, error)
	ListConsultations(ctx context.Context, filter store.ConsultationFilter) ([]*models.ConsultationRecord, error)
}

// NewListConsultationsHandler returns an http.HandlerFunc for
// GET /api/v1/consultations?limit=&min_level=&query_type=.
func NewListConsultationsHandler(log ConsultationLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.ConsultationFilter{Limit: defaultListLimit}

		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxListLimit {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"limit must be an integer between 1 and 100", nil)
				return
			}
			filter.Limit = n
		}

		if v := q.Get("min_level"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 5 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"min_level must be an integer between 0 and 5", nil)
				return
			}
			filter.MinLevel = n
		}

		if v := q.Get("query_type"); v != "" {
			qt := models.QueryType(v)
			if !qt.Valid() {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"query_type must be one of side_effect, usage, efficacy, other", nil)
				return
			}
			filter.QueryType = qt
		}

		records, err := log.ListConsultations(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list consultations", nil)
			return
		}
		if records == nil {
			records = []*models.ConsultationRecord{}
		}
		response.JSON(w, records)
	}
}

// NewGetConsultationHandler returns an http.HandlerFunc for
// GET /api/v1/consultations/{consultationID}.
func NewGetConsultationHandler(log ConsultationLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "consultationID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"consultation ID must be a valid UUID", nil)
			return
		}

		rec, err := log.GetConsultation(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Consultation not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load consultation", nil)
			return
		}
		response.JSON(w, rec)
	}
}
