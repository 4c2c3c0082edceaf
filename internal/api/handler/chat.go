package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
	"github.com/kiranshivaraju/yaktalk/internal/consultation"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// Consulter defines the interface the chat handler depends on.
type Consulter interface {
	Complete(ctx context.Context, question string) consultation.Result
}

type chatRequest struct {
	Message string `json:"message"`
}

type analysisView struct {
	QueryType     models.QueryType `json:"query_type"`
	DetectedDrugs []string         `json:"detected_drugs"`
	Symptoms      []string         `json:"symptoms"`
	Confidence    float64          `json:"confidence"`
}

type sourceView struct {
	DrugName string `json:"drug_name"`
	Field    string `json:"field,omitempty"`
	ItemCode string `json:"item_code"`
}

type chatResponse struct {
	Message   string        `json:"message"`
	Analysis  analysisView  `json:"analysis"`
	Emergency emergencyView `json:"emergency"`
	Sources   []sourceView  `json:"sources"`
}

// NewChatHandler returns an http.HandlerFunc for POST /api/v1/chat.
func NewChatHandler(svc Consulter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		res := svc.Complete(r.Context(), req.Message)
		if !res.Success {
			writeConsultationError(w, res.Err, res.Error)
			return
		}

		response.JSON(w, newChatResponse(res))
	}
}

func newChatResponse(res consultation.Result) chatResponse {
	out := chatResponse{
		Message: res.FinalResponse,
		Sources: make([]sourceView, 0, len(res.SourceDocuments)),
	}
	if a := res.Analysis; a != nil {
		out.Analysis = analysisView{
			QueryType:     a.QueryType,
			DetectedDrugs: nonNil(a.DetectedDrugs),
			Symptoms:      nonNil(a.Symptoms),
			Confidence:    a.Confidence,
		}
	}
	if e := res.Emergency; e != nil {
		out.Emergency = newEmergencyView(*e)
	}
	for _, d := range res.SourceDocuments {
		out.Sources = append(out.Sources, sourceView{
			DrugName: d.Metadata.DrugName,
			Field:    d.Metadata.Field,
			ItemCode: d.Metadata.ItemCode,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
