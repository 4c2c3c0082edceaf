package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// ErrIndexEmpty is returned by Ready while drug_documents has no rows.
var ErrIndexEmpty = errors.New("drug document index is empty")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	Search(ctx context.Context, query string, k int) ([]models.Document, error)
	CountDocuments(ctx context.Context) (int, error)
	Ready(ctx context.Context) error

	CreateConsultation(ctx context.Context, rec *models.ConsultationRecord) error
	GetConsultation(ctx context.Context, id uuid.UUID) (*models.ConsultationRecord, error)
	ListConsultations(ctx context.Context, filter ConsultationFilter) ([]*models.ConsultationRecord, error)
}

// ConsultationFilter narrows ListConsultations. Zero values mean no filter.
type ConsultationFilter struct {
	MinLevel  int
	QueryType models.QueryType
	Limit     int
}
