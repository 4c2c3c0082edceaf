package models

import (
	"time"

	"github.com/google/uuid"
)

// ConsultationRecord is the persisted log entry of one consultation,
// successful or not.
type ConsultationRecord struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	Question       string    `db:"question"        json:"question"`
	QueryType      QueryType `db:"query_type"      json:"query_type"`
	EmergencyLevel int       `db:"emergency_level" json:"emergency_level"`
	Success        bool      `db:"success"         json:"success"`
	ErrorMessage   *string   `db:"error_message"   json:"error_message,omitempty"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}
