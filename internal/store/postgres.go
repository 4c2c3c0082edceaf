package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/yaktalk/internal/metrics"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

const (
	minTermRunes = 2
	maxTerms     = 16
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Drug documents ---

// Search ranks documents by how many distinct query terms their content
// contains, case-insensitively, and returns the best k. Ties keep insertion order.
func (s *PostgresStore) Search(ctx context.Context, query string, k int) ([]models.Document, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("search_documents", time.Since(start)) }()

	terms := SearchTerms(query)
	if len(terms) == 0 || k <= 0 {
		return []models.Document{}, nil
	}

	cases := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms)+1)
	for i, term := range terms {
		cases = append(cases, fmt.Sprintf(`(CASE WHEN content ILIKE $%d ESCAPE '\' THEN 1 ELSE 0 END)`, i+1))
		args = append(args, "%"+escapeLike(term)+"%")
	}
	args = append(args, k)

	q := fmt.Sprintf(
		`SELECT drug_name, field, item_code, source_row, content FROM (
		   SELECT id, drug_name, field, item_code, source_row, content, %s AS score
		   FROM drug_documents
		 ) ranked
		 WHERE score > 0
		 ORDER BY score DESC, id ASC
		 LIMIT $%d`,
		strings.Join(cases, " + "), len(args))

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.Metadata.DrugName, &d.Metadata.Field, &d.Metadata.ItemCode,
			&d.Metadata.SourceRow, &d.Content); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) CountDocuments(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM drug_documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Ready returns ErrIndexEmpty until at least one document is loaded.
func (s *PostgresStore) Ready(ctx context.Context) error {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM drug_documents)`).Scan(&exists); err != nil {
		return fmt.Errorf("check document index: %w", err)
	}
	if !exists {
		return ErrIndexEmpty
	}
	return nil
}

// SearchTerms splits query on whitespace and punctuation and keeps distinct
// lowercase terms of at least two runes, in order of first appearance.
func SearchTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '%' && r != '_')
	})
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTermRunes {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
		if len(terms) == maxTerms {
			break
		}
	}
	return terms
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// --- Consultations ---

func (s *PostgresStore) CreateConsultation(ctx context.Context, rec *models.ConsultationRecord) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("create_consultation", time.Since(start)) }()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO consultations (id, question, query_type, emergency_level, success, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Question, string(rec.QueryType), rec.EmergencyLevel, rec.Success, rec.ErrorMessage, rec.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetConsultation(ctx context.Context, id uuid.UUID) (*models.ConsultationRecord, error) {
	var rec models.ConsultationRecord
	var queryType string
	err := s.pool.QueryRow(ctx,
		`SELECT id, question, query_type, emergency_level, success, error_message, created_at
		 FROM consultations WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Question, &queryType, &rec.EmergencyLevel, &rec.Success, &rec.ErrorMessage, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	rec.QueryType = models.QueryType(queryType)
	return &rec, nil
}

// ListConsultations returns the newest consultations first.
func (s *PostgresStore) ListConsultations(ctx context.Context, filter ConsultationFilter) ([]*models.ConsultationRecord, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.MinLevel > 0 {
		conditions = append(conditions, fmt.Sprintf("emergency_level >= $%d", argIdx))
		args = append(args, filter.MinLevel)
		argIdx++
	}
	if filter.QueryType != "" {
		conditions = append(conditions, fmt.Sprintf("query_type = $%d", argIdx))
		args = append(args, string(filter.QueryType))
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	args = append(args, limit)

	q := fmt.Sprintf(
		`SELECT id, question, query_type, emergency_level, success, error_message, created_at
		 FROM consultations WHERE %s ORDER BY created_at DESC, id LIMIT $%d`,
		strings.Join(conditions, " AND "), argIdx)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	recs := []*models.ConsultationRecord{}
	for rows.Next() {
		var rec models.ConsultationRecord
		var queryType string
		if err := rows.Scan(&rec.ID, &rec.Question, &queryType, &rec.EmergencyLevel,
			&rec.Success, &rec.ErrorMessage, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		rec.QueryType = models.QueryType(queryType)
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)
