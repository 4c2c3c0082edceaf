package store_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/yaktalk/internal/store"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("yaktalk_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, store.RunMigrations(connStr, migrationsDir()))
	// a second run is a no-op
	require.NoError(t, store.RunMigrations(connStr, migrationsDir()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

// seedDocuments inserts one row per drug field, in order.
func seedDocuments(t *testing.T, pool *pgxpool.Pool, docs []models.Document) {
	t.Helper()
	for _, d := range docs {
		_, err := pool.Exec(context.Background(),
			`INSERT INTO drug_documents (drug_name, field, item_code, source_row, content) VALUES ($1, $2, $3, $4, $5)`,
			d.Metadata.DrugName, d.Metadata.Field, d.Metadata.ItemCode, d.Metadata.SourceRow, d.Content)
		require.NoError(t, err)
	}
}

func doc(drug, field, code string, row int, body string) models.Document {
	return models.Document{
		Content:  drug + "의 " + field + ": " + body,
		Metadata: models.DocumentMetadata{DrugName: drug, Field: field, ItemCode: code, SourceRow: row},
	}
}

func corpus() []models.Document {
	return []models.Document{
		doc("타이레놀정500밀리그램", "효능효과", "200300001", 0, "감기로 인한 발열 및 동통, 두통, 치통"),
		doc("타이레놀정500밀리그램", "부작용", "200300001", 0, "드물게 복통, 구역, 구토가 나타날 수 있음"),
		doc("게보린정", "사용법", "197900002", 1, "성인 1회 1정, 1일 3회까지 복용"),
		doc("게보린정", "부작용", "197900002", 1, "위장장애, 복통, 발진"),
		doc("활명수", "효능효과", "196700003", 2, "소화불량, 식욕감퇴, 과식"),
	}
}

// --- Documents ---

func TestSearch_RanksByMatchedTerms(t *testing.T) {
	pool := setupTestDB(t)
	seedDocuments(t, pool, corpus())
	s := store.NewPostgresStore(pool)

	docs, err := s.Search(context.Background(), "타이레놀 복통 부작용", 4)
	require.NoError(t, err)

	require.NotEmpty(t, docs)
	// all three terms hit the Tylenol side-effect row
	assert.Equal(t, "타이레놀정500밀리그램", docs[0].Metadata.DrugName)
	assert.Equal(t, "부작용", docs[0].Metadata.Field)
	assert.Equal(t, "200300001", docs[0].Metadata.ItemCode)
	assert.Contains(t, docs[0].Content, "복통")
	assert.LessOrEqual(t, len(docs), 4)
	for _, d := range docs {
		assert.NotEqual(t, "활명수", d.Metadata.DrugName)
	}
}

func TestSearch_RespectsK(t *testing.T) {
	pool := setupTestDB(t)
	seedDocuments(t, pool, corpus())
	s := store.NewPostgresStore(pool)

	docs, err := s.Search(context.Background(), "복통 부작용 효능효과 사용법", 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	pool := setupTestDB(t)
	seedDocuments(t, pool, corpus())
	s := store.NewPostgresStore(pool)

	docs, err := s.Search(context.Background(), "게보린정", 4)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "사용법", docs[0].Metadata.Field)
	assert.Equal(t, "부작용", docs[1].Metadata.Field)
}

func TestSearch_NoMatch(t *testing.T) {
	pool := setupTestDB(t)
	seedDocuments(t, pool, corpus())
	s := store.NewPostgresStore(pool)

	docs, err := s.Search(context.Background(), "인슐린 주사", 4)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestSearch_LikeWildcardsAreLiteral(t *testing.T) {
	pool := setupTestDB(t)
	seedDocuments(t, pool, corpus())
	s := store.NewPostgresStore(pool)

	docs, err := s.Search(context.Background(), "%% __", 4)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadyAndCount(t *testing.T) {
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, s.Ready(ctx), store.ErrIndexEmpty)
	n, err := s.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	seedDocuments(t, pool, corpus())

	assert.NoError(t, s.Ready(ctx))
	n, err = s.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(corpus()), n)
}

// --- Consultations ---

func consultation(q string, qt models.QueryType, level int, success bool, at time.Time) *models.ConsultationRecord {
	rec := &models.ConsultationRecord{
		ID:             uuid.New(),
		Question:       q,
		QueryType:      qt,
		EmergencyLevel: level,
		Success:        success,
		CreatedAt:      at,
	}
	if !success {
		msg := "document retrieval failed"
		rec.ErrorMessage = &msg
	}
	return rec
}

func TestConsultation_CreateAndGet(t *testing.T) {
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	rec := consultation("타이레놀 먹고 속이 아파요", models.QueryTypeSideEffect, 2, true, time.Now().UTC().Truncate(time.Microsecond))

	require.NoError(t, s.CreateConsultation(ctx, rec))

	got, err := s.GetConsultation(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Question, got.Question)
	assert.Equal(t, models.QueryTypeSideEffect, got.QueryType)
	assert.Equal(t, 2, got.EmergencyLevel)
	assert.True(t, got.Success)
	assert.Nil(t, got.ErrorMessage)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestConsultation_FailureKeepsErrorMessage(t *testing.T) {
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	rec := consultation("q", "", 0, false, time.Now().UTC())

	require.NoError(t, s.CreateConsultation(ctx, rec))

	got, err := s.GetConsultation(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.Success)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "document retrieval failed", *got.ErrorMessage)
	assert.Equal(t, models.QueryType(""), got.QueryType)
}

func TestConsultation_GetNotFound(t *testing.T) {
	s := store.NewPostgresStore(setupTestDB(t))

	_, err := s.GetConsultation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConsultation_DuplicateID(t *testing.T) {
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	rec := consultation("q", models.QueryTypeOther, 0, true, time.Now().UTC())

	require.NoError(t, s.CreateConsultation(ctx, rec))
	assert.ErrorIs(t, s.CreateConsultation(ctx, rec), store.ErrDuplicateKey)
}

func TestConsultation_List(t *testing.T) {
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	recs := []*models.ConsultationRecord{
		consultation("oldest", models.QueryTypeUsage, 0, true, base),
		consultation("middle", models.QueryTypeSideEffect, 5, true, base.Add(time.Minute)),
		consultation("newest", models.QueryTypeSideEffect, 3, true, base.Add(2*time.Minute)),
	}
	for _, r := range recs {
		require.NoError(t, s.CreateConsultation(ctx, r))
	}

	all, err := s.ListConsultations(ctx, store.ConsultationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].Question)
	assert.Equal(t, "oldest", all[2].Question)

	limited, err := s.ListConsultations(ctx, store.ConsultationFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "newest", limited[0].Question)

	severe, err := s.ListConsultations(ctx, store.ConsultationFilter{MinLevel: 4})
	require.NoError(t, err)
	require.Len(t, severe, 1)
	assert.Equal(t, "middle", severe[0].Question)

	usage, err := s.ListConsultations(ctx, store.ConsultationFilter{QueryType: models.QueryTypeUsage})
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "oldest", usage[0].Question)
}

func TestPing(t *testing.T) {
	s := store.NewPostgresStore(setupTestDB(t))
	assert.NoError(t, s.Ping(context.Background()))
}

// --- Search terms ---

func TestSearchTerms(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"타이레놀 먹고 속이 아파요", []string{"타이레놀", "먹고", "속이", "아파요"}},
		{"Tylenol, tylenol! 부작용?", []string{"tylenol", "부작용"}},
		{"a 약 두통", []string{"두통"}},
		{"   ", []string{}},
		{"50% 할인_", []string{"50%", "할인_"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, store.SearchTerms(tt.query))
		})
	}
}

func TestSearchTerms_Capped(t *testing.T) {
	q := ""
	for i := 0; i < 40; i++ {
		q += uuid.NewString()[:8] + " "
	}
	assert.Len(t, store.SearchTerms(q), 16)
}
