package faqrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/knguyen2000/officehourlens/internal/domain/faq"
)

// PostgresRepository implements faq.Repository using pgx and pgvector.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the faq_entries table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS faq_entries (
			id BIGSERIAL PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			cluster_id INTEGER,
			cluster_name VARCHAR(200),
			ask_count INTEGER NOT NULL DEFAULT 1,
			embedding vector
		)
	`)
	return err
}

// List implements faq.Repository.
func (r *PostgresRepository) List(ctx context.Context) ([]faq.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, created_at, cluster_id, cluster_name, ask_count, embedding
		FROM faq_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []faq.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Insert implements faq.Repository.
func (r *PostgresRepository) Insert(ctx context.Context, question, answer string, embedding []float32, createdAt time.Time) (faq.Entry, error) {
	var embeddingValue any
	if len(embedding) > 0 {
		embeddingValue = pgvector.NewVector(embedding)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO faq_entries (question, answer, created_at, embedding)
		VALUES ($1, $2, $3, $4)
		RETURNING id, question, answer, created_at, cluster_id, cluster_name, ask_count, embedding
	`, question, answer, createdAt, embeddingValue)
	return scanEntry(row)
}

// IncrementAskCount implements faq.Repository.
func (r *PostgresRepository) IncrementAskCount(ctx context.Context, id int64) (faq.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE faq_entries
		SET ask_count = ask_count + 1
		WHERE id = $1
		RETURNING id, question, answer, created_at, cluster_id, cluster_name, ask_count, embedding
	`, id)
	return scanEntry(row)
}

// UpdateCluster implements faq.Repository.
func (r *PostgresRepository) UpdateCluster(ctx context.Context, id int64, clusterID *int, clusterName *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE faq_entries
		SET cluster_id = $2, cluster_name = $3
		WHERE id = $1
	`, id, clusterID, clusterName)
	return err
}

// Count implements faq.Repository.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faq_entries`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (faq.Entry, error) {
	var (
		entry       faq.Entry
		clusterID   sql.NullInt32
		clusterName sql.NullString
		embedding   *pgvector.Vector
	)
	if err := row.Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.CreatedAt,
		&clusterID, &clusterName, &entry.AskCount, &embedding); err != nil {
		return faq.Entry{}, err
	}
	if clusterID.Valid {
		id := int(clusterID.Int32)
		entry.ClusterID = &id
	}
	if clusterName.Valid {
		name := clusterName.String
		entry.ClusterName = &name
	}
	if embedding != nil {
		entry.Embedding = embedding.Slice()
	}
	return entry, nil
}

var _ faq.Repository = (*PostgresRepository)(nil)
