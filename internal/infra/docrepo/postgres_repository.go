package docrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/knguyen2000/officehourlens/internal/domain/course"
)

// PostgresRepository implements course.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the course_docs table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS course_docs (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			content TEXT NOT NULL,
			source_type VARCHAR(50) NOT NULL
		)
	`)
	return err
}

// List implements course.Repository.
func (r *PostgresRepository) List(ctx context.Context) ([]course.Doc, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, source_type
		FROM course_docs
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []course.Doc
	for rows.Next() {
		var doc course.Doc
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.SourceType); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Insert implements course.Repository.
func (r *PostgresRepository) Insert(ctx context.Context, doc course.Doc) (course.Doc, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO course_docs (title, content, source_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`, doc.Title, doc.Content, doc.SourceType).Scan(&doc.ID)
	if err != nil {
		return course.Doc{}, err
	}
	return doc, nil
}

// Delete implements course.Repository.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM course_docs WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Count implements course.Repository.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_docs`).Scan(&count)
	return count, err
}

var _ course.Repository = (*PostgresRepository)(nil)
