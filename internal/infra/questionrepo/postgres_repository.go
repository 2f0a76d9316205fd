package questionrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/knguyen2000/officehourlens/internal/domain/question"
)

// PostgresRepository implements question.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the questions table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id BIGSERIAL PRIMARY KEY,
			student_name VARCHAR(100) NOT NULL,
			course VARCHAR(100),
			question_text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status VARCHAR(20) NOT NULL DEFAULT 'waiting',
			ai_answer TEXT,
			ai_sources TEXT,
			resolved_answer TEXT
		)
	`)
	return err
}

const questionColumns = `id, student_name, course, question_text, created_at, status, ai_answer, ai_sources, resolved_answer`

// Insert implements question.Repository.
func (r *PostgresRepository) Insert(ctx context.Context, q question.Question) (question.Question, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO questions (student_name, course, question_text, created_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+questionColumns+`
	`, q.StudentName, nullable(q.Course), q.QuestionText, q.CreatedAt, string(q.Status))
	return scanQuestion(row)
}

// Get implements question.Repository.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (question.Question, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE id = $1
	`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return question.Question{}, false, nil
	}
	if err != nil {
		return question.Question{}, false, err
	}
	return q, true, nil
}

// Update implements question.Repository.
func (r *PostgresRepository) Update(ctx context.Context, q question.Question) (question.Question, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE questions
		SET status = $2, ai_answer = $3, ai_sources = $4, resolved_answer = $5
		WHERE id = $1
		RETURNING `+questionColumns+`
	`, q.ID, string(q.Status), nullable(q.AIAnswer), nullable(q.AISources), nullable(q.ResolvedAnswer))
	return scanQuestion(row)
}

// Delete implements question.Repository.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListActive implements question.Repository.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]question.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE status IN ('waiting', 'in_progress')
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var active []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		active = append(active, q)
	}
	return active, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (question.Question, error) {
	var (
		q              question.Question
		status         string
		course         sql.NullString
		aiAnswer       sql.NullString
		aiSources      sql.NullString
		resolvedAnswer sql.NullString
	)
	if err := row.Scan(&q.ID, &q.StudentName, &course, &q.QuestionText, &q.CreatedAt,
		&status, &aiAnswer, &aiSources, &resolvedAnswer); err != nil {
		return question.Question{}, err
	}
	q.Status = question.Status(status)
	q.Course = course.String
	q.AIAnswer = aiAnswer.String
	q.AISources = aiSources.String
	q.ResolvedAnswer = resolvedAnswer.String
	return q, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

var _ question.Repository = (*PostgresRepository)(nil)
