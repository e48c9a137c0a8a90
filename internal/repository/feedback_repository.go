package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sachi-ghani/storefront-service/internal/domain"
)

// FeedbackRepository encapsulates review persistence.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	List(ctx context.Context, limit int) ([]domain.Feedback, error)
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	Update(ctx context.Context, feedback *domain.Feedback) error
	Delete(ctx context.Context, id string) error
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (name, message, rating)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		feedback.Name,
		feedback.Message,
		feedback.Rating,
	).Scan(&feedback.ID, &feedback.CreatedAt, &feedback.UpdatedAt)
}

func (r *feedbackRepository) List(ctx context.Context, limit int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, name, message, rating, created_at, updated_at
        FROM feedback
        ORDER BY created_at DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Feedback
	for rows.Next() {
		var feedback domain.Feedback
		if err := rows.Scan(
			&feedback.ID,
			&feedback.Name,
			&feedback.Message,
			&feedback.Rating,
			&feedback.CreatedAt,
			&feedback.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, feedback)
	}
	return result, rows.Err()
}

func (r *feedbackRepository) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	const query = `
        SELECT id, name, message, rating, created_at, updated_at
        FROM feedback WHERE id=$1`

	var feedback domain.Feedback
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&feedback.ID,
		&feedback.Name,
		&feedback.Message,
		&feedback.Rating,
		&feedback.CreatedAt,
		&feedback.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        UPDATE feedback SET name=$1, message=$2, rating=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		feedback.Name,
		feedback.Message,
		feedback.Rating,
		feedback.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM feedback WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
