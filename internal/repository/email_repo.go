package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailsift/internal/model"
)

type EmailRepository struct {
	db *pgxpool.Pool
}

func NewEmailRepository(db *pgxpool.Pool) *EmailRepository {
	return &EmailRepository{db: db}
}

// CreateInTx inserts an ingested email. Runs inside the caller's transaction
// so the row and its outbox event commit together.
func (r *EmailRepository) CreateInTx(ctx context.Context, tx pgx.Tx, e *model.Email) (int, error) {
	query := `
        INSERT INTO emails (account, uid, subject, sender, recipients, body, category, status, received_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 'received', $8, NOW())
        RETURNING id
    `
	var id int
	err := tx.QueryRow(ctx, query,
		e.Account,
		e.UID,
		e.Subject,
		e.Sender,
		e.Recipients,
		e.Body,
		string(model.CategoryPending),
		e.ReceivedAt,
	).Scan(&id)
	return id, err
}

// FindByID returns an email row by id.
func (r *EmailRepository) FindByID(ctx context.Context, id int) (*model.Email, error) {
	query := `
        SELECT id, account, uid, subject, sender, recipients, body, category, status, received_at, created_at
        FROM emails
        WHERE id = $1
    `
	var e model.Email
	var category string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Account,
		&e.UID,
		&e.Subject,
		&e.Sender,
		&e.Recipients,
		&e.Body,
		&category,
		&e.Status,
		&e.ReceivedAt,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = model.CategoryLabel(category)
	return &e, nil
}

// UpdateCategoryInTx stores the assigned category and flips the status.
func (r *EmailRepository) UpdateCategoryInTx(ctx context.Context, tx pgx.Tx, id int, category model.CategoryLabel) error {
	query := `
        UPDATE emails
        SET category = $1, status = 'categorized'
        WHERE id = $2
    `
	_, err := tx.Exec(ctx, query, string(category), id)
	return err
}

// ListRecent returns the newest emails with their categories.
func (r *EmailRepository) ListRecent(ctx context.Context, limit int) ([]model.Email, error) {
	query := `
        SELECT id, account, uid, subject, sender, recipients, category, status, received_at, created_at
        FROM emails
        ORDER BY received_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.Email{}
	for rows.Next() {
		var e model.Email
		var category string
		err := rows.Scan(
			&e.ID,
			&e.Account,
			&e.UID,
			&e.Subject,
			&e.Sender,
			&e.Recipients,
			&category,
			&e.Status,
			&e.ReceivedAt,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		e.Category = model.CategoryLabel(category)
		emails = append(emails, e)
	}

	return emails, rows.Err()
}
