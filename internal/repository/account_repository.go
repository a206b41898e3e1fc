package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type AccountRepository struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new dashboard account
func (r *AccountRepository) Create(a *models.Account) error {
	query := `
		INSERT INTO accounts (id, email, display_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query,
		a.ID,
		a.Email,
		a.DisplayName,
		a.PasswordHash,
		a.CreatedAt,
		a.UpdatedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) scan(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.DisplayName,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: account", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, email, display_name, password_hash, created_at, updated_at
		FROM accounts WHERE id = $1
	`
	return r.scan(r.db.QueryRow(query, id))
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := `
		SELECT id, email, display_name, password_hash, created_at, updated_at
		FROM accounts WHERE email = $1
	`
	return r.scan(r.db.QueryRow(query, email))
}
