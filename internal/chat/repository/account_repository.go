package repository

import (
	"context"
	"fmt"

	"support_chat_service/internal/chat/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// AccountRepository read-only view of the storefront users table
type AccountRepository interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Account, error)
}

type accountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository create an AccountRepository
func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepository{db: db}
}

// FindByIDs unknown ids are simply absent from the result
func (r *accountRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
		SELECT id, name, email
		FROM users
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}
