package repository

import (
	"context"
	"fmt"
)

// InitializeAdmin makes principal the administrator if there is none yet.
// Later calls change nothing. It reports whether principal is an admin
// afterwards.
func (r *Repository) InitializeAdmin(ctx context.Context, principal string) (bool, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (principal, created_at)
		SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM admins)`,
		principal, r.now().UnixNano())
	if err != nil {
		return false, fmt.Errorf("failed to initialize admin: %w", err)
	}
	return r.IsAdmin(ctx, principal)
}

func (r *Repository) IsAdmin(ctx context.Context, principal string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM admins WHERE principal = ?`, principal).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query admins: %w", err)
	}
	return n > 0, nil
}
