// Copyright 2026 The Keygate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/keygate/keygate/internal/member"
)

// MemberRepository implements member.Repository
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Grant inserts a tenant binding. The unique (tenant_id, user_id) constraint
// enforces the one-binding-per-pair invariant at the storage layer.
func (r *MemberRepository) Grant(ctx context.Context, b *member.Binding) error {
	var grantedBy sql.NullString
	if b.GrantedBy != "" {
		grantedBy = sql.NullString{String: b.GrantedBy, Valid: true}
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO tenant_bindings (id, tenant_id, user_id, role_id, granted_at, granted_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, b.ID, b.TenantID, b.UserID, b.RoleID, b.GrantedAt, grantedBy)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return member.ErrBindingExists
		}
		return fmt.Errorf("failed to grant role: %w", err)
	}

	return nil
}

// UpdateRole changes the role of an existing binding
func (r *MemberRepository) UpdateRole(ctx context.Context, tenantID, userID, roleID string) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE tenant_bindings SET role_id = $3
		WHERE tenant_id = $1 AND user_id = $2
	`, tenantID, userID, roleID)

	if err != nil {
		return fmt.Errorf("failed to update binding: %w", err)
	}
	if result.RowsAffected() == 0 {
		return member.ErrBindingNotFound
	}
	return nil
}

// Revoke removes a binding
func (r *MemberRepository) Revoke(ctx context.Context, tenantID, userID string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM tenant_bindings
		WHERE tenant_id = $1 AND user_id = $2
	`, tenantID, userID)

	if err != nil {
		return fmt.Errorf("failed to revoke binding: %w", err)
	}
	if result.RowsAffected() == 0 {
		return member.ErrBindingNotFound
	}
	return nil
}

// Get retrieves the binding for an exact (tenant, user) pair
func (r *MemberRepository) Get(ctx context.Context, tenantID, userID string) (*member.Binding, error) {
	var b member.Binding
	var grantedBy sql.NullString
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, tenant_id, user_id, role_id, granted_at, granted_by
		FROM tenant_bindings
		WHERE tenant_id = $1 AND user_id = $2
	`, tenantID, userID).Scan(&b.ID, &b.TenantID, &b.UserID, &b.RoleID, &b.GrantedAt, &grantedBy)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, member.ErrBindingNotFound
		}
		return nil, fmt.Errorf("failed to get binding: %w", err)
	}
	if grantedBy.Valid {
		b.GrantedBy = grantedBy.String
	}

	return &b, nil
}

// ListByTenant retrieves all bindings in a tenant
func (r *MemberRepository) ListByTenant(ctx context.Context, tenantID string) ([]*member.Binding, error) {
	return r.list(ctx, `
		SELECT id, tenant_id, user_id, role_id, granted_at, granted_by
		FROM tenant_bindings
		WHERE tenant_id = $1
	`, tenantID)
}

// ListByUser retrieves a user's bindings across all tenants
func (r *MemberRepository) ListByUser(ctx context.Context, userID string) ([]*member.Binding, error) {
	return r.list(ctx, `
		SELECT id, tenant_id, user_id, role_id, granted_at, granted_by
		FROM tenant_bindings
		WHERE user_id = $1
	`, userID)
}

// DeleteByRole removes every binding and system role referencing roleID
func (r *MemberRepository) DeleteByRole(ctx context.Context, roleID string) (int64, error) {
	result, err := r.db.pool.Exec(ctx, `DELETE FROM tenant_bindings WHERE role_id = $1`, roleID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bindings by role: %w", err)
	}
	n := result.RowsAffected()

	sysResult, err := r.db.pool.Exec(ctx, `DELETE FROM system_roles WHERE role_id = $1`, roleID)
	if err != nil {
		return n, fmt.Errorf("failed to delete system roles by role: %w", err)
	}

	return n + sysResult.RowsAffected(), nil
}

// GetSystemRole retrieves a user's system-wide role; empty when unset
func (r *MemberRepository) GetSystemRole(ctx context.Context, userID string) (string, error) {
	var roleID string
	err := r.db.pool.QueryRow(ctx, `
		SELECT role_id FROM system_roles WHERE user_id = $1
	`, userID).Scan(&roleID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get system role: %w", err)
	}
	return roleID, nil
}

// SetSystemRole assigns or replaces a user's system-wide role
func (r *MemberRepository) SetSystemRole(ctx context.Context, userID, roleID string) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO system_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role_id = EXCLUDED.role_id
	`, userID, roleID)

	if err != nil {
		return fmt.Errorf("failed to set system role: %w", err)
	}
	return nil
}

// ClearSystemRole removes a user's system-wide role
func (r *MemberRepository) ClearSystemRole(ctx context.Context, userID string) error {
	_, err := r.db.pool.Exec(ctx, `DELETE FROM system_roles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear system role: %w", err)
	}
	return nil
}

func (r *MemberRepository) list(ctx context.Context, query string, arg any) ([]*member.Binding, error) {
	rows, err := r.db.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	defer rows.Close()

	var bindings []*member.Binding
	for rows.Next() {
		var b member.Binding
		var grantedBy sql.NullString
		if err := rows.Scan(&b.ID, &b.TenantID, &b.UserID, &b.RoleID, &b.GrantedAt, &grantedBy); err != nil {
			return nil, fmt.Errorf("failed to scan binding: %w", err)
		}
		if grantedBy.Valid {
			b.GrantedBy = grantedBy.String
		}
		bindings = append(bindings, &b)
	}

	return bindings, nil
}
