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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keygate/keygate/internal/invite"
)

// InviteRepository implements invite.Repository
type InviteRepository struct {
	db *DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create inserts a new invite
func (r *InviteRepository) Create(ctx context.Context, inv *invite.Invite) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO invites (id, tenant_id, email, role_id, token, status, created_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, inv.ID, inv.TenantID, inv.Email, inv.RoleID, inv.Token, inv.Status, inv.CreatedBy, inv.CreatedAt, inv.ExpiresAt)

	if err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

// GetByID retrieves an invite by ID
func (r *InviteRepository) GetByID(ctx context.Context, id string) (*invite.Invite, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByToken retrieves an invite by its token
func (r *InviteRepository) GetByToken(ctx context.Context, token string) (*invite.Invite, error) {
	return r.get(ctx, `WHERE token = $1`, token)
}

// UpdateStatus transitions an invite's stored status
func (r *InviteRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE invites SET status = $2 WHERE id = $1
	`, id, status)

	if err != nil {
		return fmt.Errorf("failed to update invite: %w", err)
	}
	if result.RowsAffected() == 0 {
		return invite.ErrInviteNotFound
	}
	return nil
}

// Delete removes an invite
func (r *InviteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}
	if result.RowsAffected() == 0 {
		return invite.ErrInviteNotFound
	}
	return nil
}

// ListByTenant retrieves a tenant's invites
func (r *InviteRepository) ListByTenant(ctx context.Context, tenantID string) ([]*invite.Invite, error) {
	return r.list(ctx, `WHERE tenant_id = $1`, tenantID)
}

// ListByEmail retrieves the invites addressed to an email
func (r *InviteRepository) ListByEmail(ctx context.Context, email string) ([]*invite.Invite, error) {
	return r.list(ctx, `WHERE email = $1`, email)
}

// ListByCreator retrieves the invites a user has sent
func (r *InviteRepository) ListByCreator(ctx context.Context, creatorID string) ([]*invite.Invite, error) {
	return r.list(ctx, `WHERE created_by = $1`, creatorID)
}

const inviteColumns = `id, tenant_id, email, role_id, token, status, created_by, created_at, expires_at`

func (r *InviteRepository) get(ctx context.Context, where string, arg any) (*invite.Invite, error) {
	var inv invite.Invite
	err := r.db.pool.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invites `+where, arg).
		Scan(&inv.ID, &inv.TenantID, &inv.Email, &inv.RoleID, &inv.Token, &inv.Status, &inv.CreatedBy, &inv.CreatedAt, &inv.ExpiresAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invite.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}

	return &inv, nil
}

func (r *InviteRepository) list(ctx context.Context, where string, arg any) ([]*invite.Invite, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT `+inviteColumns+` FROM invites `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*invite.Invite
	for rows.Next() {
		var inv invite.Invite
		if err := rows.Scan(&inv.ID, &inv.TenantID, &inv.Email, &inv.RoleID, &inv.Token, &inv.Status, &inv.CreatedBy, &inv.CreatedAt, &inv.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, &inv)
	}

	return invites, nil
}
