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

	"github.com/keygate/keygate/internal/role"
)

// RoleRepository implements role.Repository
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create inserts a new role
func (r *RoleRepository) Create(ctx context.Context, rl *role.Role) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO roles (id, name, description, scopes, is_default, is_custom, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rl.ID, rl.Name, rl.Description, rl.Scopes, rl.IsDefault, rl.IsCustom, rl.IsSystem, rl.CreatedAt, rl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*role.Role, error) {
	var rl role.Role
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, description, scopes, is_default, is_custom, is_system, created_at, updated_at
		FROM roles
		WHERE id = $1
	`, id).Scan(&rl.ID, &rl.Name, &rl.Description, &rl.Scopes, &rl.IsDefault, &rl.IsCustom, &rl.IsSystem, &rl.CreatedAt, &rl.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, role.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &rl, nil
}

// Update replaces a role row
func (r *RoleRepository) Update(ctx context.Context, rl *role.Role) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE roles
		SET name = $2, description = $3, scopes = $4, updated_at = $5
		WHERE id = $1
	`, rl.ID, rl.Name, rl.Description, rl.Scopes, rl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}

// Delete removes a role
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}

// List retrieves all roles in creation order
func (r *RoleRepository) List(ctx context.Context) ([]*role.Role, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, description, scopes, is_default, is_custom, is_system, created_at, updated_at
		FROM roles
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*role.Role
	for rows.Next() {
		var rl role.Role
		if err := rows.Scan(&rl.ID, &rl.Name, &rl.Description, &rl.Scopes, &rl.IsDefault, &rl.IsCustom, &rl.IsSystem, &rl.CreatedAt, &rl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, &rl)
	}

	return roles, nil
}
