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

// Package role manages the registry of roles: predefined roles seeded at
// startup plus administrator-created custom roles.
package role

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role already exists")
	ErrNotEditable       = errors.New("role is not editable")
	ErrInvalidRole       = errors.New("invalid role definition")
	ErrUnknownScope      = errors.New("unknown scope id")
)

// Role is a named, reusable bundle of scopes assignable within a tenant or
// system-wide.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Scopes      []string  `json:"scopes"`
	IsDefault   bool      `json:"is_default,omitempty"`
	IsCustom    bool      `json:"is_custom,omitempty"`
	IsSystem    bool      `json:"is_system,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Editable reports whether an administrator may mutate or delete the role.
// Predefined and system roles are immutable.
func (r *Role) Editable() bool {
	return r.IsCustom && !r.IsSystem
}

// Draft carries the administrator-supplied fields for a new custom role.
type Draft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Scopes      []string `json:"scopes"`
}

// Repository defines the interface for role persistence.
type Repository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id string) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Role, error)
}
