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

// Package member answers "what can user U do in tenant T". A user holds at
// most one role binding per tenant plus an optional tenant-independent system
// role. The system role is a separate permission axis: it never merges into
// tenant-scoped lookups.
package member

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBindingNotFound = errors.New("binding not found")
	ErrBindingExists   = errors.New("binding already exists for user and tenant")
)

// Binding assigns a role to a user within one tenant. Access in tenant A
// never implies access in tenant B.
type Binding struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	RoleID    string    `json:"role_id"`
	GrantedAt time.Time `json:"granted_at"`
	GrantedBy string    `json:"granted_by,omitempty"`
}

// Repository defines the interface for binding storage. Implementations keep
// a per-tenant index; lookups by tenant must not scan all tenants.
type Repository interface {
	Grant(ctx context.Context, b *Binding) error
	UpdateRole(ctx context.Context, tenantID, userID, roleID string) error
	Revoke(ctx context.Context, tenantID, userID string) error
	Get(ctx context.Context, tenantID, userID string) (*Binding, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Binding, error)
	ListByUser(ctx context.Context, userID string) ([]*Binding, error)
	DeleteByRole(ctx context.Context, roleID string) (int64, error)

	GetSystemRole(ctx context.Context, userID string) (string, error)
	SetSystemRole(ctx context.Context, userID, roleID string) error
	ClearSystemRole(ctx context.Context, userID string) error
}
