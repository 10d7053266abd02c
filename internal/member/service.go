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

package member

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/audit"
)

// Service provides tenant membership business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new member service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// Grant assigns a role to a user in a tenant. A second grant for the same
// (user, tenant) pair fails with ErrBindingExists; changing the role is an
// explicit UpdateRole.
func (s *Service) Grant(ctx context.Context, tenantID, userID, roleID, grantedBy string) (*Binding, error) {
	if tenantID == "" || userID == "" || roleID == "" {
		return nil, fmt.Errorf("tenant_id, user_id and role_id are required")
	}

	if _, err := s.repo.Get(ctx, tenantID, userID); err == nil {
		return nil, ErrBindingExists
	}

	b := &Binding{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TenantID:  tenantID,
		UserID:    userID,
		RoleID:    roleID,
		GrantedAt: time.Now(),
		GrantedBy: grantedBy,
	}

	if err := s.repo.Grant(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeBindingGranted,
		TenantID: tenantID,
		ActorID:  grantedBy,
		Resource: roleID,
		Metadata: map[string]any{"user_id": userID},
	})

	return b, nil
}

// UpdateRole changes the role of an existing binding.
func (s *Service) UpdateRole(ctx context.Context, tenantID, userID, roleID, actorID string) error {
	if err := s.repo.UpdateRole(ctx, tenantID, userID, roleID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeBindingUpdated,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: roleID,
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// Revoke removes a user's binding in a tenant.
func (s *Service) Revoke(ctx context.Context, tenantID, userID, actorID string) error {
	if err := s.repo.Revoke(ctx, tenantID, userID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeBindingRevoked,
		TenantID: tenantID,
		ActorID:  actorID,
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// EffectiveRole looks up the role a user holds in one exact tenant. There is
// no inheritance across tenants and the system role never leaks in here.
func (s *Service) EffectiveRole(ctx context.Context, userID, tenantID string) (string, error) {
	b, err := s.repo.Get(ctx, tenantID, userID)
	if err != nil {
		return "", err
	}
	return b.RoleID, nil
}

// SystemRole returns the user's tenant-independent role, if any. An empty
// result with nil error means no system role is set.
func (s *Service) SystemRole(ctx context.Context, userID string) (string, error) {
	return s.repo.GetSystemRole(ctx, userID)
}

// SetSystemRole assigns or replaces the user's system-wide role.
func (s *Service) SetSystemRole(ctx context.Context, userID, roleID, actorID string) error {
	if err := s.repo.SetSystemRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to set system role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSystemRoleSet,
		ActorID:  actorID,
		Resource: roleID,
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// ClearSystemRole removes the user's system-wide role, if any.
func (s *Service) ClearSystemRole(ctx context.Context, userID, actorID string) error {
	if err := s.repo.ClearSystemRole(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear system role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSystemRoleCleared,
		ActorID:  actorID,
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// ListMembers returns the bindings of a tenant, optionally filtered by role.
func (s *Service) ListMembers(ctx context.Context, tenantID, roleFilter string) ([]*Binding, error) {
	bindings, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if roleFilter == "" {
		return bindings, nil
	}

	filtered := make([]*Binding, 0, len(bindings))
	for _, b := range bindings {
		if b.RoleID == roleFilter {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// ListUserTenants returns every binding a user holds across tenants.
func (s *Service) ListUserTenants(ctx context.Context, userID string) ([]*Binding, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UnassignRole removes every binding referencing roleID. Called by the role
// service when a custom role is deleted.
func (s *Service) UnassignRole(ctx context.Context, roleID string) error {
	n, err := s.repo.DeleteByRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to cascade role deletion: %w", err)
	}

	if n > 0 {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeBindingRevoked,
			Resource: roleID,
			Metadata: map[string]any{"cascaded": n},
		})
	}

	return nil
}
