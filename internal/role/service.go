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

package role

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/keygate/keygate/internal/audit"
	"github.com/keygate/keygate/internal/scope"
)

// BindingCascader removes tenant bindings that reference a deleted role.
// Implemented by the member service; an interface here avoids the import cycle.
type BindingCascader interface {
	UnassignRole(ctx context.Context, roleID string) error
}

// Service provides role registry business logic
type Service struct {
	repo        Repository
	cascader    BindingCascader
	auditLogger audit.Logger
}

// NewService creates a new role service
func NewService(repo Repository, cascader BindingCascader, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		cascader:    cascader,
		auditLogger: auditLogger,
	}
}

// Seed inserts the predefined roles if they are not present yet. Existing
// rows are left untouched so a restart never clobbers catalog drift fixes
// applied by migration.
func (s *Service) Seed(ctx context.Context) error {
	for _, r := range Predefined() {
		if _, err := s.repo.GetByID(ctx, r.ID); err == nil {
			continue
		}
		now := time.Now()
		r.CreatedAt = now
		r.UpdatedAt = now
		if err := s.repo.Create(ctx, r); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", r.ID, err)
		}
	}
	return nil
}

// Create creates a custom role from an administrator draft.
func (s *Service) Create(ctx context.Context, draft Draft, actorID string) (*Role, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	id := deriveID(draft.Name)
	if _, err := s.repo.GetByID(ctx, id); err == nil {
		// Derived id taken; fall back to a timestamp-based id.
		id = fmt.Sprintf("role_%d", time.Now().UnixMilli())
	}

	now := time.Now()
	r := &Role{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Scopes:      draft.Scopes,
		IsCustom:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleCreated,
		ActorID:  actorID,
		Resource: r.ID,
		Metadata: map[string]any{"name": r.Name, "scopes": len(r.Scopes)},
	})

	return r, nil
}

// Get retrieves a role by ID
func (s *Service) Get(ctx context.Context, id string) (*Role, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all roles, optionally filtered by a case-insensitive substring
// match over name, description and id. Repository order is preserved.
func (s *Service) List(ctx context.Context, query string) ([]*Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	if query == "" {
		return roles, nil
	}

	q := strings.ToLower(query)
	filtered := make([]*Role, 0, len(roles))
	for _, r := range roles {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) ||
			strings.Contains(strings.ToLower(r.ID), q) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Update replaces a custom role's definition. The whole object is replaced;
// last write wins, there is no concurrency token.
func (s *Service) Update(ctx context.Context, id string, draft Draft, actorID string) (*Role, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Editable() {
		return nil, ErrNotEditable
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	existing.Name = draft.Name
	existing.Description = draft.Description
	existing.Scopes = draft.Scopes
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleUpdated,
		ActorID:  actorID,
		Resource: existing.ID,
		Metadata: map[string]any{"scopes": len(existing.Scopes)},
	})

	return existing, nil
}

// Delete removes a custom role and cascades to every tenant binding that
// referenced it.
func (s *Service) Delete(ctx context.Context, id string, actorID string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Editable() {
		return ErrNotEditable
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	if s.cascader != nil {
		if err := s.cascader.UnassignRole(ctx, id); err != nil {
			return fmt.Errorf("failed to unassign deleted role: %w", err)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleDeleted,
		ActorID:  actorID,
		Resource: id,
	})

	return nil
}

// Resolution reports the effective permission set and aggregate impact for a
// scope selection. Used for both saved roles and ad hoc editor selections.
type Resolution struct {
	Permissions []string          `json:"permissions"`
	Impact      scope.ImpactLevel `json:"impact"`
}

// Resolve expands a scope set through the catalog.
func Resolve(scopeIDs []string) Resolution {
	return Resolution{
		Permissions: scope.ExpandPermissions(scopeIDs),
		Impact:      scope.AggregateImpact(scopeIDs),
	}
}

func validateDraft(d Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRole)
	}
	if len(d.Scopes) == 0 {
		return fmt.Errorf("%w: at least one scope is required", ErrInvalidRole)
	}
	for _, id := range d.Scopes {
		if _, ok := scope.Get(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownScope, id)
		}
	}
	return nil
}

func deriveID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
