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

package invite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/audit"
	"github.com/keygate/keygate/internal/member"
)

// DefaultTTL is how long a new invite stays actionable.
const DefaultTTL = 7 * 24 * time.Hour

// Granter creates the tenant binding when an invite is accepted.
// *member.Service satisfies it.
type Granter interface {
	Grant(ctx context.Context, tenantID, userID, roleID, grantedBy string) (*member.Binding, error)
}

// Service provides invite lifecycle business logic
type Service struct {
	repo        Repository
	granter     Granter
	auditLogger audit.Logger
	ttl         time.Duration
	now         func() time.Time
}

// NewService creates a new invite service
func NewService(repo Repository, granter Granter, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		granter:     granter,
		auditLogger: auditLogger,
		ttl:         DefaultTTL,
		now:         time.Now,
	}
}

// WithTTL overrides the invite lifetime. Zero or negative keeps the default.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// WithClock overrides the time source. Tests use it to drive expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create issues a pending invite for a role in a tenant.
func (s *Service) Create(ctx context.Context, tenantID, email, roleID, createdBy string) (*Invite, error) {
	if tenantID == "" || email == "" || roleID == "" {
		return nil, fmt.Errorf("tenant_id, email and role_id are required")
	}

	now := s.now()
	inv := &Invite{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TenantID:  tenantID,
		Email:     email,
		RoleID:    roleID,
		Token:     uuid.NewString(),
		Status:    StatusPending,
		CreatedBy: createdBy,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeInviteCreated,
		TenantID: tenantID,
		ActorID:  createdBy,
		Resource: roleID,
		Metadata: map[string]any{"email": email, "invite_id": inv.ID},
	})

	return inv, nil
}

// Accept transitions a pending invite to accepted and grants the invited
// role to the accepting user. An expired pending invite is not actionable.
func (s *Service) Accept(ctx context.Context, token, userID string) (*Invite, error) {
	inv, err := s.transition(ctx, token, StatusAccepted)
	if err != nil {
		return nil, err
	}

	if _, err := s.granter.Grant(ctx, inv.TenantID, userID, inv.RoleID, inv.CreatedBy); err != nil {
		// The user may already hold a role in this tenant; the acceptance
		// itself still stands. The granter may return the sentinel wrapped.
		if !errors.Is(err, member.ErrBindingExists) {
			return nil, fmt.Errorf("failed to grant invited role: %w", err)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeInviteAccepted,
		TenantID: inv.TenantID,
		ActorID:  userID,
		Resource: inv.RoleID,
		Metadata: map[string]any{"invite_id": inv.ID},
	})

	return inv, nil
}

// Decline transitions a pending invite to declined.
func (s *Service) Decline(ctx context.Context, token, userID string) (*Invite, error) {
	inv, err := s.transition(ctx, token, StatusDeclined)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeInviteDeclined,
		TenantID: inv.TenantID,
		ActorID:  userID,
		Metadata: map[string]any{"invite_id": inv.ID},
	})

	return inv, nil
}

// Cancel removes a pending invite. Only the inviter may cancel, and a
// cancelled invite leaves no terminal record.
func (s *Service) Cancel(ctx context.Context, id, actorID string) error {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.CreatedBy != actorID {
		return ErrNotInviter
	}
	if inv.EffectiveStatus(s.now()) != StatusPending {
		return ErrNotPending
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel invite: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeInviteCancelled,
		TenantID: inv.TenantID,
		ActorID:  actorID,
		Metadata: map[string]any{"invite_id": inv.ID},
	})

	return nil
}

// Pending lists a tenant's invites that are still actionable.
func (s *Service) Pending(ctx context.Context, tenantID string) ([]*Invite, error) {
	invites, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}

	now := s.now()
	pending := make([]*Invite, 0, len(invites))
	for _, inv := range invites {
		if inv.Actionable(now) {
			pending = append(pending, inv)
		}
	}
	return pending, nil
}

// Sent lists invites created by a user, with lazy expiry applied.
func (s *Service) Sent(ctx context.Context, creatorID string) ([]*Invite, error) {
	invites, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent invites: %w", err)
	}
	return s.applyExpiry(invites), nil
}

// Received lists invites addressed to an email, with lazy expiry applied.
func (s *Service) Received(ctx context.Context, email string) ([]*Invite, error) {
	invites, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list received invites: %w", err)
	}
	return s.applyExpiry(invites), nil
}

func (s *Service) applyExpiry(invites []*Invite) []*Invite {
	now := s.now()
	for _, inv := range invites {
		inv.Status = inv.EffectiveStatus(now)
	}
	return invites
}

func (s *Service) transition(ctx context.Context, token, to string) (*Invite, error) {
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch inv.EffectiveStatus(now) {
	case StatusPending:
		// actionable
	case StatusExpired:
		// Persist the lazy expiry so later reads agree.
		_ = s.repo.UpdateStatus(ctx, inv.ID, StatusExpired)
		return nil, ErrInviteExpired
	default:
		return nil, ErrNotPending
	}

	if err := s.repo.UpdateStatus(ctx, inv.ID, to); err != nil {
		return nil, fmt.Errorf("failed to update invite: %w", err)
	}
	inv.Status = to
	return inv, nil
}
