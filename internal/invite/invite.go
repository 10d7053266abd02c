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

// Package invite manages tenant membership invitations.
//
// Lifecycle: pending -> accepted | declined | expired. Every state except
// pending is terminal. Expiry is evaluated lazily against ExpiresAt at query
// and transition time; no background timer flips the status. Cancellation is
// not a state: a cancelled invite is removed.
package invite

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteExpired  = errors.New("invite has expired")
	ErrNotPending     = errors.New("invite is not pending")
	ErrNotInviter     = errors.New("only the inviter may cancel an invite")
)

// Status values
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusExpired  = "expired"
)

// Invite is an offer of a role in a tenant, addressed to an email.
type Invite struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	RoleID    string    `json:"role_id"`
	Token     string    `json:"token,omitempty"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EffectiveStatus reports the status with lazy expiry applied: a pending
// invite whose deadline passed reads as expired even though the stored row
// still says pending.
func (i *Invite) EffectiveStatus(now time.Time) string {
	if i.Status == StatusPending && now.After(i.ExpiresAt) {
		return StatusExpired
	}
	return i.Status
}

// Actionable reports whether accept/decline are still valid.
func (i *Invite) Actionable(now time.Time) bool {
	return i.EffectiveStatus(now) == StatusPending
}

// Repository defines the interface for invite storage
type Repository interface {
	Create(ctx context.Context, inv *Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	GetByToken(ctx context.Context, token string) (*Invite, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	ListByTenant(ctx context.Context, tenantID string) ([]*Invite, error)
	ListByEmail(ctx context.Context, email string) ([]*Invite, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*Invite, error)
}
