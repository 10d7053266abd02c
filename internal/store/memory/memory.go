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

// Package memory provides in-memory repository implementations. They back
// unit tests and the dev/offline store driver; production uses postgres.
package memory

import (
	"context"
	"sync"

	"github.com/keygate/keygate/internal/invite"
	"github.com/keygate/keygate/internal/member"
	"github.com/keygate/keygate/internal/role"
)

// RoleRepository implements role.Repository with a map plus an insertion
// order slice so List stays order-preserving.
type RoleRepository struct {
	mu    sync.RWMutex
	roles map[string]*role.Role
	order []string
}

// NewRoleRepository creates an empty in-memory role repository
func NewRoleRepository() *RoleRepository {
	return &RoleRepository{roles: make(map[string]*role.Role)}
}

func (r *RoleRepository) Create(ctx context.Context, rl *role.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.roles[rl.ID]; exists {
		return role.ErrRoleAlreadyExists
	}
	cp := *rl
	r.roles[rl.ID] = &cp
	r.order = append(r.order, rl.ID)
	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*role.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rl, ok := r.roles[id]
	if !ok {
		return nil, role.ErrRoleNotFound
	}
	cp := *rl
	return &cp, nil
}

func (r *RoleRepository) Update(ctx context.Context, rl *role.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[rl.ID]; !ok {
		return role.ErrRoleNotFound
	}
	cp := *rl
	r.roles[rl.ID] = &cp
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[id]; !ok {
		return role.ErrRoleNotFound
	}
	delete(r.roles, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*role.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*role.Role, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.roles[id]
		out = append(out, &cp)
	}
	return out, nil
}

// MemberRepository implements member.Repository with a per-tenant index.
type MemberRepository struct {
	mu          sync.RWMutex
	byTenant    map[string]map[string]*member.Binding // tenantID -> userID -> binding
	systemRoles map[string]string                     // userID -> roleID
}

// NewMemberRepository creates an empty in-memory binding repository
func NewMemberRepository() *MemberRepository {
	return &MemberRepository{
		byTenant:    make(map[string]map[string]*member.Binding),
		systemRoles: make(map[string]string),
	}
}

func (r *MemberRepository) Grant(ctx context.Context, b *member.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenant, ok := r.byTenant[b.TenantID]
	if !ok {
		tenant = make(map[string]*member.Binding)
		r.byTenant[b.TenantID] = tenant
	}
	if _, exists := tenant[b.UserID]; exists {
		return member.ErrBindingExists
	}
	cp := *b
	tenant[b.UserID] = &cp
	return nil
}

func (r *MemberRepository) UpdateRole(ctx context.Context, tenantID, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byTenant[tenantID][userID]
	if !ok {
		return member.ErrBindingNotFound
	}
	b.RoleID = roleID
	return nil
}

func (r *MemberRepository) Revoke(ctx context.Context, tenantID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byTenant[tenantID][userID]; !ok {
		return member.ErrBindingNotFound
	}
	delete(r.byTenant[tenantID], userID)
	return nil
}

func (r *MemberRepository) Get(ctx context.Context, tenantID, userID string) (*member.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byTenant[tenantID][userID]
	if !ok {
		return nil, member.ErrBindingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *MemberRepository) ListByTenant(ctx context.Context, tenantID string) ([]*member.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*member.Binding
	for _, b := range r.byTenant[tenantID] {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemberRepository) ListByUser(ctx context.Context, userID string) ([]*member.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*member.Binding
	for _, tenant := range r.byTenant {
		if b, ok := tenant[userID]; ok {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemberRepository) DeleteByRole(ctx context.Context, roleID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, tenant := range r.byTenant {
		for userID, b := range tenant {
			if b.RoleID == roleID {
				delete(tenant, userID)
				n++
			}
		}
	}
	for userID, rid := range r.systemRoles {
		if rid == roleID {
			delete(r.systemRoles, userID)
			n++
		}
	}
	return n, nil
}

func (r *MemberRepository) GetSystemRole(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.systemRoles[userID], nil
}

func (r *MemberRepository) SetSystemRole(ctx context.Context, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.systemRoles[userID] = roleID
	return nil
}

func (r *MemberRepository) ClearSystemRole(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.systemRoles, userID)
	return nil
}

// InviteRepository implements invite.Repository.
type InviteRepository struct {
	mu      sync.RWMutex
	invites map[string]*invite.Invite
	order   []string
}

// NewInviteRepository creates an empty in-memory invite repository
func NewInviteRepository() *InviteRepository {
	return &InviteRepository{invites: make(map[string]*invite.Invite)}
}

func (r *InviteRepository) Create(ctx context.Context, inv *invite.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *inv
	r.invites[inv.ID] = &cp
	r.order = append(r.order, inv.ID)
	return nil
}

func (r *InviteRepository) GetByID(ctx context.Context, id string) (*invite.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invites[id]
	if !ok {
		return nil, invite.ErrInviteNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *InviteRepository) GetByToken(ctx context.Context, token string) (*invite.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, inv := range r.invites {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, invite.ErrInviteNotFound
}

func (r *InviteRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.invites[id]
	if !ok {
		return invite.ErrInviteNotFound
	}
	inv.Status = status
	return nil
}

func (r *InviteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.invites[id]; !ok {
		return invite.ErrInviteNotFound
	}
	delete(r.invites, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InviteRepository) ListByTenant(ctx context.Context, tenantID string) ([]*invite.Invite, error) {
	return r.list(func(inv *invite.Invite) bool { return inv.TenantID == tenantID })
}

func (r *InviteRepository) ListByEmail(ctx context.Context, email string) ([]*invite.Invite, error) {
	return r.list(func(inv *invite.Invite) bool { return inv.Email == email })
}

func (r *InviteRepository) ListByCreator(ctx context.Context, creatorID string) ([]*invite.Invite, error) {
	return r.list(func(inv *invite.Invite) bool { return inv.CreatedBy == creatorID })
}

func (r *InviteRepository) list(match func(*invite.Invite) bool) ([]*invite.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*invite.Invite
	for _, id := range r.order {
		if inv, ok := r.invites[id]; ok && match(inv) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}
