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

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keygate/keygate/internal/member"
	"github.com/keygate/keygate/internal/observability/logger"
	"github.com/keygate/keygate/internal/role"
)

// ListMembers lists a tenant's members
// @Summary List members
// @Description Lists a tenant's role bindings, optionally filtered by role
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param role query string false "Role ID filter"
// @Success 200 {object} map[string]interface{}
// @Router /tenants/{tenantID}/members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	bindings, err := h.memberService.ListMembers(r.Context(), tenantID, r.URL.Query().Get("role"))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list members",
			logger.TenantID(tenantID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"members": bindings,
		"total":   len(bindings),
	})
}

// GrantMember grants a user a role in a tenant
// @Summary Grant membership
// @Description Creates the single binding a user may hold in a tenant
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param request body object true "User and role"
// @Success 201 {object} member.Binding
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tenants/{tenantID}/members [post]
func (h *Handler) GrantMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		RoleID string `json:"role_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.RoleID == "" {
		respondError(w, http.StatusBadRequest, "user_id and role_id are required")
		return
	}

	if _, err := h.roleService.Get(r.Context(), req.RoleID); err != nil {
		respondMemberError(w, r, err, "failed to grant membership")
		return
	}

	tenantID := chi.URLParam(r, "tenantID")
	binding, err := h.memberService.Grant(r.Context(), tenantID, req.UserID, req.RoleID, GetUserID(r.Context()))
	if err != nil {
		respondMemberError(w, r, err, "failed to grant membership")
		return
	}

	respondJSON(w, http.StatusCreated, binding)
}

// UpdateMemberRole changes a member's role
// @Summary Update member role
// @Description Replaces the role on an existing binding
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param userID path string true "User ID"
// @Param request body object true "New role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenants/{tenantID}/members/{userID} [put]
func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoleID string `json:"role_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RoleID == "" {
		respondError(w, http.StatusBadRequest, "role_id is required")
		return
	}

	if _, err := h.roleService.Get(r.Context(), req.RoleID); err != nil {
		respondMemberError(w, r, err, "failed to update member role")
		return
	}

	tenantID := chi.URLParam(r, "tenantID")
	userID := chi.URLParam(r, "userID")
	if err := h.memberService.UpdateRole(r.Context(), tenantID, userID, req.RoleID, GetUserID(r.Context())); err != nil {
		respondMemberError(w, r, err, "failed to update member role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevokeMember removes a member from a tenant
// @Summary Revoke membership
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param userID path string true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /tenants/{tenantID}/members/{userID} [delete]
func (h *Handler) RevokeMember(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	userID := chi.URLParam(r, "userID")

	if err := h.memberService.Revoke(r.Context(), tenantID, userID, GetUserID(r.Context())); err != nil {
		respondMemberError(w, r, err, "failed to revoke membership")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSystemRole returns a user's platform-wide system role
// @Summary Get system role
// @Description Returns the user's system role, or null when none is set. System roles are a separate axis from tenant bindings.
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userID}/system-role [get]
func (h *Handler) GetSystemRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	roleID, err := h.memberService.SystemRole(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to get system role",
			logger.UserID(userID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to get system role")
		return
	}

	var out *string
	if roleID != "" {
		out = &roleID
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":     userID,
		"system_role": out,
	})
}

// SetSystemRole sets a user's platform-wide system role
// @Summary Set system role
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param request body object true "Role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Router /users/{userID}/system-role [put]
func (h *Handler) SetSystemRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoleID string `json:"role_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.roleService.Get(r.Context(), req.RoleID); err != nil {
		respondMemberError(w, r, err, "failed to set system role")
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.memberService.SetSystemRole(r.Context(), userID, req.RoleID, GetUserID(r.Context())); err != nil {
		respondMemberError(w, r, err, "failed to set system role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearSystemRole removes a user's platform-wide system role
// @Summary Clear system role
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 204 "No Content"
// @Router /users/{userID}/system-role [delete]
func (h *Handler) ClearSystemRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.memberService.ClearSystemRole(r.Context(), userID, GetUserID(r.Context())); err != nil {
		respondMemberError(w, r, err, "failed to clear system role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondMemberError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, member.ErrBindingExists):
		respondError(w, http.StatusConflict, "user is already a member of this tenant")
	case errors.Is(err, member.ErrBindingNotFound):
		respondError(w, http.StatusNotFound, "membership not found")
	case errors.Is(err, role.ErrRoleNotFound):
		respondError(w, http.StatusBadRequest, "unknown role")
	default:
		slog.ErrorContext(r.Context(), fallback, logger.Error(err))
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
