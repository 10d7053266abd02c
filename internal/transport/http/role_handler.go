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

	"github.com/keygate/keygate/internal/observability/logger"
	"github.com/keygate/keygate/internal/role"
)

// ListRoles lists roles
// @Summary List roles
// @Description Lists all roles, optionally filtered by a case-insensitive name/description substring
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param q query string false "Substring filter"
// @Success 200 {object} map[string]interface{}
// @Router /roles [get]
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list roles", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list roles")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"roles": roles,
		"total": len(roles),
	})
}

// CreateRole creates a custom role
// @Summary Create role
// @Description Creates a custom role; the role ID is derived from the name
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body role.Draft true "Role draft"
// @Success 201 {object} role.Role
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /roles [post]
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var draft role.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.roleService.Create(r.Context(), draft, GetUserID(r.Context()))
	if err != nil {
		respondRoleError(w, r, err, "failed to create role")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetRole returns a role
// @Summary Get role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param roleID path string true "Role ID"
// @Success 200 {object} role.Role
// @Failure 404 {object} map[string]string
// @Router /roles/{roleID} [get]
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	found, err := h.roleService.Get(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondRoleError(w, r, err, "failed to get role")
		return
	}

	respondJSON(w, http.StatusOK, found)
}

// UpdateRole replaces a custom role's name, description and scopes
// @Summary Update role
// @Description Full replacement of the role draft. Predefined and system roles cannot be updated.
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roleID path string true "Role ID"
// @Param request body role.Draft true "Role draft"
// @Success 200 {object} role.Role
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /roles/{roleID} [put]
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var draft role.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.roleService.Update(r.Context(), chi.URLParam(r, "roleID"), draft, GetUserID(r.Context()))
	if err != nil {
		respondRoleError(w, r, err, "failed to update role")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteRole deletes a custom role and unassigns it from all members
// @Summary Delete role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param roleID path string true "Role ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /roles/{roleID} [delete]
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.roleService.Delete(r.Context(), chi.URLParam(r, "roleID"), GetUserID(r.Context())); err != nil {
		respondRoleError(w, r, err, "failed to delete role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResolveScopes resolves an ad hoc scope selection
// @Summary Resolve scopes
// @Description Expands a scope selection into its effective permission set and aggregate impact
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Scope IDs"
// @Success 200 {object} role.Resolution
// @Failure 400 {object} map[string]string
// @Router /roles/resolve [post]
func (h *Handler) ResolveScopes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scopes []string `json:"scopes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, role.Resolve(req.Scopes))
}

func respondRoleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, role.ErrRoleNotFound):
		respondError(w, http.StatusNotFound, "role not found")
	case errors.Is(err, role.ErrNotEditable):
		respondError(w, http.StatusForbidden, "predefined and system roles cannot be modified")
	case errors.Is(err, role.ErrInvalidRole), errors.Is(err, role.ErrUnknownScope):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, role.ErrRoleAlreadyExists):
		respondError(w, http.StatusConflict, "role already exists")
	default:
		slog.ErrorContext(r.Context(), fallback, logger.Error(err))
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
