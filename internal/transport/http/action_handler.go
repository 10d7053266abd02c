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
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keygate/keygate/internal/action"
	"github.com/keygate/keygate/internal/audit"
	"github.com/keygate/keygate/internal/member"
	"github.com/keygate/keygate/internal/observability/logger"
)

// ListActions lists the bulk action catalog
// @Summary List actions
// @Description Lists every bulk action with its required permission
// @Tags Actions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /actions [get]
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"actions": action.Catalog,
		"total":   len(action.Catalog),
	})
}

// AuthorizeAction checks whether the caller may run a bulk action
// @Summary Authorize action
// @Description Evaluates the action's required permission against the caller's effective role in the token tenant. Unknown actions and callers without a binding are denied.
// @Tags Actions
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Action kind"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /actions/{kind}/authorize [post]
func (h *Handler) AuthorizeAction(w http.ResponseWriter, r *http.Request) {
	kind := action.Kind(chi.URLParam(r, "kind"))
	userID := GetUserID(r.Context())
	tenantID := GetTenantID(r.Context())

	act, ok := action.Find(kind)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown action")
		return
	}

	var scopes []string
	roleID, err := h.memberService.EffectiveRole(r.Context(), userID, tenantID)
	switch {
	case err == nil:
		effective, rerr := h.roleService.Get(r.Context(), roleID)
		if rerr != nil {
			slog.ErrorContext(r.Context(), "failed to resolve effective role",
				logger.UserID(userID), logger.TenantID(tenantID), logger.Error(rerr))
			respondError(w, http.StatusInternalServerError, "failed to authorize action")
			return
		}
		scopes = effective.Scopes
	case errors.Is(err, member.ErrBindingNotFound):
		// No binding in this tenant: evaluate against the empty scope set,
		// which denies everything.
	default:
		slog.ErrorContext(r.Context(), "failed to resolve membership",
			logger.UserID(userID), logger.TenantID(tenantID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to authorize action")
		return
	}

	allowed, err := action.Authorize(kind, scopes)
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown action")
		return
	}

	if !allowed {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:     audit.TypeActionDenied,
			TenantID: tenantID,
			ActorID:  userID,
			Resource: string(kind),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"action":              act,
		"allowed":             allowed,
		"required_permission": act.RequiredPermission,
	})
}
