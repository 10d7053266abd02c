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

	"github.com/keygate/keygate/internal/invite"
	"github.com/keygate/keygate/internal/member"
	"github.com/keygate/keygate/internal/observability/logger"
	"github.com/keygate/keygate/internal/role"
)

// ListPendingInvites lists the tenant's actionable invites
// @Summary List pending invites
// @Description Lists the token tenant's invites that are still pending and not past their deadline
// @Tags Invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /invites/pending [get]
func (h *Handler) ListPendingInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.inviteService.Pending(r.Context(), GetTenantID(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list pending invites", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list invites")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"invites": invites,
		"total":   len(invites),
	})
}

// ListSentInvites lists invites created by the caller
// @Summary List sent invites
// @Tags Invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /invites/sent [get]
func (h *Handler) ListSentInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.inviteService.Sent(r.Context(), GetUserID(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list sent invites", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list invites")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"invites": invites,
		"total":   len(invites),
	})
}

// ListReceivedInvites lists invites addressed to the caller's email
// @Summary List received invites
// @Tags Invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /invites/received [get]
func (h *Handler) ListReceivedInvites(w http.ResponseWriter, r *http.Request) {
	email := GetEmail(r.Context())
	if email == "" {
		respondError(w, http.StatusBadRequest, "token carries no email")
		return
	}

	invites, err := h.inviteService.Received(r.Context(), email)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list received invites", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list invites")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"invites": invites,
		"total":   len(invites),
	})
}

// CreateInvite invites an email address into the token tenant
// @Summary Create invite
// @Description Creates a pending invite with a fresh single-use token and a deadline
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Email and role"
// @Success 201 {object} invite.Invite
// @Failure 400 {object} map[string]string
// @Router /invites [post]
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		RoleID string `json:"role_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.RoleID == "" {
		respondError(w, http.StatusBadRequest, "email and role_id are required")
		return
	}
	if _, err := h.roleService.Get(r.Context(), req.RoleID); err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			respondError(w, http.StatusBadRequest, "unknown role")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create invite")
		return
	}

	created, err := h.inviteService.Create(r.Context(), GetTenantID(r.Context()), req.Email, req.RoleID, GetUserID(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create invite", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create invite")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// AcceptInvite accepts an invite by token
// @Summary Accept invite
// @Description Accepts a pending invite and grants the caller the invite's role in its tenant
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Invite token"
// @Success 200 {object} invite.Invite
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /invites/accept [post]
func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	accepted, err := h.inviteService.Accept(r.Context(), req.Token, GetUserID(r.Context()))
	if err != nil {
		respondInviteError(w, r, err, "failed to accept invite")
		return
	}

	respondJSON(w, http.StatusOK, accepted)
}

// DeclineInvite declines an invite by token
// @Summary Decline invite
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Invite token"
// @Success 200 {object} invite.Invite
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /invites/decline [post]
func (h *Handler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	declined, err := h.inviteService.Decline(r.Context(), req.Token, GetUserID(r.Context()))
	if err != nil {
		respondInviteError(w, r, err, "failed to decline invite")
		return
	}

	respondJSON(w, http.StatusOK, declined)
}

// CancelInvite cancels a pending invite
// @Summary Cancel invite
// @Description Deletes a pending invite. Only the user who created the invite may cancel it.
// @Tags Invites
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /invites/{inviteID} [delete]
func (h *Handler) CancelInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.inviteService.Cancel(r.Context(), chi.URLParam(r, "inviteID"), GetUserID(r.Context())); err != nil {
		respondInviteError(w, r, err, "failed to cancel invite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondInviteError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, invite.ErrInviteNotFound):
		respondError(w, http.StatusNotFound, "invite not found")
	case errors.Is(err, invite.ErrInviteExpired):
		respondError(w, http.StatusGone, "invite has expired")
	case errors.Is(err, invite.ErrNotPending):
		respondError(w, http.StatusConflict, "invite is no longer pending")
	case errors.Is(err, invite.ErrNotInviter):
		respondError(w, http.StatusForbidden, "only the inviter may cancel an invite")
	case errors.Is(err, member.ErrBindingExists):
		respondError(w, http.StatusConflict, "user is already a member of this tenant")
	default:
		slog.ErrorContext(r.Context(), fallback, logger.Error(err))
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
