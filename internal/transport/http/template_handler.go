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
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keygate/keygate/internal/audit"
	"github.com/keygate/keygate/internal/template"
)

// ListTemplates lists permission builder templates
// @Summary List templates
// @Description Lists the built-in permission templates in display order
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /templates [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"templates": template.Templates,
		"total":     len(template.Templates),
	})
}

// ApplyTemplate applies a template to a selection
// @Summary Apply template
// @Description Returns the template's selection. Application is a full replacement; the caller's current selection is discarded.
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param templateID path string true "Template ID"
// @Param request body object false "Current selection (ignored)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /templates/{templateID}/apply [post]
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selection template.Selection `json:"selection"`
	}
	// Body is optional; apply replaces whatever was selected.
	_ = json.NewDecoder(r.Body).Decode(&req)

	sel, err := template.Apply(chi.URLParam(r, "templateID"), req.Selection)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			respondError(w, http.StatusNotFound, "template not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to apply template")
		return
	}

	perms, impact := template.Resolve(sel)

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeTemplateApplied,
		TenantID: GetTenantID(r.Context()),
		ActorID:  GetUserID(r.Context()),
		Resource: chi.URLParam(r, "templateID"),
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"selection":   sel,
		"permissions": perms,
		"impact":      impact.String(),
	})
}

// DetectTemplate reports which template a selection matches
// @Summary Detect template
// @Description Reports the first template exactly matching the selection, or "custom"
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Selection"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /templates/detect [post]
func (h *Handler) DetectTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selection template.Selection `json:"selection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"template_id": template.DetectActive(req.Selection),
	})
}

// DetectConflicts reports advisory conflicts for a selection
// @Summary Detect conflicts
// @Description Evaluates the selection against the conflict rules. Conflicts are advisory and never block saving.
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Selection"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /templates/conflicts [post]
func (h *Handler) DetectConflicts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selection template.Selection `json:"selection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conflicts := template.DetectConflicts(req.Selection)
	if conflicts == nil {
		conflicts = []template.Conflict{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"conflicts": conflicts,
		"total":     len(conflicts),
	})
}
