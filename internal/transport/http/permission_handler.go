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
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/keygate/keygate/internal/scope"
)

// PermissionRecord is the API representation of a catalog scope. CreatedBy is
// null for every built-in entry; the field exists so clients render catalog
// and custom entries through the same table component.
type PermissionRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Resource    string   `json:"resource"`
	Action      string   `json:"action"`
	Category    string   `json:"category"`
	Impact      string   `json:"impact"`
	Permissions []string `json:"permissions"`
	CreatedBy   *string  `json:"created_by"`
}

func toPermissionRecord(s scope.Scope) PermissionRecord {
	resource, action, _ := strings.Cut(s.ID, ".")
	return PermissionRecord{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Resource:    resource,
		Action:      action,
		Category:    s.Category,
		Impact:      s.Impact.String(),
		Permissions: s.Permissions,
		CreatedBy:   nil,
	}
}

// ListPermissions returns the scope catalog
// @Summary List permissions
// @Description Returns every catalog scope, grouped by category in display order
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /permissions [get]
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	byCategory := scope.ByCategory()

	type categoryGroup struct {
		Category    scope.Category     `json:"category"`
		Permissions []PermissionRecord `json:"permissions"`
	}

	groups := make([]categoryGroup, 0, len(scope.Categories))
	total := 0
	for _, cat := range scope.Categories {
		scopes := byCategory[cat.ID]
		records := make([]PermissionRecord, 0, len(scopes))
		for _, s := range scopes {
			records = append(records, toPermissionRecord(s))
		}
		total += len(records)
		groups = append(groups, categoryGroup{Category: cat, Permissions: records})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"categories": groups,
		"total":      total,
	})
}

// GetPermission returns a single catalog scope
// @Summary Get permission
// @Description Returns one catalog scope by its dotted identifier
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Param permissionID path string true "Scope ID, e.g. license.delete"
// @Success 200 {object} PermissionRecord
// @Failure 404 {object} map[string]string
// @Router /permissions/{permissionID} [get]
func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "permissionID")

	s, ok := scope.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "permission not found")
		return
	}

	respondJSON(w, http.StatusOK, toPermissionRecord(s))
}
