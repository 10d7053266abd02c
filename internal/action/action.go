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

// Package action defines the dashboard's bulk operations as a closed set of
// tagged variants. Each kind carries its own display metadata and the
// permission it requires, so authorization is a single table lookup instead
// of string-matched conditionals at every call site.
package action

import (
	"errors"

	"github.com/keygate/keygate/internal/scope"
)

var ErrUnknownAction = errors.New("unknown action")

// Kind identifies one bulk operation.
type Kind string

const (
	KindAddTime        Kind = "add_time"
	KindCreateLicense  Kind = "create_license"
	KindBanSelected    Kind = "ban_selected"
	KindUnbanSelected  Kind = "unban_selected"
	KindDeleteSelected Kind = "delete_selected"
	KindKillSessions   Kind = "kill_sessions"
	KindExportLogs     Kind = "export_logs"
)

// Action bundles a kind with its display metadata and required permission.
type Action struct {
	Kind               Kind   `json:"kind"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Destructive        bool   `json:"destructive,omitempty"`
	RequiredPermission string `json:"required_permission"`
}

// Catalog lists every bulk action, in display order.
var Catalog = []Action{
	{
		Kind:               KindAddTime,
		Name:               "Add time",
		Description:        "Extend the duration of the selected licenses",
		RequiredPermission: "license.add_time",
	},
	{
		Kind:               KindCreateLicense,
		Name:               "Create licenses",
		Description:        "Generate new license keys in bulk",
		RequiredPermission: "license.create_bulk",
	},
	{
		Kind:               KindBanSelected,
		Name:               "Ban selected",
		Description:        "Ban the selected license keys",
		RequiredPermission: "license.ban",
	},
	{
		Kind:               KindUnbanSelected,
		Name:               "Unban selected",
		Description:        "Lift the ban on the selected license keys",
		RequiredPermission: "license.unban",
	},
	{
		Kind:               KindDeleteSelected,
		Name:               "Delete selected",
		Description:        "Permanently delete the selected license keys",
		Destructive:        true,
		RequiredPermission: "license.delete_all",
	},
	{
		Kind:               KindKillSessions,
		Name:               "Kill sessions",
		Description:        "Terminate every session of the selected users",
		Destructive:        true,
		RequiredPermission: "session.kill_all",
	},
	{
		Kind:               KindExportLogs,
		Name:               "Export logs",
		Description:        "Export the activity log for the selected entries",
		RequiredPermission: "log.retrieve_all",
	},
}

// Find returns the action for a kind.
func Find(kind Kind) (Action, bool) {
	for _, a := range Catalog {
		if a.Kind == kind {
			return a, true
		}
	}
	return Action{}, false
}

// Authorize reports whether a scope set grants the permission an action
// requires. Unknown kinds fail closed.
func Authorize(kind Kind, scopeIDs []string) (bool, error) {
	a, ok := Find(kind)
	if !ok {
		return false, ErrUnknownAction
	}
	return scope.HasPermission(scopeIDs, a.RequiredPermission), nil
}
