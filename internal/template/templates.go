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

package template

// Template is a named preset the builder applies in one click. Applying a
// template REPLACES the whole selection; resources a template sets to none
// end up at none regardless of what was selected before.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Selection   Selection `json:"selection"`
}

// CustomTemplateID is reported when no template matches a selection exactly.
const CustomTemplateID = "custom"

// Templates in declaration order. DetectActive scans in this order and the
// first exact match wins.
var Templates = []Template{
	{
		ID:          "developer",
		Name:        "Developer",
		Description: "Edit access to applications with read-only billing",
		Selection: Selection{
			ResourceApp1:      LevelEdit,
			ResourceApp2:      LevelEdit,
			ResourceApp3:      LevelNone,
			ResourceBilling:   LevelView,
			ResourceTeam:      LevelView,
			ResourceAnalytics: LevelView,
		},
	},
	{
		ID:          "support",
		Name:        "Support",
		Description: "Read-only access for handling user tickets",
		Selection: Selection{
			ResourceApp1:      LevelView,
			ResourceApp2:      LevelView,
			ResourceApp3:      LevelView,
			ResourceBilling:   LevelView,
			ResourceTeam:      LevelNone,
			ResourceAnalytics: LevelView,
		},
	},
	{
		ID:          "billing_manager",
		Name:        "Billing Manager",
		Description: "Full billing control without application access",
		Selection: Selection{
			ResourceApp1:      LevelNone,
			ResourceApp2:      LevelNone,
			ResourceApp3:      LevelNone,
			ResourceBilling:   LevelAdmin,
			ResourceTeam:      LevelView,
			ResourceAnalytics: LevelView,
		},
	},
	{
		ID:          "team_admin",
		Name:        "Team Admin",
		Description: "Manage the team and administer the primary application",
		Selection: Selection{
			ResourceApp1:      LevelAdmin,
			ResourceApp2:      LevelNone,
			ResourceApp3:      LevelNone,
			ResourceBilling:   LevelView,
			ResourceTeam:      LevelAdmin,
			ResourceAnalytics: LevelEdit,
		},
	},
	{
		ID:          "full_admin",
		Name:        "Full Admin",
		Description: "Administrator access to everything",
		Selection: Selection{
			ResourceApp1:      LevelAdmin,
			ResourceApp2:      LevelAdmin,
			ResourceApp3:      LevelAdmin,
			ResourceBilling:   LevelAdmin,
			ResourceTeam:      LevelAdmin,
			ResourceAnalytics: LevelAdmin,
		},
	},
}

// Find returns the template with the given id.
func Find(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
