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

import "fmt"

// ErrTemplateNotFound is returned when Apply is asked for an unknown preset.
var ErrTemplateNotFound = fmt.Errorf("template not found")

// Apply replaces the whole selection with the template's map. The previous
// selection does not survive: this is overwrite, not merge.
func Apply(templateID string, _ Selection) (Selection, error) {
	t, ok := Find(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	return t.Selection.Clone(), nil
}

// DetectActive returns the id of the template a selection exactly matches,
// or CustomTemplateID. Matching is bidirectional: every template entry must
// equal the selection's value for that resource, and the selection must not
// carry a non-none level for any resource outside the template's keys.
// Templates are scanned in declaration order; the first full match wins.
func DetectActive(sel Selection) string {
	for _, t := range Templates {
		if matches(t.Selection, sel) {
			return t.ID
		}
	}
	return CustomTemplateID
}

func matches(tpl, sel Selection) bool {
	for resource, level := range tpl {
		if sel.Level(resource) != level {
			return false
		}
	}
	for resource, level := range sel {
		if _, ok := tpl[resource]; !ok && level != LevelNone {
			return false
		}
	}
	return true
}

// Conflict is an advisory finding over a selection. Conflicts never block a
// save; the editor surfaces them inline.
type Conflict struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// conflictRule evaluates one declarative check against a whole selection.
type conflictRule struct {
	id      string
	message string
	applies func(Selection) bool
}

// Rules in evaluation order. Every matching rule surfaces.
var conflictRules = []conflictRule{
	{
		id:      "edit_without_billing",
		message: "Users with edit access to apps should have at least view access to billing",
		applies: func(s Selection) bool {
			if s.Level(ResourceBilling) != LevelNone {
				return false
			}
			for _, app := range AppResources {
				if s.Level(app).AtLeast(LevelEdit) {
					return true
				}
			}
			return false
		},
	},
	{
		id:      "team_admin_without_app",
		message: "Team admins typically need admin access to at least one app",
		applies: func(s Selection) bool {
			if s.Level(ResourceTeam) != LevelAdmin {
				return false
			}
			for _, app := range AppResources {
				if s.Level(app) == LevelAdmin {
					return false
				}
			}
			return true
		},
	},
}

// DetectConflicts evaluates every rule against the selection, in rule order.
func DetectConflicts(sel Selection) []Conflict {
	var out []Conflict
	for _, r := range conflictRules {
		if r.applies(sel) {
			out = append(out, Conflict{Rule: r.id, Message: r.message})
		}
	}
	return out
}
