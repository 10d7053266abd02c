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

// Package template implements the visual permission builder: a flat
// resource -> level selection with named presets and advisory conflict rules.
// The flat model is a view over the canonical scope catalog; Scopes projects
// a selection onto catalog scope ids for the resolver.
package template

// Level is the flat access tier the visual builder assigns per resource.
type Level string

const (
	LevelNone  Level = "none"
	LevelView  Level = "view"
	LevelEdit  Level = "edit"
	LevelAdmin Level = "admin"
)

// rank orders levels for at-least comparisons in conflict rules.
var rank = map[Level]int{
	LevelNone:  0,
	LevelView:  1,
	LevelEdit:  2,
	LevelAdmin: 3,
}

// AtLeast reports whether l grants at least the given tier.
func (l Level) AtLeast(min Level) bool {
	return rank[l] >= rank[min]
}

// Selection maps resource ids to their assigned level. Resources absent from
// the map count as none.
type Selection map[string]Level

// Level returns the resource's level, defaulting to none.
func (s Selection) Level(resource string) Level {
	if l, ok := s[resource]; ok {
		return l
	}
	return LevelNone
}

// Clone copies the selection so editors can mutate without aliasing.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Builder resources. These are the rows the visual editor shows.
const (
	ResourceApp1      = "app_1"
	ResourceApp2      = "app_2"
	ResourceApp3      = "app_3"
	ResourceBilling   = "billing"
	ResourceTeam      = "team"
	ResourceAnalytics = "analytics"
)

// AppResources are the application rows; conflict rules treat them as both
// the edit-capable set and the monitored admin set.
var AppResources = []string{ResourceApp1, ResourceApp2, ResourceApp3}
