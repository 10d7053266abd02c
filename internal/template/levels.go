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

import (
	"sort"

	"github.com/keygate/keygate/internal/scope"
)

// levelScopes maps each builder resource and level to catalog scope ids.
// Tiers are cumulative: edit includes view's scopes, admin includes edit's.
// This table is what makes the flat builder a view over the scope catalog
// instead of a second, independent access-control model.
var levelScopes = map[string]map[Level][]string{
	ResourceBilling: {
		LevelView:  {"subscription.read"},
		LevelEdit:  {"subscription.read", "subscription.write"},
		LevelAdmin: {"subscription.read", "subscription.write", "subscription.delete"},
	},
	ResourceTeam: {
		LevelView:  {"user.read"},
		LevelEdit:  {"user.read", "user.write"},
		LevelAdmin: {"user.read", "user.write", "user.ban", "user.delete"},
	},
	ResourceAnalytics: {
		LevelView:  {"log.read"},
		LevelEdit:  {"log.read"},
		LevelAdmin: {"log.read", "log.delete"},
	},
}

// appLevelScopes applies to every application resource.
var appLevelScopes = map[Level][]string{
	LevelView:  {"license.read", "session.read"},
	LevelEdit:  {"license.read", "session.read", "license.create", "license.write"},
	LevelAdmin: {"license.read", "session.read", "license.create", "license.write", "license.ban", "license.delete", "session.kill"},
}

func scopesFor(resource string, level Level) []string {
	if level == LevelNone {
		return nil
	}
	if m, ok := levelScopes[resource]; ok {
		return m[level]
	}
	for _, app := range AppResources {
		if resource == app {
			return appLevelScopes[level]
		}
	}
	return nil
}

// Scopes projects a selection onto catalog scope ids, deduplicated and
// sorted. The result feeds the permission resolver directly.
func Scopes(sel Selection) []string {
	seen := make(map[string]struct{})
	for resource, level := range sel {
		for _, id := range scopesFor(resource, level) {
			seen[id] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Resolve expands a selection to its effective permissions and aggregate
// impact through the scope catalog.
func Resolve(sel Selection) ([]string, scope.ImpactLevel) {
	ids := Scopes(sel)
	return scope.ExpandPermissions(ids), scope.AggregateImpact(ids)
}
