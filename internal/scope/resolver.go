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

package scope

import "sort"

// ExpandPermissions returns the union of permissions granted by the given
// scope ids. Duplicate scope ids and duplicate permissions collapse; unknown
// scope ids are skipped. The result is sorted for stable output.
func ExpandPermissions(scopeIDs []string) []string {
	seen := make(map[string]struct{})
	for _, id := range scopeIDs {
		s, ok := Get(id)
		if !ok {
			continue
		}
		for _, p := range s.Permissions {
			seen[p] = struct{}{}
		}
	}

	perms := make([]string, 0, len(seen))
	for p := range seen {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}

// AggregateImpact reduces a scope set to its highest impact level. An empty
// or fully-unknown set reports the ImpactLow floor.
func AggregateImpact(scopeIDs []string) ImpactLevel {
	max := ImpactLow
	for _, id := range scopeIDs {
		s, ok := Get(id)
		if !ok {
			continue
		}
		if s.Impact > max {
			max = s.Impact
		}
	}
	return max
}

// HasPermission reports whether the scope set grants a specific permission.
func HasPermission(scopeIDs []string, permission string) bool {
	for _, id := range scopeIDs {
		s, ok := Get(id)
		if !ok {
			continue
		}
		for _, p := range s.Permissions {
			if p == permission {
				return true
			}
		}
	}
	return false
}
