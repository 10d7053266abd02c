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

// ImpactLevel ranks the blast radius of a scope. The order is total and is
// used for max-reduce aggregation across a scope set.
type ImpactLevel int

const (
	ImpactLow ImpactLevel = iota
	ImpactMedium
	ImpactHigh
	ImpactCritical
)

var impactNames = map[ImpactLevel]string{
	ImpactLow:      "low",
	ImpactMedium:   "medium",
	ImpactHigh:     "high",
	ImpactCritical: "critical",
}

func (l ImpactLevel) String() string {
	if name, ok := impactNames[l]; ok {
		return name
	}
	return "low"
}

// MarshalText makes impact levels render as their names in JSON payloads.
func (l ImpactLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses an impact level name. Unknown names map to the low
// floor rather than failing, matching how unknown catalog entries degrade.
func (l *ImpactLevel) UnmarshalText(text []byte) error {
	*l = ParseImpact(string(text))
	return nil
}

// ParseImpact maps a level name to its ImpactLevel. Unknown names yield the
// ImpactLow floor.
func ParseImpact(name string) ImpactLevel {
	for level, n := range impactNames {
		if n == name {
			return level
		}
	}
	return ImpactLow
}
