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

// Package scope holds the immutable scope catalog and the resolver that
// expands scope sets into effective API permissions.
package scope

// Category groups scopes by the resource they govern.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Scope is a named bundle of low-level API permissions. Permissions are never
// assigned directly; roles reference scopes and the resolver expands them.
type Scope struct {
	ID          string      `json:"id"` // dotted "<resource>.<verb>", unique
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Impact      ImpactLevel `json:"impact"`
	Permissions []string    `json:"permissions"` // non-empty
}

// Categories partitions the catalog. Order here is display order.
var Categories = []Category{
	{ID: "user", Name: "Users", Description: "End-user accounts registered against an application"},
	{ID: "license", Name: "Licenses", Description: "License keys and their lifecycle"},
	{ID: "session", Name: "Sessions", Description: "Active end-user sessions"},
	{ID: "subscription", Name: "Subscriptions", Description: "Subscription plans and billing state"},
	{ID: "log", Name: "Logs", Description: "Activity and audit log entries"},
	{ID: "global", Name: "Global", Description: "Application-wide settings and integrations"},
}

// Catalog is the full scope set, seeded at compile time. Insertion order is
// the canonical catalog order used by ByCategory.
var Catalog = []Scope{
	{
		ID:          "user.read",
		Name:        "Read users",
		Description: "List and inspect end-user accounts",
		Category:    "user",
		Impact:      ImpactLow,
		Permissions: []string{"user.retrieve_all"},
	},
	{
		ID:          "user.write",
		Name:        "Manage users",
		Description: "Update user accounts and their variables",
		Category:    "user",
		Impact:      ImpactMedium,
		Permissions: []string{"user.update", "user.set_var"},
	},
	{
		ID:          "user.ban",
		Name:        "Ban users",
		Description: "Ban and unban user accounts",
		Category:    "user",
		Impact:      ImpactHigh,
		Permissions: []string{"user.ban", "user.unban"},
	},
	{
		ID:          "user.delete",
		Name:        "Delete users",
		Description: "Delete individual users or wipe all users",
		Category:    "user",
		Impact:      ImpactCritical,
		Permissions: []string{"user.delete", "user.delete_all"},
	},
	{
		ID:          "license.read",
		Name:        "Read licenses",
		Description: "List license keys and verify their status",
		Category:    "license",
		Impact:      ImpactLow,
		Permissions: []string{"license.retrieve_all", "license.verify"},
	},
	{
		ID:          "license.create",
		Name:        "Create licenses",
		Description: "Generate single or bulk license keys",
		Category:    "license",
		Impact:      ImpactMedium,
		Permissions: []string{"license.create", "license.create_bulk"},
	},
	{
		ID:          "license.write",
		Name:        "Manage licenses",
		Description: "Edit, extend and assign existing license keys",
		Category:    "license",
		Impact:      ImpactMedium,
		Permissions: []string{"license.update", "license.add_time", "license.assign"},
	},
	{
		ID:          "license.ban",
		Name:        "Ban licenses",
		Description: "Ban and unban license keys",
		Category:    "license",
		Impact:      ImpactHigh,
		Permissions: []string{"license.ban", "license.unban"},
	},
	{
		ID:          "license.delete",
		Name:        "Delete licenses",
		Description: "Delete individual keys or wipe all keys",
		Category:    "license",
		Impact:      ImpactCritical,
		Permissions: []string{"license.delete", "license.delete_all"},
	},
	{
		ID:          "session.read",
		Name:        "Read sessions",
		Description: "List active end-user sessions",
		Category:    "session",
		Impact:      ImpactLow,
		Permissions: []string{"session.retrieve_all"},
	},
	{
		ID:          "session.kill",
		Name:        "Kill sessions",
		Description: "Terminate individual sessions or all sessions",
		Category:    "session",
		Impact:      ImpactHigh,
		Permissions: []string{"session.kill", "session.kill_all"},
	},
	{
		ID:          "subscription.read",
		Name:        "Read subscriptions",
		Description: "List subscription plans and billing state",
		Category:    "subscription",
		Impact:      ImpactLow,
		Permissions: []string{"subscription.retrieve_all"},
	},
	{
		ID:          "subscription.write",
		Name:        "Manage subscriptions",
		Description: "Create and extend subscription plans",
		Category:    "subscription",
		Impact:      ImpactMedium,
		Permissions: []string{"subscription.create", "subscription.extend"},
	},
	{
		ID:          "subscription.delete",
		Name:        "Delete subscriptions",
		Description: "Delete subscription plans or wipe all plans",
		Category:    "subscription",
		Impact:      ImpactCritical,
		Permissions: []string{"subscription.delete", "subscription.delete_all"},
	},
	{
		ID:          "log.read",
		Name:        "Read logs",
		Description: "List activity log entries",
		Category:    "log",
		Impact:      ImpactLow,
		Permissions: []string{"log.retrieve_all"},
	},
	{
		ID:          "log.delete",
		Name:        "Purge logs",
		Description: "Delete activity log history",
		Category:    "log",
		Impact:      ImpactHigh,
		Permissions: []string{"log.delete_all"},
	},
	{
		ID:          "global.settings",
		Name:        "Application settings",
		Description: "Change application settings and rotate secrets",
		Category:    "global",
		Impact:      ImpactCritical,
		Permissions: []string{"global.update_settings", "global.rotate_secret"},
	},
	{
		ID:          "global.webhooks",
		Name:        "Webhooks",
		Description: "Manage outbound webhook integrations",
		Category:    "global",
		Impact:      ImpactHigh,
		Permissions: []string{"global.manage_webhooks"},
	},
}

var catalogIndex = buildIndex()

func buildIndex() map[string]*Scope {
	idx := make(map[string]*Scope, len(Catalog))
	for i := range Catalog {
		idx[Catalog[i].ID] = &Catalog[i]
	}
	return idx
}

// Get looks up a scope by id. Unknown ids report ok=false; callers degrade by
// displaying the raw id rather than failing.
func Get(id string) (Scope, bool) {
	s, ok := catalogIndex[id]
	if !ok {
		return Scope{}, false
	}
	return *s, true
}

// ByCategory groups the catalog by category id, preserving catalog order
// within each group.
func ByCategory() map[string][]Scope {
	grouped := make(map[string][]Scope, len(Categories))
	for _, s := range Catalog {
		grouped[s.Category] = append(grouped[s.Category], s)
	}
	return grouped
}

// ByImpact returns the scopes whose impact matches level exactly.
func ByImpact(level ImpactLevel) []Scope {
	var out []Scope
	for _, s := range Catalog {
		if s.Impact == level {
			out = append(out, s)
		}
	}
	return out
}
