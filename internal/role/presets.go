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

package role

// Predefined role IDs. Seeded at startup and immutable afterwards.
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleSupport   = "support"
	RoleViewer    = "viewer"
)

// Predefined returns the roles seeded at process start. Creating a role from
// one of these copies its scope set; it does not merge with a prior selection.
func Predefined() []*Role {
	return []*Role{
		{
			ID:          RoleAdmin,
			Name:        "Administrator",
			Description: "Full access to every resource, including destructive operations",
			Scopes: []string{
				"user.read", "user.write", "user.ban", "user.delete",
				"license.read", "license.create", "license.write", "license.ban", "license.delete",
				"session.read", "session.kill",
				"subscription.read", "subscription.write", "subscription.delete",
				"log.read", "log.delete",
				"global.settings", "global.webhooks",
			},
			IsDefault: true,
			IsSystem:  true,
		},
		{
			ID:          RoleDeveloper,
			Name:        "Developer",
			Description: "Create and manage licenses and users for development work",
			Scopes: []string{
				"user.read", "user.write",
				"license.read", "license.create", "license.write",
				"session.read",
				"log.read",
			},
			IsSystem: true,
		},
		{
			ID:          RoleSupport,
			Name:        "Support",
			Description: "Handle user issues: inspect accounts, ban abusers, kill sessions",
			Scopes: []string{
				"user.read", "user.ban",
				"license.read",
				"session.read", "session.kill",
				"log.read",
			},
			IsSystem: true,
		},
		{
			ID:          RoleViewer,
			Name:        "Viewer",
			Description: "Read-only access across the dashboard",
			Scopes: []string{
				"user.read",
				"license.read",
				"session.read",
				"subscription.read",
				"log.read",
			},
			IsSystem: true,
		},
	}
}
