package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Validates that every scope id in the catalog is globally unique
// and that every scope carries at least one permission and a known category.
// Scope: Unit Test
// Security: Catalog integrity underpins every permission decision
// Expected: No duplicate ids, no empty permission lists, no orphan categories.
// Test Case ID: SCP-01
func TestCatalog_Integrity(t *testing.T) {
	categories := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		categories[c.ID] = true
	}

	seen := make(map[string]bool, len(Catalog))
	for _, s := range Catalog {
		assert.False(t, seen[s.ID], "duplicate scope id %q", s.ID)
		seen[s.ID] = true

		assert.NotEmpty(t, s.Permissions, "scope %q has no permissions", s.ID)
		assert.True(t, categories[s.Category], "scope %q has unknown category %q", s.ID, s.Category)
	}
}

func TestGet_UnknownID(t *testing.T) {
	_, ok := Get("does.not_exist")
	assert.False(t, ok)
}

func TestByCategory_PreservesCatalogOrder(t *testing.T) {
	grouped := ByCategory()

	licenses := grouped["license"]
	require.NotEmpty(t, licenses)

	// Group order must match catalog declaration order.
	var fromCatalog []string
	for _, s := range Catalog {
		if s.Category == "license" {
			fromCatalog = append(fromCatalog, s.ID)
		}
	}
	var fromGroup []string
	for _, s := range licenses {
		fromGroup = append(fromGroup, s.ID)
	}
	assert.Equal(t, fromCatalog, fromGroup)
}

func TestByImpact_ExactMatch(t *testing.T) {
	for _, s := range ByImpact(ImpactCritical) {
		assert.Equal(t, ImpactCritical, s.Impact)
	}
	// Criticals exist in the seeded catalog.
	assert.NotEmpty(t, ByImpact(ImpactCritical))
}

// TestPurpose: Validates that impact aggregation is a strict max over the
// ordered levels with a Low floor for empty input.
// Scope: Unit Test
// Security: Understating aggregate impact would hide risky role definitions
// Expected: Max impact of the expanded set; empty set reports Low.
// Test Case ID: SCP-02
func TestAggregateImpact(t *testing.T) {
	assert.Equal(t, ImpactLow, AggregateImpact(nil))
	assert.Equal(t, ImpactLow, AggregateImpact([]string{}))
	assert.Equal(t, ImpactLow, AggregateImpact([]string{"subscription.read"}))
	assert.Equal(t, ImpactMedium, AggregateImpact([]string{"subscription.read", "license.create"}))
	assert.Equal(t, ImpactCritical, AggregateImpact([]string{"license.read", "license.delete", "user.write"}))

	// Unknown ids are skipped, not counted.
	assert.Equal(t, ImpactLow, AggregateImpact([]string{"bogus.scope"}))
}

func TestExpandPermissions_SetSemantics(t *testing.T) {
	perms := ExpandPermissions([]string{"subscription.read"})
	assert.Equal(t, []string{"subscription.retrieve_all"}, perms)

	// Duplicate scope ids must not change the result.
	withDupes := ExpandPermissions([]string{"license.read", "license.read", "user.ban", "license.read"})
	deduped := ExpandPermissions([]string{"license.read", "user.ban"})
	assert.Equal(t, deduped, withDupes)

	// Overlapping scopes collapse shared permissions.
	assert.Len(t, ExpandPermissions([]string{"user.ban", "user.ban"}), 2)
}

func TestHasPermission(t *testing.T) {
	scopes := []string{"license.read", "session.kill"}
	assert.True(t, HasPermission(scopes, "session.kill_all"))
	assert.True(t, HasPermission(scopes, "license.verify"))
	assert.False(t, HasPermission(scopes, "license.delete_all"))
	assert.False(t, HasPermission(nil, "license.verify"))
}

func TestImpactLevel_Text(t *testing.T) {
	assert.Equal(t, "critical", ImpactCritical.String())
	assert.Equal(t, ImpactHigh, ParseImpact("high"))
	assert.Equal(t, ImpactLow, ParseImpact("unheard-of"))
}
