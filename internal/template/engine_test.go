package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keygate/keygate/internal/scope"
)

// TestPurpose: Validates that applying a template and re-detecting it returns
// the same template id, for every defined template.
// Scope: Unit Test
// Security: Preset integrity for the permission builder
// Expected: DetectActive(Apply(T, anything)) == T.ID for all templates.
// Test Case ID: TPL-01
func TestTemplate_RoundTrip(t *testing.T) {
	dirty := Selection{ResourceApp1: LevelAdmin, "something_else": LevelEdit}

	for _, tpl := range Templates {
		applied, err := Apply(tpl.ID, dirty)
		require.NoError(t, err)
		assert.Equal(t, tpl.ID, DetectActive(applied), "template %s", tpl.ID)
	}
}

func TestApply_ReplacesWholeSelection(t *testing.T) {
	prior := Selection{
		ResourceApp3:    LevelAdmin,
		ResourceBilling: LevelAdmin,
	}

	applied, err := Apply("developer", prior)
	require.NoError(t, err)

	// Overwrite semantics: nothing from the prior selection survives.
	assert.Equal(t, LevelNone, applied.Level(ResourceApp3))
	assert.Equal(t, LevelView, applied.Level(ResourceBilling))

	// The input selection itself is untouched.
	assert.Equal(t, LevelAdmin, prior.Level(ResourceApp3))
}

func TestApply_UnknownTemplate(t *testing.T) {
	_, err := Apply("nonexistent", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDetectActive_Custom(t *testing.T) {
	assert.Equal(t, CustomTemplateID, DetectActive(Selection{
		ResourceApp1: LevelView,
		ResourceTeam: LevelAdmin,
	}))
}

func TestDetectActive_ExtraNoneEntriesStillMatch(t *testing.T) {
	applied, err := Apply("support", nil)
	require.NoError(t, err)

	// A resource outside the template's keys only breaks the match when it
	// is non-none.
	applied["future_resource"] = LevelNone
	assert.Equal(t, "support", DetectActive(applied))

	applied["future_resource"] = LevelView
	assert.Equal(t, CustomTemplateID, DetectActive(applied))
}

func TestDetectActive_MissingKeysCountAsNone(t *testing.T) {
	sel, err := Apply("billing_manager", nil)
	require.NoError(t, err)

	// Dropping an entry the template sets to none must not break the match.
	delete(sel, ResourceApp1)
	assert.Equal(t, "billing_manager", DetectActive(sel))
}

// TestPurpose: Validates the advisory conflict rules with the canonical
// examples: edit access without billing visibility, and a team admin with no
// app admin.
// Scope: Unit Test
// Security: Misconfiguration warnings for permission selections
// Expected: Exactly one billing conflict for {app_1: edit, billing: none};
// zero for {app_1: edit, billing: view}.
// Test Case ID: TPL-02
func TestDetectConflicts(t *testing.T) {
	conflicts := DetectConflicts(Selection{
		ResourceApp1:    LevelEdit,
		ResourceBilling: LevelNone,
	})
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0].Message, "billing")

	conflicts = DetectConflicts(Selection{
		ResourceApp1:    LevelEdit,
		ResourceBilling: LevelView,
	})
	assert.Empty(t, conflicts)

	// Admin access counts as "edit or above".
	conflicts = DetectConflicts(Selection{ResourceApp2: LevelAdmin})
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0].Message, "billing")
}

func TestDetectConflicts_TeamAdminRule(t *testing.T) {
	conflicts := DetectConflicts(Selection{
		ResourceTeam:    LevelAdmin,
		ResourceApp1:    LevelEdit,
		ResourceBilling: LevelView,
	})
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0].Message, "Team admins")

	conflicts = DetectConflicts(Selection{
		ResourceTeam:    LevelAdmin,
		ResourceApp1:    LevelAdmin,
		ResourceBilling: LevelView,
	})
	assert.Empty(t, conflicts)
}

func TestDetectConflicts_MultipleSurface(t *testing.T) {
	conflicts := DetectConflicts(Selection{
		ResourceTeam: LevelAdmin,
		ResourceApp1: LevelEdit,
	})
	assert.Len(t, conflicts, 2)
	// Declaration order is preserved.
	assert.Equal(t, "edit_without_billing", conflicts[0].Rule)
	assert.Equal(t, "team_admin_without_app", conflicts[1].Rule)
}

func TestTemplates_AreConflictFree(t *testing.T) {
	for _, tpl := range Templates {
		assert.Empty(t, DetectConflicts(tpl.Selection), "template %s ships with conflicts", tpl.ID)
	}
}

func TestScopes_ProjectsOntoCatalog(t *testing.T) {
	ids := Scopes(Selection{
		ResourceBilling: LevelView,
	})
	assert.Equal(t, []string{"subscription.read"}, ids)

	// Every projected id must exist in the catalog.
	for _, tpl := range Templates {
		for _, id := range Scopes(tpl.Selection) {
			_, ok := scope.Get(id)
			assert.True(t, ok, "template %s projects unknown scope %s", tpl.ID, id)
		}
	}
}

func TestResolve_FlatSelection(t *testing.T) {
	perms, impact := Resolve(Selection{ResourceBilling: LevelView})
	assert.Equal(t, []string{"subscription.retrieve_all"}, perms)
	assert.Equal(t, scope.ImpactLow, impact)

	_, impact = Resolve(Selection{ResourceApp1: LevelAdmin})
	assert.Equal(t, scope.ImpactCritical, impact)

	perms, impact = Resolve(Selection{})
	assert.Empty(t, perms)
	assert.Equal(t, scope.ImpactLow, impact)
}
