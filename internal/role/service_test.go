package role_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/keygate/keygate/internal/audit"
	"github.com/keygate/keygate/internal/role"
	"github.com/keygate/keygate/internal/scope"
	"github.com/keygate/keygate/internal/store/memory"
)

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

type mockCascader struct {
	mock.Mock
}

func (m *mockCascader) UnassignRole(ctx context.Context, roleID string) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func newService(t *testing.T) (*role.Service, *mockCascader) {
	t.Helper()

	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Maybe()

	cascader := new(mockCascader)
	svc := role.NewService(memory.NewRoleRepository(), cascader, auditLogger)
	require.NoError(t, svc.Seed(context.Background()))
	return svc, cascader
}

func TestSeed_Idempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// Second seed must not duplicate or reset anything.
	require.NoError(t, svc.Seed(ctx))

	roles, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, roles, len(role.Predefined()))

	admin, err := svc.Get(ctx, role.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsDefault)
	assert.False(t, admin.Editable())
}

func TestCreate_DerivedID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, role.Draft{
		Name:   "License  Auditor",
		Scopes: []string{"license.read", "log.read"},
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, "license_auditor", r.ID)
	assert.True(t, r.IsCustom)
	assert.True(t, r.Editable())
}

func TestCreate_IDCollisionFallsBackToTimestamp(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, role.Draft{Name: "Auditor", Scopes: []string{"log.read"}}, "admin-1")
	require.NoError(t, err)

	second, err := svc.Create(ctx, role.Draft{Name: "auditor", Scopes: []string{"log.read"}}, "admin-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Regexp(t, `^role_\d+$`, second.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, role.Draft{Name: "  ", Scopes: []string{"log.read"}}, "admin-1")
	assert.ErrorIs(t, err, role.ErrInvalidRole)

	_, err = svc.Create(ctx, role.Draft{Name: "No Scopes"}, "admin-1")
	assert.ErrorIs(t, err, role.ErrInvalidRole)

	_, err = svc.Create(ctx, role.Draft{Name: "Bad Scope", Scopes: []string{"nope.nothing"}}, "admin-1")
	assert.ErrorIs(t, err, role.ErrUnknownScope)
}

func TestList_Filter(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	roles, err := svc.List(ctx, "DEVEL")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, role.RoleDeveloper, roles[0].ID)

	// Substring match covers descriptions too.
	roles, err = svc.List(ctx, "read-only")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, role.RoleViewer, roles[0].ID)

	roles, err = svc.List(ctx, "no such role")
	require.NoError(t, err)
	assert.Empty(t, roles)
}

// TestPurpose: Validates that predefined and system roles reject every
// mutation attempt so the platform's baseline access tiers cannot drift.
// Scope: Unit Test
// Security: Privilege escalation via role tampering
// Expected: Update and Delete on a non-custom role fail with ErrNotEditable.
// Test Case ID: ROL-01
func TestSystemRole_Immutability(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, id := range []string{role.RoleAdmin, role.RoleDeveloper, role.RoleSupport, role.RoleViewer} {
		_, err := svc.Update(ctx, id, role.Draft{Name: "x", Scopes: []string{"log.read"}}, "admin-1")
		assert.ErrorIs(t, err, role.ErrNotEditable, "update %s", id)

		err = svc.Delete(ctx, id, "admin-1")
		assert.ErrorIs(t, err, role.ErrNotEditable, "delete %s", id)
	}
}

func TestUpdate_FullReplace(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, role.Draft{Name: "Ops", Description: "old", Scopes: []string{"log.read", "session.read"}}, "admin-1")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, role.Draft{Name: "Ops", Description: "new", Scopes: []string{"log.read"}}, "admin-1")
	require.NoError(t, err)

	// Whole definition replaced, not merged.
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, []string{"log.read"}, updated.Scopes)
}

func TestDelete_CascadesBindings(t *testing.T) {
	svc, cascader := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, role.Draft{Name: "Temp", Scopes: []string{"log.read"}}, "admin-1")
	require.NoError(t, err)

	cascader.On("UnassignRole", mock.Anything, created.ID).Return(nil).Once()

	require.NoError(t, svc.Delete(ctx, created.ID, "admin-1"))
	cascader.AssertExpectations(t)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

// TestPurpose: End-to-end registry scenario: a custom read-only billing role
// resolves to the expected permission set and impact, deletes cleanly, while
// the predefined admin role refuses deletion.
// Scope: Unit Test
// Security: Least-privilege role construction
// Expected: Billing Viewer -> {subscription.retrieve_all}, impact low,
// deletable; admin -> ErrNotEditable.
// Test Case ID: ROL-02
func TestBillingViewer_EndToEnd(t *testing.T) {
	svc, cascader := newService(t)
	cascader.On("UnassignRole", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, role.Draft{
		Name:   "Billing Viewer",
		Scopes: []string{"subscription.read"},
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "billing_viewer", created.ID)

	res := role.Resolve(created.Scopes)
	assert.Equal(t, []string{"subscription.retrieve_all"}, res.Permissions)
	assert.Equal(t, scope.ImpactLow, res.Impact)

	require.NoError(t, svc.Delete(ctx, created.ID, "admin-1"))

	err = svc.Delete(ctx, role.RoleAdmin, "admin-1")
	assert.ErrorIs(t, err, role.ErrNotEditable)
}
