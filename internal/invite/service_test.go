package invite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/keygate/keygate/internal/audit"
	"github.com/keygate/keygate/internal/invite"
	"github.com/keygate/keygate/internal/member"
	"github.com/keygate/keygate/internal/store/memory"
)

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

type fixture struct {
	svc     *invite.Service
	members *member.Service
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Maybe()

	f := &fixture{
		members: member.NewService(memory.NewMemberRepository(), auditLogger),
		now:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = invite.NewService(memory.NewInviteRepository(), f.members, auditLogger).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestAccept_GrantsBinding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, "tenant-a", "new@corp.test", "developer", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, invite.StatusPending, inv.Status)

	accepted, err := f.svc.Accept(ctx, inv.Token, "user-9")
	require.NoError(t, err)
	assert.Equal(t, invite.StatusAccepted, accepted.Status)

	roleID, err := f.members.EffectiveRole(ctx, "user-9", "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, "developer", roleID)

	// Terminal states stay terminal.
	_, err = f.svc.Decline(ctx, inv.Token, "user-9")
	assert.ErrorIs(t, err, invite.ErrNotPending)
}

// TestPurpose: Validates lazy expiry: a pending invite past its deadline is
// no longer actionable even though no background job flipped its status.
// Scope: Unit Test
// Security: Stale invites must not grant access indefinitely
// Expected: Accept and Decline fail with ErrInviteExpired once ExpiresAt has
// passed; listings report the invite as expired.
// Test Case ID: INV-01
func TestAccept_ExpiredInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, "tenant-a", "slow@corp.test", "viewer", "admin-1")
	require.NoError(t, err)

	f.advance(invite.DefaultTTL + time.Hour)

	_, err = f.svc.Accept(ctx, inv.Token, "user-9")
	assert.ErrorIs(t, err, invite.ErrInviteExpired)

	_, err = f.svc.Decline(ctx, inv.Token, "user-9")
	assert.ErrorIs(t, err, invite.ErrNotPending) // expiry was persisted on first touch

	// No binding was created.
	_, err = f.members.EffectiveRole(ctx, "user-9", "tenant-a")
	assert.ErrorIs(t, err, member.ErrBindingNotFound)

	received, err := f.svc.Received(ctx, "slow@corp.test")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, invite.StatusExpired, received[0].Status)
}

func TestDecline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, "tenant-a", "no@corp.test", "viewer", "admin-1")
	require.NoError(t, err)

	declined, err := f.svc.Decline(ctx, inv.Token, "user-9")
	require.NoError(t, err)
	assert.Equal(t, invite.StatusDeclined, declined.Status)

	// No binding for a declined invite.
	_, err = f.members.EffectiveRole(ctx, "user-9", "tenant-a")
	assert.ErrorIs(t, err, member.ErrBindingNotFound)
}

// TestPurpose: Validates that only the inviter may cancel, and only while the
// invite is still pending; cancellation removes the record entirely.
// Scope: Unit Test
// Security: Invite lifecycle authorization
// Expected: Foreign actor -> ErrNotInviter; accepted invite -> ErrNotPending;
// successful cancel deletes the invite.
// Test Case ID: INV-02
func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, "tenant-a", "x@corp.test", "viewer", "admin-1")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Cancel(ctx, inv.ID, "someone-else"), invite.ErrNotInviter)

	require.NoError(t, f.svc.Cancel(ctx, inv.ID, "admin-1"))

	sent, err := f.svc.Sent(ctx, "admin-1")
	require.NoError(t, err)
	assert.Empty(t, sent)

	// Cancelling an already-accepted invite is rejected.
	inv2, err := f.svc.Create(ctx, "tenant-a", "y@corp.test", "viewer", "admin-1")
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, inv2.Token, "user-2")
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Cancel(ctx, inv2.ID, "admin-1"), invite.ErrNotPending)
}

func TestPending_FiltersActionable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh, err := f.svc.Create(ctx, "tenant-a", "a@corp.test", "viewer", "admin-1")
	require.NoError(t, err)

	stale, err := f.svc.Create(ctx, "tenant-a", "b@corp.test", "viewer", "admin-1")
	require.NoError(t, err)
	_, err = f.svc.Decline(ctx, stale.Token, "user-2")
	require.NoError(t, err)

	pending, err := f.svc.Pending(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, fresh.ID, pending[0].ID)
}

func TestAccept_ExistingBindingDoesNotFail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.members.Grant(ctx, "tenant-a", "user-9", "viewer", "admin-1")
	require.NoError(t, err)

	inv, err := f.svc.Create(ctx, "tenant-a", "dup@corp.test", "developer", "admin-1")
	require.NoError(t, err)

	// The acceptance stands even though the grant is a duplicate.
	accepted, err := f.svc.Accept(ctx, inv.Token, "user-9")
	require.NoError(t, err)
	assert.Equal(t, invite.StatusAccepted, accepted.Status)

	// The pre-existing role is untouched.
	roleID, err := f.members.EffectiveRole(ctx, "user-9", "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, "viewer", roleID)
}

// wrappingGranter reports the duplicate the way member.Service does when the
// pre-check loses the race and the unique constraint fires: the sentinel
// arrives wrapped, not bare.
type wrappingGranter struct{}

func (wrappingGranter) Grant(ctx context.Context, tenantID, userID, roleID, grantedBy string) (*member.Binding, error) {
	return nil, fmt.Errorf("failed to grant role: %w", member.ErrBindingExists)
}

// TestPurpose: Validates that acceptance tolerates a duplicate binding even
// when the duplicate is reported through a wrapped error chain.
// Scope: Unit Test
// Security: Accept must not strand an invite in accepted state with an error
// Expected: Accept succeeds and the stored invite reads accepted.
// Test Case ID: INV-03
func TestAccept_WrappedDuplicateBindingDoesNotFail(t *testing.T) {
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Maybe()

	svc := invite.NewService(memory.NewInviteRepository(), wrappingGranter{}, auditLogger)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "tenant-a", "race@corp.test", "developer", "admin-1")
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, inv.Token, "user-9")
	require.NoError(t, err)
	assert.Equal(t, invite.StatusAccepted, accepted.Status)

	sent, err := svc.Sent(ctx, "admin-1")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, invite.StatusAccepted, sent[0].Status)
}
