package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keygate/keygate/internal/invite"
	"github.com/keygate/keygate/internal/member"
	"github.com/keygate/keygate/internal/role"
)

// TestPurpose: Validates tenant membership over HTTP: one binding per user
// per tenant, role filter on listing, and revocation.
// Scope: Integration Test
// Security: Duplicate grants rejected structurally
// Expected: First grant 201, duplicate 409, filtered list returns only the
// matching role, revoke 204 then the member is gone.
// Test Case ID: API-08
func TestMembers_GrantListRevoke(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, "admin-1", "tenant-a", "")

	w := env.do(t, "POST", "/api/v1/tenants/tenant-a/members", token, map[string]string{
		"user_id": "user-2", "role_id": role.RoleViewer,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "POST", "/api/v1/tenants/tenant-a/members", token, map[string]string{
		"user_id": "user-2", "role_id": role.RoleDeveloper,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, "POST", "/api/v1/tenants/tenant-a/members", token, map[string]string{
		"user_id": "user-3", "role_id": role.RoleDeveloper,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/api/v1/tenants/tenant-a/members?role="+role.RoleViewer, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Members []*member.Binding `json:"members"`
		Total   int               `json:"total"`
	}
	decodeBody(t, w, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "user-2", list.Members[0].UserID)

	w = env.do(t, "DELETE", "/api/v1/tenants/tenant-a/members/user-2", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "GET", "/api/v1/tenants/tenant-a/members", token, nil)
	decodeBody(t, w, &list)
	assert.Equal(t, 1, list.Total)
}

// TestPurpose: Validates that the URL tenant must match the token tenant.
// Scope: Integration Test
// Security: Prevents tenant elevation via the path parameter
// Expected: Listing another tenant's members returns 403 Forbidden.
// Test Case ID: API-09
func TestMembers_TenantMismatchForbidden(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, "admin-1", "tenant-a", "")

	w := env.do(t, "GET", "/api/v1/tenants/tenant-b/members", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestPurpose: Validates that grants referencing unknown roles are rejected
// before a binding is written.
// Scope: Integration Test
// Expected: 400 Bad Request, and the member list stays empty.
// Test Case ID: API-10
func TestMembers_UnknownRoleRejected(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, "admin-1", "tenant-a", "")

	w := env.do(t, "POST", "/api/v1/tenants/tenant-a/members", token, map[string]string{
		"user_id": "user-2", "role_id": "no_such_role",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "GET", "/api/v1/tenants/tenant-a/members", token, nil)
	var list struct {
		Total int `json:"total"`
	}
	decodeBody(t, w, &list)
	assert.Equal(t, 0, list.Total)
}

// TestPurpose: Validates the system role endpoints as an axis separate from
// tenant bindings.
// Scope: Integration Test
// Security: System role never derives from, nor writes to, tenant bindings
// Expected: Initially null, set returns 204, read-back returns the role id,
// and the user's tenant membership list is unaffected.
// Test Case ID: API-11
func TestMembers_SystemRole(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, "admin-1", "tenant-a", "")

	w := env.do(t, "GET", "/api/v1/users/user-9/system-role", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		SystemRole *string `json:"system_role"`
	}
	decodeBody(t, w, &resp)
	assert.Nil(t, resp.SystemRole)

	w = env.do(t, "PUT", "/api/v1/users/user-9/system-role", token, map[string]string{
		"role_id": role.RoleSupport,
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "GET", "/api/v1/users/user-9/system-role", token, nil)
	decodeBody(t, w, &resp)
	require.NotNil(t, resp.SystemRole)
	assert.Equal(t, role.RoleSupport, *resp.SystemRole)

	w = env.do(t, "GET", "/api/v1/tenants/tenant-a/members", token, nil)
	var list struct {
		Total int `json:"total"`
	}
	decodeBody(t, w, &list)
	assert.Equal(t, 0, list.Total, "system role must not create a tenant binding")

	w = env.do(t, "DELETE", "/api/v1/users/user-9/system-role", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "GET", "/api/v1/users/user-9/system-role", token, nil)
	decodeBody(t, w, &resp)
	assert.Nil(t, resp.SystemRole)
}

// TestPurpose: Validates the invite flow end to end over HTTP: create, list
// pending, accept from the invitee's session, resulting binding.
// Scope: Integration Test
// Security: Accept grants exactly the invited role in the invited tenant
// Expected: 201 on create with a token; accept 200; the invitee appears in
// the member list with the invite's role.
// Test Case ID: API-12
func TestInvites_CreateAcceptFlow(t *testing.T) {
	env := newTestEnv(t)
	inviterToken := signToken(t, "admin-1", "tenant-a", "admin@example.com")

	w := env.do(t, "POST", "/api/v1/invites", inviterToken, map[string]string{
		"email": "new@example.com", "role_id": role.RoleDeveloper,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created invite.Invite
	decodeBody(t, w, &created)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, invite.StatusPending, created.Status)

	w = env.do(t, "GET", "/api/v1/invites/pending", inviterToken, nil)
	var pending struct {
		Total int `json:"total"`
	}
	decodeBody(t, w, &pending)
	assert.Equal(t, 1, pending.Total)

	inviteeToken := signToken(t, "user-7", "tenant-z", "new@example.com")
	w = env.do(t, "GET", "/api/v1/invites/received", inviteeToken, nil)
	var received struct {
		Total int `json:"total"`
	}
	decodeBody(t, w, &received)
	assert.Equal(t, 1, received.Total)

	w = env.do(t, "POST", "/api/v1/invites/accept", inviteeToken, map[string]string{
		"token": created.Token,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/v1/tenants/tenant-a/members", inviterToken, nil)
	var list struct {
		Members []*member.Binding `json:"members"`
	}
	decodeBody(t, w, &list)
	require.Len(t, list.Members, 1)
	assert.Equal(t, "user-7", list.Members[0].UserID)
	assert.Equal(t, role.RoleDeveloper, list.Members[0].RoleID)
}

// TestPurpose: Validates cancel authorization: only the creating user may
// cancel, and a cancelled invite is gone rather than soft-closed.
// Scope: Integration Test
// Security: Inviter-only cancellation
// Expected: Cancel by another user 403; cancel by the inviter 204; the
// invite no longer appears in any listing.
// Test Case ID: API-13
func TestInvites_CancelAuthorization(t *testing.T) {
	env := newTestEnv(t)
	inviterToken := signToken(t, "admin-1", "tenant-a", "")
	otherToken := signToken(t, "admin-2", "tenant-a", "")

	w := env.do(t, "POST", "/api/v1/invites", inviterToken, map[string]string{
		"email": "new@example.com", "role_id": role.RoleViewer,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created invite.Invite
	decodeBody(t, w, &created)

	w = env.do(t, "DELETE", "/api/v1/invites/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "DELETE", "/api/v1/invites/"+created.ID, inviterToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "GET", "/api/v1/invites/pending", inviterToken, nil)
	var pending struct {
		Total int `json:"total"`
	}
	decodeBody(t, w, &pending)
	assert.Equal(t, 0, pending.Total)
}

// TestPurpose: Validates bulk action authorization against the caller's
// effective role in the token tenant.
// Scope: Integration Test
// Security: Fail closed for unknown actions and unbound callers
// Expected: A viewer is denied delete_selected; an admin is allowed; a user
// with no binding is denied; an unknown kind is 404.
// Test Case ID: API-14
func TestActions_Authorize(t *testing.T) {
	env := newTestEnv(t)
	adminToken := signToken(t, "admin-1", "tenant-a", "")

	for user, roleID := range map[string]string{
		"viewer-1": role.RoleViewer,
		"admin-1":  role.RoleAdmin,
	} {
		w := env.do(t, "POST", "/api/v1/tenants/tenant-a/members", adminToken, map[string]string{
			"user_id": user, "role_id": roleID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	type authzResp struct {
		Allowed bool `json:"allowed"`
	}

	viewerToken := signToken(t, "viewer-1", "tenant-a", "")
	w := env.do(t, "POST", "/api/v1/actions/delete_selected/authorize", viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp authzResp
	decodeBody(t, w, &resp)
	assert.False(t, resp.Allowed)

	w = env.do(t, "POST", "/api/v1/actions/delete_selected/authorize", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.True(t, resp.Allowed)

	unboundToken := signToken(t, "stranger-1", "tenant-a", "")
	w = env.do(t, "POST", "/api/v1/actions/export_logs/authorize", unboundToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.False(t, resp.Allowed)

	w = env.do(t, "POST", "/api/v1/actions/format_disk/authorize", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
