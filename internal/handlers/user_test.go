package handlers

import (
	"net/http"
	"testing"

	"github.com/Impulsible/eventease-planner/types"
)

func TestUpdateUserSelf(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "Ada", "ada@example.com", types.RoleGuest)

	name := "Ada Lovelace"
	resp, envelope := env.doJSON(t, http.MethodPut, "/users/"+user.ID, token, UpdateUserRequest{Name: &name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, message = %q", resp.StatusCode, envelope.Message)
	}
	if updated := dataAs[types.User](t, envelope); updated.Name != name {
		t.Errorf("name = %q, want %q", updated.Name, name)
	}
}

func TestUpdateUserForbiddenForOthers(t *testing.T) {
	env := newTestEnv(t)
	target, _ := env.seedUser(t, "Ada", "ada@example.com", types.RoleGuest)
	_, otherToken := env.seedUser(t, "Gus", "gus@example.com", types.RoleGuest)

	name := "Hijacked"
	resp, envelope := env.doJSON(t, http.MethodPut, "/users/"+target.ID, otherToken, UpdateUserRequest{Name: &name})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
	if envelope.Message != "You do not have permission to perform this action" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestUpdateUserAdminMayEditAnyone(t *testing.T) {
	env := newTestEnv(t)
	target, _ := env.seedUser(t, "Ada", "ada@example.com", types.RoleGuest)
	_, adminToken := env.seedUser(t, "Root", "root@example.com", types.RoleAdmin)

	name := "Renamed by admin"
	resp, envelope := env.doJSON(t, http.MethodPut, "/users/"+target.ID, adminToken, UpdateUserRequest{Name: &name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, message = %q", resp.StatusCode, envelope.Message)
	}
}

func TestUpdateUserRoleIsNotSelfService(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "Ada", "ada@example.com", types.RoleGuest)

	role := types.RoleAdmin
	resp, _ := env.doJSON(t, http.MethodPut, "/users/"+user.ID, token, UpdateUserRequest{Role: &role})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestChangeRoleAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	target, _ := env.seedUser(t, "Ada", "ada@example.com", types.RoleGuest)
	_, guestToken := env.seedUser(t, "Gus", "gus@example.com", types.RoleGuest)
	_, adminToken := env.seedUser(t, "Root", "root@example.com", types.RoleAdmin)

	resp, _ := env.doJSON(t, http.MethodPut, "/users/"+target.ID+"/role", guestToken, ChangeRoleRequest{Role: types.RoleOrganizer})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("guest: status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	resp, envelope := env.doJSON(t, http.MethodPut, "/users/"+target.ID+"/role", adminToken, ChangeRoleRequest{Role: types.RoleOrganizer})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin: status = %d, message = %q", resp.StatusCode, envelope.Message)
	}
	if updated := dataAs[types.User](t, envelope); updated.Role != types.RoleOrganizer {
		t.Errorf("role = %q, want %q", updated.Role, types.RoleOrganizer)
	}
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	target, _ := env.seedUser(t, "Ada", "ada@example.com", types.RoleGuest)
	_, adminToken := env.seedUser(t, "Root", "root@example.com", types.RoleAdmin)

	resp, envelope := env.doJSON(t, http.MethodPut, "/users/"+target.ID+"/role", adminToken, ChangeRoleRequest{Role: "superuser"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if envelope.Message != "Invalid role" {
		t.Errorf("message = %q", envelope.Message)
	}
}
