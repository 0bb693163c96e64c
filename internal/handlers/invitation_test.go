package handlers

import (
	"net/http"
	"testing"

	"github.com/Impulsible/eventease-planner/types"
)

func TestInviteOrganizerOnly(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "Olive", "olive@example.com", types.RoleOrganizer)
	guest, _ := env.seedUser(t, "Gus", "gus@example.com", types.RoleGuest)
	_, strangerToken := env.seedUser(t, "Sly", "sly@example.com", types.RoleGuest)

	event := env.createEvent(t, ownerToken, "Private Dinner")
	payload := InviteRequest{GuestID: guest.ID, Message: "Join us"}

	resp, _ := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", strangerToken, payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger: status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	resp, envelope := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("owner: status = %d, message = %q", resp.StatusCode, envelope.Message)
	}
	inv := dataAs[types.Invitation](t, envelope)
	if inv.Status != types.InvitationPending {
		t.Errorf("status = %q, want %q", inv.Status, types.InvitationPending)
	}
	if inv.GuestID != guest.ID {
		t.Errorf("guest = %q, want %q", inv.GuestID, guest.ID)
	}
}

func TestInviteDuplicateGuest(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "Olive", "olive@example.com", types.RoleOrganizer)
	guest, _ := env.seedUser(t, "Gus", "gus@example.com", types.RoleGuest)

	event := env.createEvent(t, ownerToken, "Private Dinner")
	payload := InviteRequest{GuestID: guest.ID}

	if resp, envelope := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, payload); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first invite: status = %d, message = %q", resp.StatusCode, envelope.Message)
	}

	resp, envelope := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second invite: status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if envelope.Message != "Guest is already invited to this event" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestInviteSelf(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerToken := env.seedUser(t, "Olive", "olive@example.com", types.RoleOrganizer)
	event := env.createEvent(t, ownerToken, "Private Dinner")

	resp, envelope := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, InviteRequest{GuestID: owner.ID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if envelope.Message != "You cannot invite yourself" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestInviteUnknownGuest(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "Olive", "olive@example.com", types.RoleOrganizer)
	event := env.createEvent(t, ownerToken, "Private Dinner")

	resp, envelope := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, InviteRequest{GuestID: "no-such-user"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	if envelope.Message != "Guest not found" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestRespondAcceptCreatesRSVP(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "Olive", "olive@example.com", types.RoleOrganizer)
	guest, guestToken := env.seedUser(t, "Gus", "gus@example.com", types.RoleGuest)

	event := env.createEvent(t, ownerToken, "Private Dinner")

	_, envelope := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, InviteRequest{GuestID: guest.ID})
	inv := dataAs[types.Invitation](t, envelope)

	resp, envelope := env.doJSON(t, http.MethodPost, "/invitations/"+inv.ID+"/respond", guestToken, InvitationResponseRequest{Accept: true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("respond: status = %d, message = %q", resp.StatusCode, envelope.Message)
	}
	answered := dataAs[types.Invitation](t, envelope)
	if answered.Status != types.InvitationAccepted {
		t.Errorf("status = %q, want %q", answered.Status, types.InvitationAccepted)
	}

	// Accepting converts into a going RSVP visible on the event.
	resp, envelope = env.doJSON(t, http.MethodGet, "/events/"+event.ID, guestToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get event: status = %d", resp.StatusCode)
	}
	if got := dataAs[types.Event](t, envelope); got.ViewerRSVP != types.RSVPGoing {
		t.Errorf("viewer RSVP = %q, want %q", got.ViewerRSVP, types.RSVPGoing)
	}
}

func TestRespondOnlyInvitedGuest(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "Olive", "olive@example.com", types.RoleOrganizer)
	guest, _ := env.seedUser(t, "Gus", "gus@example.com", types.RoleGuest)
	_, strangerToken := env.seedUser(t, "Sly", "sly@example.com", types.RoleGuest)

	event := env.createEvent(t, ownerToken, "Private Dinner")

	_, envelope := env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, InviteRequest{GuestID: guest.ID})
	inv := dataAs[types.Invitation](t, envelope)

	resp, envelope := env.doJSON(t, http.MethodPost, "/invitations/"+inv.ID+"/respond", strangerToken, InvitationResponseRequest{Accept: true})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
	if envelope.Message != "You do not have permission to perform this action" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "Olive", "olive@example.com", types.RoleOrganizer)
	guest, guestToken := env.seedUser(t, "Gus", "gus@example.com", types.RoleGuest)
	_, strangerToken := env.seedUser(t, "Sly", "sly@example.com", types.RoleGuest)

	event := env.createEvent(t, ownerToken, "Private Dinner")
	env.doJSON(t, http.MethodPost, "/events/"+event.ID+"/invitations", ownerToken, InviteRequest{GuestID: guest.ID})

	_, envelope := env.doJSON(t, http.MethodGet, "/invitations", guestToken, nil)
	if got := dataAs[[]types.Invitation](t, envelope); len(got) != 1 {
		t.Errorf("guest invitations = %d, want 1", len(got))
	}

	_, envelope = env.doJSON(t, http.MethodGet, "/invitations", ownerToken, nil)
	if got := dataAs[[]types.Invitation](t, envelope); len(got) != 1 {
		t.Errorf("organizer invitations = %d, want 1", len(got))
	}

	_, envelope = env.doJSON(t, http.MethodGet, "/invitations", strangerToken, nil)
	if got := dataAs[[]types.Invitation](t, envelope); len(got) != 0 {
		t.Errorf("stranger invitations = %d, want 0", len(got))
	}
}
