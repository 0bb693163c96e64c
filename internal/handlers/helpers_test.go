package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Impulsible/eventease-planner/config"
	"github.com/Impulsible/eventease-planner/internal/auth"
	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/store"
	"github.com/Impulsible/eventease-planner/types"
)

var errDatabaseDown = errors.New("database down")

// fakeUserRepo is an in-memory services.UserRepository.
type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]types.User
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]types.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return types.User{}, f.failWith
	}
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return types.User{}, f.failWith
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.GoogleID != "" && user.GoogleID == googleID {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return types.User{}, f.failWith
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return types.User{}, f.failWith
	}
	if _, ok := f.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeEventRepo is an in-memory services.EventRepository. It consults the
// invitation fake to mirror the store's visibility filter on List.
type fakeEventRepo struct {
	mu          sync.Mutex
	events      map[string]types.Event
	invitations *fakeInvitationRepo
}

func newFakeEventRepo(invitations *fakeInvitationRepo) *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]types.Event), invitations: invitations}
}

func (f *fakeEventRepo) List(ctx context.Context, offset, limit int, viewerID string, viewerIsAdmin bool) ([]types.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]types.Event, 0, len(f.events))
	for _, event := range f.events {
		if viewerIsAdmin || event.Public || event.OrganizerID == viewerID || f.invited(event.ID, viewerID) {
			events = append(events, event)
		}
	}
	return events, len(events), nil
}

func (f *fakeEventRepo) invited(eventID, guestID string) bool {
	if guestID == "" {
		return false
	}
	_, err := f.invitations.GetByEventAndGuest(context.Background(), eventID, guestID)
	return err == nil
}

func (f *fakeEventRepo) Get(ctx context.Context, id string) (types.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return types.Event{}, store.ErrNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, event types.Event) (types.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event types.Event) (types.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[event.ID]; !ok {
		return types.Event{}, store.ErrNotFound
	}
	event.UpdatedAt = time.Now()
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeRSVPRepo is an in-memory services.RSVPRepository keyed by event/user.
type fakeRSVPRepo struct {
	mu    sync.Mutex
	rsvps map[string]types.RSVP
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{rsvps: make(map[string]types.RSVP)}
}

func rsvpKey(eventID, userID string) string {
	return eventID + "/" + userID
}

func (f *fakeRSVPRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (types.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rsvp, ok := f.rsvps[rsvpKey(eventID, userID)]
	if !ok {
		return types.RSVP{}, store.ErrNotFound
	}
	return rsvp, nil
}

func (f *fakeRSVPRepo) ListByEvent(ctx context.Context, eventID string) ([]types.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rsvps []types.RSVP
	for _, rsvp := range f.rsvps {
		if rsvp.EventID == eventID {
			rsvps = append(rsvps, rsvp)
		}
	}
	return rsvps, nil
}

func (f *fakeRSVPRepo) Upsert(ctx context.Context, rsvp types.RSVP) (types.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := rsvpKey(rsvp.EventID, rsvp.UserID)
	now := time.Now()
	if existing, ok := f.rsvps[key]; ok {
		existing.Status = rsvp.Status
		existing.UpdatedAt = now
		f.rsvps[key] = existing
		return existing, nil
	}
	rsvp.ID = uuid.NewString()
	rsvp.CreatedAt = now
	rsvp.UpdatedAt = now
	f.rsvps[key] = rsvp
	return rsvp, nil
}

func (f *fakeRSVPRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, rsvp := range f.rsvps {
		if rsvp.ID == id {
			delete(f.rsvps, key)
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeInvitationRepo is an in-memory services.InvitationRepository.
type fakeInvitationRepo struct {
	mu          sync.Mutex
	invitations map[string]types.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]types.Invitation)}
}

func (f *fakeInvitationRepo) Get(ctx context.Context, id string) (types.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[id]
	if !ok {
		return types.Invitation{}, store.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvitationRepo) GetByEventAndGuest(ctx context.Context, eventID, guestID string) (types.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.EventID == eventID && inv.GuestID == guestID {
			return inv, nil
		}
	}
	return types.Invitation{}, store.ErrNotFound
}

func (f *fakeInvitationRepo) ListForUser(ctx context.Context, userID string) ([]types.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var invitations []types.Invitation
	for _, inv := range f.invitations {
		if inv.GuestID == userID || inv.OrganizerID == userID {
			invitations = append(invitations, inv)
		}
	}
	return invitations, nil
}

func (f *fakeInvitationRepo) ListByEvent(ctx context.Context, eventID string) ([]types.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var invitations []types.Invitation
	for _, inv := range f.invitations {
		if inv.EventID == eventID {
			invitations = append(invitations, inv)
		}
	}
	return invitations, nil
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv types.Invitation) (types.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.invitations {
		if existing.EventID == inv.EventID && existing.GuestID == inv.GuestID {
			return types.Invitation{}, store.ErrDuplicate
		}
	}
	now := time.Now()
	inv.ID = uuid.NewString()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	f.invitations[inv.ID] = inv
	return inv, nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, id, status string) (types.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[id]
	if !ok {
		return types.Invitation{}, store.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	f.invitations[id] = inv
	return inv, nil
}

// testEnv bundles the wired fakes behind a live httptest server.
type testEnv struct {
	server   *httptest.Server
	userRepo *fakeUserRepo
	tokens   *auth.TokenService
	users    *services.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := newFakeUserRepo()
	tokens, err := auth.NewTokenService("test-secret", time.Hour, false)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	userService := services.NewUserService(userRepo)
	notifier := services.NewNotifier(nil)
	invitationRepo := newFakeInvitationRepo()
	eventService := services.NewEventService(newFakeEventRepo(invitationRepo), nil)
	rsvpService := services.NewRSVPService(newFakeRSVPRepo(), notifier)
	invitationService := services.NewInvitationService(invitationRepo, rsvpService, notifier)

	authn := NewAuthenticator(userService, tokens)
	linker := auth.NewLinker(userService, tokens)
	authCfg := config.AuthConfig{TokenTTL: time.Hour, CookieSameSite: http.SameSiteLaxMode}

	authHandler := NewAuthHandler(userService, tokens, linker, nil, authCfg, config.OAuthConfig{})
	userHandler := NewUserHandler(userService)
	eventHandler := NewEventHandler(eventService, rsvpService, invitationService)
	rsvpHandler := NewRSVPHandler(eventService, rsvpService)
	invitationHandler := NewInvitationHandler(eventService, userService, invitationService)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, authHandler, authn)
	})
	router.Route("/users", func(r chi.Router) {
		UserRouter(r, userHandler, authn)
	})
	router.Route("/events", func(r chi.Router) {
		EventRouter(r, eventHandler, rsvpHandler, invitationHandler, authn)
	})
	router.Route("/invitations", func(r chi.Router) {
		InvitationRouter(r, invitationHandler, authn)
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testEnv{
		server:   ts,
		userRepo: userRepo,
		tokens:   tokens,
		users:    userService,
	}
}

// seedUser creates an account directly in the fake store and returns it with
// a valid token.
func (e *testEnv) seedUser(t *testing.T, name, email, role string) (types.User, string) {
	t.Helper()
	user, err := e.users.Register(context.Background(), name, email, "password123")
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	if role != types.RoleGuest {
		user.Role = role
		if user, err = e.users.Update(context.Background(), user); err != nil {
			t.Fatalf("set role: %v", err)
		}
	}
	token, err := e.tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

// doJSON performs a request with an optional bearer token and decodes the
// envelope.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload any) (*http.Response, Envelope) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, envelope
}

// dataAs re-marshals the envelope data into the given type.
func dataAs[T any](t *testing.T, envelope Envelope) T {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return out
}
