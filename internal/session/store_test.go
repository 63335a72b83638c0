package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/domain"
)

type fakeAPI struct {
	mu          sync.Mutex
	users       map[int64]domain.User
	loginUser   domain.User
	loginErr    error
	logoutErr   error
	logoutCalls int

	// Si gate no es nil, GetUser avisa en started y espera gate.
	gate    chan struct{}
	started chan struct{}
}

func newFakeAPI(users ...domain.User) *fakeAPI {
	f := &fakeAPI{users: make(map[int64]domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginUser, f.loginErr
}

func (f *fakeAPI) Logout(_ context.Context, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) GetUser(ctx context.Context, id int64) (domain.User, error) {
	if f.gate != nil {
		close(f.started)
		select {
		case <-f.gate:
		case <-ctx.Done():
			return domain.User{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, &apiclient.APIError{Status: http.StatusNotFound, Message: "User not found"}
	}
	return u, nil
}

func persistSession(t *testing.T, storage Storage, sess domain.Session) {
	t.Helper()
	data, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := storage.Set(context.Background(), StorageKey, data); err != nil {
		t.Fatalf("persist: %v", err)
	}
}

func storedSession(t *testing.T, storage Storage) (domain.Session, bool) {
	t.Helper()
	raw, ok, err := storage.Get(context.Background(), StorageKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		return domain.Session{}, false
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		t.Fatalf("unmarshal stored session: %v", err)
	}
	return sess, true
}

func TestStoreInit_NoRecord(t *testing.T) {
	store := NewStore(newFakeAPI(), NewMemoryStorage(), zap.NewNop())
	if snap := store.Snapshot(); snap.State != StateUnknown || !snap.Loading() {
		t.Fatalf("expected unknown/loading initial state, got %+v", snap)
	}

	store.Init(context.Background())

	snap := store.Snapshot()
	if snap.State != StateLoggedOut || snap.Session != nil {
		t.Fatalf("expected logged out, got %+v", snap)
	}
	if snap.IsAdmin() || snap.IsOrganizer() || snap.IsParticipant() {
		t.Fatalf("expected all role projections false")
	}
	select {
	case <-store.Ready():
	default:
		t.Fatalf("expected store to be ready")
	}
}

func TestStoreInit_PurgesUnknownUser(t *testing.T) {
	storage := NewMemoryStorage()
	persistSession(t, storage, domain.Session{UserID: 41, Username: "ghost", Role: domain.RoleParticipant})
	store := NewStore(newFakeAPI(), storage, zap.NewNop())

	store.Init(context.Background())

	if snap := store.Snapshot(); snap.State != StateLoggedOut || snap.Session != nil {
		t.Fatalf("expected logged out after failed validation, got %+v", snap)
	}
	if _, ok := storedSession(t, storage); ok {
		t.Fatalf("expected persisted record to be removed")
	}
}

func TestStoreInit_KeepsFreshIdentity(t *testing.T) {
	storage := NewMemoryStorage()
	persistSession(t, storage, domain.Session{UserID: 7, Username: "old-name", Role: domain.RoleParticipant})
	api := newFakeAPI(domain.User{ID: 7, Username: "new-name", Role: domain.RoleOrganizer})
	store := NewStore(api, storage, zap.NewNop())

	store.Init(context.Background())

	snap := store.Snapshot()
	if !snap.LoggedIn() || snap.Session.Username != "new-name" || snap.Session.Role != domain.RoleOrganizer {
		t.Fatalf("expected fresh identity, got %+v", snap)
	}
	if !snap.IsOrganizer() || snap.IsAdmin() || snap.IsParticipant() {
		t.Fatalf("unexpected projections for organizer")
	}
	stored, ok := storedSession(t, storage)
	if !ok {
		t.Fatalf("expected persisted record to remain")
	}
	if stored.UserID != 7 {
		t.Fatalf("unexpected stored session %+v", stored)
	}
	if id, ok := store.CurrentUserID(); !ok || id != 7 {
		t.Fatalf("expected current user 7, got %d,%v", id, ok)
	}
}

func TestStoreInit_CorruptRecords(t *testing.T) {
	cases := map[string]string{
		"invalid json":  `{"user_id":`,
		"missing role":  `{"user_id":3,"username":"x"}`,
		"unknown role":  `{"user_id":3,"username":"x","role":"superuser"}`,
		"missing id":    `{"username":"x","role":"admin"}`,
		"not an object": `"hello"`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			_ = storage.Set(context.Background(), StorageKey, []byte(raw))
			store := NewStore(newFakeAPI(domain.User{ID: 3, Username: "x", Role: domain.RoleAdmin}), storage, zap.NewNop())

			store.Init(context.Background())

			if snap := store.Snapshot(); snap.State != StateLoggedOut {
				t.Fatalf("expected logged out, got %v", snap.State)
			}
			if _, ok, _ := storage.Get(context.Background(), StorageKey); ok {
				t.Fatalf("expected corrupt record to be removed")
			}
		})
	}
}

func TestStoreLogin(t *testing.T) {
	storage := NewMemoryStorage()
	api := newFakeAPI()
	api.loginUser = domain.User{ID: 5, Username: "ana", Role: domain.RoleParticipant}
	store := NewStore(api, storage, zap.NewNop())
	store.Init(context.Background())

	sess, err := store.Login(context.Background(), "ana", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.UserID != 5 || !store.Snapshot().IsParticipant() {
		t.Fatalf("unexpected session %+v", sess)
	}
	if stored, ok := storedSession(t, storage); !ok || stored != sess {
		t.Fatalf("expected session persisted, got %+v %v", stored, ok)
	}
}

func TestStoreLogin_FailureKeepsState(t *testing.T) {
	storage := NewMemoryStorage()
	api := newFakeAPI()
	api.loginErr = &apiclient.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	store := NewStore(api, storage, zap.NewNop())
	store.Init(context.Background())

	_, err := store.Login(context.Background(), "ana", "bad")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("expected credential error, got %v", err)
	}
	if snap := store.Snapshot(); snap.State != StateLoggedOut {
		t.Fatalf("expected to remain logged out, got %v", snap.State)
	}
	if _, ok := storedSession(t, storage); ok {
		t.Fatalf("expected nothing persisted")
	}
}

func TestStoreLogin_RejectsIncompleteIdentity(t *testing.T) {
	api := newFakeAPI()
	api.loginUser = domain.User{ID: 5, Username: "ana"}
	store := NewStore(api, NewMemoryStorage(), zap.NewNop())
	store.Init(context.Background())

	if _, err := store.Login(context.Background(), "ana", "pw"); !errors.Is(err, ErrIncompleteSession) {
		t.Fatalf("expected ErrIncompleteSession, got %v", err)
	}
}

func TestStoreLogout_SwallowsRemoteFailure(t *testing.T) {
	storage := NewMemoryStorage()
	api := newFakeAPI()
	api.loginUser = domain.User{ID: 5, Username: "ana", Role: domain.RoleAdmin}
	api.logoutErr = errors.New("server down")
	store := NewStore(api, storage, zap.NewNop())
	store.Init(context.Background())
	if _, err := store.Login(context.Background(), "ana", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.Logout(context.Background())

	if snap := store.Snapshot(); snap.State != StateLoggedOut || snap.Session != nil {
		t.Fatalf("expected logged out, got %+v", snap)
	}
	if api.logoutCalls != 1 {
		t.Fatalf("expected one remote logout call, got %d", api.logoutCalls)
	}
	if _, ok := storedSession(t, storage); ok {
		t.Fatalf("expected record purged")
	}
}

func TestStore_LoginWinsOverStaleValidation(t *testing.T) {
	storage := NewMemoryStorage()
	persistSession(t, storage, domain.Session{UserID: 7, Username: "old", Role: domain.RoleParticipant})
	api := newFakeAPI(domain.User{ID: 7, Username: "old", Role: domain.RoleParticipant})
	api.gate = make(chan struct{})
	api.started = make(chan struct{})
	api.loginUser = domain.User{ID: 9, Username: "new", Role: domain.RoleOrganizer}
	store := NewStore(api, storage, zap.NewNop())

	done := make(chan struct{})
	go func() {
		store.Init(context.Background())
		close(done)
	}()
	<-api.started
	if snap := store.Snapshot(); snap.State != StateValidating || !snap.Loading() || snap.IsParticipant() {
		t.Fatalf("expected validating state without roles, got %+v", snap)
	}

	if _, err := store.Login(context.Background(), "new", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	close(api.gate)
	<-done

	snap := store.Snapshot()
	if !snap.LoggedIn() || snap.Session.UserID != 9 {
		t.Fatalf("expected login to win, got %+v", snap)
	}
	if stored, ok := storedSession(t, storage); !ok || stored.UserID != 9 {
		t.Fatalf("expected login session persisted, got %+v %v", stored, ok)
	}
}

func TestStore_StaleValidationFailureDoesNotPurgeLogin(t *testing.T) {
	storage := NewMemoryStorage()
	persistSession(t, storage, domain.Session{UserID: 41, Username: "ghost", Role: domain.RoleParticipant})
	api := newFakeAPI()
	api.gate = make(chan struct{})
	api.started = make(chan struct{})
	api.loginUser = domain.User{ID: 9, Username: "new", Role: domain.RoleAdmin}
	store := NewStore(api, storage, zap.NewNop())

	done := make(chan struct{})
	go func() {
		store.Init(context.Background())
		close(done)
	}()
	<-api.started
	if _, err := store.Login(context.Background(), "new", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	close(api.gate)
	<-done

	if !store.Snapshot().IsAdmin() {
		t.Fatalf("expected admin session to survive stale validation")
	}
	if _, ok := storedSession(t, storage); !ok {
		t.Fatalf("expected login record to survive stale validation")
	}
}

func TestStoreRefresh(t *testing.T) {
	api := newFakeAPI(domain.User{ID: 5, Username: "ana", Role: domain.RoleParticipant})
	api.loginUser = domain.User{ID: 5, Username: "ana", Role: domain.RoleParticipant}
	store := NewStore(api, NewMemoryStorage(), zap.NewNop())

	if _, err := store.Refresh(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	if _, err := store.Login(context.Background(), "ana", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	api.mu.Lock()
	api.users[5] = domain.User{ID: 5, Username: "ana", Role: domain.RoleOrganizer}
	api.mu.Unlock()

	sess, err := store.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sess.Role != domain.RoleOrganizer || !store.Snapshot().IsOrganizer() {
		t.Fatalf("expected refreshed role, got %+v", sess)
	}
}

func TestStoreSubscribe(t *testing.T) {
	api := newFakeAPI()
	api.loginUser = domain.User{ID: 5, Username: "ana", Role: domain.RoleParticipant}
	store := NewStore(api, NewMemoryStorage(), zap.NewNop())

	var mu sync.Mutex
	var states []State
	cancel := store.Subscribe(func(s Snapshot) {
		mu.Lock()
		states = append(states, s.State)
		mu.Unlock()
	})

	store.Init(context.Background())
	if _, err := store.Login(context.Background(), "ana", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	cancel()
	store.Logout(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(states) != 2 || states[0] != StateLoggedOut || states[1] != StateLoggedIn {
		t.Fatalf("unexpected transitions %v", states)
	}
}

func TestStoreWaitReady(t *testing.T) {
	store := NewStore(newFakeAPI(), NewMemoryStorage(), zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := store.WaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline before init, got %v", err)
	}

	go store.Init(context.Background())
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if err := store.WaitReady(ctx2); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
}
