// Package session mantiene la identidad del usuario actual: rehidratación desde
// almacenamiento, validación remota, login y logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"hackhub-web/internal/domain"
)

// StorageKey es la única clave bajo la que se persiste la sesión.
const StorageKey = "hackhub.currentUser"

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrIncompleteSession = errors.New("incomplete session identity")
	ErrStaleTransition   = errors.New("superseded by a newer session transition")
)

type State int

const (
	StateUnknown State = iota
	StateValidating
	StateLoggedIn
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateValidating:
		return "validating"
	case StateLoggedIn:
		return "logged_in"
	case StateLoggedOut:
		return "logged_out"
	}
	return "invalid"
}

// Snapshot es una vista inmutable del estado de la sesión.
type Snapshot struct {
	State   State
	Session *domain.Session
}

// Loading es true mientras la sesión no está resuelta.
func (s Snapshot) Loading() bool {
	return s.State == StateUnknown || s.State == StateValidating
}

func (s Snapshot) LoggedIn() bool {
	return s.State == StateLoggedIn && s.Session != nil
}

// HasRole indica si hay sesión y su rol está en roles.
func (s Snapshot) HasRole(roles ...domain.Role) bool {
	if !s.LoggedIn() {
		return false
	}
	for _, r := range roles {
		if s.Session.Role == r {
			return true
		}
	}
	return false
}

func (s Snapshot) IsOrganizer() bool   { return s.HasRole(domain.RoleOrganizer) }
func (s Snapshot) IsParticipant() bool { return s.HasRole(domain.RoleParticipant) }
func (s Snapshot) IsAdmin() bool       { return s.HasRole(domain.RoleAdmin) }

// Authenticator es el subconjunto de la API que usa el store.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
	Logout(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, id int64) (domain.User, error)
}

// Store es el dueño exclusivo de la sesión actual. Las transiciones se
// serializan con tickets: cada operación toma uno al empezar y su resultado
// solo se aplica si ninguna operación iniciada después ya se aplicó.
type Store struct {
	api     Authenticator
	storage Storage
	logger  *zap.Logger

	// commitMu serializa escrituras al storage + cambios de estado.
	commitMu sync.Mutex

	mu      sync.RWMutex
	state   State
	session *domain.Session
	ticket  uint64
	applied uint64
	subs    map[int]func(Snapshot)
	nextSub int

	readyOnce sync.Once
	ready     chan struct{}
}

func NewStore(api Authenticator, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{
		api:     api,
		storage: storage,
		logger:  logger,
		state:   StateUnknown,
		subs:    make(map[int]func(Snapshot)),
		ready:   make(chan struct{}),
	}
}

// Snapshot devuelve el estado actual.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state}
	if s.session != nil {
		copied := *s.session
		snap.Session = &copied
	}
	return snap
}

// CurrentUserID implementa apiclient.IdentitySource.
func (s *Store) CurrentUserID() (int64, bool) {
	snap := s.Snapshot()
	if !snap.LoggedIn() {
		return 0, false
	}
	return snap.Session.UserID, true
}

// Subscribe registra fn para cada transición. Devuelve la función para
// desuscribirse.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Ready se cierra cuando la sesión sale de Unknown/Validating por primera vez.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady bloquea hasta que la sesión esté resuelta o ctx termine.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Init rehidrata la sesión persistida y la valida contra la API. Los fallos
// nunca se propagan: terminan en LoggedOut.
func (s *Store) Init(ctx context.Context) {
	ticket := s.begin()

	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("session storage read failed", zap.Error(err))
		s.commit(ticket, StateLoggedOut, nil, nil)
		return
	}
	if !ok {
		s.commit(ticket, StateLoggedOut, nil, nil)
		return
	}

	var persisted domain.Session
	if err := json.Unmarshal(raw, &persisted); err != nil || !persisted.Complete() {
		s.logger.Warn("discarding corrupt session record")
		s.commit(ticket, StateLoggedOut, nil, s.purge)
		return
	}

	s.markValidating(ticket)

	user, err := s.api.GetUser(ctx, persisted.UserID)
	if err != nil {
		s.logger.Info("session validation failed", zap.Int64("user_id", persisted.UserID), zap.Error(err))
		s.commit(ticket, StateLoggedOut, nil, s.purge)
		return
	}
	fresh := domain.SessionFromUser(user)
	if !fresh.Complete() {
		s.commit(ticket, StateLoggedOut, nil, s.purge)
		return
	}
	s.commit(ticket, StateLoggedIn, &fresh, s.persist(fresh))
}

// Login autentica y persiste la sesión. Si falla, el estado no cambia y el
// error se devuelve tal cual.
func (s *Store) Login(ctx context.Context, username, password string) (domain.Session, error) {
	ticket := s.begin()

	user, err := s.api.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	sess := domain.SessionFromUser(user)
	if !sess.Complete() {
		return domain.Session{}, ErrIncompleteSession
	}
	if !s.commit(ticket, StateLoggedIn, &sess, s.persist(sess)) {
		return domain.Session{}, ErrStaleTransition
	}
	s.logger.Info("user logged in", zap.Int64("user_id", sess.UserID), zap.String("role", string(sess.Role)))
	return sess, nil
}

// Logout siempre termina en LoggedOut, aunque la llamada remota falle.
func (s *Store) Logout(ctx context.Context) {
	ticket := s.begin()

	if current := s.Snapshot(); current.LoggedIn() {
		// El resultado se descarta: el logout local no depende del servidor.
		_ = s.remoteLogout(ctx, current.Session.UserID)
	}
	s.commit(ticket, StateLoggedOut, nil, s.purge)
}

// Refresh vuelve a consultar el usuario actual y actualiza la sesión. Un
// error deja el estado intacto.
func (s *Store) Refresh(ctx context.Context) (domain.Session, error) {
	current := s.Snapshot()
	if !current.LoggedIn() {
		return domain.Session{}, ErrNotLoggedIn
	}
	ticket := s.begin()

	user, err := s.api.GetUser(ctx, current.Session.UserID)
	if err != nil {
		return domain.Session{}, err
	}
	fresh := domain.SessionFromUser(user)
	if !fresh.Complete() {
		return domain.Session{}, ErrIncompleteSession
	}
	if !s.commit(ticket, StateLoggedIn, &fresh, s.persist(fresh)) {
		return domain.Session{}, ErrStaleTransition
	}
	return fresh, nil
}

func (s *Store) remoteLogout(ctx context.Context, userID int64) error {
	err := s.api.Logout(ctx, userID)
	if err != nil {
		s.logger.Warn("remote logout failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return err
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket++
	return s.ticket
}

func (s *Store) markValidating(ticket uint64) {
	s.mu.Lock()
	if s.applied >= ticket || s.state != StateUnknown {
		s.mu.Unlock()
		return
	}
	s.state = StateValidating
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
}

// commit aplica la transición si el ticket sigue vigente. sideEffect corre
// antes del cambio de estado y solo para transiciones aceptadas.
func (s *Store) commit(ticket uint64, state State, sess *domain.Session, sideEffect func()) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	stale := ticket <= s.applied
	s.mu.RUnlock()
	if stale {
		s.logger.Debug("discarding stale session transition", zap.Uint64("ticket", ticket), zap.Stringer("state", state))
		return false
	}

	if sideEffect != nil {
		sideEffect()
	}

	s.mu.Lock()
	s.state = state
	s.session = sess
	s.applied = ticket
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
	notify(subs, snap)
	return true
}

func (s *Store) persist(sess domain.Session) func() {
	return func() {
		data, err := json.Marshal(sess)
		if err != nil {
			s.logger.Error("marshal session", zap.Error(err))
			return
		}
		if err := s.storage.Set(context.Background(), StorageKey, data); err != nil {
			s.logger.Warn("session storage write failed", zap.Error(err))
		}
	}
}

func (s *Store) purge() {
	if err := s.storage.Remove(context.Background(), StorageKey); err != nil {
		s.logger.Warn("session storage remove failed", zap.Error(err))
	}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
