package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager mantiene un Store por visitante. Cada visitante tiene su propio
// espacio en el storage, equivalente a una pestaña del navegador.
type Manager struct {
	api         Authenticator
	storage     Storage
	logger      *zap.Logger
	initTimeout time.Duration

	mu     sync.Mutex
	stores map[string]*managedStore
}

type managedStore struct {
	store    *Store
	lastSeen time.Time
}

func NewManager(api Authenticator, storage Storage, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Manager{
		api:         api,
		storage:     storage,
		logger:      logger,
		initTimeout: 5 * time.Second,
		stores:      make(map[string]*managedStore),
	}
}

// Get devuelve el Store del visitante, creándolo y lanzando su rehidratación
// en segundo plano si no existía.
func (m *Manager) Get(visitorID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ms, ok := m.stores[visitorID]; ok {
		ms.lastSeen = time.Now()
		return ms.store
	}

	store := NewStore(m.api, Namespaced(m.storage, "visitor:"+visitorID+":"), m.logger.With(zap.String("visitor", visitorID)))
	m.stores[visitorID] = &managedStore{store: store, lastSeen: time.Now()}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.initTimeout)
		defer cancel()
		store.Init(ctx)
	}()
	return store
}

// Sweep libera de memoria los stores inactivos por más de idle. Lo
// persistido se conserva y se rehidrata en la próxima visita.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, ms := range m.stores {
		if ms.lastSeen.Before(cutoff) {
			delete(m.stores, id)
			removed++
		}
	}
	return removed
}

// Len devuelve la cantidad de stores en memoria.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
