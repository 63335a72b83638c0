package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/domain"
	"hackhub-web/internal/env"
	"hackhub-web/internal/search"
	"hackhub-web/internal/service"
	"hackhub-web/internal/session"
)

type recordedRequest struct {
	identity string
	query    string
}

// fakeBackend simula la API REST de la plataforma.
type fakeBackend struct {
	mu         sync.Mutex
	users      map[int64]domain.User
	passwords  map[string]string
	categories []domain.Category
	posts      []domain.Post
	notes      []domain.Notification
	requests   map[string]recordedRequest
	userGate   chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: map[int64]domain.User{
			1: {ID: 1, Username: "ana", FullName: "Ana Pérez", Role: domain.RoleOrganizer},
			2: {ID: 2, Username: "bruno", Role: domain.RoleParticipant},
			3: {ID: 3, Username: "root", Role: domain.RoleAdmin},
		},
		passwords: map[string]string{"ana": "secret", "bruno": "secret", "root": "secret"},
		requests:  make(map[string]recordedRequest),
	}
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests[r.Method+" "+r.URL.Path] = recordedRequest{
		identity: r.Header.Get(apiclient.IdentityHeader),
		query:    r.URL.RawQuery,
	}
}

func (b *fakeBackend) seen(key string) (recordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rr, ok := b.requests[key]
	return rr, ok
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		if pw, ok := b.passwords[req.Username]; ok && pw == req.Password {
			for _, u := range b.users {
				if u.Username == req.Username {
					writeJSON(w, http.StatusOK, u)
					return
				}
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		if b.userGate != nil {
			<-b.userGate
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		u, ok := b.users[id]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		b.mu.Lock()
		items := make([]domain.User, 0, len(b.users))
		for id := int64(1); id <= int64(len(b.users)); id++ {
			items = append(items, b.users[id])
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, domain.Page[domain.User]{Items: items, Total: len(items)})
	})
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		var in domain.UserCreate
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, domain.User{ID: 99, Username: in.Username, Email: in.Email, Role: in.Role})
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeJSON(w, http.StatusOK, domain.Page[domain.Category]{Items: b.categories, Total: len(b.categories)})
	})
	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeJSON(w, http.StatusOK, domain.Page[domain.Post]{Items: b.posts, Total: len(b.posts)})
	})
	mux.HandleFunc("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeJSON(w, http.StatusOK, domain.Page[domain.Notification]{Items: b.notes, Total: len(b.notes)})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	router  *gin.Engine
	backend *fakeBackend
	tokens  *service.VisitorTokenService
	storage session.Storage
}

type envOptions struct {
	limiter   service.LoginRateLimiter
	readyWait time.Duration
}

func newTestEnv(t *testing.T, backend *fakeBackend, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		if backend.userGate != nil {
			close(backend.userGate)
		}
	})

	logger := zap.NewNop()
	api := apiclient.New(env.EnvConfig{APIURL: srv.URL + "/api"}, apiclient.WithLogger(logger))
	storage := session.NewMemoryStorage()
	sessions := session.NewManager(api, storage, logger)
	tokens := service.NewVisitorTokenService("test-secret", time.Hour)

	if opts.readyWait == 0 {
		opts.readyWait = time.Second
	}
	if opts.readyWait < 0 {
		opts.readyWait = 0
	}

	router := NewRouter(
		logger,
		VisitorMiddleware(tokens, sessions, VisitorOptions{ReadyWait: opts.readyWait}),
		NewEnvHandler(env.EnvConfig{APIURL: "/api"}),
		NewAuthHandler(logger, api, opts.limiter),
		NewSearchHandler(logger, search.NewAggregator(api, search.Limits{}, logger), 0),
		NewPagesHandler(logger, api),
	)
	return &testEnv{router: router, backend: backend, tokens: tokens, storage: storage}
}

// browser conserva la cookie de visitante entre requests.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, h: e.router}
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			b.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return rec
}

func (b *browser) login(username, password string) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password})
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func persistVisitorSession(t *testing.T, storage session.Storage, visitorID string, sess domain.Session) {
	t.Helper()
	data, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	ns := session.Namespaced(storage, "visitor:"+visitorID+":")
	if err := ns.Set(context.Background(), session.StorageKey, data); err != nil {
		t.Fatalf("persist session: %v", err)
	}
}
