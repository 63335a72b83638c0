// Package search agrega búsquedas sobre usuarios, eventos y posts. No hay
// endpoint de búsqueda en la API: se trae una página acotada de cada fuente y
// se filtra localmente.
package search

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/domain"
)

type ResultType string

const (
	TypeUser     ResultType = "user"
	TypeCategory ResultType = "category"
	TypePost     ResultType = "post"
)

// FetchSize es la cantidad de registros pedida a cada fuente.
const FetchSize = 100

const subtitleMaxRunes = 100

type Result struct {
	Type     ResultType `json:"type"`
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	URL      string     `json:"url"`
}

type Results struct {
	Users      []Result `json:"users"`
	Categories []Result `json:"categories"`
	Posts      []Result `json:"posts"`
}

// Empty devuelve resultados vacíos (slices no nil).
func Empty() Results {
	return Results{Users: []Result{}, Categories: []Result{}, Posts: []Result{}}
}

// Total cuenta todos los resultados.
func (r Results) Total() int {
	return len(r.Users) + len(r.Categories) + len(r.Posts)
}

// Limits acota cada tipo de resultado por separado.
type Limits struct {
	Users      int
	Categories int
	Posts      int
}

var DefaultLimits = Limits{Users: 5, Categories: 5, Posts: 10}

// Source es el subconjunto de apiclient.Client que consume el agregador.
type Source interface {
	ListUsers(ctx context.Context, skip, limit int, role domain.Role) (domain.Page[domain.User], error)
	ListCategories(ctx context.Context, f apiclient.CategoryFilter) (domain.Page[domain.Category], error)
	ListPosts(ctx context.Context, f apiclient.PostFilter) (domain.Page[domain.Post], error)
}

type Aggregator struct {
	src    Source
	limits Limits
	logger *zap.Logger
}

func NewAggregator(src Source, limits Limits, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.Users <= 0 {
		limits.Users = DefaultLimits.Users
	}
	if limits.Categories <= 0 {
		limits.Categories = DefaultLimits.Categories
	}
	if limits.Posts <= 0 {
		limits.Posts = DefaultLimits.Posts
	}
	return &Aggregator{src: src, limits: limits, logger: logger}
}

// outcome es el resultado explícito de una fuente; el agregador descarta err
// a propósito y degrada a lista vacía.
type outcome[T any] struct {
	items []T
	err   error
}

// SearchAll busca query en las tres fuentes en paralelo. Una consulta vacía
// no hace llamadas de red; una fuente que falla aporta una lista vacía.
func (a *Aggregator) SearchAll(ctx context.Context, query string) Results {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Empty()
	}

	var (
		users      outcome[domain.User]
		categories outcome[domain.Category]
		posts      outcome[domain.Post]
		g          errgroup.Group
	)
	g.Go(func() error {
		page, err := a.src.ListUsers(ctx, 0, FetchSize, "")
		users = outcome[domain.User]{items: page.Items, err: err}
		return nil
	})
	g.Go(func() error {
		page, err := a.src.ListCategories(ctx, apiclient.CategoryFilter{Pagination: apiclient.Paginate(0, FetchSize)})
		categories = outcome[domain.Category]{items: page.Items, err: err}
		return nil
	})
	g.Go(func() error {
		page, err := a.src.ListPosts(ctx, apiclient.PostFilter{
			Pagination: apiclient.Paginate(0, FetchSize),
			Status:     domain.PostStatusPublished,
		})
		posts = outcome[domain.Post]{items: page.Items, err: err}
		return nil
	})
	_ = g.Wait()

	out := Empty()
	if a.usable("users", users.err) {
		out.Users = collect(users.items, a.limits.Users, func(u domain.User) (Result, bool) {
			if !containsAny(q, u.Username, u.FullName) {
				return Result{}, false
			}
			return UserResult(u), true
		})
	}
	if a.usable("categories", categories.err) {
		out.Categories = collect(categories.items, a.limits.Categories, func(c domain.Category) (Result, bool) {
			if !containsAny(q, c.Name, c.Description) {
				return Result{}, false
			}
			return CategoryResult(c), true
		})
	}
	if a.usable("posts", posts.err) {
		out.Posts = collect(posts.items, a.limits.Posts, func(p domain.Post) (Result, bool) {
			if p.Status != domain.PostStatusPublished || !containsAny(q, p.Title, p.Content) {
				return Result{}, false
			}
			return PostResult(p), true
		})
	}
	return out
}

func (a *Aggregator) usable(source string, err error) bool {
	if err != nil {
		a.logger.Warn("search source failed", zap.String("source", source), zap.Error(err))
		return false
	}
	return true
}

func collect[T any](items []T, limit int, match func(T) (Result, bool)) []Result {
	out := make([]Result, 0, limit)
	for _, it := range items {
		if len(out) >= limit {
			break
		}
		if r, ok := match(it); ok {
			out = append(out, r)
		}
	}
	return out
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// UserURL, CategoryURL y PostURL son las rutas de navegación canónicas.
func UserURL(id int64) string {
	return "/profile/" + strconv.FormatInt(id, 10)
}

func CategoryURL(id int64) string {
	return "/categories/" + strconv.FormatInt(id, 10)
}

// PostURL: los posts "for_category" son propuestas; cualquier otro tipo,
// incluidos vacíos o heredados, va al detalle genérico.
func PostURL(id int64, postType string) string {
	if postType == domain.PostTypeForCategory {
		return "/proposals/" + strconv.FormatInt(id, 10)
	}
	return "/posts/" + strconv.FormatInt(id, 10)
}

func UserResult(u domain.User) Result {
	return Result{Type: TypeUser, ID: u.ID, Title: u.DisplayName(), Subtitle: "@" + u.Username, URL: UserURL(u.ID)}
}

func CategoryResult(c domain.Category) Result {
	return Result{Type: TypeCategory, ID: c.ID, Title: c.Name, Subtitle: truncate(c.Description), URL: CategoryURL(c.ID)}
}

func PostResult(p domain.Post) Result {
	return Result{Type: TypePost, ID: p.ID, Title: p.Title, Subtitle: truncate(p.Content), URL: PostURL(p.ID, p.Type)}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= subtitleMaxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:subtitleMaxRunes]) + "…"
}
