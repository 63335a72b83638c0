package http

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackhub-web/internal/search"
)

// SearchHandler atiende la búsqueda global. Cada visitante tiene su propio
// Debouncer mientras tenga búsquedas en curso, así una consulta nueva
// reemplaza a la anterior.
type SearchHandler struct {
	logger   *zap.Logger
	searcher search.Searcher
	delay    time.Duration

	mu    sync.Mutex
	slots map[string]*searchSlot
}

type searchSlot struct {
	debouncer *search.Debouncer
	inFlight  int
}

func NewSearchHandler(logger *zap.Logger, searcher search.Searcher, delay time.Duration) *SearchHandler {
	return &SearchHandler{
		logger:   logger,
		searcher: searcher,
		delay:    delay,
		slots:    make(map[string]*searchSlot),
	}
}

// Search maneja GET /search?q=.
func (h *SearchHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"query": q, "results": search.Empty(), "total": 0})
		return
	}

	visitor := GetVisitorID(c)
	d := h.acquire(visitor)
	defer h.release(visitor)

	res, err := d.Search(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, search.ErrSuperseded) {
			c.JSON(http.StatusConflict, gin.H{"error": "superseded"})
			return
		}
		h.logger.Debug("search aborted", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search aborted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": res, "total": res.Total()})
}

func (h *SearchHandler) acquire(visitor string) *search.Debouncer {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot, ok := h.slots[visitor]
	if !ok {
		slot = &searchSlot{debouncer: search.NewDebouncer(h.searcher, h.delay)}
		h.slots[visitor] = slot
	}
	slot.inFlight++
	return slot.debouncer
}

func (h *SearchHandler) release(visitor string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot, ok := h.slots[visitor]
	if !ok {
		return
	}
	slot.inFlight--
	if slot.inFlight <= 0 {
		delete(h.slots, visitor)
	}
}
