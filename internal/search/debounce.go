package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded indica que una consulta más nueva reemplazó a esta.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Searcher es implementado por Aggregator.
type Searcher interface {
	SearchAll(ctx context.Context, query string) Results
}

// Debouncer espera un período de calma antes de buscar y descarta los
// resultados de consultas que llegaron después de una más nueva.
type Debouncer struct {
	searcher Searcher
	delay    time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewDebouncer(searcher Searcher, delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{searcher: searcher, delay: delay}
}

func (d *Debouncer) Search(ctx context.Context, query string) (Results, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	d.seq++
	seq := d.seq
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = cancel
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		if d.superseded(seq) {
			return Results{}, ErrSuperseded
		}
		return Results{}, ctx.Err()
	}

	res := d.searcher.SearchAll(ctx, query)
	if d.superseded(seq) {
		return Results{}, ErrSuperseded
	}
	return res, nil
}

func (d *Debouncer) superseded(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seq != d.seq
}
