package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/internal/models"
	"mudrex_agent/pkg/logger"
)

// PagedFetcher отдает одну страницу сырых записей справочника.
// last=true — апстрим явно сказал, что страница последняя.
type PagedFetcher interface {
	FetchPage(ctx context.Context, offset, limit int) (records []map[string]any, last bool, err error)
}

// Snapshot — неизменяемый результат одной полной сборки справочника.
type Snapshot struct {
	Instruments []models.Instrument
	FetchedAt   time.Time

	bySymbol map[string]models.Instrument
	byID     map[string]models.Instrument
}

type assembly struct {
	done chan struct{}
	snap *Snapshot
	err  error
}

// Catalog собирает полный справочник инструментов постраничной выборкой
// offset/limit и держит его как атомарно подменяемый снапшот. Частичный
// результат не публикуется никогда: любая ошибка страницы или кривая запись
// оставляет предыдущий снапшот нетронутым.
type Catalog struct {
	fetcher  PagedFetcher
	limit    int
	maxPages int
	ttl      time.Duration

	mu       sync.Mutex
	snap     *Snapshot
	inflight *assembly

	now func() time.Time
}

func NewCatalog(fetcher PagedFetcher, pageLimit, maxPages int, ttl time.Duration) *Catalog {
	if pageLimit <= 0 {
		pageLimit = 50
	}
	if maxPages <= 0 {
		maxPages = 200
	}
	return &Catalog{
		fetcher:  fetcher,
		limit:    pageLimit,
		maxPages: maxPages,
		ttl:      ttl,
		now:      time.Now,
	}
}

// ListAll возвращает полный список инструментов. refresh=true форсирует
// пересборку. Конкурентные вызовы во время идущей сборки ждут её же:
// страницы качаются один раз, сколько бы читателей ни пришло.
func (c *Catalog) ListAll(ctx context.Context, refresh bool) ([]models.Instrument, error) {
	snap, err := c.snapshot(ctx, refresh)
	if err != nil {
		return nil, err
	}
	out := make([]models.Instrument, len(snap.Instruments))
	copy(out, snap.Instruments)
	return out, nil
}

func (c *Catalog) snapshot(ctx context.Context, refresh bool) (*Snapshot, error) {
	c.mu.Lock()
	if !refresh && c.fresh(c.snap) {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}

	a := c.inflight
	if a == nil {
		a = &assembly{done: make(chan struct{})}
		c.inflight = a
		// сборка живет на отвязанном контексте: отмена ждущего вызова
		// бросает только ожидание, страницы докачиваются и снапшот
		// публикуется для остальных
		go c.assemble(context.WithoutCancel(ctx), a)
	}
	c.mu.Unlock()

	select {
	case <-a.done:
		if a.err != nil {
			return nil, a.err
		}
		return a.snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Catalog) fresh(snap *Snapshot) bool {
	if snap == nil {
		return false
	}
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(snap.FetchedAt) < c.ttl
}

func (c *Catalog) assemble(ctx context.Context, a *assembly) {
	snap, err := c.sweep(ctx)

	c.mu.Lock()
	if err == nil {
		c.snap = snap
	}
	c.inflight = nil
	c.mu.Unlock()

	if err != nil {
		logger.Error("catalog assembly failed: %v", err)
	} else {
		logger.Info("catalog assembled: %d instruments", len(snap.Instruments))
	}

	a.snap, a.err = snap, err
	close(a.done)
}

// sweep качает страницы offset/limit до короткой страницы, явного признака
// последней или страховочного потолка maxPages (лгущий пейджер не должен
// крутить нас вечно).
func (c *Catalog) sweep(ctx context.Context) (*Snapshot, error) {
	instruments := make([]models.Instrument, 0, c.limit)

	for page := 0; ; page++ {
		if page >= c.maxPages {
			return nil, fmt.Errorf("catalog sweep exceeded %d pages, refusing to continue", c.maxPages)
		}

		offset := page * c.limit
		records, last, err := c.fetcher.FetchPage(ctx, offset, c.limit)
		if err != nil {
			return nil, fmt.Errorf("fetch instrument page offset=%d: %w", offset, err)
		}

		for _, rec := range records {
			inst, err := models.InstrumentFromRaw(rec)
			if err != nil {
				return nil, fmt.Errorf("instrument record at offset=%d: %w", offset, err)
			}
			instruments = append(instruments, inst)
		}

		if last || len(records) < c.limit {
			break
		}
	}

	snap := &Snapshot{
		Instruments: instruments,
		FetchedAt:   c.now(),
		bySymbol:    make(map[string]models.Instrument, len(instruments)),
		byID:        make(map[string]models.Instrument, len(instruments)),
	}
	for _, inst := range instruments {
		snap.bySymbol[inst.Symbol] = inst
		if inst.AssetID != "" {
			snap.byID[inst.AssetID] = inst
		}
	}
	return snap, nil
}

// Get ищет инструмент по символу в снапшоте. Символ, которого нет в свежем
// снапшоте, неизвестен — по одному символу каталог в апстрим не ходит.
func (c *Catalog) Get(ctx context.Context, symbol string) (models.Instrument, error) {
	snap, err := c.snapshot(ctx, false)
	if err != nil {
		return models.Instrument{}, err
	}
	inst, ok := snap.bySymbol[symbol]
	if !ok {
		return models.Instrument{}, apierr.NotFound(fmt.Sprintf("symbol %q is not a known instrument", symbol))
	}
	return inst, nil
}

func (c *Catalog) GetByAssetID(ctx context.Context, assetID string) (models.Instrument, error) {
	snap, err := c.snapshot(ctx, false)
	if err != nil {
		return models.Instrument{}, err
	}
	inst, ok := snap.byID[assetID]
	if !ok {
		return models.Instrument{}, apierr.NotFound(fmt.Sprintf("asset id %q is not a known instrument", assetID))
	}
	return inst, nil
}

func (c *Catalog) Exists(ctx context.Context, symbol string) (bool, error) {
	snap, err := c.snapshot(ctx, false)
	if err != nil {
		return false, err
	}
	_, ok := snap.bySymbol[symbol]
	return ok, nil
}

// Search ищет по подстроке в символе или отображаемом имени, без учета
// регистра.
func (c *Catalog) Search(ctx context.Context, pattern string) ([]models.Instrument, error) {
	snap, err := c.snapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(pattern)
	var out []models.Instrument
	for _, inst := range snap.Instruments {
		if strings.Contains(strings.ToLower(inst.Symbol), needle) ||
			strings.Contains(strings.ToLower(inst.Name), needle) {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (c *Catalog) ByLeverage(ctx context.Context, min, max float64) ([]models.Instrument, error) {
	snap, err := c.snapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	var out []models.Instrument
	for _, inst := range snap.Instruments {
		lev := inst.MaxLeverageValue()
		if lev >= min && (max <= 0 || lev <= max) {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (c *Catalog) Active(ctx context.Context) ([]models.Instrument, error) {
	snap, err := c.snapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	var out []models.Instrument
	for _, inst := range snap.Instruments {
		if inst.IsActive {
			out = append(out, inst)
		}
	}
	return out, nil
}

// Ready — собран ли хоть один снапшот (для readyz).
func (c *Catalog) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap != nil
}
