package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mudrex_agent/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakePager отдает total записей постранично и умеет падать на заданной
// странице, зависать до отмашки и врать про конец списка.
type fakePager struct {
	mu      sync.Mutex
	total   int
	offsets []int

	failAtPage int           // -1: не падать
	gate       chan struct{} // если не nil, первая страница ждет закрытия
	endless    bool          // всегда полная страница, last=false
}

func newFakePager(total int) *fakePager {
	return &fakePager{total: total, failAtPage: -1}
}

func (f *fakePager) FetchPage(ctx context.Context, offset, limit int) ([]map[string]any, bool, error) {
	f.mu.Lock()
	first := len(f.offsets) == 0
	f.offsets = append(f.offsets, offset)
	page := offset / limit
	f.mu.Unlock()

	if first && f.gate != nil {
		<-f.gate
	}
	if f.failAtPage >= 0 && page == f.failAtPage {
		return nil, false, fmt.Errorf("upstream blew up at page %d", page)
	}

	if f.endless {
		records := make([]map[string]any, limit)
		for i := range records {
			records[i] = map[string]any{"symbol": fmt.Sprintf("SYM%d_%d", offset, i), "asset_id": fmt.Sprintf("a%d-%d", offset, i)}
		}
		return records, false, nil
	}

	var records []map[string]any
	for i := offset; i < f.total && i < offset+limit; i++ {
		records = append(records, map[string]any{
			"symbol":   fmt.Sprintf("SYM%dUSDT", i),
			"asset_id": fmt.Sprintf("asset-%d", i),
		})
	}
	return records, false, nil
}

func (f *fakePager) requestOffsets() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.offsets))
	copy(out, f.offsets)
	return out
}

func TestCatalogSweepsEveryPage(t *testing.T) {
	pager := newFakePager(537)
	cat := NewCatalog(pager, 50, 200, 0)

	instruments, err := cat.ListAll(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, instruments, 537)

	// 537 записей при limit=50 — это 11 запросов с offset 0..500
	want := []int{0, 50, 100, 150, 200, 250, 300, 350, 400, 450, 500}
	assert.Equal(t, want, pager.requestOffsets())
}

func TestCatalogShortPageTerminates(t *testing.T) {
	pager := newFakePager(30)
	cat := NewCatalog(pager, 50, 200, 0)

	instruments, err := cat.ListAll(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, instruments, 30)
	assert.Equal(t, []int{0}, pager.requestOffsets())
}

func TestCatalogFailureKeepsPreviousSnapshot(t *testing.T) {
	pager := newFakePager(120)
	cat := NewCatalog(pager, 50, 200, 0)

	first, err := cat.ListAll(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, first, 120)

	pager.failAtPage = 2
	_, err = cat.ListAll(context.Background(), true)
	require.Error(t, err)

	// прежний снапшот остается рабочим после провалившейся пересборки
	got, err := cat.ListAll(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, got, 120)
}

func TestCatalogBadRecordAbortsAssembly(t *testing.T) {
	pager := newFakePager(10)
	cat := NewCatalog(pager, 50, 200, 0)

	_, err := cat.ListAll(context.Background(), false)
	require.NoError(t, err)

	badPager := &brokenRecordPager{}
	cat2 := NewCatalog(badPager, 50, 200, 0)
	_, err = cat2.ListAll(context.Background(), false)
	require.Error(t, err)
	assert.False(t, cat2.Ready())
}

type brokenRecordPager struct{}

func (p *brokenRecordPager) FetchPage(ctx context.Context, offset, limit int) ([]map[string]any, bool, error) {
	return []map[string]any{
		{"symbol": "OKUSDT", "asset_id": "a1"},
		{"asset_id": "a2"}, // без символа — вся сборка должна упасть
	}, true, nil
}

func TestCatalogCoalescesConcurrentRefresh(t *testing.T) {
	pager := newFakePager(60)
	pager.gate = make(chan struct{})
	cat := NewCatalog(pager, 50, 200, 0)

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cat.ListAll(context.Background(), true)
		}(i)
	}

	// все читатели повисли на одной сборке; отпускаем первую страницу
	time.Sleep(50 * time.Millisecond)
	close(pager.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	// одна развертка: две страницы, сколько бы читателей ни пришло
	assert.Equal(t, []int{0, 50}, pager.requestOffsets())
}

func TestCatalogSafetyBoundStopsLyingPager(t *testing.T) {
	pager := newFakePager(0)
	pager.endless = true
	cat := NewCatalog(pager, 50, 5, 0)

	_, err := cat.ListAll(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 pages")
}

func TestCatalogCanceledWaiterDoesNotKillSweep(t *testing.T) {
	pager := newFakePager(60)
	pager.gate = make(chan struct{})
	cat := NewCatalog(pager, 50, 200, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cat.ListAll(ctx, false)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// сборка доживает на отвязанном контексте и публикует снапшот
	close(pager.gate)
	require.Eventually(t, cat.Ready, time.Second, 10*time.Millisecond)

	got, err := cat.ListAll(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, got, 60)
}

func TestCatalogLookups(t *testing.T) {
	pager := &namedPager{}
	cat := NewCatalog(pager, 50, 200, 0)
	ctx := context.Background()

	inst, err := cat.Get(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", inst.Name)

	_, err = cat.Get(ctx, "NOPEUSDT")
	require.Error(t, err)

	ok, err := cat.Exists(ctx, "ETHUSDT")
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := cat.Search(ctx, "bit")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "BTCUSDT", found[0].Symbol)

	high, err := cat.ByLeverage(ctx, 50, 0)
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "BTCUSDT", high[0].Symbol)

	active, err := cat.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

type namedPager struct{}

func (p *namedPager) FetchPage(ctx context.Context, offset, limit int) ([]map[string]any, bool, error) {
	return []map[string]any{
		{"symbol": "BTCUSDT", "asset_id": "a1", "name": "Bitcoin", "max_leverage": "100"},
		{"symbol": "ETHUSDT", "asset_id": "a2", "name": "Ethereum", "max_leverage": "25", "is_active": false},
	}, true, nil
}
