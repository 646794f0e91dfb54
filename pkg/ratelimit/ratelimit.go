package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Budget — общий бюджет запросов на секунду/минуту/час/сутки.
// Все операции (включая постраничные запросы каталога) проходят через один
// Budget: операция, выходящая за лимит, ждёт, а не отправляется.
type Budget struct {
	mu      sync.Mutex
	windows []*window
	now     func() time.Time
}

type window struct {
	size  time.Duration
	limit int
	// отметки отправленных запросов внутри окна
	stamps []time.Time
}

type Limits struct {
	PerSecond int
	PerMinute int
	PerHour   int
	PerDay    int
}

func New(l Limits) *Budget {
	b := &Budget{now: time.Now}
	add := func(size time.Duration, limit int) {
		if limit > 0 {
			b.windows = append(b.windows, &window{size: size, limit: limit})
		}
	}
	add(time.Second, l.PerSecond)
	add(time.Minute, l.PerMinute)
	add(time.Hour, l.PerHour)
	add(24*time.Hour, l.PerDay)
	return b
}

// Wait блокирует, пока во всех окнах не появится свободный слот, и занимает его.
func (b *Budget) Wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		now := b.now()
		wait := time.Duration(0)
		for _, w := range b.windows {
			if d := w.retryIn(now); d > wait {
				wait = d
			}
		}
		if wait == 0 {
			for _, w := range b.windows {
				w.stamps = append(w.stamps, now)
			}
			b.mu.Unlock()
			return nil
		}
		b.mu.Unlock()

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Allow — неблокирующая проверка с занятием слота.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for _, w := range b.windows {
		if w.retryIn(now) > 0 {
			return false
		}
	}
	for _, w := range b.windows {
		w.stamps = append(w.stamps, now)
	}
	return true
}

// retryIn: 0 — слот есть; иначе сколько ждать до освобождения самого старого.
func (w *window) retryIn(now time.Time) time.Duration {
	cutoff := now.Add(-w.size)
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.stamps = w.stamps[i:]
	}
	if len(w.stamps) < w.limit {
		return 0
	}
	return w.stamps[0].Add(w.size).Sub(now)
}
