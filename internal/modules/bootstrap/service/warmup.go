package service

import (
	"context"
	"fmt"
	"time"

	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/internal/notify"
)

// Warmuper прогревает каталог инструментов на старте, чтобы первый вызов
// инструмента не платил за полную развертку страниц.
type Warmuper struct {
	catalog *mudrex.Catalog
	n       *notify.Telegram
}

func NewWarmuper(catalog *mudrex.Catalog, n *notify.Telegram) *Warmuper {
	return &Warmuper{catalog: catalog, n: n}
}

func (w *Warmuper) Warmup(ctx context.Context) error {
	start := time.Now()

	instruments, err := w.catalog.ListAll(ctx, true)
	if err != nil {
		w.n.Sendf("⚠️ Прогрев каталога упал: %v", err)
		return fmt.Errorf("catalog warmup: %w", err)
	}

	w.n.Sendf("🔥 Каталог прогрет: %d инструментов за %s", len(instruments), time.Since(start).Round(time.Millisecond))
	return nil
}
