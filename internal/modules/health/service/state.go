package service

import (
	"time"

	marketws "mudrex_agent/internal/modules/marketws/service"
	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
)

// State агрегирует признаки живости: собран ли каталог и живо ли
// ws-соединение с потоком цен.
type State struct {
	startedAt time.Time
	catalog   *mudrex.Catalog
	stream    *marketws.Stream
}

func NewState(catalog *mudrex.Catalog, stream *marketws.Stream) *State {
	return &State{
		startedAt: time.Now(),
		catalog:   catalog,
		stream:    stream,
	}
}

// Ready: сервис готов отвечать, когда есть хотя бы один снапшот каталога.
// Поток цен не обязателен — у get_price есть REST-путь.
func (s *State) Ready() bool {
	return s.catalog != nil && s.catalog.Ready()
}

func (s *State) WSConnected() bool {
	return s.stream != nil && s.stream.Connected()
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
