package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mudrex_agent/internal/normalize"
	"mudrex_agent/pkg/logger"

	"github.com/gorilla/websocket"
)

type tick struct {
	price string
	at    time.Time
}

// Stream держит одно WebSocket-соединение с потоком mark price и последнюю
// цену по каждому символу. Это быстрый путь для запроса цены; позиции из
// этих данных не строятся никогда.
type Stream struct {
	dialer *websocket.Dialer
	url    string

	mu        sync.RWMutex
	prices    map[string]tick
	connected bool

	now func() time.Time
}

func NewStream(url string) *Stream {
	return &Stream{
		dialer: &websocket.Dialer{},
		url:    url,
		prices: make(map[string]tick),
		now:    time.Now,
	}
}

// Run крутит connect/subscribe/read с переподключением до отмены контекста.
func (s *Stream) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			logger.Error("ws dial %s: %v", s.url, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		sub := map[string]any{
			"op":   "subscribe",
			"args": []map[string]string{{"channel": "mark_price"}},
		}
		if err := conn.WriteJSON(sub); err != nil {
			logger.Error("ws subscribe: %v", err)
			_ = conn.Close()
			continue
		}

		s.setConnected(true)
		logger.Info("ws connected: mark price stream")

		// keepalive, иначе апстрим рвет тихое соединение
		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(20 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-stopPing:
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"op": "ping"})
				}
			}
		}()

		s.readLoop(conn)
		close(stopPing)
		s.setConnected(false)
		_ = conn.Close()
	}
}

func (s *Stream) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Error("ws read: %v", err)
			return
		}

		var frame struct {
			Channel string           `json:"channel"`
			Data    []map[string]any `json:"data"`
		}
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if frame.Channel != "mark_price" {
			continue
		}

		for _, rec := range frame.Data {
			s.apply(rec)
		}
	}
}

// apply кладет тик в кэш цен. Цена идет через ту же нормализацию
// mark_price/market_price, что и остальной код: кадр без цены молча
// пропускается, нулей он не порождает.
func (s *Stream) apply(rec map[string]any) {
	symbol, _ := rec["symbol"].(string)
	if symbol == "" {
		return
	}
	price, err := normalize.MarkPrice(rec)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.prices[symbol] = tick{price: price, at: s.now()}
	s.mu.Unlock()
}

// LatestPrice отдает последнюю цену не старше maxAge.
func (s *Stream) LatestPrice(symbol string, maxAge time.Duration) (string, bool) {
	s.mu.RLock()
	t, ok := s.prices[symbol]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if maxAge > 0 && s.now().Sub(t.at) > maxAge {
		return "", false
	}
	return t.price, true
}

func (s *Stream) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Stream) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
