package service

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"mudrex_agent/pkg/logger"

	"github.com/bytedance/sonic"
)

// Dispatcher гоняет строки JSON через реестр: одна строка запроса — одна
// строка ответа. Минимальный адаптер для внешнего хоста поверх stdin/stdout.
type Dispatcher struct {
	registry *Registry
	in       io.Reader
	out      io.Writer

	mu sync.Mutex // сериализация записи ответов
}

type request struct {
	ID   any             `json:"id"`
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

type response struct {
	ID    any        `json:"id,omitempty"`
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

func NewDispatcher(registry *Registry, in io.Reader, out io.Writer) *Dispatcher {
	return &Dispatcher{registry: registry, in: in, out: out}
}

// Run читает запросы до EOF или отмены контекста. Каждый запрос исполняется
// в своей горутине: медленный инструмент не блокирует остальные.
func (d *Dispatcher) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(d.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var wg sync.WaitGroup
	defer wg.Wait()

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			d.handle(ctx, line)
		}()
	}
	return scanner.Err()
}

func (d *Dispatcher) handle(ctx context.Context, line []byte) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		d.write(response{OK: false, Error: Failure(err).Error})
		return
	}

	args := Args{}
	if len(req.Args) > 0 {
		if err := json.Unmarshal(req.Args, &args); err != nil {
			d.write(response{ID: req.ID, OK: false, Error: Failure(err).Error})
			return
		}
	}

	env := d.registry.Invoke(ctx, req.Tool, args)
	d.write(response{ID: req.ID, OK: env.OK, Data: env.Data, Error: env.Error})
}

func (d *Dispatcher) write(resp response) {
	payload, err := sonic.Marshal(resp)
	if err != nil {
		logger.Error("marshal response: %v", err)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = d.out.Write(append(payload, '\n'))
}
