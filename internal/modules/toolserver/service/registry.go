package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mudrex_agent/internal/apierr"
	auditsvc "mudrex_agent/internal/modules/audit/service"
	"mudrex_agent/pkg/logger"
	"mudrex_agent/pkg/tracing"
)

// Handler — одна операция, доступная внешнему хосту.
type Handler func(ctx context.Context, args Args) (any, error)

// Registry держит инструменты по именам и оборачивает каждый вызов в
// конверт. Паника обработчика не выходит за Invoke.
type Registry struct {
	tools map[string]Handler
	audit *auditsvc.Journal
}

func NewRegistry(audit *auditsvc.Journal) *Registry {
	return &Registry{
		tools: make(map[string]Handler),
		audit: audit,
	}
}

// Register регистрирует инструмент. Вызывается только при сборке приложения,
// до первого Invoke.
func (r *Registry) Register(name string, h Handler) {
	if _, dup := r.tools[name]; dup {
		panic(fmt.Sprintf("tool %q registered twice", name))
	}
	r.tools[name] = h
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke исполняет инструмент и всегда возвращает конверт: любой отказ,
// включая панику обработчика, приходит классифицированным в {ok:false}.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (env Envelope) {
	span, ctx := tracing.StartSpan(ctx, "tool."+name)
	defer span.Finish()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			env = Failure(fmt.Errorf("tool %s panicked: %v", name, p))
		}
		errKind := ""
		if env.Error != nil {
			errKind = env.Error.Kind
		}
		dur := time.Since(start)
		if env.OK {
			logger.Info("tool %s ok in %s", name, dur)
		} else {
			logger.Error("tool %s failed (%s) in %s", name, errKind, dur)
		}
		if r.audit != nil {
			r.audit.Record(ctx, name, env.OK, errKind, dur)
		}
	}()

	h, ok := r.tools[name]
	if !ok {
		return Failure(apierr.NotFound(fmt.Sprintf("unknown tool %q", name)))
	}

	data, err := h(ctx, args)
	if err != nil {
		return Failure(err)
	}
	return Success(data)
}
