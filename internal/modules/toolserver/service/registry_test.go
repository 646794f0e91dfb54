package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestInvokeSuccessEnvelope(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("echo", func(ctx context.Context, args Args) (any, error) {
		return map[string]any{"value": args.String("value")}, nil
	})

	env := r.Invoke(context.Background(), "echo", Args{"value": "hi"})
	assert.True(t, env.OK)
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]any{"value": "hi"}, env.Data)
}

func TestInvokeErrorIsClassified(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("broke", func(ctx context.Context, args Args) (any, error) {
		return nil, &apierr.UpstreamError{Status: 400, Message: "insufficient balance for order"}
	})

	env := r.Invoke(context.Background(), "broke", nil)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(apierr.KindInsufficientBalance), env.Error.Kind)
	assert.Equal(t, "insufficient balance for order", env.Error.Message)
	assert.NotEmpty(t, env.Error.Suggestion)
}

func TestInvokeNeverLeaksPanic(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("boom", func(ctx context.Context, args Args) (any, error) {
		panic("nil map write")
	})

	env := r.Invoke(context.Background(), "boom", nil)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(apierr.KindUnknownUpstream), env.Error.Kind)
	assert.Contains(t, env.Error.Message, "nil map write")
}

func TestInvokeUnknownTool(t *testing.T) {
	r := NewRegistry(nil)

	env := r.Invoke(context.Background(), "no_such_tool", nil)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(apierr.KindNotFound), env.Error.Kind)
}

func TestInvokeRawErrorNeverRaw(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("weird", func(ctx context.Context, args Args) (any, error) {
		return nil, errors.New("connection reset by peer")
	})

	env := r.Invoke(context.Background(), "weird", nil)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	// неузнанный отказ получает вид unknown_upstream, текст сохраняется
	assert.Equal(t, string(apierr.KindUnknownUpstream), env.Error.Kind)
	assert.Equal(t, "connection reset by peer", env.Error.Message)
}

func TestArgsCoercion(t *testing.T) {
	args := Args{"qty": 0.001, "flag": true, "n": float64(7), "s": "x"}

	assert.Equal(t, "0.001", args.String("qty"))
	assert.Equal(t, "x", args.String("s"))
	assert.True(t, args.Bool("flag"))
	assert.Equal(t, 7, args.Int("n"))
	assert.Equal(t, "fallback", args.StringDefault("missing", "fallback"))

	_, err := args.Required("missing")
	require.Error(t, err)
	assert.Equal(t, apierr.KindOrderValidation, apierr.Classify(err).Kind)
}

func TestDispatcherRoundTrip(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("ping", func(ctx context.Context, args Args) (any, error) {
		return "pong", nil
	})

	in := strings.NewReader(
		`{"id":1,"tool":"ping"}` + "\n" +
			`{"id":2,"tool":"missing"}` + "\n" +
			`not json at all` + "\n")
	var out bytes.Buffer

	d := NewDispatcher(r, in, &out)
	require.NoError(t, d.Run(context.Background()))

	byID := map[float64]response{}
	var unidentified []response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		if id, ok := resp.ID.(float64); ok {
			byID[id] = resp
		} else {
			unidentified = append(unidentified, resp)
		}
	}

	require.Contains(t, byID, float64(1))
	assert.True(t, byID[1].OK)
	assert.Equal(t, "pong", byID[1].Data)

	require.Contains(t, byID, float64(2))
	assert.False(t, byID[2].OK)
	assert.Equal(t, string(apierr.KindNotFound), byID[2].Error.Kind)

	// мусорная строка тоже получает конверт с ошибкой
	require.Len(t, unidentified, 1)
	assert.False(t, unidentified[0].OK)
}
