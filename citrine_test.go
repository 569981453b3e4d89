package citrine_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/citrine"
	"github.com/aretw0/citrine/pkg/operation"
	"github.com/aretw0/citrine/pkg/registry"
	"github.com/aretw0/citrine/pkg/schema"
)

func TestEngine_Call(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()

	var finished []string
	eng := citrine.New(
		citrine.WithLogger(logger),
		citrine.WithMetrics(reg),
		citrine.WithLifecycleHooks(operation.Hooks{
			OnTaskFinish: func(ctx context.Context, e *operation.TaskEvent) {
				finished = append(finished, e.Task.Name)
			},
		}),
	)

	eng.Operation("Double").
		ContractFunc(func(b *schema.Builder) {
			b.Attribute("n", schema.Typed(schema.TypeInteger))
		}).
		Step("double", func(ctx context.Context, c *operation.Context) (operation.Outcome, error) {
			n, _ := c.Contract()["n"].(int)
			c.Set("doubled", n*2)
			return operation.Continue, nil
		}).
		DefineResult(func(t *operation.ResultType) {
			t.Data(func(c *operation.Context) map[string]any {
				return map[string]any{"n": c.Get("doubled")}
			})
		})

	eng.Operation("Crash").
		Step("crash", func(ctx context.Context, c *operation.Context) (operation.Outcome, error) {
			return operation.Continue, errors.New("boom")
		})

	assert.Equal(t, []string{"Crash", "Double"}, eng.Operations())

	res, err := eng.Call(context.Background(), "Double", map[string]any{"n": "21"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 42}, res.Data())
	assert.Equal(t, []string{"validate_contract", "double"}, finished)

	res, err = eng.Call(context.Background(), "Crash", nil)
	assert.ErrorIs(t, err, registry.ErrInternalServer)
	assert.Equal(t, "CrashFailure", res.Code())
	assert.Contains(t, buf.String(), "operation=Crash")

	_, err = eng.Call(context.Background(), "Nope", nil)
	assert.ErrorIs(t, err, registry.ErrOperationNotFound)

	count, err := testutil.GatherAndCount(reg, "citrine_operation_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestValidateAndConvert(t *testing.T) {
	spec, err := schema.ParseSpec([]byte("status:\n  map:\n    active: 1\n    inactive: 0\n  bind_to: state\n"))
	require.NoError(t, err)

	res, err := citrine.Validate(spec, map[string]any{"status": "active"})
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, map[string]any{"status": "active"}, res.Data)

	res, err = citrine.Convert(spec, map[string]any{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"state": 1}, res.Data)
}
