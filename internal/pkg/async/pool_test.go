package async_test

import (
	"folio/internal/pkg/async"

	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolExecuteCollectsResultsByName(t *testing.T) {
	pool := async.NewPool(4)

	tasks := []async.Task{
		{Name: "alpha", Execute: func() (interface{}, error) { return 1, nil }},
		{Name: "beta", Execute: func() (interface{}, error) { return "two", nil }},
		{Name: "gamma", Execute: func() (interface{}, error) { return []int{3}, nil }},
	}

	results := pool.Execute(context.Background(), tasks)

	require.Len(t, results, 3)
	assert.Equal(t, 1, results["alpha"].Data)
	assert.Equal(t, "two", results["beta"].Data)
	assert.Equal(t, []int{3}, results["gamma"].Data)
	for name, result := range results {
		assert.NoError(t, result.Err, "task %s should not error", name)
	}
}

func TestPoolExecutePropagatesErrors(t *testing.T) {
	pool := async.NewPool(2)
	boom := errors.New("boom")

	tasks := []async.Task{
		{Name: "ok", Execute: func() (interface{}, error) { return 42, nil }},
		{Name: "fails", Execute: func() (interface{}, error) { return nil, boom }},
	}

	results := pool.Execute(context.Background(), tasks)

	require.Len(t, results, 2)
	assert.NoError(t, results["ok"].Err)
	assert.ErrorIs(t, results["fails"].Err, boom)
	assert.Nil(t, results["fails"].Data)
}

func TestPoolExecuteRunsAllTasksWithFewerWorkers(t *testing.T) {
	pool := async.NewPool(1)

	var executed int32
	tasks := make([]async.Task, 0, 8)
	for i := 0; i < 8; i++ {
		name := string(rune('a' + i))
		tasks = append(tasks, async.Task{
			Name: name,
			Execute: func() (interface{}, error) {
				atomic.AddInt32(&executed, 1)
				return name, nil
			},
		})
	}

	results := pool.Execute(context.Background(), tasks)

	assert.Len(t, results, 8)
	assert.Equal(t, int32(8), atomic.LoadInt32(&executed))
}

func TestPoolExecuteEmptyTaskList(t *testing.T) {
	pool := async.NewPool(3)

	results := pool.Execute(context.Background(), nil)

	assert.Empty(t, results)
}

func TestPoolExecuteStopsOnCancelledContext(t *testing.T) {
	pool := async.NewPool(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []async.Task{
		{Name: "slow", Execute: func() (interface{}, error) {
			time.Sleep(50 * time.Millisecond)
			return nil, nil
		}},
	}

	results := pool.Execute(ctx, tasks)

	// A cancelled context returns whatever completed so far; the map must
	// never contain entries for tasks that did not run.
	assert.LessOrEqual(t, len(results), 1)
}
