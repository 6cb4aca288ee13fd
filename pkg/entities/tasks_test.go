package entities

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitSucceedsOnStoppedSuccess(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foreman_tasks/api/tasks/abc", r.URL.Path)
		fmt.Fprint(w, `{"id": "abc", "state": "stopped", "result": "success", "progress": 1.0}`)
	}))

	require.NoError(t, c.Tasks.Wait(context.Background(), "abc"))
}

func TestWaitFailsOnErrorResult(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "abc", "state": "stopped", "result": "error",
			"humanized": {"errors": ["repo unreachable"]}}`)
	}))

	err := c.Tasks.Wait(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repo unreachable")
}

func TestWaitStopsPollingOnAPIError(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error": "gone"}`, http.StatusNotFound)
	}))

	start := time.Now()
	err := c.Tasks.Wait(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a missing task is not retried")
	assert.Less(t, time.Since(start), 5*time.Second)
}
