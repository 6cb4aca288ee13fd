package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
)

// Task is an asynchronous server-side operation spawned by repository sync,
// content view publish and version promote.
type Task struct {
	ID       string  `json:"id"`
	State    string  `json:"state"`
	Result   string  `json:"result"`
	Progress float64 `json:"progress"`
	Humanized struct {
		Errors []string `json:"errors"`
	} `json:"humanized"`
}

// TasksService reads and waits on asynchronous tasks.
type TasksService struct {
	c *Client
}

// Get reads a task by ID.
func (s *TasksService) Get(ctx context.Context, id string) (*Task, error) {
	return getEntity[Task](ctx, s.c, fmt.Sprintf("/foreman_tasks/api/tasks/%s", id))
}

// Wait polls the task until it stops, bounded by the client task timeout.
// A stopped task with a non-success result is an error.
func (s *TasksService) Wait(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.c.taskTimeout)
	defer cancel()

	var last *Task
	err := retry.Do(
		func() error {
			t, err := s.Get(ctx, id)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			last = t
			if t.State != "stopped" {
				return errors.Errorf("task %s still %s (%.0f%%)", id, t.State, t.Progress*100)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(5*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return errors.Wrapf(err, "waiting for task %s", id)
	}
	if last.Result != "success" {
		return errors.Errorf("task %s finished with result %q: %v", id, last.Result, last.Humanized.Errors)
	}
	return nil
}

func decodeTask(raw []byte) (*Task, error) {
	var t Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, errors.Wrap(err, "decoding spawned task")
	}
	return &t, nil
}

// waitSpawned handles the common pattern of an action endpoint returning the
// task it spawned.
func (s *TasksService) waitSpawned(ctx context.Context, t *Task) error {
	if t == nil || t.ID == "" {
		return errors.New("action did not return a task")
	}
	return s.Wait(ctx, t.ID)
}
