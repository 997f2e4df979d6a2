package vm

import (
	"errors"
	"sync"

	"github.com/yasniy-lang/yasniy/internal/value"
)

// Task is a spawned computation's handle, implementing
// value.TaskHandle. Its cancellation token is checked once, before the
// task's goroutine starts interpreting.
type Task struct {
	id       int64
	cancelCh chan struct{}
	cancelMu sync.Once
	done     chan struct{}
	result   value.Value
	err      error
}

func newTask(id int64) *Task {
	return &Task{id: id, cancelCh: make(chan struct{}), done: make(chan struct{})}
}

func (t *Task) TaskID() int64 { return t.id }

func (t *Task) requestCancel() {
	t.cancelMu.Do(func() { close(t.cancelCh) })
}

func (t *Task) isCanceled() bool {
	select {
	case <-t.cancelCh:
		return true
	default:
		return false
	}
}

// registry tracks every task a VM has spawned, so Close can signal
// cancellation to all of them at once.
type registry struct {
	mu     sync.Mutex
	tasks  []*Task
	nextID int64
}

func (r *registry) new() *Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t := newTask(r.nextID)
	r.tasks = append(r.tasks, t)
	return t
}

func (r *registry) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		t.requestCancel()
	}
}

// asTask extracts the concrete *Task behind a task-handle Value, which
// every TaskHandle this package ever produces actually is.
func asTask(v value.Value) (*Task, error) {
	t, ok := v.AsTask().(*Task)
	if !ok {
		return nil, errors.New("value is not a task handle produced by this VM")
	}
	return t, nil
}
