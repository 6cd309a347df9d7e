package store

import (
	"context"
	"fmt"
	"sync"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
)

// fakeRemote is an in-memory RemoteStore that can be switched off.
type fakeRemote struct {
	mu    sync.Mutex
	todos []domain.Task
	down  bool
	calls []string
}

func (f *fakeRemote) fail(op string) error {
	f.calls = append(f.calls, op)
	if f.down {
		return errors.NewRemoteUnavailableError(op, 0, fmt.Errorf("connection refused"))
	}
	return nil
}

func (f *fakeRemote) find(id string) int {
	for i, t := range f.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeRemote) ListAll(ctx context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("list"); err != nil {
		return nil, err
	}
	return domain.CloneTasks(f.todos), nil
}

func (f *fakeRemote) Create(ctx context.Context, task domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("create"); err != nil {
		return err
	}
	f.todos = append([]domain.Task{task.Clone()}, f.todos...)
	return nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, patch domain.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("update"); err != nil {
		return err
	}
	i := f.find(id)
	if i < 0 {
		return errors.NewNotFoundError("todo", id)
	}
	f.todos[i] = patch.Apply(f.todos[i])
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("delete"); err != nil {
		return err
	}
	i := f.find(id)
	if i < 0 {
		return errors.NewNotFoundError("todo", id)
	}
	f.todos = append(f.todos[:i], f.todos[i+1:]...)
	return nil
}

func (f *fakeRemote) BulkUpsert(ctx context.Context, tasks []domain.Task) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("bulk"); err != nil {
		return 0, err
	}
	for _, t := range tasks {
		if i := f.find(t.ID); i >= 0 {
			f.todos[i] = t.Clone()
		} else {
			f.todos = append(f.todos, t.Clone())
		}
	}
	return len(tasks), nil
}

func (f *fakeRemote) ReplaceAll(ctx context.Context, tasks []domain.Task) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("replace"); err != nil {
		return 0, err
	}
	f.todos = domain.CloneTasks(tasks)
	return len(tasks), nil
}

func (f *fakeRemote) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeCache is an in-memory LocalCache.
type fakeCache struct {
	mu       sync.Mutex
	snapshot []domain.Task
	writes   int
}

func (c *fakeCache) ReadSnapshot(ctx context.Context) []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneTasks(c.snapshot)
}

func (c *fakeCache) WriteSnapshot(ctx context.Context, tasks []domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	c.snapshot = domain.CloneTasks(tasks)
}

func (c *fakeCache) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}
