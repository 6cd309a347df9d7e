// Package store keeps the session's todo list consistent with the remote
// store and the local cache.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
	"todo-manager/internal/logging"
	"todo-manager/internal/validation"
)

// RemoteStore is the authoritative, network-backed todo store.
type RemoteStore interface {
	ListAll(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) error
	Update(ctx context.Context, id string, patch domain.Patch) error
	Delete(ctx context.Context, id string) error
	BulkUpsert(ctx context.Context, tasks []domain.Task) (int, error)
	ReplaceAll(ctx context.Context, tasks []domain.Task) (int, error)
}

// LocalCache is the best-effort device-local snapshot. Implementations log
// their own failures; a missing or unreadable snapshot reads as empty.
type LocalCache interface {
	ReadSnapshot(ctx context.Context) []domain.Task
	WriteSnapshot(ctx context.Context, tasks []domain.Task)
}

// Option configures a SyncingTaskStore.
type Option func(*SyncingTaskStore)

// WithClock sets the time source used for createdAt, completedAt and seeds.
func WithClock(now func() time.Time) Option {
	return func(s *SyncingTaskStore) { s.now = now }
}

// WithIDGenerator sets the id source for new tasks.
func WithIDGenerator(newID func() string) Option {
	return func(s *SyncingTaskStore) { s.newID = newID }
}

// WithLogger sets the logger fallbacks are reported on.
func WithLogger(logger *log.Logger) Option {
	return func(s *SyncingTaskStore) { s.logger = logger }
}

// NewID returns a time-ordered UUIDv7 string.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// reopened remembers the completedAt a toggle cleared so that toggling the
// same task straight back restores it.
type reopened struct {
	id string
	at *time.Time
}

// SyncingTaskStore owns the in-memory todo list for one session. Every
// operation prefers the remote store and falls back to the local cache when
// the remote cannot be reached. Operations are serialized by mu.
type SyncingTaskStore struct {
	mu            sync.Mutex
	remote        RemoteStore
	cache         LocalCache
	tasks         []domain.Task
	usingFallback bool
	lastReopened  *reopened

	now       func() time.Time
	newID     func() string
	logger    *log.Logger
	validator *validation.TaskValidator
	snapshots *validation.SnapshotValidator
}

// New creates a store over remote and cache.
func New(remote RemoteStore, cache LocalCache, opts ...Option) *SyncingTaskStore {
	s := &SyncingTaskStore{
		remote:    remote,
		cache:     cache,
		tasks:     []domain.Task{},
		now:       time.Now,
		newID:     NewID,
		logger:    logging.Discard(),
		validator: validation.NewTaskValidator(),
		snapshots: validation.NewSnapshotValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fallback records that the remote store failed. Callers hold mu.
func (s *SyncingTaskStore) fallback(op string, err error) {
	if !s.usingFallback {
		s.logger.Warn("remote store unreachable, using local cache", "op", op, "err", err)
	} else {
		s.logger.Debug("remote store still unreachable", "op", op, "err", err)
	}
	s.usingFallback = true
}

func (s *SyncingTaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *SyncingTaskStore) seed() []domain.Task {
	return domain.SampleTasks(s.now(), s.newID)
}

// Load rebuilds the list. The remote list wins when it can be fetched; an
// empty remote is seeded with the sample catalog. Otherwise the cached
// snapshot is used, or the samples when the cache is empty too. Remote and
// cache failures never surface; only an already-cancelled ctx is returned.
func (s *SyncingTaskStore) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReopened = nil

	remoteTasks, err := s.remote.ListAll(ctx)
	if err == nil {
		if len(remoteTasks) > 0 {
			s.tasks = domain.CloneTasks(remoteTasks)
			return nil
		}
		seeds := s.seed()
		if _, err := s.remote.BulkUpsert(ctx, seeds); err != nil {
			s.fallback("seed remote store", err)
			s.cache.WriteSnapshot(ctx, seeds)
		}
		s.tasks = seeds
		s.logger.Info("seeded sample todos", "count", len(seeds))
		return nil
	}

	s.fallback("load todos", err)
	if cached := s.cache.ReadSnapshot(ctx); len(cached) > 0 {
		s.tasks = domain.CloneTasks(cached)
		return nil
	}
	seeds := s.seed()
	s.cache.WriteSnapshot(ctx, seeds)
	s.tasks = seeds
	s.logger.Info("seeded sample todos into local cache", "count", len(seeds))
	return nil
}

// Create validates candidate, fills its id, status, createdAt, priority and
// group when blank, and appends it. Only a validation error is returned; a
// remote failure appends anyway and rewrites the cache.
func (s *SyncingTaskStore) Create(ctx context.Context, candidate domain.Task) (*domain.Task, error) {
	if err := s.validator.ValidateTaskForCreation(candidate); err != nil {
		return nil, errors.NewValidationError("invalid todo", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReopened = nil

	task := candidate.Clone()
	if task.ID == "" {
		task.ID = s.newID()
	} else if s.indexOf(task.ID) >= 0 {
		return nil, errors.NewValidationError("a todo with this id already exists", nil).WithContext("id", task.ID)
	}
	task.ApplyDefaults(s.now())
	task.CreatedAt = domain.NormalizeTime(task.CreatedAt)

	next := append(domain.CloneTasks(s.tasks), task)
	if err := s.remote.Create(ctx, task); err != nil {
		s.fallback("create todo", err)
		s.cache.WriteSnapshot(ctx, next)
	}
	s.tasks = next

	out := task.Clone()
	return &out, nil
}

// Update merges patch into the task with id. An unknown id is a no-op that
// returns (nil, nil) without contacting the remote. The store does not infer
// completedAt from a status change.
func (s *SyncingTaskStore) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error) {
	if err := s.validator.ValidatePatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid todo update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReopened = nil
	return s.update(ctx, id, patch.Normalize()), nil
}

// update applies patch remotely and in memory. Callers hold mu.
func (s *SyncingTaskStore) update(ctx context.Context, id string, patch domain.Patch) *domain.Task {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	if patch.IsEmpty() {
		out := s.tasks[idx].Clone()
		return &out
	}

	next := domain.CloneTasks(s.tasks)
	next[idx] = patch.Apply(next[idx])

	err := s.remote.Update(ctx, id, patch)
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		s.logger.Warn("remote store has no such todo, keeping local change", "id", id)
	default:
		s.fallback("update todo", err)
		s.cache.WriteSnapshot(ctx, next)
	}
	s.tasks = next

	out := next[idx].Clone()
	return &out
}

// ToggleStatus flips a task between pending and completed, stamping
// completedAt on completion and clearing it on reopen. Toggling the same task
// twice in a row restores its original completedAt. An unknown id returns
// (nil, nil).
func (s *SyncingTaskStore) ToggleStatus(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	current := s.tasks[idx]
	next := current.Status.Toggle()
	patch := domain.Patch{Status: &next}

	var stash *reopened
	if next == domain.StatusCompleted {
		patch.CompletedAt = domain.Some(domain.NormalizeTime(s.now()))
		if r := s.lastReopened; r != nil && r.id == id {
			if r.at == nil {
				patch.CompletedAt = domain.Null[time.Time]()
			} else {
				patch.CompletedAt = domain.Some(*r.at)
			}
		}
	} else {
		patch.CompletedAt = domain.Null[time.Time]()
		stash = &reopened{id: id}
		if current.CompletedAt != nil {
			at := *current.CompletedAt
			stash.at = &at
		}
	}

	out := s.update(ctx, id, patch)
	s.lastReopened = stash
	return out, nil
}

// SetPriority moves a task to another priority column. Setting the current
// priority changes nothing. An unknown id returns (nil, nil).
func (s *SyncingTaskStore) SetPriority(ctx context.Context, id string, priority domain.Priority) (*domain.Task, error) {
	if !priority.Valid() {
		return nil, errors.NewInvalidInputError("priority", priority, "must be high, medium or low")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	if s.tasks[idx].Priority == priority {
		out := s.tasks[idx].Clone()
		return &out, nil
	}
	s.lastReopened = nil
	return s.update(ctx, id, domain.Patch{Priority: &priority}), nil
}

// Delete removes the task with id and reports whether it was present. A
// remote failure removes it anyway and rewrites the cache.
func (s *SyncingTaskStore) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.lastReopened = nil

	next := make([]domain.Task, 0, len(s.tasks)-1)
	next = append(next, domain.CloneTasks(s.tasks[:idx])...)
	next = append(next, domain.CloneTasks(s.tasks[idx+1:])...)

	err := s.remote.Delete(ctx, id)
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		s.logger.Warn("remote store has no such todo, removing locally", "id", id)
	default:
		s.fallback("delete todo", err)
		s.cache.WriteSnapshot(ctx, next)
	}
	s.tasks = next
	return true
}

// FilteredView returns copies of the tasks matching f, in list order.
func (s *SyncingTaskStore) FilteredView(f domain.Filters) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Filter(s.tasks, f)
}

// Tasks returns a copy of the whole list.
func (s *SyncingTaskStore) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneTasks(s.tasks)
}

// Get looks a task up by id.
func (s *SyncingTaskStore) Get(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.tasks[idx].Clone(), true
	}
	return domain.Task{}, false
}

// Stats summarizes the list as of the store's clock.
func (s *SyncingTaskStore) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeStats(s.tasks, domain.DateOf(s.now()))
}

// Groups returns the distinct groups in use, sorted.
func (s *SyncingTaskStore) Groups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := domain.Groups(s.tasks)
	if groups == nil {
		groups = []string{}
	}
	return groups
}

// UsingFallback reports whether the remote store has failed this session.
func (s *SyncingTaskStore) UsingFallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usingFallback
}

// ExportSnapshot serializes the list as an indented JSON array.
func (s *SyncingTaskStore) ExportSnapshot() ([]byte, error) {
	tasks := s.Tasks()
	return json.MarshalIndent(tasks, "", "  ")
}

// ParseSnapshot validates an import payload without touching the list.
func (s *SyncingTaskStore) ParseSnapshot(data []byte) ([]domain.Task, error) {
	tasks, err := s.snapshots.Parse(data, s.now())
	if err != nil {
		return nil, errors.NewValidationError("invalid import file", err)
	}
	return tasks, nil
}

// ImportSnapshot validates data and replaces the whole list with it. An
// invalid payload changes nothing.
func (s *SyncingTaskStore) ImportSnapshot(ctx context.Context, data []byte) (int, error) {
	tasks, err := s.ParseSnapshot(data)
	if err != nil {
		return 0, err
	}
	return s.ReplaceAll(ctx, tasks), nil
}

// ReplaceAll makes tasks the whole list, persisting to the remote store or,
// failing that, to the local cache. tasks should come from ParseSnapshot.
func (s *SyncingTaskStore) ReplaceAll(ctx context.Context, tasks []domain.Task) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReopened = nil

	next := domain.CloneTasks(tasks)
	if _, err := s.remote.ReplaceAll(ctx, next); err != nil {
		s.fallback("replace todos", err)
		s.cache.WriteSnapshot(ctx, next)
	}
	s.tasks = next
	return len(next)
}
