package acquire

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

// Task is the progress record for one name moving through the pipeline.
type Task struct {
	Name       string                 `json:"name"`
	State      model.AcquisitionState `json:"state"`
	Rejection  *model.RejectionReason `json:"rejection,omitempty"`
	ProfileID  string                 `json:"profile_id,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at,omitempty"`
}

// TaskStore tracks task state so callers can observe an in-flight batch.
type TaskStore interface {
	Put(t Task)
	Get(name string) (Task, bool)
	List() []Task
}

// MemoryTaskStore is the in-process TaskStore used by the CLI and the API
// server. Keys are case-insensitive names.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[string]Task)}
}

func (s *MemoryTaskStore) Put(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[taskKey(t.Name)] = t
}

func (s *MemoryTaskStore) Get(name string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskKey(name)]
	return t, ok
}

func (s *MemoryTaskStore) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

func taskKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
