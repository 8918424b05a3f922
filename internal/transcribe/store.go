package transcribe

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultJobTTL = time.Hour

// Store держит все записи о задачах в памяти. Один мьютекс на всю таблицу,
// под ним только присваивания полей — никаких блокирующих вызовов.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration

	now func() time.Time // подменяется в тестах
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &Store{
		jobs: make(map[string]*Job),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create заводит pending-запись и возвращает её id.
// Заодно выметает протухшие завершённые задачи.
func (s *Store) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[id] = &Job{
		ID:        id,
		Status:    StatusPending,
		Message:   "Queued for transcription",
		CreatedAt: s.now(),
	}
	s.reapLocked()

	return id
}

// Get отдаёт снимок записи: читатель никогда не видит частичное обновление.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return j.clone(), true
}

// Mutate атомарно применяет fn к записи. false — записи нет.
func (s *Store) Mutate(id string, fn func(*Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	fn(j)
	return true
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return false
	}
	delete(s.jobs, id)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// reapLocked удаляет записи, у которых completed_at старше ttl.
// Вызывается только под s.mu.
func (s *Store) reapLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, j := range s.jobs {
		if j.CompletedAt != nil && j.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
