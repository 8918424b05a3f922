package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Service управляет жизненным циклом задач: создаёт запись, ставит работу
// в пул и ведёт статусы. Сам бэкенд (загрузка модели, транскрибация) —
// блокирующий чёрный ящик за интерфейсом Loader/Model.
type Service struct {
	store  *Store
	pool   *Pool
	loader Loader

	now func() time.Time

	// кэш на одну модель: загрузка другого имени вытесняет текущую
	modelMu     sync.Mutex
	cachedName  string
	cachedModel Model
}

func NewService(store *Store, pool *Pool, loader Loader) *Service {
	return &Service{
		store:  store,
		pool:   pool,
		loader: loader,
		now:    time.Now,
	}
}

func (s *Service) Available() bool {
	return s.loader.Available()
}

// Submit заводит задачу и сразу возвращает id. Ошибка только если работу
// не удалось даже поставить в очередь — всё остальное оседает в статусе.
func (s *Service) Submit(filePath, language, model string) (string, error) {
	id := s.store.Create()

	err := s.pool.Submit(func() {
		s.run(id, filePath, language, model)
	})
	if err != nil {
		s.store.Delete(id)
		return "", fmt.Errorf("enqueue transcription: %w", err)
	}

	return id, nil
}

// Job — снимок текущего состояния задачи.
func (s *Service) Job(id string) (Job, bool) {
	return s.store.Get(id)
}

// Cancel взводит флаг отмены у живой задачи. Сам переход в cancelled
// сделает воркер на ближайшем чекпоинте — отмена кооперативная.
func (s *Service) Cancel(id string) bool {
	var ok bool
	s.store.Mutate(id, func(j *Job) {
		if j.Status == StatusPending || j.Status == StatusProcessing {
			j.CancelRequested = true
			ok = true
		}
	})
	return ok
}

// Delete убирает запись целиком (для уже завершённых задач).
func (s *Service) Delete(id string) bool {
	return s.store.Delete(id)
}

// run выполняется внутри воркера. Чекпоинты отмены: на взятии из очереди,
// после загрузки модели и после блокирующего вызова движка.
func (s *Service) run(jobID, filePath, language, modelName string) {
	defer s.removeTempFile(filePath)
	defer func() {
		if r := recover(); r != nil {
			s.fail(jobID, fmt.Errorf("%v", r))
		}
	}()

	// жёсткого таймаута на транскрибацию нет — осознанный компромисс
	ctx := context.Background()

	// 1. взяли из очереди: либо отмена уже запрошена, либо переходим в processing
	cancelled := false
	ok := s.store.Mutate(jobID, func(j *Job) {
		if j.CancelRequested {
			s.markCancelledLocked(j)
			cancelled = true
			return
		}
		j.Status = StatusProcessing
		j.Progress = 5
		j.Message = "Loading model..."
	})
	if !ok || cancelled {
		return
	}

	// 2. загрузка модели (медленная, внутри не отменяется)
	model, err := s.acquireModel(ctx, modelName)
	if err != nil {
		s.fail(jobID, err)
		return
	}

	// 3. чекпоинт после загрузки
	if s.cancelIfRequested(jobID) {
		return
	}

	s.store.Mutate(jobID, func(j *Job) {
		j.Progress = 10
		j.Message = "Transcribing audio..."
	})

	// 4. блокирующий вызов движка
	res, err := model.Transcribe(ctx, filePath, language)
	if err != nil {
		s.fail(jobID, err)
		return
	}

	// 5. чекпоинт после вызова: при отмене результат выбрасываем
	if s.cancelIfRequested(jobID) {
		return
	}

	// 6. готово
	s.store.Mutate(jobID, func(j *Job) {
		j.Status = StatusCompleted
		j.Progress = 100
		j.Message = "Transcription complete"
		j.Text = strings.TrimSpace(res.Text)
		if res.Language != "" {
			j.Language = res.Language
		} else {
			j.Language = language
		}
		if n := len(res.Segments); n > 0 {
			j.DurationSeconds = res.Segments[n-1].End
		}
		t := s.now()
		j.CompletedAt = &t
	})
}

// acquireModel держит ровно одну прогретую модель. Запрос другого имени
// вытесняет закэшированную; конкурирующие загрузки сериализуются на modelMu.
func (s *Service) acquireModel(ctx context.Context, name string) (Model, error) {
	s.modelMu.Lock()
	defer s.modelMu.Unlock()

	if s.cachedModel != nil && s.cachedName == name {
		return s.cachedModel, nil
	}

	m, err := s.loader.Load(ctx, name)
	if err != nil {
		// при ошибке старая модель остаётся в кэше
		return nil, err
	}

	s.cachedModel = m
	s.cachedName = name
	return m, nil
}

func (s *Service) cancelIfRequested(jobID string) bool {
	cancelled := false
	ok := s.store.Mutate(jobID, func(j *Job) {
		if j.CancelRequested {
			s.markCancelledLocked(j)
			cancelled = true
		}
	})
	// записи больше нет — работать дальше не для кого
	return !ok || cancelled
}

func (s *Service) markCancelledLocked(j *Job) {
	j.Status = StatusCancelled
	j.Message = "Cancelled by user"
	t := s.now()
	j.CompletedAt = &t
}

func (s *Service) fail(jobID string, cause error) {
	s.store.Mutate(jobID, func(j *Job) {
		j.Status = StatusFailed
		j.Error = cause.Error()
		j.Message = "Transcription failed: " + cause.Error()
		t := s.now()
		j.CompletedAt = &t
	})
}

// removeTempFile подчищает входной файл, если он лежит во временной папке.
// Ошибка удаления никогда не становится ошибкой задачи.
func (s *Service) removeTempFile(path string) {
	tmp := os.TempDir()
	rel, err := filepath.Rel(tmp, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[transcribe] remove temp file %s: %v", path, err)
	}
}
