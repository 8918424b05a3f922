package transcribe

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"
)

type modelFunc func(ctx context.Context, filePath, language string) (Result, error)

func (f modelFunc) Transcribe(ctx context.Context, filePath, language string) (Result, error) {
	return f(ctx, filePath, language)
}

// stubLoader hands out a fixed model and records every load request.
type stubLoader struct {
	mu    sync.Mutex
	loads []string

	model Model
	err   error
	down  bool
}

func (l *stubLoader) Load(ctx context.Context, name string) (Model, error) {
	l.mu.Lock()
	l.loads = append(l.loads, name)
	l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if l.model != nil {
		return l.model, nil
	}
	return modelFunc(func(context.Context, string, string) (Result, error) {
		return Result{}, nil
	}), nil
}

func (l *stubLoader) Available() bool { return !l.down }

func (l *stubLoader) loadHistory() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loads...)
}

func newTestService(t *testing.T, workers int, loader Loader) *Service {
	t.Helper()
	pool := NewPool(workers)
	t.Cleanup(pool.Close)
	return NewService(NewStore(time.Hour), pool, loader)
}

// tempInput creates a throwaway file under the system temp dir, the same
// place uploads land. The worker is expected to remove it.
func tempInput(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp("", "audio-*.wav")
	if err != nil {
		t.Fatalf("create temp input: %v", err)
	}
	f.Close()
	return f.Name()
}

func waitStatus(t *testing.T, svc *Service, id string, want JobStatus) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var last Job
	for time.Now().Before(deadline) {
		job, ok := svc.Job(id)
		if ok && job.Status == want {
			return job
		}
		if ok {
			last = job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %s, last seen %+v", id, want, last)
	return Job{}
}

func waitGone(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("file %s still exists", path)
}

// TestSubmitReturnsImmediately: the id comes back while the job is still
// pending or at most just picked up.
func TestSubmitReturnsImmediately(t *testing.T) {
	release := make(chan struct{})
	loader := &stubLoader{model: modelFunc(func(context.Context, string, string) (Result, error) {
		<-release
		return Result{}, nil
	})}
	svc := newTestService(t, 2, loader)
	// registered after the pool cleanup so the workers unblock before Close waits
	t.Cleanup(func() { close(release) })

	id, err := svc.Submit(tempInput(t), "en", "tiny")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	job, ok := svc.Job(id)
	if !ok {
		t.Fatalf("job %s not found right after Submit", id)
	}
	if job.Status != StatusPending && job.Status != StatusProcessing {
		t.Fatalf("status = %s, want pending or processing", job.Status)
	}
}

// TestJobCompletes walks the happy path and checks every field of the final
// record: trimmed text, detected language, duration from the last segment.
func TestJobCompletes(t *testing.T) {
	loader := &stubLoader{model: modelFunc(func(context.Context, string, string) (Result, error) {
		return Result{
			Text:     "  hello world\n",
			Language: "en",
			Segments: []Segment{{Start: 0, End: 0.8}, {Start: 0.8, End: 1.5}},
		}, nil
	})}
	svc := newTestService(t, 2, loader)

	id, err := svc.Submit(tempInput(t), "", "tiny")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	job := waitStatus(t, svc, id, StatusCompleted)
	if job.Progress != 100 {
		t.Fatalf("progress = %d, want 100", job.Progress)
	}
	if job.Message != "Transcription complete" {
		t.Fatalf("message = %q", job.Message)
	}
	if job.Text != "hello world" {
		t.Fatalf("text = %q, want %q", job.Text, "hello world")
	}
	if job.Language != "en" {
		t.Fatalf("language = %q, want en", job.Language)
	}
	if job.DurationSeconds != 1.5 {
		t.Fatalf("duration = %v, want 1.5", job.DurationSeconds)
	}
	if job.CompletedAt == nil {
		t.Fatal("completed_at not set on a completed job")
	}
	if job.Error != "" {
		t.Fatalf("error = %q, want empty", job.Error)
	}
}

// TestJobFallsBackToDeclaredLanguage: when the engine detects nothing the
// caller's declared language is kept.
func TestJobFallsBackToDeclaredLanguage(t *testing.T) {
	loader := &stubLoader{model: modelFunc(func(context.Context, string, string) (Result, error) {
		return Result{Text: "bonjour"}, nil
	})}
	svc := newTestService(t, 2, loader)

	id, _ := svc.Submit(tempInput(t), "fr", "tiny")
	job := waitStatus(t, svc, id, StatusCompleted)
	if job.Language != "fr" {
		t.Fatalf("language = %q, want fr", job.Language)
	}
	if job.DurationSeconds != 0 {
		t.Fatalf("duration = %v, want 0 without segments", job.DurationSeconds)
	}
}

// TestJobFailsOnEngineError: the error text lands both in error and in the
// user-facing message, and the record still gets a completion time.
func TestJobFailsOnEngineError(t *testing.T) {
	loader := &stubLoader{model: modelFunc(func(context.Context, string, string) (Result, error) {
		return Result{}, errors.New("disk full")
	})}
	svc := newTestService(t, 2, loader)

	id, _ := svc.Submit(tempInput(t), "en", "tiny")
	job := waitStatus(t, svc, id, StatusFailed)
	if job.Error != "disk full" {
		t.Fatalf("error = %q, want %q", job.Error, "disk full")
	}
	if job.Message != "Transcription failed: disk full" {
		t.Fatalf("message = %q", job.Message)
	}
	if job.Text != "" {
		t.Fatalf("text = %q, want empty on failure", job.Text)
	}
	if job.Progress != 10 {
		t.Fatalf("progress = %d, want 10 (frozen where the engine failed)", job.Progress)
	}
	if job.CompletedAt == nil {
		t.Fatal("completed_at not set on a failed job")
	}
}

// TestJobFailsOnModelLoadError: a loader error fails the job before the
// engine ever runs.
func TestJobFailsOnModelLoadError(t *testing.T) {
	loader := &stubLoader{err: errors.New("model tiny is not downloaded")}
	svc := newTestService(t, 2, loader)

	id, _ := svc.Submit(tempInput(t), "en", "tiny")
	job := waitStatus(t, svc, id, StatusFailed)
	if job.Message != "Transcription failed: model tiny is not downloaded" {
		t.Fatalf("message = %q", job.Message)
	}
	if job.Progress != 5 {
		t.Fatalf("progress = %d, want 5 (frozen at model load)", job.Progress)
	}
}

// TestCancelQueuedJob: with one busy worker a queued job cancelled before
// pickup goes straight to cancelled, its engine is never invoked, and the
// busy job still completes.
func TestCancelQueuedJob(t *testing.T) {
	release := make(chan struct{}, 1)
	started := make(chan string, 8)
	loader := &stubLoader{model: modelFunc(func(_ context.Context, filePath, _ string) (Result, error) {
		started <- filePath
		<-release
		return Result{Text: "done"}, nil
	})}
	svc := newTestService(t, 1, loader)
	t.Cleanup(func() { close(release) })

	first, err := svc.Submit(tempInput(t), "", "tiny")
	if err != nil {
		t.Fatalf("Submit first: %v", err)
	}
	<-started

	second, err := svc.Submit(tempInput(t), "", "tiny")
	if err != nil {
		t.Fatalf("Submit second: %v", err)
	}
	if !svc.Cancel(second) {
		t.Fatal("Cancel returned false for a queued job")
	}

	release <- struct{}{}

	job := waitStatus(t, svc, second, StatusCancelled)
	if job.Message != "Cancelled by user" {
		t.Fatalf("message = %q", job.Message)
	}
	if job.Text != "" {
		t.Fatalf("cancelled job has text %q", job.Text)
	}
	if job.CompletedAt == nil {
		t.Fatal("completed_at not set on a cancelled job")
	}
	waitStatus(t, svc, first, StatusCompleted)

	select {
	case path := <-started:
		t.Fatalf("engine ran for the cancelled job (%s)", path)
	default:
	}
}

// TestCancelDuringTranscription: a cancel that lands while the engine is
// running wins over the result, which is discarded at the next checkpoint.
func TestCancelDuringTranscription(t *testing.T) {
	release := make(chan struct{}, 1)
	started := make(chan struct{}, 1)
	loader := &stubLoader{model: modelFunc(func(context.Context, string, string) (Result, error) {
		started <- struct{}{}
		<-release
		return Result{Text: "too late"}, nil
	})}
	svc := newTestService(t, 1, loader)
	t.Cleanup(func() { close(release) })

	id, _ := svc.Submit(tempInput(t), "", "tiny")
	<-started

	if !svc.Cancel(id) {
		t.Fatal("Cancel returned false for a processing job")
	}
	release <- struct{}{}

	job := waitStatus(t, svc, id, StatusCancelled)
	if job.Text != "" {
		t.Fatalf("engine result survived cancellation: %q", job.Text)
	}
	if job.Status != StatusCancelled {
		t.Fatalf("status = %s, want cancelled", job.Status)
	}
}

// TestCancelTerminalJob: cancel is a no-op on finished jobs, delete removes them.
func TestCancelTerminalJob(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(t, 1, loader)

	id, _ := svc.Submit(tempInput(t), "", "tiny")
	waitStatus(t, svc, id, StatusCompleted)

	if svc.Cancel(id) {
		t.Fatal("Cancel returned true for a completed job")
	}
	if !svc.Delete(id) {
		t.Fatal("Delete returned false for an existing job")
	}
	if _, ok := svc.Job(id); ok {
		t.Fatal("job still readable after Delete")
	}
}

// TestJobsFinishInSubmissionOrder: one worker, several jobs, the engine sees
// them strictly in submit order.
func TestJobsFinishInSubmissionOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	loader := &stubLoader{model: modelFunc(func(_ context.Context, _, language string) (Result, error) {
		mu.Lock()
		order = append(order, language)
		mu.Unlock()
		return Result{}, nil
	})}
	svc := newTestService(t, 1, loader)

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := svc.Submit(tempInput(t), strconv.Itoa(i), "tiny")
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	for _, id := range ids {
		waitStatus(t, svc, id, StatusCompleted)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, lang := range order {
		if lang != strconv.Itoa(i) {
			t.Fatalf("position %d ran job %s, want %d", i, lang, i)
		}
	}
}

// TestModelCacheReused: sequential jobs with the same model name trigger a
// single load.
func TestModelCacheReused(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(t, 1, loader)

	for i := 0; i < 3; i++ {
		id, _ := svc.Submit(tempInput(t), "", "tiny")
		waitStatus(t, svc, id, StatusCompleted)
	}

	if got := loader.loadHistory(); len(got) != 1 {
		t.Fatalf("loads = %v, want exactly one", got)
	}
}

// TestModelCacheEvictedOnNameChange: asking for a different model always
// reloads, even when the previous one was requested before.
func TestModelCacheEvictedOnNameChange(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(t, 1, loader)

	for _, name := range []string{"tiny", "base", "tiny"} {
		id, _ := svc.Submit(tempInput(t), "", name)
		waitStatus(t, svc, id, StatusCompleted)
	}

	got := loader.loadHistory()
	want := []string{"tiny", "base", "tiny"}
	if len(got) != len(want) {
		t.Fatalf("loads = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("loads = %v, want %v", got, want)
		}
	}
}

// TestTempInputRemovedAfterCompletion: the uploaded file is cleaned up once
// the job finishes, success or failure alike.
func TestTempInputRemovedAfterCompletion(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(t, 1, loader)

	path := tempInput(t)
	id, _ := svc.Submit(path, "", "tiny")
	waitStatus(t, svc, id, StatusCompleted)
	waitGone(t, path)
}

// TestTempInputRemovedAfterFailure covers the cleanup on the error path.
func TestTempInputRemovedAfterFailure(t *testing.T) {
	loader := &stubLoader{err: errors.New("boom")}
	svc := newTestService(t, 1, loader)

	path := tempInput(t)
	id, _ := svc.Submit(path, "", "tiny")
	waitStatus(t, svc, id, StatusFailed)
	waitGone(t, path)
}

// TestInputOutsideTempDirKept: files that don't live under the system temp
// dir are never touched.
func TestInputOutsideTempDirKept(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	f, err := os.CreateTemp(wd, "input-*.wav")
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	f.Close()
	path := f.Name()
	t.Cleanup(func() { os.Remove(path) })

	loader := &stubLoader{}
	svc := newTestService(t, 1, loader)

	id, _ := svc.Submit(path, "", "tiny")
	waitStatus(t, svc, id, StatusCompleted)
	time.Sleep(50 * time.Millisecond)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("input outside temp dir was removed: %v", err)
	}
}

// TestSubmitAfterPoolClose: no orphan record is left behind when the queue
// refuses the work.
func TestSubmitAfterPoolClose(t *testing.T) {
	pool := NewPool(1)
	pool.Close()
	store := NewStore(time.Hour)
	svc := NewService(store, pool, &stubLoader{})

	if _, err := svc.Submit(tempInput(t), "", "tiny"); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("Submit = %v, want ErrPoolClosed", err)
	}
	if n := store.Len(); n != 0 {
		t.Fatalf("store holds %d records after a rejected submit, want 0", n)
	}
}

// TestAvailableFollowsLoader mirrors the loader's health flag.
func TestAvailableFollowsLoader(t *testing.T) {
	up := newTestService(t, 1, &stubLoader{})
	if !up.Available() {
		t.Fatal("Available = false with a healthy loader")
	}
	downLoader := &stubLoader{down: true}
	down := newTestService(t, 1, downLoader)
	if down.Available() {
		t.Fatal("Available = true with a missing backend")
	}
}
