package transcribe

import "context"

// === Интерфейсы движка ===

type Segment struct {
	Start float64
	End   float64
}

type Result struct {
	Text     string
	Language string
	Segments []Segment
}

// Model — загруженная модель, готовая принимать файлы.
type Model interface {
	Transcribe(ctx context.Context, filePath, language string) (Result, error)
}

// Loader отвечает за загрузку модели по имени (tiny/base/small/medium/large).
type Loader interface {
	Load(ctx context.Context, name string) (Model, error)
	Available() bool
}
