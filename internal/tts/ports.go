package tts

import "context"

// Engine синтезирует сырые сэмплы (mono s16le) по пути к модели голоса.
type Engine interface {
	Synthesize(ctx context.Context, modelPath, text string) ([]byte, error)
}

// Voice — и элемент каталога, и установленный голос (path только у установленных).
type Voice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quality   string `json:"quality,omitempty"`
	Lang      string `json:"lang,omitempty"`
	Installed bool   `json:"installed"`
	Path      string `json:"path,omitempty"`
}
