package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAILoader — облачный движок: Whisper API вместо локального бинаря.
// Имя модели из каталога здесь только валидируется, в API всегда уходит whisper-1.
type OpenAILoader struct {
	client *openai.Client
}

func NewOpenAILoader() *OpenAILoader {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	return &OpenAILoader{
		client: openai.NewClient(apiKey),
	}
}

func (l *OpenAILoader) Available() bool {
	return l.client != nil
}

func (l *OpenAILoader) Load(ctx context.Context, name string) (Model, error) {
	if !ValidModel(name) {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return &openAIModel{client: l.client}, nil
}

type openAIModel struct {
	client *openai.Client
}

func (m *openAIModel) Transcribe(ctx context.Context, filePath, language string) (Result, error) {
	resp, err := m.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Text:     resp.Text,
		Language: resp.Language,
	}
	for _, seg := range resp.Segments {
		res.Segments = append(res.Segments, Segment{Start: seg.Start, End: seg.End})
	}

	return res, nil
}
