package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// WhisperCppLoader — локальный движок поверх whisper.cpp (бинарь whisper-cli).
// Модели лежат в modelsDir как ggml-<name>.bin.
type WhisperCppLoader struct {
	bin       string
	modelsDir string
}

func NewWhisperCppLoader() *WhisperCppLoader {
	bin := os.Getenv("WHISPER_BIN")
	if bin == "" {
		bin = "whisper-cli"
	}
	dir := os.Getenv("WHISPER_MODELS_DIR")
	if dir == "" {
		dir = "/app/models"
	}
	return &WhisperCppLoader{bin: bin, modelsDir: dir}
}

func (l *WhisperCppLoader) Available() bool {
	_, err := exec.LookPath(l.bin)
	return err == nil
}

func (l *WhisperCppLoader) Load(ctx context.Context, name string) (Model, error) {
	if !ValidModel(name) {
		return nil, fmt.Errorf("unknown model: %s", name)
	}

	path := filepath.Join(l.modelsDir, "ggml-"+name+".bin")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model %s is not downloaded: %w", name, err)
	}

	return &whisperCppModel{bin: l.bin, modelPath: path}, nil
}

type whisperCppModel struct {
	bin       string
	modelPath string
}

func (m *whisperCppModel) args(filePath, language, outBase string) []string {
	lang := language
	if lang == "" {
		lang = "auto"
	}

	// --no-gpu: считаем на CPU, без сюрпризов с драйверами
	return []string{
		"-m", m.modelPath,
		"-f", filePath,
		"-l", lang,
		"-oj",
		"-of", outBase,
		"--no-gpu",
	}
}

func (m *whisperCppModel) Transcribe(ctx context.Context, filePath, language string) (Result, error) {
	// 1. временная папка под json-вывод
	outDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(outDir)

	outBase := filepath.Join(outDir, "transcript")

	// 2. запускаем whisper-cli
	cmd := exec.CommandContext(ctx, m.bin, m.args(filePath, language, outBase)...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return Result{}, fmt.Errorf("whisper-cli: %v: %s", err, msg)
		}
		return Result{}, fmt.Errorf("whisper-cli: %w", err)
	}

	// 3. разбираем transcript.json
	raw, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return Result{}, fmt.Errorf("read transcript: %w", err)
	}

	return parseWhisperOutput(raw, language)
}

type whisperCppOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Text    string `json:"text"`
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
	} `json:"transcription"`
}

// parseWhisperOutput переводит json whisper.cpp в Result.
// Offsets приходят в миллисекундах.
func parseWhisperOutput(raw []byte, declaredLang string) (Result, error) {
	var out whisperCppOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{}, fmt.Errorf("parse transcript: %w", err)
	}

	res := Result{Language: out.Result.Language}
	if res.Language == "" || res.Language == "auto" {
		res.Language = declaredLang
	}

	var text strings.Builder
	for _, seg := range out.Transcription {
		text.WriteString(seg.Text)
		res.Segments = append(res.Segments, Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
		})
	}
	res.Text = text.String()

	return res, nil
}
