package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnknownVoice = errors.New("unknown voice")

// рекомендованные голоса по языкам
var voiceCatalog = []Voice{
	{ID: "en_US-lessac-medium", Name: "Lessac (US)", Quality: "medium", Lang: "en_US"},
	{ID: "en_US-libritts-high", Name: "LibriTTS (US)", Quality: "high", Lang: "en_US"},
	{ID: "en_GB-alba-medium", Name: "Alba (UK)", Quality: "medium", Lang: "en_GB"},
	{ID: "de_DE-thorsten-high", Name: "Thorsten", Quality: "high", Lang: "de_DE"},
	{ID: "fr_FR-siwis-medium", Name: "Siwis", Quality: "medium", Lang: "fr_FR"},
	{ID: "es_ES-sharvard-medium", Name: "Sharvard", Quality: "medium", Lang: "es_ES"},
	{ID: "ja_JP-kokoro-medium", Name: "Kokoro", Quality: "medium", Lang: "ja_JP"},
	{ID: "zh_CN-huayan-medium", Name: "Huayan", Quality: "medium", Lang: "zh_CN"},
}

const defaultVoicesURL = "https://huggingface.co/rhasspy/piper-voices/resolve/main"

// VoiceManager обслуживает папку голосов piper: список, докачка, удаление.
type VoiceManager struct {
	voicesDir string
	baseURL   string
	client    *http.Client
}

func NewVoiceManager() (*VoiceManager, error) {
	dir := os.Getenv("PIPER_VOICES_DIR")
	if dir == "" {
		dir = "/app/voices"
	}
	baseURL := os.Getenv("PIPER_VOICES_URL")
	if baseURL == "" {
		baseURL = defaultVoicesURL
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create voices dir: %w", err)
	}

	return &VoiceManager{
		voicesDir: dir,
		baseURL:   baseURL,
		// модели весят десятки мегабайт, таймаут с запасом
		client: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

// ModelPath — путь к установленной модели голоса.
func (m *VoiceManager) ModelPath(voiceID string) (string, bool) {
	p := filepath.Join(m.voicesDir, voiceID+".onnx")
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func (m *VoiceManager) ConfigPath(voiceID string) string {
	return filepath.Join(m.voicesDir, voiceID+".onnx.json")
}

// Installed — голоса, лежащие на диске.
func (m *VoiceManager) Installed() []Voice {
	voices := []Voice{}

	entries, err := os.ReadDir(m.voicesDir)
	if err != nil {
		return voices
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".onnx") {
			continue
		}

		id := strings.TrimSuffix(name, ".onnx")
		voices = append(voices, Voice{
			ID:        id,
			Name:      titleCase(strings.NewReplacer("-", " ", "_", " ").Replace(id)),
			Installed: true,
			Path:      filepath.Join(m.voicesDir, name),
		})
	}

	return voices
}

// Available — каталог целиком с отметками, что уже установлено.
func (m *VoiceManager) Available() []Voice {
	installed := map[string]bool{}
	for _, v := range m.Installed() {
		installed[v.ID] = true
	}

	out := make([]Voice, 0, len(voiceCatalog))
	for _, v := range voiceCatalog {
		v.Installed = installed[v.ID]
		out = append(out, v)
	}
	return out
}

// Download скачивает модель и её конфиг из репозитория голосов.
func (m *VoiceManager) Download(ctx context.Context, voiceID string) (Voice, error) {
	var entry *Voice
	for i := range voiceCatalog {
		if voiceCatalog[i].ID == voiceID {
			entry = &voiceCatalog[i]
			break
		}
	}
	if entry == nil {
		return Voice{}, fmt.Errorf("%w: %s", ErrUnknownVoice, voiceID)
	}

	// en_US → en/US: так голоса разложены в репозитории
	langPath := strings.ReplaceAll(entry.Lang, "_", "/")
	base := fmt.Sprintf("%s/%s/%s", m.baseURL, langPath, voiceID)

	onnxPath := filepath.Join(m.voicesDir, voiceID+".onnx")
	if err := m.fetch(ctx, base+".onnx", onnxPath); err != nil {
		return Voice{}, err
	}
	if err := m.fetch(ctx, base+".onnx.json", m.ConfigPath(voiceID)); err != nil {
		os.Remove(onnxPath)
		return Voice{}, err
	}

	return Voice{ID: voiceID, Installed: true, Path: onnxPath}, nil
}

// fetch качает во временный файл рядом и переименовывает,
// чтобы при обрыве не остался битый .onnx.
func (m *VoiceManager) fetch(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmpPath := dst + ".download"
	out, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, dst)
}

// Delete убирает модель и конфиг. true, если модель реально была.
func (m *VoiceManager) Delete(voiceID string) bool {
	onnxPath := filepath.Join(m.voicesDir, voiceID+".onnx")

	deleted := false
	if _, err := os.Stat(onnxPath); err == nil {
		if os.Remove(onnxPath) == nil {
			deleted = true
		}
	}
	os.Remove(m.ConfigPath(voiceID))

	return deleted
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
