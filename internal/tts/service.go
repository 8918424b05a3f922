package tts

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const defaultSampleRate = 22050

var ErrVoiceNotInstalled = errors.New("voice not installed")

// Service: установленный голос → движок → готовый WAV.
type Service struct {
	engine Engine
	voices *VoiceManager
}

func NewService(engine Engine, voices *VoiceManager) *Service {
	return &Service{engine: engine, voices: voices}
}

func (s *Service) Speak(ctx context.Context, voiceID, text string) ([]byte, error) {
	modelPath, ok := s.voices.ModelPath(voiceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVoiceNotInstalled, voiceID)
	}

	rate := s.sampleRate(voiceID)

	pcm, err := s.engine.Synthesize(ctx, modelPath, text)
	if err != nil {
		return nil, err
	}

	return wrapWAV(pcm, rate)
}

// sampleRate читает частоту из конфига голоса (<id>.onnx.json).
func (s *Service) sampleRate(voiceID string) int {
	raw, err := os.ReadFile(s.voices.ConfigPath(voiceID))
	if err != nil {
		return defaultSampleRate
	}

	var cfg struct {
		Audio struct {
			SampleRate int `json:"sample_rate"`
		} `json:"audio"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil || cfg.Audio.SampleRate <= 0 {
		return defaultSampleRate
	}

	return cfg.Audio.SampleRate
}

// wrapWAV упаковывает сырые сэмплы piper (mono s16le) в WAV-контейнер.
// Энкодеру нужен WriteSeeker, поэтому пишем во временный файл и читаем обратно.
func wrapWAV(pcm []byte, sampleRate int) ([]byte, error) {
	samples := make([]int, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		samples = append(samples, int(int16(binary.LittleEndian.Uint16(pcm[i:]))))
	}

	f, err := os.CreateTemp("", "tts-*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return os.ReadFile(f.Name())
}
