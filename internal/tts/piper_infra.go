package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// PiperEngine запускает локальный piper: текст на stdin, сырой звук со stdout.
type PiperEngine struct {
	bin string
}

func NewPiperEngine() *PiperEngine {
	bin := os.Getenv("PIPER_BIN")
	if bin == "" {
		bin = "piper"
	}
	return &PiperEngine{bin: bin}
}

func (e *PiperEngine) Synthesize(ctx context.Context, modelPath, text string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.bin, "--model", modelPath, "--output-raw")
	cmd.Stdin = strings.NewReader(text)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("piper: %v: %s", err, msg)
		}
		return nil, fmt.Errorf("piper: %w", err)
	}

	return out.Bytes(), nil
}
