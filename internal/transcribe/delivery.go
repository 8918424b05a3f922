package transcribe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
)

// 500MB
const maxUploadSize = 500 * 1024 * 1024

var allowedExtensions = map[string]bool{
	"mp3":  true,
	"mp4":  true,
	"wav":  true,
	"webm": true,
	"ogg":  true,
	"m4a":  true,
	"mkv":  true,
	"flac": true,
	"avi":  true,
	"mov":  true,
	"wma":  true,
	"aac":  true,
}

type Handler struct {
	svc *Service
	log *logger.ZapLogger
}

func NewHandler(svc *Service, log *logger.ZapLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GET /whisper/available
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"available": h.svc.Available()})
}

// GET /whisper/languages
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"languages": Languages})
}

// GET /whisper/models
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"models": Models})
}

// POST /whisper/transcribe (multipart: file, language?, model?)
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Available() {
		http.Error(w, "Whisper is not available. Please install whisper.cpp.", 503)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "File too large. Maximum size: 500MB", 400)
			return
		}
		http.Error(w, "invalid multipart form: "+err.Error(), 400)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", 400)
		return
	}
	defer file.Close()

	// 1. расширение из списка допустимых
	ext := ""
	if i := strings.LastIndex(header.Filename, "."); i >= 0 {
		ext = strings.ToLower(header.Filename[i+1:])
	}
	if !allowedExtensions[ext] {
		http.Error(w, fmt.Sprintf("Unsupported file type: %s. Allowed: %s", ext, allowedExtList()), 400)
		return
	}

	// 2. модель из каталога
	model := r.FormValue("model")
	if model == "" {
		model = "small"
	}
	if !ValidModel(model) {
		http.Error(w, fmt.Sprintf("Invalid model: %s. Allowed: tiny, base, small, medium, large", model), 400)
		return
	}

	language := r.FormValue("language")

	// 3. сохраняем во временный файл с тем же расширением
	tmp, err := os.CreateTemp("", "transcribe-*."+ext)
	if err != nil {
		http.Error(w, "Failed to process upload: "+err.Error(), 500)
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		http.Error(w, "Failed to process upload: "+err.Error(), 500)
		return
	}
	tmp.Close()

	// 4. содержимое должно быть похоже на аудио/видео, не только расширением
	if mtype, err := mimetype.DetectFile(tmp.Name()); err == nil && !allowedMime(mtype) {
		os.Remove(tmp.Name())
		http.Error(w, "Unsupported content type: "+mtype.String(), 400)
		return
	}

	jobID, err := h.svc.Submit(tmp.Name(), language, model)
	if err != nil {
		os.Remove(tmp.Name())
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to start transcription", Error: err})
		http.Error(w, "Failed to start transcription: "+err.Error(), 500)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"job_id":  jobID,
		"status":  "pending",
		"message": "Transcription queued",
	})
}

// GET /whisper/status/{job_id}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	job, ok := h.svc.Job(chi.URLParam(r, "job_id"))
	if !ok {
		http.Error(w, "Job not found", 404)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"progress": job.Progress,
		"message":  job.Message,
	})
}

// GET /whisper/result/{job_id}
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	job, ok := h.svc.Job(chi.URLParam(r, "job_id"))
	if !ok {
		http.Error(w, "Job not found", 404)
		return
	}

	switch job.Status {
	case StatusPending:
		http.Error(w, "Job is still pending", 202)
	case StatusProcessing:
		http.Error(w, "Job is still processing", 202)
	case StatusFailed:
		msg := job.Error
		if msg == "" {
			msg = "Transcription failed"
		}
		http.Error(w, msg, 500)
	case StatusCancelled:
		http.Error(w, "Job was cancelled", 410)
	default:
		_ = json.NewEncoder(w).Encode(map[string]any{
			"job_id":           job.ID,
			"text":             job.Text,
			"language":         job.Language,
			"duration_seconds": job.DurationSeconds,
		})
	}
}

// DELETE /whisper/job/{job_id} — живую задачу отменяем, завершённую удаляем.
func (h *Handler) CancelOrDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")

	job, ok := h.svc.Job(id)
	if !ok {
		http.Error(w, "Job not found", 404)
		return
	}

	if job.Status == StatusPending || job.Status == StatusProcessing {
		h.svc.Cancel(id)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"cancelled": true,
			"message":   "Job cancellation requested",
		})
		return
	}

	h.svc.Delete(id)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"deleted": true,
		"message": "Job removed",
	})
}

func allowedMime(mt *mimetype.MIME) bool {
	s := mt.String()
	return strings.HasPrefix(s, "audio/") ||
		strings.HasPrefix(s, "video/") ||
		mt.Is("application/octet-stream")
}

func allowedExtList() string {
	exts := make([]string, 0, len(allowedExtensions))
	for e := range allowedExtensions {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
