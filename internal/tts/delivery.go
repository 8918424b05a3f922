package tts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc    *Service
	voices *VoiceManager
}

func NewHandler(svc *Service, voices *VoiceManager) *Handler {
	return &Handler{svc: svc, voices: voices}
}

// GET /tts/voices
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"voices": h.voices.Available()})
}

// GET /tts/voices/installed
func (h *Handler) ListInstalled(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"voices": h.voices.Installed()})
}

// POST /tts/voices/download
func (h *Handler) DownloadVoice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}

	voice, err := h.voices.Download(r.Context(), body.VoiceID)
	if err != nil {
		if errors.Is(err, ErrUnknownVoice) {
			http.Error(w, err.Error(), 404)
			return
		}
		http.Error(w, "Download failed: "+err.Error(), 500)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "voice": voice})
}

// DELETE /tts/voices/{voice_id}
func (h *Handler) DeleteVoice(w http.ResponseWriter, r *http.Request) {
	if !h.voices.Delete(chi.URLParam(r, "voice_id")) {
		http.Error(w, "Voice not found", 404)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

// POST /tts/speak
func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text    string `json:"text"`
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}

	wavBytes, err := h.svc.Speak(r.Context(), body.VoiceID, body.Text)
	if err != nil {
		if errors.Is(err, ErrVoiceNotInstalled) {
			http.Error(w, err.Error(), 404)
			return
		}
		http.Error(w, "Synthesis failed: "+err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	_, _ = w.Write(wavBytes)
}
