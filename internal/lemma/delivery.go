package lemma

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /lemmatize
func (h *Handler) Lemmatize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Word       string `json:"word"`
		Language   string `json:"language"`
		Lemmatizer string `json:"lemmatizer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}

	lemma, ok, err := h.svc.Lemmatize(body.Lemmatizer, body.Word, body.Language)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}

	resp := map[string]any{"word": body.Word, "lemma": nil}
	if ok {
		resp["lemma"] = lemma
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// POST /lemmatize/batch
func (h *Handler) LemmatizeBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Words      []string `json:"words"`
		Language   string   `json:"language"`
		Lemmatizer string   `json:"lemmatizer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}

	if len(body.Words) == 0 {
		_ = json.NewEncoder(w).Encode(map[string]any{"results": map[string]*string{}})
		return
	}

	results, err := h.svc.LemmatizeBatch(body.Lemmatizer, body.Words, body.Language)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
}

// GET /lemmatize/available
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"lemmatizers": h.svc.Available()})
}

// GET /lemmatize/languages/{language}
func (h *Handler) CheckLanguage(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(h.svc.CheckLanguage(chi.URLParam(r, "language")))
}

func errStatus(err error) int {
	if errors.Is(err, ErrUnknownBackend) || errors.Is(err, ErrUnsupportedLanguage) {
		return 400
	}
	return 500
}
