package parse

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /parse
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string `json:"text"`
		Parser string `json:"parser"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}

	res, err := h.svc.Parse(body.Parser, body.Text)
	if err != nil {
		if errors.Is(err, ErrUnknownParser) {
			http.Error(w, "Unknown parser: "+body.Parser, 400)
			return
		}
		http.Error(w, "parse failed: "+err.Error(), 500)
		return
	}

	_ = json.NewEncoder(w).Encode(res)
}

// GET /parse/available
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"parsers": h.svc.Available()})
}
