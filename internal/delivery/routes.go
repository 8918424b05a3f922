package delivery

import (
	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/lingua_bridge/internal/lemma"
	"github.com/Vovarama1992/lingua_bridge/internal/parse"
	"github.com/Vovarama1992/lingua_bridge/internal/transcribe"
	"github.com/Vovarama1992/lingua_bridge/internal/tts"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(
	r chi.Router,
	hWhisper *transcribe.Handler,
	hParse *parse.Handler,
	hLemma *lemma.Handler,
	hTTS *tts.Handler,
) {
	r.Route("/", func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		// --- транскрибация ---
		pr.Get("/whisper/available", hWhisper.Available)
		pr.Get("/whisper/languages", hWhisper.Languages)
		pr.Get("/whisper/models", hWhisper.Models)
		pr.Post("/whisper/transcribe", hWhisper.Start)
		pr.Get("/whisper/status/{job_id}", hWhisper.Status)
		pr.Get("/whisper/result/{job_id}", hWhisper.Result)
		pr.Delete("/whisper/job/{job_id}", hWhisper.CancelOrDelete)

		// --- разбор текста ---
		pr.Post("/parse", hParse.Parse)
		pr.Get("/parse/available", hParse.Available)

		// --- лемматизация ---
		pr.Post("/lemmatize", hLemma.Lemmatize)
		pr.Post("/lemmatize/batch", hLemma.LemmatizeBatch)
		pr.Get("/lemmatize/available", hLemma.Available)
		pr.Get("/lemmatize/languages/{language}", hLemma.CheckLanguage)

		// --- озвучка ---
		pr.Get("/tts/voices", hTTS.ListVoices)
		pr.Get("/tts/voices/installed", hTTS.ListInstalled)
		pr.Post("/tts/voices/download", hTTS.DownloadVoice)
		pr.Delete("/tts/voices/{voice_id}", hTTS.DeleteVoice)
		pr.Post("/tts/speak", hTTS.Speak)
	})
}
