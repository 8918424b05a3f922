package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/lingua_bridge/internal/delivery"
	"github.com/Vovarama1992/lingua_bridge/internal/lemma"
	"github.com/Vovarama1992/lingua_bridge/internal/parse"
	"github.com/Vovarama1992/lingua_bridge/internal/transcribe"
	"github.com/Vovarama1992/lingua_bridge/internal/tts"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {

	// =========================================================================
	// ENV INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	workers := transcribe.DefaultWorkers
	if v := os.Getenv("TRANSCRIBE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("bad TRANSCRIBE_WORKERS: %q", v)
		}
		workers = n
	}

	jobTTL := transcribe.DefaultJobTTL
	if v := os.Getenv("JOB_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("bad JOB_TTL_SECONDS: %q", v)
		}
		jobTTL = time.Duration(n) * time.Second
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// CLIENTS (STT / TTS)
	// =========================================================================

	var loader transcribe.Loader
	switch engine := os.Getenv("TRANSCRIBE_ENGINE"); engine {
	case "", "local":
		loader = transcribe.NewWhisperCppLoader()
	case "openai":
		loader = transcribe.NewOpenAILoader()
	default:
		log.Fatalf("unknown TRANSCRIBE_ENGINE: %q", engine)
	}

	piperEngine := tts.NewPiperEngine()

	voiceManager, err := tts.NewVoiceManager()
	if err != nil {
		log.Fatalf("failed to init voice manager: %v", err)
	}

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	jobStore := transcribe.NewStore(jobTTL)
	workerPool := transcribe.NewPool(workers)

	transcribeService := transcribe.NewService(jobStore, workerPool, loader)
	parseService := parse.NewService()
	lemmaService := lemma.NewService()
	ttsService := tts.NewService(piperEngine, voiceManager)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))

	// HANDLERS
	whisperHandler := transcribe.NewHandler(transcribeService, zl)
	parseHandler := parse.NewHandler(parseService)
	lemmaHandler := lemma.NewHandler(lemmaService)
	ttsHandler := tts.NewHandler(ttsService, voiceManager)

	// ROUTES
	delivery.RegisterRoutes(
		r,
		whisperHandler,
		parseHandler,
		lemmaHandler,
		ttsHandler,
	)

	r.With(httputil.RecoverMiddleware).Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": version})
	})

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "lingua_bridge",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
