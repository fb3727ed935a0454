package router

import (
	"net/http"

	"prescription-matcher/internal/domain/prescriptions"
	"prescription-matcher/internal/middleware"
	"prescription-matcher/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// Obligatorio: el router no elige ni abre stores (ver OpenStore).
	Store prescriptions.Store

	Logger logger.Logger // puede ser nil
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	svc := prescriptions.NewService(opts.Store, log)
	prescriptions.RegisterRoutes(r, svc)

	return r
}
