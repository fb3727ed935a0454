package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"prescription-matcher/internal/platform/logger"
)

const shutdownTimeout = 5 * time.Second

// Run sirve handler en addr hasta que ctx se cancele y luego hace shutdown ordenado.
func Run(ctx context.Context, addr string, handler http.Handler, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down server", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
