package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/fragments/internal/ctxlog"
)

// healthHandler reports liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.renderer.RenderIndex(w, a.index.Pages()); err != nil {
		a.logger.Error("Failed to render index.", "error", err)
	}
}

func (a *App) pageHandler(w http.ResponseWriter, r *http.Request) {
	trait := r.PathValue("trait")
	page, ok := a.index.Page(trait)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.renderer.RenderPage(w, page); err != nil {
		a.logger.Error("Failed to render page.", "trait", trait, "error", err)
	}
}

// fileHandler serves pages under the same paths the html build writes
// them to, so the links of the index work when served.
func (a *App) fileHandler(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	for _, page := range a.index.Pages() {
		if page.File() == file {
			r.SetPathValue("trait", page.Trait)
			a.pageHandler(w, r)
			return
		}
	}
	http.NotFound(w, r)
}

func (a *App) exportHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.index.Export()); err != nil {
		a.logger.Error("Failed to encode export.", "error", err)
	}
}

// Handler returns the HTTP handler serving the index.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /index.json", a.exportHandler)
	mux.HandleFunc("GET /pages/{trait}", a.pageHandler)
	mux.Handle("GET /events", a.hub.Handler())
	mux.HandleFunc("GET /{$}", a.indexHandler)
	mux.HandleFunc("GET /{file...}", a.fileHandler)
	return mux
}

// startServer listens on the configured port and serves Handler in the
// background. It returns once the listener is bound.
func (a *App) startServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring HTTP server.")

	addr := fmt.Sprintf(":%d", a.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	a.httpServer = &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", "address", fmt.Sprintf("http://localhost%s/", addr))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

func (a *App) closeServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		logger.Debug("HTTP server was not running.")
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	logger.Debug("HTTP server shut down gracefully.")
	return nil
}
