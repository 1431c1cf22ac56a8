package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/ByLCY/quotecard/editor"
	"github.com/ByLCY/quotecard/renderer"
	canvasrenderer "github.com/ByLCY/quotecard/renderer/canvas"
	"github.com/ByLCY/quotecard/suggest"
	"github.com/ByLCY/quotecard/template"
)

const maxUploadBytes = 32 << 20

func newServeCmd() *cobra.Command {
	var (
		addr          string
		templatesFile string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendering and suggestions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			reg, err := loadRegistry(cfg, templatesFile, logger)
			if err != nil {
				return err
			}

			srv := &server{
				logger:          logger,
				registry:        reg,
				renderer:        canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Logger: logger}),
				defaultTemplate: cfg.Template,
				size:            cfg.Size,
			}
			if client, c, err := newSuggester(ctx, cfg, logger); err != nil {
				logger.Warn("design suggestions disabled", "err", err)
			} else {
				defer c.Close()
				srv.suggester = client
			}
			return listen(ctx, addr, srv.routes(), logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&templatesFile, "templates", "", "user template file")
	return cmd
}

func listen(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// server 每个请求创建独立的 editor，渲染器与模板注册表在请求间共享。
type server struct {
	logger          *log.Logger
	registry        *template.Registry
	renderer        renderer.Renderer
	suggester       suggest.Suggester // nil 表示未配置
	defaultTemplate string
	size            int
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})
	r.Get("/templates", s.handleTemplates)
	r.Post("/render", s.handleRender)
	r.Post("/suggest", s.handleSuggest)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.All())
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid form: %v", err))
		return
	}

	name := r.FormValue("template")
	if name == "" {
		name = s.defaultTemplate
	}
	tpl, err := s.registry.Lookup(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg := tpl.Configuration
	if raw := r.FormValue("config"); raw != "" {
		// 在模板之上解码，JSON 中缺省的字段沿用模板值
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	size := s.size
	if raw := r.FormValue("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid size: %q", raw))
			return
		}
		size = n
	}

	ed := editor.New(s.renderer, editor.WithLogger(s.logger), editor.WithConfig(cfg), editor.WithSize(size))
	if quote := strings.TrimSpace(r.FormValue("quote")); quote != "" {
		ed.SetQuotes([]string{quote})
	}
	if file, _, err := r.FormFile("image"); err == nil {
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("read image: %v", err))
			return
		}
		ed.AddImages(data)
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read image: %v", err))
		return
	}

	if _, err := ed.Render(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := ed.Export(w, editor.FormatPNG); err != nil {
		s.logger.Error("write png failed", "err", err)
	}
}

type suggestRequest struct {
	Quote string `json:"quote"`
}

func (s *server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	quote := strings.TrimSpace(req.Quote)
	if quote == "" {
		writeError(w, http.StatusBadRequest, editor.ErrNoQuote.Error())
		return
	}
	if s.suggester == nil {
		writeError(w, http.StatusServiceUnavailable, "design suggestions are not configured")
		return
	}
	sug, err := s.suggester.Suggest(r.Context(), quote)
	if err != nil {
		writeError(w, http.StatusBadGateway, suggest.ErrSuggestionFailed.Error())
		return
	}
	writeJSON(w, http.StatusOK, sug)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
