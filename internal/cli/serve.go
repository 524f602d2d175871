package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/graph"
	"github.com/matzehuels/splitgraph/pkg/report"
)

const (
	defaultServeAddr = "127.0.0.1:8080"
	shutdownTimeout  = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		open bool
		cf   cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve <stats.json|report.html>",
		Short: "Serve the interactive report over HTTP",
		Long: `Serve the interactive report over HTTP.

The argument is either a build (webpack stats or snapshot), which is analyzed
in memory, or an existing html report. Nothing is written to disk. The server
stops on interrupt.

Routes:
  /            the interactive report
  /data.json   the embedded graph document
  /healthz     liveness probe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.loadDocument(ctx, args[0], cf)
			if err != nil {
				return err
			}
			h, err := newReportHandler(ctx, doc, c.Logger)
			if err != nil {
				return err
			}
			return c.serve(ctx, addr, h, open)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&open, "open", false, "open the report in the browser")
	cf.register(cmd)

	return cmd
}

// loadDocument reads the document embedded in an html report, or runs the
// pipeline up to assembly for a build file.
func (c *CLI) loadDocument(ctx context.Context, input string, cf cacheFlags) (*graph.Document, error) {
	if isReport(input) {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
		}
		return report.ParseDocument(data)
	}

	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, cf)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts := cfg.options()
	opts.Input = input
	opts.Logger = c.Logger
	res, err := runner.Document(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
	return res.Document, nil
}

func isReport(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// newReportHandler routes the report page, its document and a health check.
// The page is rendered once up front.
func newReportHandler(ctx context.Context, doc *graph.Document, logger *log.Logger) (http.Handler, error) {
	page, err := report.HTMLEmitter{}.Emit(ctx, doc)
	if err != nil {
		return nil, err
	}
	payload, err := graph.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize document")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})
	r.Get("/data.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	return r, nil
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"id", middleware.GetReqID(r.Context()))
		})
	}
}

// serve listens on addr until ctx is canceled, then shuts down gracefully.
func (c *CLI) serve(ctx context.Context, addr string, h http.Handler, open bool) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "listen on %s", addr)
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	url := "http://" + ln.Addr().String() + "/"
	printSuccess("Serving report")
	printFile(url)
	if open {
		if err := report.Open(ctx, url); err != nil {
			printWarning("%s", errors.UserMessage(err))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.Logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
