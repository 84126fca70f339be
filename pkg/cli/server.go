package cli

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/mchmarny/revpulse/pkg/review"
	"github.com/mchmarny/revpulse/pkg/sentiment"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverAddressDefault      = "127.0.0.1"

	portFlagName      = "port"
	addressFlagName   = "address"
	noBrowserFlagName = "no-browser"
)

//go:embed assets/* templates/*
var embedFS embed.FS

func newServerCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local dashboard HTTP server",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  portFlagName,
				Usage: "Port on which the server will listen (default: configured port)",
			},
			&cli.StringFlag{
				Name:  addressFlagName,
				Usage: "Address on which the server will listen",
				Value: serverAddressDefault,
			},
			&cli.BoolFlag{
				Name:    noBrowserFlagName,
				Aliases: []string{"nb"},
				Usage:   "Do not open browser automatically",
			},
		},
	}
}

// dashboard holds what the HTTP handlers serve: the memoized review table
// and the sentiment model.
type dashboard struct {
	source        string
	positiveScore int
	reviews       *review.Loader
	model         *sentiment.Loader
}

func newDashboard(cfg *appConfig) *dashboard {
	return &dashboard{
		source:        cfg.Config.Dataset,
		positiveScore: cfg.Config.PositiveScore,
		reviews:       newDatasetLoader(cfg),
		model:         sentiment.NewLoader(cfg.Config.ModelPath),
	}
}

// warmUp loads the dataset and the model in parallel. Failures are logged
// only: the dataset load is retried on the next request.
func (d *dashboard) warmUp(ctx context.Context) {
	var g errgroup.Group

	g.Go(func() error {
		if _, err := d.reviews.Records(ctx); err != nil {
			slog.Error("dataset not loaded", "source", d.source, "error", err)
		}
		return nil
	})

	g.Go(func() error {
		if _, err := d.model.Predictor(); err != nil {
			slog.Warn("classifier disabled", "path", d.model.Path())
		}
		return nil
	})

	_ = g.Wait()
}

func cmdStartServer(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	port := cfg.Config.Port
	if cmd.IsSet(portFlagName) {
		port = int(cmd.Int(portFlagName))
	}
	address := fmt.Sprintf("%s:%d", cmd.String(addressFlagName), port)

	d := newDashboard(cfg)
	d.warmUp(ctx)

	s := &http.Server{
		Addr:           address,
		Handler:        makeRouter(d),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
			done <- syscall.SIGTERM
		}
	}()

	url := fmt.Sprintf("http://%s", address)
	slog.Info("server started", "address", url)

	if !cmd.Bool(noBrowserFlagName) {
		openBrowser(url)
	}

	<-done

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(d *dashboard) *http.ServeMux {
	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(embedFS, "templates/*.html"))

	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(embedFS)))
	mux.HandleFunc("GET /favicon.ico", faviconHandler)

	// Views
	mux.HandleFunc("GET /{$}", homeViewHandler(tmpl, d))

	// Data API
	mux.HandleFunc("GET /data/summary", summaryAPIHandler(d))
	mux.HandleFunc("GET /data/scores", scoresAPIHandler(d))
	mux.HandleFunc("GET /data/reviews", reviewsAPIHandler(d))
	mux.HandleFunc("POST /data/classify", classifyAPIHandler(d))

	mux.HandleFunc("GET /health", healthHandler(d))

	return mux
}

func openBrowser(url string) {
	var cmd string
	args := make([]string, 0, 1)

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
	case "linux":
		cmd = "xdg-open"
	default: // windows
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	}

	args = append(args, url)
	if err := exec.Command(cmd, args...).Start(); err != nil {
		slog.Error("failed to open browser", "error", err)
	}
}
