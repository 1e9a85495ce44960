package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ytlooper/server/internal/controller"
	"github.com/ytlooper/server/internal/repository/session/inmemory"
	"github.com/ytlooper/server/internal/service/looper"
	"github.com/ytlooper/server/pkg/ctxlogger"
	"github.com/ytlooper/server/pkg/validator"
	"github.com/ytlooper/server/pkg/ytvideodata"
	"github.com/ytlooper/server/web"
)

type AppConfig struct {
	Host             string        `json:"host" validate:"required"`
	Port             int           `json:"port" validate:"gte=1,lte=65535"`
	LogLevel         string        `json:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
	PollInterval     time.Duration `json:"poll_interval" validate:"gt=0"`
	ReadyTimeout     time.Duration `json:"ready_timeout" validate:"gt=0"`
	NotificationTTL  time.Duration `json:"notification_ttl" validate:"gt=0"`
	VideoInfoTimeout time.Duration `json:"video_info_timeout" validate:"gt=0"`
	StaticDir        string        `json:"static_dir" validate:"omitempty,dir"`
}

func (cfg *AppConfig) Validate() error {
	validationErrors, ok := validator.NewValidator().Validate(cfg)
	if ok {
		return nil
	}

	errs := make([]error, 0, len(validationErrors))
	for _, err := range validationErrors {
		errs = append(errs, err)
	}

	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(h), nil
}

func staticFS(dir string) fs.FS {
	if dir == "" {
		return web.Static()
	}

	return os.DirFS(dir)
}

func newServer(cfg *AppConfig, logger *slog.Logger) *http.Server {
	sessionRepo := inmemory.NewRepo(logger)
	videoInfo := ytvideodata.NewClient(&ytvideodata.Config{
		Timeout: cfg.VideoInfoTimeout,
	})

	looperCfg := looper.DefaultConfig()
	looperCfg.PollInterval = cfg.PollInterval
	looperCfg.ReadyTimeout = cfg.ReadyTimeout
	looperCfg.NotificationTTL = cfg.NotificationTTL

	controller := controller.NewController(sessionRepo, videoInfo, &controller.Config{
		Looper: looperCfg,
		Static: staticFS(cfg.StaticDir),
	}, logger)

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Handler: controller.GetMux(),
	}
	// hijacked websocket conns are not tracked by Shutdown
	server.RegisterOnShutdown(func() {
		if err := sessionRepo.CloseAll(); err != nil {
			logger.Info("failed to close sessions", "error", err)
		}
	})

	return server
}

func listen(addr string, port int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("port %d is already in use, pick another one with --port or PORT: %w", port, err)
		}
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return ln, nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	server := newServer(cfg, logger)

	ln, err := listen(server.Addr, cfg.Port)
	if err != nil {
		return err
	}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		logger.InfoContext(shutdownCtx, "shutting down")
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
