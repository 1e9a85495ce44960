package controller

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	sessionrepo "github.com/ytlooper/server/internal/repository/session"
	"github.com/ytlooper/server/internal/service/looper"
	"github.com/ytlooper/server/pkg/validator"
	"github.com/ytlooper/server/pkg/wsrouter"
	"github.com/ytlooper/server/pkg/ytvideodata"
)

type iSessionRepo interface {
	Add(sessionrepo.Conn, string) error
	RemoveByConn(sessionrepo.Conn) error
	List() []string
}

type iVideoInfo interface {
	Get(context.Context, string) (*ytvideodata.VideoData, error)
}

type Config struct {
	Looper *looper.Config
	// Static holds index.html and the page assets.
	Static fs.FS
}

type controller struct {
	sessionRepo iSessionRepo
	videoInfo   iVideoInfo
	looperCfg   looper.Config
	static      fs.FS
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsRouter    *wsrouter.WSRouter
	logger      *slog.Logger
}

func NewController(sessionRepo iSessionRepo, videoInfo iVideoInfo, cfg *Config, logger *slog.Logger) *controller {
	looperCfg := looper.DefaultConfig()
	if cfg.Looper != nil {
		looperCfg = cfg.Looper
	}

	c := &controller{
		sessionRepo: sessionRepo,
		videoInfo:   videoInfo,
		looperCfg:   *looperCfg,
		static:      cfg.Static,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
	c.wsRouter = c.getWSRouter()

	return c
}
