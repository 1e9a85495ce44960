package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ytlooper/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "PORT",
		flagKey:      "port",
		defaultValue: 3000,
	}
	host = configVar[string]{
		envKey:       "HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	pollInterval = configVar[time.Duration]{
		envKey:       "LOOPER_POLL_INTERVAL",
		flagKey:      "poll-interval",
		defaultValue: 100 * time.Millisecond,
	}
	readyTimeout = configVar[time.Duration]{
		envKey:       "LOOPER_READY_TIMEOUT",
		flagKey:      "ready-timeout",
		defaultValue: 5 * time.Second,
	}
	notificationTTL = configVar[time.Duration]{
		envKey:       "LOOPER_NOTIFICATION_TTL",
		flagKey:      "notification-ttl",
		defaultValue: 3 * time.Second,
	}
	videoInfoTimeout = configVar[time.Duration]{
		envKey:       "LOOPER_VIDEO_INFO_TIMEOUT",
		flagKey:      "video-info-timeout",
		defaultValue: 5 * time.Second,
	}
	staticDir = configVar[string]{
		envKey:       "LOOPER_STATIC_DIR",
		flagKey:      "static-dir",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Duration(pollInterval.flagKey, pollInterval.defaultValue, "How often the loop end is checked")
	pflag.Duration(readyTimeout.flagKey, readyTimeout.defaultValue, "How long to wait for the player before unblocking the controls")
	pflag.Duration(notificationTTL.flagKey, notificationTTL.defaultValue, "How long notifications stay on screen")
	pflag.Duration(videoInfoTimeout.flagKey, videoInfoTimeout.defaultValue, "Timeout of video title lookups")
	pflag.String(staticDir.flagKey, staticDir.defaultValue, "Serve the page from this directory instead of the embedded bundle")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(pollInterval.flagKey, pollInterval.envKey)
	viper.BindEnv(readyTimeout.flagKey, readyTimeout.envKey)
	viper.BindEnv(notificationTTL.flagKey, notificationTTL.envKey)
	viper.BindEnv(videoInfoTimeout.flagKey, videoInfoTimeout.envKey)
	viper.BindEnv(staticDir.flagKey, staticDir.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(pollInterval.flagKey, pollInterval.defaultValue)
	viper.SetDefault(readyTimeout.flagKey, readyTimeout.defaultValue)
	viper.SetDefault(notificationTTL.flagKey, notificationTTL.defaultValue)
	viper.SetDefault(videoInfoTimeout.flagKey, videoInfoTimeout.defaultValue)
	viper.SetDefault(staticDir.flagKey, staticDir.defaultValue)

	config := &app.AppConfig{
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         strings.ToUpper(viper.GetString(logLevel.flagKey)),
		PollInterval:     viper.GetDuration(pollInterval.flagKey),
		ReadyTimeout:     viper.GetDuration(readyTimeout.flagKey),
		NotificationTTL:  viper.GetDuration(notificationTTL.flagKey),
		VideoInfoTimeout: viper.GetDuration(videoInfoTimeout.flagKey),
		StaticDir:        viper.GetString(staticDir.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
