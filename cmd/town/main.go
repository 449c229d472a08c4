package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/town/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	serverURL = configVar[string]{
		envKey:       "TOWN_SERVER_URL",
		flagKey:      "server-url",
		defaultValue: "ws://localhost:8081/ws",
		usage:        "Town server websocket URL",
	}
	host = configVar[string]{
		envKey:       "TOWN_HOST",
		flagKey:      "host",
		defaultValue: "127.0.0.1",
		usage:        "Debug HTTP host",
	}
	port = configVar[int]{
		envKey:       "TOWN_PORT",
		flagKey:      "port",
		defaultValue: 8080,
		usage:        "Debug HTTP port",
	}
	logLevel = configVar[string]{
		envKey:       "TOWN_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	handshakeTimeout = configVar[time.Duration]{
		envKey:       "TOWN_HANDSHAKE_TIMEOUT",
		flagKey:      "handshake-timeout",
		defaultValue: 10 * time.Second,
		usage:        "Websocket handshake timeout",
	}
	reconnectDelay = configVar[time.Duration]{
		envKey:       "TOWN_RECONNECT_DELAY",
		flagKey:      "reconnect-delay",
		defaultValue: 2 * time.Second,
		usage:        "Delay before reconnecting to the town server",
	}
)

func bindVar[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.String(serverURL.flagKey, serverURL.defaultValue, serverURL.usage)
	pflag.String(host.flagKey, host.defaultValue, host.usage)
	pflag.Int(port.flagKey, port.defaultValue, port.usage)
	pflag.String(logLevel.flagKey, logLevel.defaultValue, logLevel.usage)
	pflag.Duration(handshakeTimeout.flagKey, handshakeTimeout.defaultValue, handshakeTimeout.usage)
	pflag.Duration(reconnectDelay.flagKey, reconnectDelay.defaultValue, reconnectDelay.usage)
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bindVar(serverURL)
	bindVar(host)
	bindVar(port)
	bindVar(logLevel)
	bindVar(handshakeTimeout)
	bindVar(reconnectDelay)

	return &app.AppConfig{
		ServerURL:        viper.GetString(serverURL.flagKey),
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         viper.GetString(logLevel.flagKey),
		HandshakeTimeout: viper.GetDuration(handshakeTimeout.flagKey),
		ReconnectDelay:   viper.GetDuration(reconnectDelay.flagKey),
	}
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
