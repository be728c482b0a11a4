package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jo-hoe/diamonds-imager/internal/common"
	"github.com/jo-hoe/diamonds-imager/internal/config"
	"github.com/jo-hoe/diamonds-imager/internal/dmc"
	"github.com/jo-hoe/diamonds-imager/internal/facade"
	"github.com/jo-hoe/diamonds-imager/internal/httpapi"
	"github.com/jo-hoe/diamonds-imager/internal/imagestore"
	"github.com/jo-hoe/diamonds-imager/internal/processing"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	configureLogLevel(settings.LogLevel)

	palette, err := dmc.Load(settings.DMCPalettePath)
	if err != nil {
		slog.Error("failed to load dmc palette", "path", settings.DMCPalettePath, "error", err)
		os.Exit(1)
	}

	store := imagestore.New()
	dispatcher := processing.NewDispatcher(settings.WorkersCount)
	defer dispatcher.Shutdown()

	f := facade.New(store, palette, dispatcher,
		settings.ImageMinWidth, settings.ImageMinHeight,
		settings.ImageMaxWidth, settings.ImageMaxHeight)

	api := httpapi.New(f, settings.SVGFallbackLongSidePixels, settings.ImageMaxKiB)
	server := defineServer()
	api.Register(server)

	address := fmt.Sprintf("%s:%d", settings.ServerAddress, settings.Port)

	go func() {
		if err := server.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}

func configureLogLevel(level string) {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
		slogLevel = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(slogLevel)
}

func defineServer() *echo.Echo {
	e := echo.New()

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogHost:      true,
		LogUserAgent: true,
		LogRoutePath: true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				slog.Warn("request failed",
					"method", v.Method, "uri", v.URI, "route", v.RoutePath,
					"status", v.Status, "latency", v.Latency, "error", v.Error,
					"remote_ip", v.RemoteIP, "host", v.Host, "user_agent", v.UserAgent)
			} else {
				slog.Info("request",
					"method", v.Method, "uri", v.URI, "route", v.RoutePath,
					"status", v.Status, "latency", v.Latency,
					"remote_ip", v.RemoteIP, "host", v.Host, "user_agent", v.UserAgent)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &common.GenericEchoValidator{}

	return e
}
