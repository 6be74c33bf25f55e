package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/futz12/llm-gobang/internal/config"
	"github.com/futz12/llm-gobang/internal/llm"
	"github.com/futz12/llm-gobang/internal/repository"
	"github.com/futz12/llm-gobang/internal/repository/storage"
	"github.com/futz12/llm-gobang/internal/service"
	"github.com/futz12/llm-gobang/internal/usecase"
	"github.com/futz12/llm-gobang/transport/rest"
	"github.com/futz12/llm-gobang/transport/websocket"
	"github.com/hashicorp/go-multierror"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) (err error) {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var options service.BotOptions
	options.Params = LLMParams(conf.LLM)
	options.FallbackOnTransportError = conf.LLM.FallbackOnTransportError

	if conf.Redis.Enabled {
		redisStorage, cacheErr := openCache(ctx, conf.Redis)
		if cacheErr != nil {
			return cacheErr
		}

		defer func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				err = multierror.Append(err, closeErr)
			}
		}()

		options.Cache = repository.NewMoveCache(redisStorage.Connection, conf.Redis.TTL)
		log.Info("move cache enabled", "addr", conf.Redis.GetRedisAddr(), "ttl", conf.Redis.TTL)
	}

	if conf.LLM.APIKey == "" {
		log.Warn("LLM api key is empty, requests will likely be rejected")
	}

	client := llm.NewClient(logger, &http.Client{Timeout: conf.LLM.Timeout}, conf.LLM.URL, conf.LLM.APIKey)
	bot := service.NewBotService(logger, client, options)
	games := usecase.NewGameManager(logger, bot, usecase.Options{
		CancelGrace: conf.Session.CancelGrace,
		EventBuffer: conf.Session.EventBuffer,
	})

	defer func() {
		if closeErr := games.CloseAll(); closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()

	errCh := make(chan error, 2)

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		router := rest.NewRouter(rest.NewPingHandler(), rest.NewGameHandlers(logger, games))
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, router); httpErr != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", httpErr)
			return
		}
		errCh <- nil
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, games)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", wsErr)
			return
		}
		errCh <- nil
	}()

	var result *multierror.Error

	// the first server to stop takes the other one down with it
	for range 2 {
		if serverErr := <-errCh; serverErr != nil {
			log.Error("server stopped", "error", serverErr)
			result = multierror.Append(result, serverErr)
		}
		cancel()
	}

	log.Info("Application stopped")

	return result.ErrorOrNil()
}

// LLMParams maps the llm config section onto request parameters.
func LLMParams(conf config.LLM) llm.Params {
	return llm.Params{
		Model:            conf.Model,
		MaxTokens:        conf.MaxTokens,
		EnableThinking:   !conf.DisableThinking,
		ThinkingBudget:   conf.ThinkingBudget,
		MinP:             conf.MinP,
		Temperature:      conf.Temperature,
		TopP:             conf.TopP,
		TopK:             conf.TopK,
		FrequencyPenalty: conf.FrequencyPenalty,
	}
}

func openCache(ctx context.Context, conf config.Redis) (*storage.RedisStorage, error) {
	addr := conf.GetRedisAddr()
	if conf.Host == "" || conf.Port == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}
