package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flag-quiz-service/internal/config"
	"flag-quiz-service/internal/countries"
	"flag-quiz-service/internal/game"
	"flag-quiz-service/internal/infra/memory"
	pgstore "flag-quiz-service/internal/infra/postgres"
	redisstore "flag-quiz-service/internal/infra/redis"
	"flag-quiz-service/internal/stats"
	transport "flag-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	source, err := buildSource(cfg)
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.Duration(cfg.Redis.TTL, 24*time.Hour)

	var sessionStore game.SessionStore
	if redisClient != nil {
		sessionStore = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessionStore = memory.NewSessionStore()
	}

	var results stats.ResultRepository
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		results = pgstore.NewResultRepository(pool)
	} else {
		results = memory.NewResultRepository()
	}

	aggregator := stats.NewAggregator(results)
	generator := game.NewGenerator(cfg.Countries.Language)
	service := game.NewService(source, generator, sessionStore, aggregator, cfg.QuestionCount(), cfg.ChoiceCount())

	wsHandler := transport.NewWSHandler(service)
	statsHandler := transport.NewStatsHandler(aggregator)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/stats", statsHandler)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting flag quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildSource picks the country reference-data source from config.
func buildSource(cfg config.Config) (game.Source, error) {
	switch cfg.Countries.Source {
	case "", "remote":
		timeout := config.Duration(cfg.Countries.Timeout, 10*time.Second)
		return countries.NewClient(cfg.Countries.APIURL, timeout), nil
	case "static":
		return countries.NewStaticSource()
	case "flagfile":
		if cfg.Countries.FlagFile == "" {
			return nil, fmt.Errorf("countries.flag_file required for flagfile source")
		}
		return countries.NewFlagFileSource(cfg.Countries.FlagFile)
	default:
		return nil, fmt.Errorf("unknown countries source %q", cfg.Countries.Source)
	}
}
