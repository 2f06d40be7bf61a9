package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/studybuddy-app/studybuddy/internal/auth"
	"github.com/studybuddy-app/studybuddy/internal/handler"
	appI18n "github.com/studybuddy-app/studybuddy/internal/i18n"
	"github.com/studybuddy-app/studybuddy/internal/llm"
	"github.com/studybuddy-app/studybuddy/internal/model"
	"github.com/studybuddy-app/studybuddy/internal/quiz"
	"github.com/studybuddy-app/studybuddy/internal/snapshot"
	"github.com/studybuddy-app/studybuddy/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studybuddy",
		Short: "AI study companion: summaries, flashcards, quizzes, and study planning",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `studybuddy --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "studybuddy.db", "SQLite database path")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Int("llm-max-tokens", 4096, "Maximum tokens per LLM response")
	f.Int("min-summary-words", 350, "Summaries shorter than this trigger an expansion pass")
	f.String("redis-addr", "", "Redis address for shared snapshots (empty = in-memory)")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.Duration("snapshot-ttl", time.Hour, "How long Redis snapshots live")
	f.Int("quiz-time-limit", 900, "Quiz countdown in seconds")
	f.Duration("session-max-age", 2*time.Hour, "Quiz sessions older than this are cleaned up")
	f.String("jwt-secret", "", "HMAC secret for signing tokens (required)")
	f.Duration("jwt-ttl", 24*time.Hour, "Issued token lifetime")
	f.StringSlice("cors-origins", []string{"http://localhost:5173"}, "Allowed CORS origins")
	f.StringP("lang", "l", "en", "Default language for messages (en, es)")
	f.Int("max-upload-mb", 10, "Maximum upload size in megabytes")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("STUDYBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("studybuddy")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/studybuddy")
	v.AddConfigPath("/etc/studybuddy")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	secret := v.GetString("jwt-secret")
	if secret == "" {
		return fmt.Errorf("jwt secret is required: set --jwt-secret flag or STUDYBUDDY_JWT_SECRET env var")
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	llmClient := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
		v.GetInt("llm-max-tokens"),
		v.GetInt("min-summary-words"),
	)
	if err := llmClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))

	var snapshots snapshot.Store
	if redisAddr := v.GetString("redis-addr"); redisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     redisAddr,
			Password: v.GetString("redis-password"),
			DB:       v.GetInt("redis-db"),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis health check: %w", err)
		}
		snapshots = snapshot.NewRedis(client, v.GetDuration("snapshot-ttl"))
		slog.Info("using redis snapshot store", "addr", redisAddr)
	} else {
		snapshots = snapshot.NewMemory()
		slog.Info("using in-memory snapshot store")
	}

	appCfg := model.AppConfig{
		QuizTimeLimitSec: v.GetInt("quiz-time-limit"),
		MaxUploadBytes:   int64(v.GetInt("max-upload-mb")) << 20,
		MinSummaryWords:  v.GetInt("min-summary-words"),
		Lang:             lang,
	}

	sessions := quiz.NewManager()
	tokens := auth.NewService(secret, v.GetDuration("jwt-ttl"))
	h := handler.New(db, llmClient, snapshots, sessions, tokens, appCfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   v.GetStringSlice("cors-origins"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket streams stay open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server",
			"addr", addr,
			"model", v.GetString("llm-model"),
			"llm_url", v.GetString("llm-url"),
			"lang", lang,
			"quiz_time_limit", appCfg.QuizTimeLimitSec,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		maxAge := v.GetDuration("session-max-age")
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.CleanupStale(maxAge); n > 0 {
					slog.Info("cleaned up stale quiz sessions", "count", n)
				}
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
