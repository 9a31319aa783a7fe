package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/kupolls/api/internal/adapters/audit"
	"github.com/kupolls/api/internal/adapters/handler/http"
	"github.com/kupolls/api/internal/adapters/oauth/google"
	"github.com/kupolls/api/internal/adapters/repository/postgres"
	"github.com/kupolls/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	questionRepo := postgres.NewQuestionRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	clock := services.NewSystemClock()
	auditSink := audit.NewSlogSink(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	pollService := services.NewPollService(questionRepo, voteRepo, clock)
	voteService := services.NewVoteService(questionRepo, voteRepo, clock)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo, authRepo, google.NewVerifier(), auditSink)

	pollHandler := http.NewPollHandler(pollService)
	voteHandler := http.NewVoteHandler(voteService)
	userHandler := http.NewUserHandler(userService)
	authHandler := http.NewAuthHandler(
		authService,
		os.Getenv("AUTH_REDIRECT_URL"),
		os.Getenv("COOKIE_DOMAIN"),
		stdhttp.SameSiteLaxMode,
	)

	handler := http.NewHandler(pollHandler, voteHandler, authHandler, userHandler, []byte(os.Getenv("JWT_SECRET")))
	server := &stdhttp.Server{Addr: "0.0.0.0:8080", Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func dbConnString() string {
	dbName := os.Getenv("POSTGRES_DB")
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
