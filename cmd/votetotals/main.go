package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/kupolls/api/internal/adapters/repository/postgres"
	"github.com/kupolls/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var dbHost, dbPort, dbUser, dbPass, dbName string

	flag.StringVar(&dbHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	flag.StringVar(&dbPort, "db-port", os.Getenv("POSTGRES_PORT"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.Parse()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	questionRepo := postgres.NewQuestionRepository(db)
	totalRepo := postgres.NewVoteTotalRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	summaryService := services.NewSummaryService(questionRepo, totalRepo, services.NewSystemClock())

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Starting vote totals refresh job...")

	if err := summaryService.SummarizeAllVotes(ctx); err != nil {
		log.Fatalf("Error refreshing vote totals: %v", err)
	}

	// Piggyback on the nightly run to prune expired refresh tokens.
	purged, err := authRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("Error purging expired refresh tokens: %v", err)
	}

	log.Printf("Vote totals refresh completed, %d expired refresh token(s) purged.", purged)
}
