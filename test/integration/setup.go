package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kupolls/api/internal/adapters/audit"
	handler "github.com/kupolls/api/internal/adapters/handler/http"
	repo "github.com/kupolls/api/internal/adapters/repository/postgres"
	"github.com/kupolls/api/internal/core/services"

	_ "github.com/lib/pq"
	stdhttp "net/http"
)

const testJWTSecret = "test-secret"

type TestApp struct {
	DB        *sql.DB
	Server    *httptest.Server
	Client    *stdhttp.Client
	container testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

	ctx := context.Background()

	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, applyMigrations(db))

	questionRepo := repo.NewQuestionRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)

	clock := services.NewSystemClock()
	auditSink := audit.NewSlogSink(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	pollService := services.NewPollService(questionRepo, voteRepo, clock)
	voteService := services.NewVoteService(questionRepo, voteRepo, clock)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo, authRepo, nil, auditSink)

	pollHandler := handler.NewPollHandler(pollService)
	voteHandler := handler.NewVoteHandler(voteService)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService, "/", "", stdhttp.SameSiteLaxMode)

	h := handler.NewHandler(pollHandler, voteHandler, authHandler, userHandler, []byte(testJWTSecret))
	server := httptest.NewServer(h)

	return &TestApp{
		DB:        db,
		Server:    server,
		Client:    server.Client(),
		container: container,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.container.Terminate(context.Background()))
}

func createUserAndToken(t *testing.T, db *sql.DB) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	username := fmt.Sprintf("user-%s", userID)
	_, err := db.Exec("INSERT INTO users (id, username) VALUES ($1, $2)", userID, username)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":      userID.String(),
		"username": username,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return userID, signedToken
}
