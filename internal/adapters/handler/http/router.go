package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, authHandler *AuthHandler, userHandler *UserHandler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/google/callback", authHandler.GoogleCallback)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls", func(r chi.Router) {
			r.With(OptionalAuthMiddleware(jwtSecret)).Get("/", pollHandler.ListQuestions)
			r.With(OptionalAuthMiddleware(jwtSecret)).Get("/{id}", pollHandler.GetQuestion)
			r.Get("/{id}/results", pollHandler.GetResults)

			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(jwtSecret))
				r.Post("/", pollHandler.CreateQuestion)
				r.Delete("/{id}", pollHandler.DeleteQuestion)
				r.Post("/{id}/votes", voteHandler.CastVote)
				r.Delete("/{id}/votes", voteHandler.WithdrawVote)
				r.Get("/{id}/my-vote", voteHandler.GetMyVote)
			})
		})

		r.With(AuthMiddleware(jwtSecret)).Get("/me", userHandler.GetMe)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
