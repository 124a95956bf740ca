package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/learnflow-ai/learnflow/internal/ai"
	api "github.com/learnflow-ai/learnflow/internal/api/http"
	auth "github.com/learnflow-ai/learnflow/internal/auth/middleware"
	"github.com/learnflow-ai/learnflow/internal/book"
	"github.com/learnflow-ai/learnflow/internal/config"
	"github.com/learnflow-ai/learnflow/internal/db"
	"github.com/learnflow-ai/learnflow/internal/payment"
	"github.com/learnflow-ai/learnflow/internal/quiz"
	"github.com/learnflow-ai/learnflow/internal/rbac"
	"github.com/learnflow-ai/learnflow/internal/storage"
	syncx "github.com/learnflow-ai/learnflow/internal/sync"
	"github.com/learnflow-ai/learnflow/internal/transcript"
	"github.com/learnflow-ai/learnflow/internal/video"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// Stores and services.
	events := syncx.NewEventRepo(dbh)
	quizStore := quiz.NewSQLStore(dbh)
	quizSvc := quiz.NewService(quizStore, events)
	videoStore := video.NewSQLStore(dbh)
	bookStore := book.NewSQLStore(dbh)
	paymentStore := payment.NewSQLStore(dbh)
	paymentSvc := payment.NewService(paymentStore, bookStore, events)

	yt := transcript.NewYouTubeClient()
	fetcher := transcript.NewFetcher(yt, yt, cfg.TranscriptLangs,
		transcript.WithMaxAttempts(cfg.TranscriptAttempts))

	aiClient := ai.NewHTTPClient(cfg.AIBaseURL)
	chatSvc := ai.NewChatService(aiClient)
	quizGen := ai.NewQuizGenerator(aiClient)

	authSvc := auth.NewAuthService(cfg.AuthSecret)
	checker := rbac.NewChecker(nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", auth.RegisterHandler(authSvc, dbh))
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API: JWT -> DB-authoritative role -> RBAC per route.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.AuthClaimFallback))

		// Quizzes.
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(quizStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(quizStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(quizStore, checker))
		pr.With(rbac.Require("quiz:update-own")).
			Put("/quizzes/{quizID}", api.UpdateQuizHandler(quizStore))
		pr.With(rbac.Require("quiz:delete-own")).
			Delete("/quizzes/{quizID}", api.DeleteQuizHandler(quizStore))

		// Attempts.
		pr.With(rbac.Require("attempt:create")).
			Post("/quizzes/{quizID}/attempts", api.SubmitAttemptHandler(quizSvc))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", api.ListAttemptsHandler(quizStore, checker))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", api.GetAttemptHandler(quizStore, checker))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/report", api.AttemptReportHandler(quizStore, checker, bs))

		// Videos.
		pr.With(rbac.Require("video:create")).
			Post("/videos", api.CreateVideoHandler(videoStore))
		pr.With(rbac.Require("video:view")).
			Get("/videos", api.ListVideosHandler(videoStore))
		pr.With(rbac.Require("video:view")).
			Get("/videos/{videoID}", api.GetVideoHandler(videoStore))
		pr.With(rbac.Require("video:update-own")).
			Put("/videos/{videoID}", api.UpdateVideoHandler(videoStore))
		pr.With(rbac.Require("video:delete-own")).
			Delete("/videos/{videoID}", api.DeleteVideoHandler(videoStore))
		pr.With(rbac.Require("video:view")).
			Get("/videos/{videoID}/transcript", api.VideoTranscriptHandler(videoStore, fetcher))

		// Books and payments.
		pr.With(rbac.Require("book:create")).
			Post("/books", api.CreateBookHandler(bookStore))
		pr.With(rbac.Require("book:view")).
			Get("/books", api.ListBooksHandler(bookStore))
		pr.With(rbac.Require("book:view")).
			Get("/books/{bookID}", api.GetBookHandler(bookStore, paymentSvc))
		pr.With(rbac.Require("book:update-own")).
			Put("/books/{bookID}", api.UpdateBookHandler(bookStore))
		pr.With(rbac.Require("book:delete-own")).
			Delete("/books/{bookID}", api.DeleteBookHandler(bookStore))

		pr.With(rbac.Require("payment:initiate")).
			Post("/payments", api.InitiatePaymentHandler(paymentSvc))
		pr.With(rbac.Require("payment:confirm")).
			Post("/payments/{transactionID}/confirm", api.ConfirmPaymentHandler(paymentSvc, paymentStore, checker))
		pr.With(rbac.Require("payment:view-own")).
			Get("/payments", api.ListPaymentsHandler(paymentStore, checker))

		// Assistant.
		pr.With(rbac.Require("ai:chat")).
			Post("/ai/chat", api.ChatHandler(chatSvc))
		pr.With(rbac.Require("ai:chat")).
			Post("/ai/feedback", api.FeedbackHandler(chatSvc))
		pr.With(rbac.Require("ai:quizgen")).
			Post("/ai/quizzes", api.GenerateQuizHandler(videoStore, fetcher, quizGen))

		// Users.
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.Get("/users/me", api.MeHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
