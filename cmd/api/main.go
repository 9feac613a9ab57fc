package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/bibliotech/library-service/internal/adapters/handler"
	"github.com/bibliotech/library-service/internal/adapters/metrics"
	"github.com/bibliotech/library-service/internal/adapters/middleware"
	"github.com/bibliotech/library-service/internal/adapters/repository"
	"github.com/bibliotech/library-service/internal/adapters/session"
	"github.com/bibliotech/library-service/internal/config"
	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
	"github.com/bibliotech/library-service/internal/core/services"
	"github.com/bibliotech/library-service/internal/database"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Sessions live in Redis when an address is configured so replicas
	// share one registry; otherwise they stay in process memory and a
	// restart logs everyone out.
	var sessions ports.SessionStore
	var redisClient *redis.Client
	if cfg.RedisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		log.Println("Authenticated with Redis successfully")
		sessions = session.NewRedisStore(redisClient)
	} else {
		log.Println("No Redis configured, using in-memory session store")
		sessions = session.NewMemoryStore()
	}

	userRepo := repository.NewSQLUserRepository(db)
	bookRepo := repository.NewSQLBookRepository(db)
	loanRepo := repository.NewSQLLoanRepository(db)

	authService := services.NewAuthService(userRepo, sessions)
	registrationService := services.NewRegistrationService(userRepo)
	catalogService := services.NewCatalogService(bookRepo)
	loanService := services.NewLoanService(loanRepo, cfg.LoanTermDays, cfg.FeePerDay)

	authMiddleware := middleware.NewAuthMiddleware(sessions)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(registrationService)
	bookHandler := handler.NewBookHandler(catalogService)
	loanHandler := handler.NewLoanHandler(loanService)
	reportHandler := handler.NewReportHandler(loanService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	staff := []domain.Role{domain.RoleAdmin, domain.RoleLibrarian}
	adminOnly := []domain.Role{domain.RoleAdmin}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.Handle("GET /metrics", metrics.Handler())

	// API endpoints
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authMiddleware.Authenticate(authHandler.Logout))
	mux.HandleFunc("GET /me", authMiddleware.Authenticate(authHandler.Me))

	mux.HandleFunc("GET /books", authMiddleware.Authenticate(bookHandler.List))
	mux.HandleFunc("POST /books", authMiddleware.RequireRole(staff, bookHandler.Create))

	mux.HandleFunc("GET /users", authMiddleware.Authenticate(userHandler.List))
	mux.HandleFunc("POST /users", authMiddleware.RequireRole(adminOnly, userHandler.Create))

	mux.HandleFunc("GET /loans", authMiddleware.Authenticate(loanHandler.List))
	mux.HandleFunc("POST /loans", authMiddleware.RequireRole(staff, loanHandler.Create))
	mux.HandleFunc("PUT /loans/{id}/return", authMiddleware.RequireRole(staff, loanHandler.Return))

	mux.HandleFunc("GET /reports/loans-by-student", authMiddleware.Authenticate(reportHandler.LoansByStudent))
	mux.HandleFunc("GET /reports/overdue-loans", authMiddleware.Authenticate(reportHandler.OverdueLoans))

	root := middleware.CORSMiddleware(cfg.AllowedOrigins)(metrics.Middleware(mux))

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, root); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
