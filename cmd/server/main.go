package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"connectrpc.com/connect"
	"github.com/bizfinance/backend/internal/auth"
	"github.com/bizfinance/backend/internal/config"
	"github.com/bizfinance/backend/internal/service"
	"github.com/bizfinance/backend/internal/store"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := newLogger(cfg)

	ctx := context.Background()

	var storeImpl store.Store
	var firebaseAuth *auth.FirebaseAuth

	if cfg.UseMemoryStore {
		// Local development never talks to Firebase.
		logger.Info("Using in-memory store with mock authentication")
		storeImpl = store.NewMemoryStore()
	} else {
		firestoreClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			logger.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		if cfg.SkipAuth {
			logger.Warn("SKIP_AUTH enabled - using mock authentication with Firestore (for seeding/testing only)")
		} else {
			firebaseAuth, err = auth.NewFirebaseAuth(ctx, cfg.ProjectID)
			if err != nil {
				logger.Fatalf("Failed to initialize Firebase Auth: %v", err)
			}
		}

		storeImpl = store.NewFirestoreStore(firestoreClient, logger)
	}

	analyticsService := service.NewAnalyticsService(storeImpl, logger, service.Options{
		QueryTimeout:   cfg.QueryTimeout,
		LookbackMonths: cfg.LookbackMonths,
		Currency:       cfg.Currency,
	})

	if cfg.DigestSchedule != "" {
		digest := service.NewCashFlowDigest(analyticsService, storeImpl, logger)
		scheduler, err := digest.Schedule(cfg.DigestSchedule)
		if err != nil {
			logger.Fatalf("Failed to schedule cash flow digest: %v", err)
		}
		defer scheduler.Stop()
		logger.WithField("schedule", cfg.DigestSchedule).Info("Cash flow digest scheduled")
	}

	// Debug impersonation runs first so the auth interceptors see its claims.
	interceptors := []connect.Interceptor{auth.DebugAuthInterceptor(cfg.SkipAuth || cfg.UseMemoryStore)}
	if firebaseAuth != nil {
		interceptors = append(interceptors, auth.AuthInterceptor(firebaseAuth))
	} else {
		interceptors = append(interceptors, auth.LocalDevInterceptor())
	}

	path, handler := service.NewAnalyticsServiceHandler(
		analyticsService,
		connect.WithInterceptors(interceptors...),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Content-Type",
			"User-Agent",
			"X-User-Agent",
			auth.HeaderImpersonateUser,
			auth.HeaderDebugBusinessID,
		},
		ExposedHeaders: []string{
			"Insufficient-Series",
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h2c.NewHandler(c.Handler(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
