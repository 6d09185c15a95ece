package claimservice

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/general/config"
	"trip-claims/internal/general/jwt"
	"trip-claims/internal/general/logger"
	"trip-claims/internal/general/postgres"
	"trip-claims/internal/general/rabbitmq"
	"trip-claims/internal/general/websocket"
	"trip-claims/internal/software/claim/handler"
	"trip-claims/internal/software/claim/service"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Run(ctx context.Context, prefetch, maxConcurrent int) error {
	// set up a new logger for the claim service with a static request ID for startup logs
	logger := logger.New("claim-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load configuration
	cfg, err := config.LoadFromFile("./config/config.yaml")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// set up a Postgres connection pool
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	// connect to RabbitMQ
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()

	// set up the RabbitMQ publisher
	pub := &rabbitmq.MQPublisher{Client: rmq}

	// set up the JWT manager
	jwtManager := jwt.NewManager(cfg.JWT.SecretKey, 2*time.Hour)

	// set up the necessary repos
	uow := postgres.NewUnitOfWork(pool)
	tripRepo := postgres.NewTripRepo()
	driverRepo := postgres.NewDriverRepo()
	claimRepo := postgres.NewClaimRepo()
	eventRepo := postgres.NewClaimEventRepo()

	// set up the websocket handler for driver claim updates
	ws := websocket.NewWebSocket(logger, jwtManager)

	// claiming policy comes from config; zero values were defaulted at load
	policy := claim.Policy{
		LeadTime:              time.Duration(cfg.Claiming.LeadTimeHours) * time.Hour,
		AutoDispatchGrace:     time.Duration(cfg.Claiming.AutoDispatchGraceMinutes) * time.Minute,
		AutoDispatchLookahead: time.Duration(cfg.Claiming.AutoDispatchLookaheadMinutes) * time.Minute,
		MaxActiveClaims:       cfg.Claiming.MaxActiveClaims,
	}

	// set up the claim service
	svc := service.NewClaimService(logger, uow, tripRepo, driverRepo, claimRepo, eventRepo, pub, rmq, ws, policy)

	// start consuming claim status decisions from the dispatch queue
	svc.StartBackgroundConsumer(ctx, prefetch)

	// set up the HTTP handler and its routes
	mux := http.NewServeMux()
	httpHandler := handler.NewClaimHTTPHandler(svc, logger, jwtManager, ws)
	httpHandler.RegisterRoutes(mux)

	// concurrency limiter (global) blocks when capacity is full
	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	// set up the server configurations
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Services.ClaimServicePort),   // listen on the specified port
		Handler:           limitedHandler,                                      // apply the concurrency limiter to HTTP handler
		ReadHeaderTimeout: 5 * time.Second,                                     // time to read headers
		ReadTimeout:       10 * time.Second,                                    // time to read full request body
		WriteTimeout:      15 * time.Second,                                    // full response write timeout
		IdleTimeout:       60 * time.Second,                                    // keep-alive window
		BaseContext:       func(net.Listener) context.Context { return ctx },   // pass base ctx to all handlers
	}

	// log service start
	logger.Info(ctx, "service_started",
		fmt.Sprintf("Claim Service started on port %d", cfg.Services.ClaimServicePort),
		map[string]any{"port": cfg.Services.ClaimServicePort, "prefetch": prefetch, "max_concurrent": maxConcurrent},
	)

	// start the server in a background goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// wait for context cancellation or server error
	select {
	case <-ctx.Done():
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		// server returned a terminal error at startup or during run
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.Services.ClaimServicePort})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
