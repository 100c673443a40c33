package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"towntriphub/internal/driver/adapters/in/in_amqp"
	"towntriphub/internal/driver/adapters/in/transport"
	"towntriphub/internal/driver/adapters/out/out_amqp"
	"towntriphub/internal/driver/adapters/out/repo"
	notification "towntriphub/internal/driver/adapters/out/ws"
	"towntriphub/internal/driver/application/usecase"
	"towntriphub/internal/shared/auth"
	"towntriphub/internal/shared/config"
	db_conn "towntriphub/internal/shared/db"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
	"towntriphub/internal/shared/ws"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run запускает Driver Service: доступность, переходы назначений и
// realtime уведомления о назначениях.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "driver_service_starting", Message: "initializing driver service"})

	// 1. PostgreSQL
	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	if err := db_conn.Migrate(ctx, dbPool); err != nil {
		log.Error(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		// Не падаем: миграции мог применить booking service
	}

	// 2. RabbitMQ
	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(ctx, mqConn, log); err != nil {
		log.Error(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// 3. JWT и WebSocket hub
	jwtService := auth.NewJWTService(cfg.JWT)

	wsHub := ws.NewHub(func(token string) (string, string, error) {
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID, claims.Role, nil
	}, log)
	go wsHub.Run(ctx)

	// 4. Репозитории и исходящие адаптеры
	driverRepo := repo.NewDriverPgRepository(dbPool, log)
	assignmentRepo := repo.NewAssignmentPgRepository(dbPool, log)
	publisher := out_amqp.NewDriverEventPublisher(mqConn, log)
	driverNotifier := notification.NewDriverNotifier(wsHub, log)

	// 5. Use cases
	setAvailabilityUC := usecase.NewSetAvailabilityService(driverRepo, publisher, log)
	advanceAssignmentUC := usecase.NewAdvanceAssignmentService(driverRepo, assignmentRepo, publisher, log)
	cancelAssignmentUC := usecase.NewCancelAssignmentService(driverRepo, assignmentRepo, publisher, log)
	currentAssignmentUC := usecase.NewCurrentAssignmentService(driverRepo, assignmentRepo)

	// 6. Консьюмер booking.assigned -> websocket push
	assignmentConsumer := in_amqp.NewAssignmentConsumer(mqConn, driverNotifier, log)
	go func() {
		if err := assignmentConsumer.Start(ctx); err != nil {
			log.Error(logger.Entry{
				Action:  "assignment_consumer_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	// 7. HTTP
	driverHandler := transport.NewHTTPHandler(setAvailabilityUC, advanceAssignmentUC, cancelAssignmentUC, currentAssignmentUC, log)
	driverAuthMW := transport.DriverAuthMiddleware(jwtService, log)

	mux := http.NewServeMux()
	driverHandler.RegisterRoutes(mux, driverAuthMW)
	mux.HandleFunc("GET /ws", wsHub.ServeWS)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := transport.ObserveMiddleware(log, mux)

	addr := fmt.Sprintf(":%d", cfg.Services.DriverServicePort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{
			Action:  "http_server_starting",
			Message: fmt.Sprintf("listening on %s", addr),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(logger.Entry{
				Action:  "http_server_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "driver_service_stopping", Message: "shutting down driver service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "driver_service_stopped", Message: "driver service stopped"})
}
