package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"towntriphub/internal/booking/adapters/in/transport"
	"towntriphub/internal/booking/adapters/out/out_amqp"
	"towntriphub/internal/booking/adapters/out/repo"
	"towntriphub/internal/booking/application/usecase"
	reviewtransport "towntriphub/internal/review/adapters/in/transport"
	reviewrepo "towntriphub/internal/review/adapters/out/repo"
	reviewusecase "towntriphub/internal/review/application/usecase"
	"towntriphub/internal/shared/auth"
	"towntriphub/internal/shared/config"
	db_conn "towntriphub/internal/shared/db"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run запускает Booking Service: жизненный цикл заказов, назначение
// водителей и отзывы.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "booking_service_starting", Message: "initializing booking service"})

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
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
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
		// Не падаем: топология идемпотентна и могла быть создана соседним сервисом
	}

	// 3. Репозитории
	bookingRepo := repo.NewBookingPgRepository(dbPool, log)
	driverRepo := repo.NewDriverPgRepository(dbPool, log)
	reviewRepo := reviewrepo.NewReviewPgRepository(dbPool, log)
	bookingReader := reviewrepo.NewBookingPgReader(dbPool)

	// 4. Publisher
	publisher := out_amqp.NewBookingEventPublisher(mqConn, log)

	// 5. Use cases
	createBookingUC := usecase.NewCreateBookingService(bookingRepo, publisher, log)
	assignDriverUC := usecase.NewAssignDriverService(bookingRepo, driverRepo, publisher, log)
	cancelBookingUC := usecase.NewCancelBookingService(bookingRepo, publisher, log)
	getBookingUC := usecase.NewGetBookingService(bookingRepo, driverRepo, log)
	submitReviewUC := reviewusecase.NewSubmitReviewService(reviewRepo, bookingReader, log)
	listReviewsUC := reviewusecase.NewListReviewsService(reviewRepo)

	// 6. JWT и HTTP
	jwtService := auth.NewJWTService(cfg.JWT)
	authMW := func(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
		return transport.AuthMiddleware(jwtService, log, roles...)
	}

	bookingHandler := transport.NewHTTPHandler(createBookingUC, assignDriverUC, cancelBookingUC, getBookingUC, log)
	reviewHandler := reviewtransport.NewHTTPHandler(submitReviewUC, listReviewsUC, func(ctx context.Context) (string, string) {
		return transport.ActorFromContext(ctx)
	}, log)

	mux := http.NewServeMux()
	bookingHandler.RegisterRoutes(mux, authMW)
	reviewHandler.RegisterRoutes(mux, authMW)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := transport.ObserveMiddleware(log, mux)

	// 7. HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Services.BookingServicePort)
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
	log.Info(logger.Entry{Action: "booking_service_stopping", Message: "shutting down booking service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "booking_service_stopped", Message: "booking service stopped"})
}
