package integration_test

import (
	"log/slog"
	"os"

	"github.com/cinetix/cinema-booking/internal/app"
	"github.com/cinetix/cinema-booking/internal/mailer"
	"github.com/cinetix/cinema-booking/internal/payment"
	"github.com/cinetix/cinema-booking/internal/repository"
	"github.com/cinetix/cinema-booking/internal/reservation"
	appvalidator "github.com/cinetix/cinema-booking/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App    *app.Application
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Mailer *mailer.MockMailer
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)

	seatRepo := repository.NewPostgresSeatRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	paymentProvider := payment.NewMockPaymentProvider()

	locker := reservation.NewLocker(redisClient, reservation.LockOptions{
		Lease:         cfg.Lock.Lease,
		MaxWait:       cfg.Lock.MaxWait,
		RetryInterval: cfg.Lock.RetryInterval,
	})

	reservations := reservation.NewService(
		redisClient,
		locker,
		logger,
		seatRepo,
		bookingRepo,
		paymentProvider,
		cfg.Hold.TTL,
	)

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mailer,
		sessionManager,
		seatRepo,
		bookingRepo,
		reservations,
	)

	return &TestApp{
		App:    application,
		DB:     db,
		Redis:  redisClient,
		Mailer: mailer,
	}, nil
}
