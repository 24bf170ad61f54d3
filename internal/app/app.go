package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/docswap/internal/config"
	"github.com/fsdevblog/docswap/internal/metrics"
	"github.com/fsdevblog/docswap/internal/repository/pgrepo"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/revocation"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/service/otp"
	"github.com/fsdevblog/docswap/internal/service/psswd"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/fsdevblog/docswap/internal/storage"
	"github.com/fsdevblog/docswap/internal/transport/api"
	"github.com/fsdevblog/docswap/internal/transport/dispatcher"
	"github.com/fsdevblog/docswap/internal/transport/events"
	"github.com/fsdevblog/docswap/internal/transport/mailer"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	sweepInterval     = time.Minute
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"address": a.Config.RunAddress,
		"env":     a.Config.AppEnv,
	}).Info("starting app")

	conn, connErr := pgrepo.Connect(notifyCtx, pgrepo.ConnectArgs{
		DSN:           a.Config.DatabaseDSN,
		MigrationsDir: a.Config.MigrationsDir,
	}, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	revocations, revErr := a.initRevocations(notifyCtx)
	if revErr != nil {
		return fmt.Errorf("app run: %s", revErr.Error())
	}

	mail, mailErr := a.initMailer()
	if mailErr != nil {
		return fmt.Errorf("app run: %s", mailErr.Error())
	}

	evidenceStorage, stErr := storage.NewMinioStorage(notifyCtx, storage.MinioConfig{
		Endpoint:  a.Config.MinIO.Endpoint,
		AccessKey: a.Config.MinIO.AccessKey,
		SecretKey: a.Config.MinIO.SecretKey,
		Bucket:    a.Config.MinIO.Bucket,
		UseSSL:    a.Config.MinIO.UseSSL,
		PublicURL: a.Config.MinIO.PublicURL,
	}, a.Logger)
	if stErr != nil {
		return fmt.Errorf("app run: %s", stErr.Error())
	}

	tokenConf := tokens.Config{
		Secret:   []byte(a.Config.JWTSecret),
		Issuer:   a.Config.JWTIssuer,
		Audience: a.Config.JWTAudience,
		TTL:      a.Config.JWTTTL,
	}

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		User: service.UserServiceArgs{
			Hasher:      psswd.PasswordHash(0),
			Codes:       otp.Generator{Digits: otp.DefaultDigits},
			Mailer:      mail,
			Revocations: revocations,
			Tokens:      tokenConf,
			OTPTTL:      a.Config.OTPTTL,
		},
		Storage: evidenceStorage,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	if loadErr := services.StatusService.Load(notifyCtx); loadErr != nil {
		return fmt.Errorf("app run: %s", loadErr.Error())
	}

	appMetrics := metrics.New()

	router := api.New(api.RouterArgs{
		Logger:              a.Logger,
		Development:         a.Config.IsDevelopment(),
		UserService:         services.UserService,
		CategoryService:     services.CategoryService,
		DocumentService:     services.DocumentService,
		ListingService:      services.ListingService,
		OrderService:        services.OrderService,
		PaymentService:      services.PaymentService,
		ReviewService:       services.ReviewService,
		NotificationService: services.NotificationService,
		StatusService:       services.StatusService,
		TokenConfig:         tokenConf,
		Revocations:         revocations,
		Metrics:             appMetrics,
		DB:                  unitOfWork,
	})

	publisher, closePublisher, pubErr := a.initPublisher()
	if pubErr != nil {
		return fmt.Errorf("app run: %s", pubErr.Error())
	}
	defer closePublisher()

	notificationDispatcher := dispatcher.New(services.NotificationService, publisher, a.Logger).
		SetWorkers(a.Config.DispatchWorkers).
		SetLimitPerIteration(a.Config.DispatchLimit).
		SetIdleInterval(a.Config.DispatchInterval).
		SetObserver(appMetrics)

	go notificationDispatcher.Run(notifyCtx)

	server := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := server.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.Logger.WithError(err).Error("http server shutdown")
		}
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

// initRevocations выбирает хранилище отозванных токенов: redis, если задан адрес, иначе память процесса.
func (a *App) initRevocations(ctx context.Context) (service.RevocationStore, error) {
	if a.Config.RedisAddr == "" {
		store := revocation.NewMemoryStore()
		go store.Run(ctx, sweepInterval)
		a.Logger.Warn("REDIS_ADDR is not set, revoked tokens are kept in memory")
		return store, nil
	}

	client, err := revocation.Connect(ctx, a.Config.RedisAddr, a.Config.RedisPassword, a.Config.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("init revocation store: %w", err)
	}
	go func() {
		<-ctx.Done()
		if closeErr := client.Close(); closeErr != nil {
			a.Logger.WithError(closeErr).Error("closing redis client")
		}
	}()
	return revocation.NewRedisStore(client), nil
}

func (a *App) initMailer() (service.Mailer, error) {
	if a.Config.SMTP.Host == "" {
		a.Logger.Warn("SMTP_HOST is not set, emails are written to the log")
		return mailer.NewLogMailer(a.Logger), nil
	}
	m, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     a.Config.SMTP.Host,
		Port:     a.Config.SMTP.Port,
		Username: a.Config.SMTP.Username,
		Password: a.Config.SMTP.Password,
		From:     a.Config.SMTP.From,
		SSL:      a.Config.SMTP.SSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init mailer: %w", err)
	}
	return m, nil
}

// initPublisher возвращает публикатор уведомлений и функцию его закрытия.
func (a *App) initPublisher() (dispatcher.Publisher, func(), error) {
	if a.Config.NATSURL == "" {
		a.Logger.Warn("NATS_URL is not set, notification events are written to the log")
		return events.NewLogPublisher(a.Logger), func() {}, nil
	}

	nc, err := events.Connect(a.Config.NATSURL, a.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init publisher: %w", err)
	}
	publisher, err := events.NewNATSPublisher(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("init publisher: %w", err)
	}
	return publisher, func() {
		if drainErr := nc.Drain(); drainErr != nil {
			a.Logger.WithError(drainErr).Error("draining nats connection")
		}
	}, nil
}

type repoRegistration struct {
	name    repoargs.RepositoryName
	factory uow.RepositoryFactory
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	registrations := []repoRegistration{
		{repoargs.UserRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewUserRepository(dbtx) }},
		{repoargs.ProfileRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewProfileRepository(dbtx) }},
		{repoargs.CategoryRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewCategoryRepository(dbtx) }},
		{repoargs.DocumentRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewDocumentRepository(dbtx) }},
		{repoargs.ListingRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewListingRepository(dbtx) }},
		{repoargs.OrderRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewOrderRepository(dbtx) }},
		{repoargs.PaymentRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewPaymentRepository(dbtx) }},
		{repoargs.ReviewRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewReviewRepository(dbtx) }},
		{repoargs.EvidenceRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewEvidenceRepository(dbtx) }},
		{repoargs.NotificationRepoName, func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewNotificationRepository(dbtx)
		}},
		{repoargs.StatusRepoName, func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewStatusRepository(dbtx) }},
	}

	for _, reg := range registrations {
		if regErr := unitOfWork.Register(uow.RepositoryName(reg.name), reg.factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
