package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"certifree/internal/app/server"
	"certifree/internal/config"
	"certifree/internal/delivery/http"
	"certifree/internal/event"
	"certifree/internal/service"
	"certifree/internal/service/auth"
	"certifree/internal/service/catalog/favorite"
	catalogmanagement "certifree/internal/service/catalog/management"
	"certifree/internal/service/catalog/query"
	"certifree/internal/service/course/certificate"
	"certifree/internal/service/course/content"
	"certifree/internal/service/course/enrollment"
	coursemanagement "certifree/internal/service/course/management"
	"certifree/internal/storage/elastic"
	"certifree/internal/storage/minio_storage"
	"certifree/internal/storage/postgres"
	"certifree/pkg/certgen"
	"certifree/pkg/logger"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	logoBucket := cfg.Minio.Buckets["logos"]
	logoStorage, err := minio_storage.NewLogoStorage(minioStorage, logoBucket.Name, logoBucket.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing logo bucket", err)
	}
	certificateBucket := cfg.Minio.Buckets["certificates"]
	certificateStorage, err := minio_storage.NewCertificateStorage(minioStorage, certificateBucket.Name, certificateBucket.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing certificate bucket", err)
	}

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewCertificationSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(context.Background()); err != nil {
		log.FatalErr("error creating search index", err)
	}

	var events event.Bus = event.NopPublisher{}
	if cfg.Rabbit.URL != "" {
		publisher, err := event.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			log.ErrorErr("rabbitmq unavailable, events disabled", err)
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	renderer, err := certgen.NewRenderer(cfg.Certificate.FontPath)
	if err != nil {
		log.FatalErr("error loading certificate renderer", err)
	}

	userRepo := postgres.NewUserPostgres(pg.Pool)
	tokenRepo := postgres.NewTokensPostgres(pg.Pool)
	certificationRepo := postgres.NewCertificationPostgres(pg.Pool)
	favoriteRepo := postgres.NewFavoritePostgres(pg.Pool)
	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	enrollmentRepo := postgres.NewEnrollmentPostgres(pg.Pool)
	attemptRepo := postgres.NewAttemptPostgres(pg.Pool)
	certificateRepo := postgres.NewCertificatePostgres(pg.Pool)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, "certifree", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	u := service.Collection{
		AuthService:              auth.NewAuthService(log, jwtManager, userRepo, tokenRepo),
		CatalogQueryService:      query.NewCatalogQueryService(log, certificationRepo, logoStorage, searchRepo),
		FavoriteService:          favorite.NewFavoriteService(log, favoriteRepo, certificationRepo),
		CatalogManagementService: catalogmanagement.NewCatalogManagementService(log, certificationRepo, searchRepo, logoStorage),
		ContentService:           content.NewContentService(log, courseRepo, enrollmentRepo),
		CourseManagementService:  coursemanagement.NewCourseManagementService(log, courseRepo),
		EnrollmentService:        enrollment.NewEnrollmentService(log, courseRepo, enrollmentRepo, attemptRepo, events),
		CertificateService:       certificate.NewCertificateService(log, courseRepo, enrollmentRepo, certificateRepo, userRepo, renderer, certificateStorage, events),
	}

	r := http.InitRoutes(log, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server stopped", err)
	}
	if err = srv.Shutdown(); err != nil {
		log.ErrorErr("server shutdown failed", err)
	}
}
