package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"unicert/internal/adapter/api"
	"unicert/internal/adapter/api/handler"
	apimiddleware "unicert/internal/adapter/api/middleware"
	"unicert/internal/adapter/api/router"
	"unicert/internal/adapter/repository"
	"unicert/internal/domain/service"
	"unicert/internal/infrastructure/firebase"
	"unicert/internal/infrastructure/ratelimit"
	"unicert/internal/infrastructure/storage"
	"unicert/internal/infrastructure/websocket"
	"unicert/internal/usecase"
	"unicert/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	switch {
	case cfg.ServiceAccountJSON != "":
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))
	case cfg.ServiceAccountPath != "":
		if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", cfg.ServiceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opt = option.WithCredentialsFile(cfg.ServiceAccountPath)
	default:
		log.Fatalf("Set FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH")
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	certificateRepo := repository.NewFirestoreCertificateRepository(firestoreClient)
	templateRepo := repository.NewFirestoreTemplateRepository(firestoreClient)
	documentRepo := repository.NewFirestoreDocumentRepository(firestoreClient)
	activityRepo := repository.NewFirestoreActivityRepository(firestoreClient)
	backupRepo := repository.NewFirestoreBackupRepository(firestoreClient)
	snapshotRepo := repository.NewFirestoreSnapshotRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)
	signer := service.NewSigner(cfg.SigningSecret)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, activityRepo, firebaseAuthClient, wsManager)
	templateUseCase := usecase.NewTemplateUseCase(templateRepo)
	certificateUseCase := usecase.NewCertificateUseCase(
		certificateRepo, templateRepo, userRepo, activityRepo,
		signer, storageClient, wsManager, cfg.VerificationBaseURL,
	)
	documentUseCase := usecase.NewDocumentUseCase(documentRepo, certificateRepo, storageClient, wsManager)
	reportUseCase := usecase.NewReportUseCase(userRepo, certificateRepo, documentRepo, activityRepo)
	backupUseCase := usecase.NewBackupUseCase(snapshotRepo, backupRepo, activityRepo, storageClient, wsManager, cfg.BackupPrefix)

	handler.Setup(
		authUseCase,
		userUseCase,
		templateUseCase,
		certificateUseCase,
		documentUseCase,
		reportUseCase,
		backupUseCase,
	)
	handler.SetupHealthHandler(firebaseAuthClient)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient, userRepo)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	wsHandler := handler.NewWebSocketHandler(wsManager, firebaseAuthClient, userRepo)

	router.Setup(e, authMiddleware, adminMiddleware, limiter)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
