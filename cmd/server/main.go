package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"invosync/internal/config"
	"invosync/internal/docstore/postgres"
	"invosync/internal/email/noop"
	"invosync/internal/email/ses"
	"invosync/internal/extract/gemini"
	"invosync/internal/handler"
	"invosync/internal/port"
	"invosync/internal/router"
	"invosync/internal/service"
	"invosync/internal/sheet"
	"invosync/internal/sheet/excel"
	s3storage "invosync/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; env vars win in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	store := postgres.NewDocumentStore(db)

	workbook, err := excel.Open(&cfg.Sheet)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	mirror := sheet.NewMirror(workbook, &cfg.Sheet)

	extractor := gemini.NewClient(&cfg.Extractor)

	var archive port.ObjectStorage
	if cfg.Archive.Bucket != "" {
		archive, err = s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var emailer port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailer, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailer = noop.NewNoopSender()
	}

	// Initialize services
	userSvc := service.NewUserService(store)
	writer := service.NewDualSinkWriter(store, mirror)
	invoiceSvc := service.NewInvoiceService(extractor, store, userSvc, writer, archive, emailer, &cfg.Archive, &cfg.Upload)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	profileH := handler.NewProfileHandler(userSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(invoiceH, profileH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
