package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/database"
	"github.com/techcare-rwanda/account-service/internal/handler"
	"github.com/techcare-rwanda/account-service/internal/notifier"
	"github.com/techcare-rwanda/account-service/internal/repository"
	"github.com/techcare-rwanda/account-service/internal/router"
	"github.com/techcare-rwanda/account-service/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	blobs, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	mail := notifier.NewAMQPPublisher()
	// Drains the notification queue in the background; reconnects on its own.
	go func() {
		if err := notifier.StartEmailConsumer(); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	admins := repository.NewAdminRepo(db)
	customers := repository.NewCustomerRepo(db)
	technicians := repository.NewTechnicianRepo(db)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, cfg, router.Handlers{
		Admin:      handler.NewAdminHandler(cfg, admins, mail),
		Approval:   handler.NewApprovalHandler(cfg, technicians, mail),
		Customer:   handler.NewCustomerHandler(cfg, customers, blobs, mail),
		Technician: handler.NewTechnicianHandler(cfg, technicians, blobs, mail),
		Reset:      handler.NewPasswordResetHandler(cfg, customers, mail),
	}, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
