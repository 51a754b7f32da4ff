package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"homepick/internal/handler"
	"homepick/internal/middlewares"
	"homepick/internal/repository"
	"homepick/internal/service"
	"homepick/pkg/cleaner"
	"homepick/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

func initShareLinkCleaner(pool *pgxpool.Pool) {
	c := cron.New()

	// Expired share links are also evicted lazily on lookup; the nightly
	// sweep catches the ones nobody opens again.
	_, err := c.AddFunc("0 3 * * *", func() {
		cleaner.Clean(pool)
	})

	if err != nil {
		log.Fatalf("Failed to schedule cleanup job: %v", err)
	}

	go c.Start()
}

func main() {
	config, err := config.NewConfig(".env")
	if err != nil {
		log.Fatalf("%s", err.Error())
	}
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", config.DbUser, config.DbPassword, config.DbHost, config.DbPort, config.DbName)
	dbconfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatalf("%s", err.Error())
	}
	dbconfig.MaxConns = 100
	dbconfig.MinConns = 10
	dbconfig.MaxConnLifetime = 1 * time.Hour
	dbconfig.MaxConnIdleTime = 15 * time.Minute
	pool, err := pgxpool.NewWithConfig(context.Background(), dbconfig)
	if err != nil {
		log.Fatalf("%s", err.Error())
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("%s", err.Error())
	}

	propertyRepository := repository.NewPropertyRepository(pool, config.WebHost, config.WebPort)
	comparisonRepository := repository.NewComparisonRepository(pool, config.WebHost, config.WebPort)
	shareLinkRepository := repository.NewShareLinkRepository(pool, config.WebHost, config.WebPort)

	err = propertyRepository.CreateTables(context.Background())
	if err != nil {
		log.Fatal(err.Error())
	}
	err = comparisonRepository.CreateTables(context.Background())
	if err != nil {
		log.Fatal(err.Error())
	}
	err = shareLinkRepository.CreateTables(context.Background())
	if err != nil {
		log.Fatal(err.Error())
	}
	initShareLinkCleaner(pool)

	middlewares := middlewares.NewMiddlewares(config.SecretKey, config.WebHost, config.WebPort)
	notifierService := service.NewNotifierService(config.WebHost, config.WebPort)
	go notifierService.KeepAlive()
	comparisonService := service.NewComparisonService(comparisonRepository, propertyRepository, notifierService, config.WebHost, config.WebPort)
	shareService := service.NewShareService(shareLinkRepository, propertyRepository, config.MainUrl, config.WebHost, config.WebPort)
	comparisonHandler := handler.NewComparisonHandler(comparisonService, notifierService, middlewares, config.WebHost, config.WebPort)
	shareHandler := handler.NewShareHandler(shareService, middlewares, config.WebHost, config.WebPort)

	router := gin.Default()
	api := router.Group("/api")
	v1 := api.Group("/v1")

	comparisonHandler.RegisterRoutes(v1)
	shareHandler.RegisterRoutes(v1)

	router.Run(config.WebHost + ":" + config.WebPort)
}
