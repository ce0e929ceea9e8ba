package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"fieldwork.com/console/infrastructure/devops"
	"fieldwork.com/console/mockapi"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "console.yaml", "path to the yaml configuration")
	flag.Parse()

	ctx := context.Background()
	cfg, err := devops.Load(ctx, *configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.Database.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	fmt.Printf("using DSN: %s\n", cfg.Database.DSN)
	dm, err := mockapi.New(cfg.Database.DSN, cfg.Database.MaxConnections, mockapi.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(); err != nil {
		log.Fatal("Failed to migrate:", err)
	}
	if err := dm.SeedAdmin(ctx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatal("Failed to seed:", err)
	}

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	mockapi.NewServer(dm, cfg.Database.JWTSecret, 24*time.Hour).Register(r)

	if err := r.Run(cfg.Database.Addr); err != nil {
		log.Fatal(err)
	}
}
