package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/api"
)

func main() {
	port := os.Getenv("MACGEN_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("MACGEN_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	router := api.NewRouter(logger)

	addr := ":" + port
	logger.Info("starting abatement cost API server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
