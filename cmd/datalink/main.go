package main

import (
	"context"
	"errors"
	"os"

	"github.com/fsdevblog/datalink/internal/logger"
	"github.com/joho/godotenv"

	"github.com/fsdevblog/datalink/internal/app"
	"github.com/fsdevblog/datalink/internal/config"
)

func main() {
	// .env опционален, в проде конфигурация приходит из окружения.
	_ = godotenv.Load()

	conf := config.MustLoadConfig()
	l := logger.New(os.Stdout)

	if err := app.New(conf, l).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		panic(err)
	}
}
