package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskPlanner/internal/app"
	"taskPlanner/internal/config"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "инициализация: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "завершение с ошибкой: %v\n", err)
		os.Exit(1)
	}
}
