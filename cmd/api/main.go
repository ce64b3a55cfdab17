package main

import (
	"context"
	"log"

	"taskManager/internal/app"
	"taskManager/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("загрузка конфигурации: %v", err)
	}

	application := app.New(cfg)
	if err := application.Init(context.Background()); err != nil {
		log.Fatalf("инициализация приложения: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("остановка с ошибкой: %v", err)
	}
}
