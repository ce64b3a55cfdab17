package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/repository/task/postgres"
	"taskManager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repo, err := a.buildRepository(ctx)
	if err != nil {
		return err
	}

	taskService := service.NewTaskService(repo)
	taskHandler := handlers.NewTaskHandler(&taskService)

	a.server = &http.Server{
		Addr:    a.config.ServerAddr(),
		Handler: a.buildRouter(&taskHandler),
	}

	return nil
}

func (a *App) buildRepository(ctx context.Context) (service.TaskRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		if err := storage.Migrate(); err != nil {
			storage.Close()
			return nil, fmt.Errorf("миграции: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		return storage, nil
	default:
		logger.Info("App: Используется хранилище в памяти")
		return inmemory.NewTaskStorage(), nil
	}
}

func (a *App) buildRouter(taskHandler *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)  // GET /todos
		r.Post("/", taskHandler.PostTask) // POST /todos

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)      // GET /todos/{id}
			r.Patch("/", taskHandler.PatchTask)      // PATCH /todos/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /todos/{id}

			r.Post("/toggle", taskHandler.ToggleTask) // POST /todos/{id}/toggle
		})
	})

	r.Get("/categories", taskHandler.GetCategories)
	r.Get("/stats", taskHandler.GetStats)
	r.Get("/health", taskHandler.HealthCheck)

	return r
}

// Run блокируется до SIGINT/SIGTERM, после чего гасит сервер
// и выполняет накопленные shutdown-функции в обратном порядке
func (a *App) Run() error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("App: Сервер запущен")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.shutdown()
		return fmt.Errorf("работа сервера: %w", err)
	case <-stop:
		logger.Info("App: Получен сигнал завершения")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}

	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
