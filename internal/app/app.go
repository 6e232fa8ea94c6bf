package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskPlanner/internal/config"
	"taskPlanner/internal/handlers"
	"taskPlanner/internal/inference"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/middleware"
	"taskPlanner/internal/normalizer"
	"taskPlanner/internal/repository/task/inmemory"
	"taskPlanner/internal/repository/task/postgres"
	"taskPlanner/internal/service"
	"taskPlanner/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository // интерфейс!
	worker     *worker.ReminderWorker
	shutdowns  []func() // функции для graceful shutdown
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

	loc, err := a.config.Normalizer.Location()
	if err != nil {
		return fmt.Errorf("зона нормализатора: %w", err)
	}
	norm := normalizer.New(loc)

	if err := a.initRepository(ctx); err != nil {
		return err
	}

	// без ключа провайдер не передаётся вовсе: Builder честно отвечает
	// "не сконфигурирован" вместо гарантированно падающего вызова
	var provider normalizer.Provider
	client := inference.NewClient(inference.Config{
		APIURL:  a.config.Inference.APIURL,
		APIKey:  a.config.Inference.APIKey,
		Model:   a.config.Inference.Model,
		Timeout: a.config.Inference.Timeout.Std(),
	})
	if client.Configured() {
		provider = client
	} else {
		logger.Warn("App: OPENAI_API_KEY не задан, разбор текста работает на эвристике")
	}
	builder := normalizer.NewBuilder(norm, provider)

	taskService := service.NewTaskService(a.repository, norm)
	aiService := service.NewAIService(a.repository, builder, norm)

	taskHandler := handlers.NewTaskHandler(&taskService)
	aiHandler := handlers.NewAIHandler(&aiService)

	a.router = newRouter(&taskHandler, &aiHandler)

	interval := a.config.Worker.Interval.Std()
	batch := a.config.Worker.BatchSize
	lead := a.config.Worker.ReminderLead.Std()
	a.worker = worker.NewReminderWorker(a.repository, &interval, &batch, &lead)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:    a.config.Database.MaxConnections,
			MinConns:    a.config.Database.MinConnections,
			IdleTimeout: a.config.Database.IdleTimeout.Std(),
		})
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		if err := storage.Migrate(); err != nil {
			storage.Close()
			return fmt.Errorf("применение миграций: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений...")
			storage.Close()
		})
	case "inmemory", "":
		a.repository = inmemory.NewTaskStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}
	return nil
}

func newRouter(taskHandler *handlers.TaskHandler, aiHandler *handlers.AIHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)  // GET /tasks
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
		})

		r.Get("/stats", taskHandler.GetStats) // GET /tasks/stats
	})

	r.Route("/admin/tasks", func(r chi.Router) {
		r.Delete("/{id}/purge", taskHandler.PurgeTask) // DELETE /admin/tasks/{id}/purge
	})

	r.Route("/ai", func(r chi.Router) {
		r.Post("/parse-task", aiHandler.ParseTask)                 // POST /ai/parse-task
		r.Post("/create-from-text", aiHandler.CreateTaskFromText)  // POST /ai/create-from-text
		r.Post("/suggest-subtasks", aiHandler.SuggestSubtasks)     // POST /ai/suggest-subtasks
		r.Post("/prioritize-tasks", aiHandler.PrioritizeTasks)     // POST /ai/prioritize-tasks
		r.Get("/summary", aiHandler.GenerateSummary)               // GET /ai/summary
		r.Get("/health", aiHandler.AIHealth)                       // GET /ai/health
	})

	r.Get("/health", taskHandler.HealthCheck)

	return r
}

// Run блокируется до остановки сервера или отмены контекста
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(ctx)
	go a.worker.Start(workerCtx)
	a.shutdowns = append(a.shutdowns, stopWorker)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка сервера: %w", err)
	case <-ctx.Done():
		return a.Shutdown()
	}
}

func (a *App) Shutdown() error {
	logger.Info("App: Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)

	// функции остановки выполняются в обратном порядке
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	if err != nil {
		return fmt.Errorf("остановка сервера: %w", err)
	}
	return nil
}
