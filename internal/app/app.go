package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"todoConsole/internal/cli"
	"todoConsole/internal/config"
	"todoConsole/internal/format"
	"todoConsole/internal/handlers"
	"todoConsole/internal/logger"
	"todoConsole/internal/middleware"
	"todoConsole/internal/repository/task/inmemory"
	"todoConsole/internal/service"
	"todoConsole/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository // интерфейс!
	service    *service.TaskService
	worker     *worker.OverdueWorker
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init поднимает логгер и хранилище. defaultOutput используется,
// если в конфиге не задан logging.output.
func (a *App) Init(defaultOutput string, opts ...service.ServiceOption) (*App, error) {
	output := a.config.Logging.Output
	if output == "" {
		output = defaultOutput
	}

	if err := logger.Init(a.config.Logging.Development, output); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	a.repository = inmemory.NewTaskStorage()
	a.service = service.NewTaskService(a.repository, opts...)

	logger.Info("App: Приложение инициализировано", zap.String("log_output", output))
	return a, nil
}

// Service нужен тестам и командам, которые работают со слоем сервиса напрямую.
func (a *App) Service() *service.TaskService {
	return a.service
}

// RunMenu запускает интерактивное меню. Цвет включается по menu.color
// и по тому, является ли out терминалом.
func (a *App) RunMenu(ctx context.Context, in io.Reader, out io.Writer) error {
	if a.service == nil {
		return errors.New("приложение не инициализировано")
	}

	file, _ := out.(*os.File)
	color := format.ColorEnabled(a.config.Menu.Color, file)

	menu := cli.NewMenu(a.service, format.New(color), in, out)
	if err := menu.Run(ctx); err != nil {
		return fmt.Errorf("работа меню: %w", err)
	}
	return nil
}

// Handler собирает роутер со всеми middleware.
func (a *App) Handler() http.Handler {
	if a.router != nil {
		return a.router
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.CORS(a.config.Server.CorsOrigins))
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))

	taskHandler := handlers.NewTaskHandler(a.service)
	taskHandler.Routes(r)

	a.router = r
	return r
}

// RunServer обслуживает HTTP API, пока не отменён ctx.
func (a *App) RunServer(ctx context.Context) error {
	if a.service == nil {
		return errors.New("приложение не инициализировано")
	}

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	if interval := a.config.Worker.OverdueInterval; interval > 0 {
		a.worker = worker.NewOverdueWorker(a.service, &interval)
		go a.worker.Start(workerCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("запуск сервера на %s: %w", a.server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Server: Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("остановка сервера: %w", err)
	}
	logger.Info("Server: Сервер остановлен")
	return nil
}

// Shutdown выполняет функции завершения в обратном порядке.
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = a.shutdowns[:0]
}
