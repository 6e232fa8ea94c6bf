package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	repo "taskPlanner/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const slowQuery = 100 * time.Millisecond

type PoolConfig struct {
	MaxConns    int
	MinConns    int
	IdleTimeout time.Duration
}

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if poolCfg.MaxConns > 0 {
		config.MaxConns = int32(poolCfg.MaxConns)
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = int32(poolCfg.MinConns)
	}
	if poolCfg.IdleTimeout > 0 {
		config.MaxConnIdleTime = poolCfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connString: connString}, nil
}

// Migrate применяет встроенные миграции
func (s *Storage) Migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("чтение миграций: %w", err)
	}

	// драйвер migrate для pgx/v5 зарегистрирован под схемой pgx5
	url := strings.Replace(s.connString, "postgres://", "pgx5://", 1)
	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

const taskColumns = `uuid, title, description, deadline, priority, category, subtasks,
	status, flag, ai_generated, version, created_at, updated_at, reminded_at, deleted_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.UUID, &t.Title, &t.Description, &t.Deadline, &t.Priority, &t.Category,
		&t.Subtasks, &t.Status, &t.Flag, &t.AIGenerated, &t.Version,
		&t.CreatedAt, &t.UpdatedAt, &t.RemindedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
			(uuid, title, description, deadline, priority, category, subtasks, status, flag, ai_generated, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, NOW())
		RETURNING created_at, version`

	taskToCreate.Flag = task.FlagActive
	if taskToCreate.Status == "" {
		taskToCreate.Status = task.StatusPending
	}

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID, taskToCreate.Title, taskToCreate.Description,
		taskToCreate.Deadline, taskToCreate.Priority, taskToCreate.Category,
		taskToCreate.Subtasks, taskToCreate.Status, taskToCreate.Flag,
		taskToCreate.AIGenerated,
	).Scan(&taskToCreate.CreatedAt, &taskToCreate.Version)
	if err != nil {
		logger.Error("Repository: Создание задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("создание задачи: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				deadline = $3,
				priority = $4,
				category = $5,
				subtasks = $6,
				status = $7,
				reminded_at = $8,
				updated_at = NOW(),
				version = version + 1
			WHERE uuid = $9 AND version = $10 AND flag != 'deleted'
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title, taskToUpdate.Description, taskToUpdate.Deadline,
		taskToUpdate.Priority, taskToUpdate.Category, taskToUpdate.Subtasks,
		taskToUpdate.Status, taskToUpdate.RemindedAt,
		taskToUpdate.UUID, taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при обновлении",
				zap.String("task_id", taskToUpdate.UUID.String()),
				zap.Int("expected_version", taskToUpdate.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Обновление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE uuid = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// мягкое удаление задачи
func (s *Storage) DeleteSoft(ctx context.Context, taskToDelete *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET deleted_at = NOW(),
				updated_at = NOW(),
				flag = $1,
				version = version + 1
			WHERE uuid = $2 AND version = $3
			RETURNING deleted_at, version`

	err := s.pool.QueryRow(ctx, query, task.FlagDeleted, taskToDelete.UUID, taskToDelete.Version).
		Scan(&taskToDelete.DeletedAt, &taskToDelete.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при мягком удалении",
				zap.String("task_id", taskToDelete.UUID.String()),
				zap.Int("expected_version", taskToDelete.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Мягкое удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("мягкое удаление: %w", err)
	}
	taskToDelete.Flag = task.FlagDeleted
	return nil
}

// полное удаление из БД
func (s *Storage) DeleteFull(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks WHERE uuid = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		logger.Error("Repository: Полное удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("полное удаление: %w", err)
	}
	return nil
}

// GetFiltered возвращает страницу активных задач по фильтру:
// незавершённые раньше завершённых, ближайший дедлайн первым
func (s *Storage) GetFiltered(ctx context.Context, filter task.Filter, page, limit int) ([]*task.Task, error) {
	start := time.Now()

	var conditions []string
	var args []any

	conditions = append(conditions, "flag = 'active'")

	addArg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+addArg(filter.Status))
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = "+addArg(filter.Priority))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category ILIKE "+addArg(filter.Category))
	}
	if filter.Search != "" {
		placeholder := addArg("%" + filter.Search + "%")
		conditions = append(conditions, "(title ILIKE "+placeholder+" OR description ILIKE "+placeholder+")")
	}

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY (status = 'completed') ASC, deadline ASC NULLS LAST, created_at DESC
		LIMIT ` + addArg(limit) + ` OFFSET ` + addArg((page-1)*limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Выборка задач", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("выборка задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение строки: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}

// GetTasksDueBefore — активные незавершённые задачи с дедлайном раньше отсечки
func (s *Storage) GetTasksDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE flag = 'active'
			AND status != 'completed'
			AND deadline IS NOT NULL
			AND deadline < $1
		ORDER BY deadline ASC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("выборка задач по дедлайну: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение строки: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Stats считает агрегаты по активным задачам одним запросом
func (s *Storage) Stats(ctx context.Context) (*task.Stats, error) {
	query := `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status IN ('pending', 'in_progress')),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'overdue'
				OR (status != 'completed' AND deadline IS NOT NULL AND deadline < NOW())),
			COUNT(*) FILTER (WHERE priority = 'urgent'),
			COUNT(*) FILTER (WHERE priority = 'high')
		FROM tasks
		WHERE flag = 'active'`

	var stats task.Stats
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Completed, &stats.Pending, &stats.InProgress,
		&stats.Overdue, &stats.Urgent, &stats.High,
	)
	if err != nil {
		return nil, fmt.Errorf("сбор статистики: %w", err)
	}
	return &stats, nil
}
