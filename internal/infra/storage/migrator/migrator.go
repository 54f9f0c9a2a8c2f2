package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

var (
	// ErrSetup возвращается при ошибке настройки goose
	ErrSetup = errors.New("migrator: setup failed")

	// ErrApply возвращается при ошибке применения миграций
	ErrApply = errors.New("migrator: failed to apply migrations")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Migrator обёртка над goose с миграциями из embed.FS
type Migrator struct {
	db   *sql.DB
	fsys fs.FS
	log  Logger
}

// NewMigrator создаёт новый мигратор
func NewMigrator(db *sql.DB, fsys fs.FS, log Logger) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("%w: set dialect: %v", ErrSetup, err)
	}
	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{log: log})

	return &Migrator{
		db:   db,
		fsys: fsys,
		log:  log,
	}, nil
}

// Up применяет все pending миграции
func (m *Migrator) Up(ctx context.Context) error {
	m.log.Info("Applying database migrations...")

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("%w: %v", ErrApply, err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}

	m.log.Info("Migrations applied successfully, version=%d", version)
	return nil
}

// Version возвращает текущую версию схемы
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("%w: get version: %v", ErrApply, err)
	}
	return version, nil
}

// gooseLogger перенаправляет вывод goose в логгер сервиса
type gooseLogger struct {
	log Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(format, v...)
}
