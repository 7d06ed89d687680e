package migrator

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrMigrate возвращается при ошибках применения миграций
var ErrMigrate = errors.New("migrator: migration failed")

// Migrator применяет встроенные миграции к PostgreSQL
type Migrator struct {
	m *migrate.Migrate
}

// New создает мигратор поверх открытого соединения и файловой системы с *.sql
func New(db *sql.DB, migrations fs.FS) (*Migrator, error) {
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: db driver: %v", ErrMigrate, err)
	}

	srcDriver, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: source driver: %v", ErrMigrate, err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("%w: create migrator: %v", ErrMigrate, err)
	}
	return &Migrator{m: m}, nil
}

// Up применяет все новые миграции. Отсутствие изменений не ошибка.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: up: %v", ErrMigrate, err)
	}
	return nil
}

// Down откатывает одну миграцию
func (m *Migrator) Down() error {
	if err := m.m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: down: %v", ErrMigrate, err)
	}
	return nil
}

// Force выставляет версию без применения (после ручного исправления dirty состояния)
func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("%w: force %d: %v", ErrMigrate, version, err)
	}
	return nil
}

// Version возвращает текущую версию схемы
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close освобождает источник миграций. Соединение с БД закрывает вызывающий.
func (m *Migrator) Close() error {
	srcErr, _ := m.m.Close()
	return srcErr
}
