// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, объектами недвижимости, проектами и
// записями членства в группах. Предоставляет методы создания, чтения,
// обновления и удаления записей, а также атомарный пересчёт производных
// финансовых полей проекта.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate возвращается при нарушении уникального ограничения:
// повторный email пользователя или вторая активная запись членства
// на одну пару (проект, участник).
var ErrDuplicate = errors.New("duplicate record")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'projets'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table projets missing or query error: %w", err)
	}
	return nil
}

// uniqueViolation  — код PostgreSQL 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
