package postgres

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/lib/pq"

	"github.com/VitaminP8/petforum/internal/config"
	"github.com/VitaminP8/petforum/internal/storage"
	"github.com/VitaminP8/petforum/models"
)

var DB *gorm.DB

// GetDB возвращает глобальную переменную DB (для тестирования)
func GetDB() *gorm.DB {
	return DB
}

// InitDB подключается к базе данных PostgreSQL и устанавливает глобальную переменную DB
func InitDB() error {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetEnv("DB_HOST"),
		config.GetEnv("DB_USER"),
		config.GetEnv("DB_PASSWORD"),
		config.GetEnv("DB_NAME"),
		config.GetEnvDefault("DB_PORT", "5432"),
		config.GetEnvDefault("DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %v", err)
	}

	DB = db
	log.Println("Successfully connected to the database.")
	return nil
}

// Migrate создает таблицы; внешние ключи добавляются только для PostgreSQL
// (SQLite не умеет ALTER TABLE ... ADD CONSTRAINT)
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if db.Dialect().GetName() != "postgres" {
		return nil
	}

	fks := []struct {
		model      interface{}
		field, ref string
	}{
		{&models.Post{}, "author_id", "users(id)"},
		{&models.Comment{}, "author_id", "users(id)"},
		{&models.Comment{}, "post_id", "posts(id)"},
	}
	for _, fk := range fks {
		scope := db.NewScope(fk.model)
		name := scope.Dialect().BuildKeyName(scope.TableName(), fk.field, fk.ref, "foreign")
		if scope.Dialect().HasForeignKey(scope.TableName(), name) {
			continue
		}
		if err := db.Model(fk.model).AddForeignKey(fk.field, fk.ref, "RESTRICT", "RESTRICT").Error; err != nil {
			return fmt.Errorf("failed to add foreign key %s: %w", name, err)
		}
	}
	return nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %v", err)
	}

	log.Println("Database connection closed.")
	return nil
}

// InitDBWithConnection для тестирования (позволяет инъекцию соединения БД)
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}

// parseID - ключи в БД числовые; любой другой ID считается несуществующим
func parseID(id string) (uint, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// dbError переводит ошибку gorm в классы ошибок хранилища
func dbError(op string, err error) error {
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return storage.Unavailable(op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// SQLite (тесты)
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
