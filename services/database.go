package services

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"robosim-backend/config"
	"robosim-backend/models"
)

// ErrDatabaseDisabled - 제출 기록 저장소 미설정
var ErrDatabaseDisabled = errors.New("database disabled")

// DB 인스턴스 (nil = 비활성)
var db *gorm.DB

// InitDatabase opens the configured submission store and migrates it. An empty
// driver leaves the store disabled and is not an error.
func InitDatabase(cfg config.DatabaseConfig) error {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "":
		slog.Warn("⚠️ DB 비활성화: 제출 기록은 로그로만 남습니다")
		db = nil
		return nil
	case "mysql":
		if cfg.Host == "" || cfg.User == "" || cfg.Name == "" {
			return fmt.Errorf("MySQL 설정이 모두 지정되지 않았습니다: MYSQL_HOST, MYSQL_USER, MYSQL_DATABASE")
		}
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return fmt.Errorf("DB 연결 실패: %w", err)
	}

	// AutoMigrate - 테이블 자동 생성
	if err := conn.AutoMigrate(&models.ChallengeResult{}); err != nil {
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}

	db = conn
	slog.Info("✅ DB 연결 및 마이그레이션 완료", "driver", cfg.Driver, "host", cfg.Host, "name", cfg.Name)
	return nil
}

// GetDB - GORM 인스턴스 반환 (비활성이면 nil)
func GetDB() *gorm.DB {
	return db
}

// CloseDatabase - 연결 종료
func CloseDatabase() {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	db = nil
}
