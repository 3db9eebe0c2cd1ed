// Package store persists candidate pools and selected squads in postgres.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fpltools/squad-optimizer/internal/fpl"
)

// PlayerRecord is one candidate-pool row as stored.
type PlayerRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName       string    `gorm:"not null" json:"first_name"`
	SecondName      string    `gorm:"not null" json:"second_name"`
	PositionCode    int       `gorm:"not null" json:"element_type"`
	Cost            int       `gorm:"not null" json:"now_cost"`
	Club            string    `gorm:"not null;index" json:"team"`
	PredictedPoints float64   `json:"predicted_points"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SquadRecord is one saved selection run.
type SquadRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Strategy        string    `gorm:"not null;index" json:"strategy"`
	SquadCost       int       `gorm:"not null" json:"squad_cost"`
	TeamCost        int       `gorm:"not null" json:"team_cost"`
	PredictedPoints float64   `json:"predicted_points"`
	Captain         string    `json:"captain"`
	ViceCaptain     string    `json:"vice_captain"`
	PlayerNames     string    `gorm:"type:text" json:"player_names"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store wraps the gorm connection with the repository operations the service
// needs.
type Store struct {
	db *gorm.DB
}

type ConnectionConfig struct {
	DatabaseURL     string
	IsDevelopment   bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// NewConnection opens the postgres connection with the service defaults and
// migrates the schema.
func NewConnection(databaseURL string, isDevelopment bool) (*Store, error) {
	return NewConnectionWithConfig(ConnectionConfig{
		DatabaseURL:     databaseURL,
		IsDevelopment:   isDevelopment,
		MaxIdleConns:    5,
		MaxOpenConns:    20,
		ConnMaxLifetime: time.Hour,
	})
}

func NewConnectionWithConfig(config ConnectionConfig) (*Store, error) {
	logLevel := gormlogger.Error
	if config.IsDevelopment {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&PlayerRecord{}, &SquadRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"max_idle_conns": config.MaxIdleConns,
		"max_open_conns": config.MaxOpenConns,
	}).Info("Database connection established")

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// ReplacePool overwrites the stored candidate pool.
func (s *Store) ReplacePool(ctx context.Context, rows []fpl.PoolRow) error {
	records := make([]PlayerRecord, len(rows))
	for i, row := range rows {
		records[i] = PlayerRecord{
			FirstName:       row.FirstName,
			SecondName:      row.SecondName,
			PositionCode:    row.PositionCode,
			Cost:            row.Cost,
			Club:            row.Club,
			PredictedPoints: row.PredictedPoints,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&PlayerRecord{}).Error; err != nil {
			return fmt.Errorf("clear candidate pool: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert candidate pool: %w", err)
		}
		return nil
	})
}

// LoadPool returns the stored candidate pool.
func (s *Store) LoadPool(ctx context.Context) ([]fpl.PoolRow, error) {
	var records []PlayerRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	rows := make([]fpl.PoolRow, len(records))
	for i, r := range records {
		rows[i] = fpl.PoolRow{
			FirstName:       r.FirstName,
			SecondName:      r.SecondName,
			PositionCode:    r.PositionCode,
			Cost:            r.Cost,
			Club:            r.Club,
			PredictedPoints: r.PredictedPoints,
		}
	}
	return rows, nil
}

// SaveSquad records a completed selection run.
func (s *Store) SaveSquad(ctx context.Context, record *SquadRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("save squad: %w", err)
	}
	return nil
}

// RecentSquads returns the latest saved selections, newest first.
func (s *Store) RecentSquads(ctx context.Context, limit int) ([]SquadRecord, error) {
	var records []SquadRecord
	if err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load recent squads: %w", err)
	}
	return records, nil
}
