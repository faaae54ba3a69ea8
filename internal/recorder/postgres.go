package recorder

import (
	"database/sql"
	"fmt"
	"time"

	"DepthScan/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type runModel struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"uniqueIndex;size:64"`
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
	InputDir   string
	Failed     int
}

func (runModel) TableName() string { return "scan_runs" }

type analysisModel struct {
	ID      uint   `gorm:"primaryKey"`
	RunID   string `gorm:"index;size:64"`
	Name    string
	Status  string
	Reports int
	Rows    int `gorm:"column:row_count"`
	Error   string
}

func (analysisModel) TableName() string { return "analysis_results" }

type scoreModel struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"index;size:64"`
	Symbol    string `gorm:"index;size:16"`
	Total     int
	Tier      string
	Whale     string
	Trend     string
	WhaleCost float64
	Close     float64 `gorm:"column:close_price"`
}

func (scoreModel) TableName() string { return "big_scan_scores" }

// PostgresRecorder persists run history to PostgreSQL through gorm.
type PostgresRecorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPostgresRecorder connects, optionally creates the database, and
// migrates the history tables.
func NewPostgresRecorder(cfg config.PostgresConfig, log *zap.Logger) (*PostgresRecorder, error) {
	if cfg.CreateDatabase {
		if err := CreateDatabase(cfg); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN(cfg.DBName)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&runModel{}, &analysisModel{}, &scoreModel{}); err != nil {
		return nil, fmt.Errorf("auto-migrate history tables: %w", err)
	}

	log.Info("postgres recorder opened", zap.String("host", cfg.Host), zap.String("dbname", cfg.DBName))
	return &PostgresRecorder{db: db, log: log}, nil
}

// CreateDatabase connects to the server's maintenance database and creates
// cfg.DBName if it does not exist.
func CreateDatabase(cfg config.PostgresConfig) error {
	db, err := sql.Open("postgres", cfg.DSN("postgres"))
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer db.Close()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1);`
	if err := db.QueryRow(query, cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("check db exists failed: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE %q", cfg.DBName)); err != nil {
		return fmt.Errorf("create db failed: %w", err)
	}
	return nil
}

func (p *PostgresRecorder) RecordRun(run *RunRecord) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&runModel{
			RunID:      run.RunID,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
			InputDir:   run.InputDir,
			Failed:     run.Failed,
		}).Error; err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if len(run.Analyses) == 0 {
			return nil
		}
		rows := make([]analysisModel, 0, len(run.Analyses))
		for _, a := range run.Analyses {
			rows = append(rows, analysisModel{
				RunID: run.RunID, Name: a.Name, Status: a.Status,
				Reports: a.Reports, Rows: a.Rows, Error: a.Error,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (p *PostgresRecorder) RecordScores(scores []ScoreRecord) error {
	if len(scores) == 0 {
		return nil
	}
	rows := make([]scoreModel, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, scoreModel{
			RunID: s.RunID, Symbol: s.Symbol, Total: s.Total, Tier: s.Tier,
			Whale: s.Whale, Trend: s.Trend, WhaleCost: s.WhaleCost, Close: s.Close,
		})
	}
	return p.db.CreateInBatches(&rows, 200).Error
}

// RecentRuns returns the latest runs, newest first.
func (p *PostgresRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	var runs []runModel
	if err := p.db.Order("started_at DESC, id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	out := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		var n int64
		if err := p.db.Model(&analysisModel{}).Where("run_id = ?", r.RunID).Count(&n).Error; err != nil {
			return nil, err
		}
		out = append(out, RunSummary{RunID: r.RunID, StartedAt: r.StartedAt, Failed: r.Failed, Analyses: int(n)})
	}
	return out, nil
}

func (p *PostgresRecorder) Close() error {
	p.log.Info("closing postgres recorder")
	db, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return db.Close()
}
