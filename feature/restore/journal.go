package restore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Run is one recorded restore or retry pass.
type Run struct {
	ID             uint      `gorm:"primaryKey;column:id"`
	RunID          string    `gorm:"column:run_id;type:varchar(36);uniqueIndex;not null"`
	Account        string    `gorm:"column:account;type:varchar(64);index"`
	Source         string    `gorm:"column:source;type:varchar(512)"`
	Entries        int       `gorm:"column:entries"`
	AlreadyPresent int       `gorm:"column:already_present"`
	Restored       int       `gorm:"column:restored"`
	Failed         int       `gorm:"column:failed"`
	Missing        int       `gorm:"column:missing"`
	LeftOut        int       `gorm:"column:left_out"`
	RateLimitHits  int       `gorm:"column:rate_limit_hits"`
	ElapsedMS      int64     `gorm:"column:elapsed_ms"`
	ResidualPath   string    `gorm:"column:residual_path;type:varchar(512)"`
	LeftOutPath    string    `gorm:"column:left_out_path;type:varchar(512)"`
	Interrupted    bool      `gorm:"column:interrupted"`
	StartedAt      time.Time `gorm:"column:started_at;index"`
}

func (Run) TableName() string {
	return "restore_runs"
}

// Elapsed returns the wall time of the run.
func (r Run) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMS) * time.Millisecond
}

// Journal records restore passes.
type Journal struct {
	db *gorm.DB
}

// NewJournal creates a journal over db.
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Migrate creates or updates the runs table.
func (j *Journal) Migrate() error {
	return j.db.AutoMigrate(&Run{})
}

// Record stores a finished run.
func (j *Journal) Record(ctx context.Context, run *Run) error {
	if err := j.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. account filters when not empty.
func (j *Journal) Recent(ctx context.Context, account string, limit int) ([]Run, error) {
	q := j.db.WithContext(ctx).Order("started_at DESC").Order("id DESC")
	if account != "" {
		q = q.Where("account = ?", account)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
