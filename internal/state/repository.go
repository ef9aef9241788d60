// Package state keeps a local ledger of deployment runs. The ledger is
// best-effort bookkeeping: it never gates or fails a deploy.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides database operations for deploy runs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new run repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun records the start of a pipeline invocation.
func (r *Repository) CreateRun(ctx context.Context, run *DeployRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (r *Repository) GetRun(ctx context.Context, id uuid.UUID) (*DeployRun, error) {
	var run DeployRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]DeployRun, error) {
	var runs []DeployRun

	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// CompleteRun marks a run as succeeded and records the pushed commit.
func (r *Repository) CompleteRun(ctx context.Context, id uuid.UUID, gitSHA string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      StatusSucceeded,
		"git_sha":     gitSHA,
		"finished_at": &now,
	}
	if err := r.db.WithContext(ctx).Model(&DeployRun{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// FailRun marks a run as failed at the named step.
func (r *Repository) FailRun(ctx context.Context, id uuid.UUID, step string, cause error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      StatusFailed,
		"failed_step": step,
		"finished_at": &now,
	}
	if cause != nil {
		updates["message"] = cause.Error()
	}
	if err := r.db.WithContext(ctx).Model(&DeployRun{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	return nil
}
