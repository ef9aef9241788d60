package state

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run statuses.
const (
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

// DeployRun records one invocation of the deploy pipeline.
type DeployRun struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	AppName    string    `gorm:"not null;index"`
	Status     string    `gorm:"not null"`
	GitSHA     string
	Buildpack  string
	FailedStep string
	Message    string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// AutoMigrate runs database migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&DeployRun{})
}
