package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/feiaaa1/mindstream/internal/adapter/repository"
	domainRepo "github.com/feiaaa1/mindstream/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Settings domainRepo.SettingsRepository
	Task     domainRepo.TaskRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Settings: repository.NewSettingsRepository(db, logger),
		Task:     repository.NewTaskRepository(db, logger),
	}
}
