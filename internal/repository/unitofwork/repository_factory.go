package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

// RepositoryFactory hands out units of work over one connection pool
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type gormRepositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormRepositoryFactory{db: db}
}

// NewUnitOfWork is cheap; one per request or per job.
// The context is bound when Begin is called.
func (f *gormRepositoryFactory) NewUnitOfWork(_ context.Context) UnitOfWork {
	return NewUnitOfWork(f.db)
}
