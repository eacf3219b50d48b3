package unitofwork

import (
	"context"
	"fmt"

	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) KnowledgeChunkRepository() contract.KnowledgeChunkRepository {
	return implementation.NewKnowledgeChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChunkMetadataRepository() contract.ChunkMetadataRepository {
	return implementation.NewChunkMetadataRepository(u.getDB())
}

func (u *UnitOfWorkImpl) KnowledgeGenerationRepository() contract.KnowledgeGenerationRepository {
	return implementation.NewKnowledgeGenerationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) BookingRepository() contract.BookingRepository {
	return implementation.NewBookingRepository(u.getDB())
}
