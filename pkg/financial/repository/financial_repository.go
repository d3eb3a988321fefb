package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *entities.FinancialTransaction) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.FinancialTransaction, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.FinancialTransaction, store.Pagination, error)
	Find(ctx context.Context, uid string, q store.ListQuery) ([]entities.FinancialTransaction, error)
	Save(ctx context.Context, t *entities.FinancialTransaction) error
	Delete(ctx context.Context, id uint, uid string) error
}

type BudgetRepository interface {
	Create(ctx context.Context, b *entities.Budget) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.Budget, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.Budget, store.Pagination, error)
	Save(ctx context.Context, b *entities.Budget) error
	Delete(ctx context.Context, id uint, uid string) error
}
