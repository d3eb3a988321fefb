package repositoryImp

import (
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/financial/repository"
	"farmhub/pkg/store"
)

type txRepo struct {
	*store.Scoped[entities.FinancialTransaction]
}

func NewTransactions(db *gorm.DB) repository.TransactionRepository {
	return &txRepo{store.NewScoped[entities.FinancialTransaction](db)}
}

type budgetRepo struct {
	*store.Scoped[entities.Budget]
}

func NewBudgets(db *gorm.DB) repository.BudgetRepository {
	return &budgetRepo{store.NewScoped[entities.Budget](db)}
}
