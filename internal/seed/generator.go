// Package seed fabricates demo transactions spread across a user's financial months.
package seed

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/shopspring/decimal"
)

var paymentMethods = []string{
	string(domain.PaymentMethodCash),
	string(domain.PaymentMethodUPI),
	string(domain.PaymentMethodCard),
	string(domain.PaymentMethodWallet),
	string(domain.PaymentMethodOther),
}

// Generator produces reproducible demo data for a fixed faker seed
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// Transactions returns perMonth transactions for each of the last months financial
// months of user, oldest first. Current-month rows never land in the future.
func (g *Generator) Transactions(user *domain.User, categories []*domain.Category, months, perMonth int) []*domain.Transaction {
	if len(categories) == 0 || months < 1 || perMonth < 1 {
		return nil
	}

	now := g.now().In(user.Location())
	result := make([]*domain.Transaction, 0, months*perMonth)
	for offset := -(months - 1); offset <= 0; offset++ {
		start, end := util.MonthWindow(now, user.MonthStartDay, offset)
		if end.After(now) {
			end = now
		}
		for i := 0; i < perMonth; i++ {
			result = append(result, g.transaction(user, categories, start, end))
		}
	}
	return result
}

func (g *Generator) transaction(user *domain.User, categories []*domain.Category, start, end time.Time) *domain.Transaction {
	tx := &domain.Transaction{
		UserID:        user.ID,
		Type:          domain.TransactionTypeExpense,
		CategoryID:    categories[g.faker.Number(0, len(categories)-1)].ID,
		PaymentMethod: domain.PaymentMethod(g.faker.RandomString(paymentMethods)),
		TransactionAt: g.faker.DateRange(start, end).Truncate(time.Minute),
	}
	if tx.TransactionAt.Before(start) {
		tx.TransactionAt = start
	}

	// Roughly one in six rows is income
	if g.faker.Number(1, 6) == 1 {
		tx.Type = domain.TransactionTypeIncome
		tx.Amount = decimal.NewFromFloat(g.faker.Price(500, 4000)).Round(2)
	} else {
		tx.Amount = decimal.NewFromFloat(g.faker.Price(2, 250)).Round(2)
	}
	if tx.Amount.LessThanOrEqual(decimal.Zero) {
		tx.Amount = decimal.NewFromInt(1)
	}

	if g.faker.Bool() {
		note := g.faker.Sentence(4)
		tx.Note = &note
	}
	return tx
}
