package service

import (
	"context"
	"errors"
	"time"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
	"github.com/spendwise-app/spendwise/pkg/idx"
)

const (
	// DefaultChartDays is the window used when the client gives none.
	DefaultChartDays = 180
	maxChartDays     = 3650
)

// StatsService aggregates an account's records into the dashboard summary
// and the chart window.
type StatsService struct {
	Store store.Store

	Now func() time.Time
}

func (s *StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Summary computes totals, balance, min/max and the latest entry of each
// collection. Totals fall back to zero for empty collections; min/max stay
// nil.
func (s *StatsService) Summary(ctx context.Context, owner idx.ID) (domain.Stats, error) {
	income, err := s.Store.Records().Aggregate(ctx, domain.KindIncome, owner)
	if err != nil {
		return domain.Stats{}, err
	}
	expense, err := s.Store.Records().Aggregate(ctx, domain.KindExpense, owner)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{
		Income:     income.Total,
		Expense:    expense.Total,
		Balance:    income.Total - expense.Total,
		MinIncome:  income.Min,
		MaxIncome:  income.Max,
		MinExpense: expense.Min,
		MaxExpense: expense.Max,
	}

	if latest, err := s.Store.Records().LatestByDate(ctx, domain.KindIncome, owner); err == nil {
		stats.LatestIncome = &latest
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Stats{}, err
	}
	if latest, err := s.Store.Records().LatestByDate(ctx, domain.KindExpense, owner); err == nil {
		stats.LatestExpense = &latest
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Stats{}, err
	}

	return stats, nil
}

// Chart returns both collections over the trailing window of days, ending
// today. Non-positive days fall back to the default window; oversized days
// clamp to the maximum rather than being rejected.
func (s *StatsService) Chart(ctx context.Context, owner idx.ID, days int) (domain.ChartData, error) {
	if days < 1 {
		days = DefaultChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}

	end := domain.DateOf(s.now())
	start := domain.DateOf(s.now().AddDate(0, 0, -days))

	expenses, err := s.Store.Records().ListByOwnerBetween(ctx, domain.KindExpense, owner, start, end)
	if err != nil {
		return domain.ChartData{}, err
	}
	incomes, err := s.Store.Records().ListByOwnerBetween(ctx, domain.KindIncome, owner, start, end)
	if err != nil {
		return domain.ChartData{}, err
	}

	return domain.ChartData{ExpenseList: expenses, IncomeList: incomes}, nil
}
