package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cashEntry struct {
	Type    CashType
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Concept string
	RefID   *uuid.UUID
}

// post appends one row to the cash ledger. The new balance is the balance of
// the most recent row plus inflow minus outflow. Rows are never edited.
func (s *Service) post(ctx context.Context, tx LedgerTx, e cashEntry) (*CashTransaction, error) {
	last, err := tx.LastCashTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading cash balance: %w", err)
	}

	balance := decimal.Zero
	if last != nil {
		balance = last.Balance
	}

	row := &CashTransaction{
		ID:        uuid.New(),
		Type:      e.Type,
		Concept:   e.Concept,
		RefID:     e.RefID,
		Inflow:    e.Inflow,
		Outflow:   e.Outflow,
		Balance:   balance.Add(e.Inflow).Sub(e.Outflow),
		CreatedAt: s.now(),
	}

	if err := tx.AppendCash(ctx, row); err != nil {
		return nil, err
	}

	return row, nil
}

type RecordExpenseParams struct {
	Category     string
	Description  string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
}

// RecordExpense posts an operating expense as a cash outflow in base currency.
func (s *Service) RecordExpense(ctx context.Context, params RecordExpenseParams) (*CashTransaction, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidPrice
	}

	if strings.TrimSpace(params.Description) == "" {
		return nil, fmt.Errorf("%w: expense description is required", ErrInvalidInput)
	}

	_, rate, err := s.rate(params.Currency, params.ExchangeRate)
	if err != nil {
		return nil, err
	}

	concept := strings.TrimSpace(params.Description)
	if c := strings.TrimSpace(params.Category); c != "" {
		concept = c + ": " + concept
	}

	var row *CashTransaction

	err = s.inLedger(ctx, func(tx LedgerTx) error {
		var err error

		row, err = s.post(ctx, tx, cashEntry{
			Type:    CashExpense,
			Outflow: money(params.Amount.Mul(rate)),
			Concept: concept,
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

type RecordAdjustmentParams struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Concept string
}

// RecordAdjustment posts a manual correction to the cash ledger.
func (s *Service) RecordAdjustment(ctx context.Context, params RecordAdjustmentParams) (*CashTransaction, error) {
	if params.Inflow.IsNegative() || params.Outflow.IsNegative() {
		return nil, ErrInvalidPrice
	}

	if params.Inflow.IsZero() && params.Outflow.IsZero() {
		return nil, ErrInvalidPrice
	}

	if strings.TrimSpace(params.Concept) == "" {
		return nil, fmt.Errorf("%w: adjustment concept is required", ErrInvalidInput)
	}

	var row *CashTransaction

	err := s.inLedger(ctx, func(tx LedgerTx) error {
		var err error

		row, err = s.post(ctx, tx, cashEntry{
			Type:    CashAdjustment,
			Inflow:  money(params.Inflow),
			Outflow: money(params.Outflow),
			Concept: strings.TrimSpace(params.Concept),
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

// CurrentBalance is the balance of the most recent cash row, zero when the
// ledger is empty.
func (s *Service) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	last, err := s.repo.LastCashTransaction(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if last == nil {
		return decimal.Zero, nil
	}

	return last.Balance, nil
}

func (s *Service) ListCashTransactions(ctx context.Context, filter CashFilter) ([]*CashTransaction, error) {
	return s.repo.ListCashTransactions(ctx, filter)
}
