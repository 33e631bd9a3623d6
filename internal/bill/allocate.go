package bill

import (
	"fmt"

	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

// ShareInput is one participant as supplied by the caller. Amount is only
// read under StrategyCustom.
type ShareInput struct {
	Name   string
	Amount *money.Amount
}

// Allocate divides total between shares according to strategy. The returned
// amounts are in input order and always sum to total.
func Allocate(total money.Amount, strategy Strategy, shares []ShareInput) ([]money.Amount, error) {
	switch strategy {
	case StrategyEqually:
		return allocateEqually(total, len(shares))
	case StrategyCustom:
		return allocateCustom(total, shares)
	}

	return nil, fmt.Errorf("%w: unknown split strategy %q", ErrInvalidSplit, strategy)
}

// allocateEqually gives everyone the truncated per-head amount and hands the
// residual cents to the last participant.
func allocateEqually(total money.Amount, n int) ([]money.Amount, error) {
	if n == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	}

	perHead := total / money.Amount(n)
	residual := total - perHead*money.Amount(n)

	amounts := make([]money.Amount, n)
	for i := range amounts {
		amounts[i] = perHead
	}

	amounts[n-1] += residual

	return amounts, nil
}

// Reallocate recomputes participant amounts after the total or the strategy
// changed. Equal bills are split again in stored order; custom bills keep their
// amounts, which must still add up to the total.
func (b *Bill) Reallocate() error {
	shares := make([]ShareInput, len(b.Participants))
	for i := range b.Participants {
		shares[i] = ShareInput{Name: b.Participants[i].Name, Amount: &b.Participants[i].Amount}
	}

	amounts, err := Allocate(b.TotalAmount, b.Strategy, shares)
	if err != nil {
		return err
	}

	for i := range b.Participants {
		b.Participants[i].Amount = amounts[i]
	}

	return nil
}

func allocateCustom(total money.Amount, shares []ShareInput) ([]money.Amount, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	}

	amounts := make([]money.Amount, len(shares))

	for i, s := range shares {
		if s.Amount == nil {
			return nil, fmt.Errorf("%w: amount is required for participant %q when using %s strategy", ErrInvalidSplit, s.Name, StrategyCustom)
		}

		if s.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount cannot be negative for participant %q (got %s)", ErrInvalidSplit, s.Name, *s.Amount)
		}

		amounts[i] = *s.Amount
	}

	sum, err := money.Sum(amounts...)
	if err != nil {
		return nil, fmt.Errorf("%w: custom amounts add up to more than the largest supported amount: %w", ErrInvalidSplit, err)
	}

	if sum != total {
		return nil, &SumMismatchError{Expected: total, Actual: sum}
	}

	return amounts, nil
}
