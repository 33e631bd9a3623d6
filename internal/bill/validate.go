package bill

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen = 255
	maxNameLen  = 100
)

// Validate checks a creation request before anything is allocated or stored.
func (p CreateParams) Validate() error {
	if err := validateTitle(p.Title); err != nil {
		return err
	}

	if !p.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: total bill amount must be greater than zero (got %s)", ErrInvalidAmount, p.TotalAmount)
	}

	if p.Strategy == "" {
		return fmt.Errorf("%w: split strategy is required", ErrInvalidSplit)
	}

	if !p.Strategy.Valid() {
		return fmt.Errorf("%w: unknown split strategy %q", ErrInvalidSplit, p.Strategy)
	}

	if p.Date.IsZero() {
		return fmt.Errorf("%w: bill date is required", ErrValidation)
	}

	if len(p.Participants) == 0 {
		return fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	}

	for i, s := range p.Participants {
		if err := validateName(s.Name); err != nil {
			return fmt.Errorf("participant %d: %w", i+1, err)
		}

		if p.Strategy != StrategyCustom {
			continue
		}

		if s.Amount == nil {
			return fmt.Errorf("%w: amount is required for participant %q when using %s strategy", ErrInvalidSplit, s.Name, StrategyCustom)
		}

		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: amount cannot be negative for participant %q (got %s)", ErrInvalidSplit, s.Name, *s.Amount)
		}
	}

	return nil
}

// Validate checks the fields an update sets.
func (p UpdateParams) Validate() error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}

	if p.TotalAmount != nil && !p.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: total bill amount must be greater than zero (got %s)", ErrInvalidAmount, *p.TotalAmount)
	}

	if p.Strategy != nil && !p.Strategy.Valid() {
		return fmt.Errorf("%w: unknown split strategy %q", ErrInvalidSplit, *p.Strategy)
	}

	if p.Date != nil && p.Date.IsZero() {
		return fmt.Errorf("%w: bill date cannot be empty", ErrValidation)
	}

	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: bill title is required", ErrValidation)
	}

	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf("%w: bill title must be at most %d characters", ErrValidation, maxTitleLen)
	}

	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: participant name is required", ErrValidation)
	}

	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Errorf("%w: participant name %q must be at most %d characters", ErrValidation, name, maxNameLen)
	}

	return nil
}
