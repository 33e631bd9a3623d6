package bill

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

// Strategy selects how a bill total is divided between participants.
type Strategy string

const (
	StrategyEqually Strategy = "EQUALLY"
	StrategyCustom  Strategy = "CUSTOM"
)

func (s Strategy) Valid() bool {
	return s == StrategyEqually || s == StrategyCustom
}

// Status is the settlement state of a bill.
type Status string

const (
	StatusIncomplete Status = "INCOMPLETE"
	StatusComplete   Status = "COMPLETE"
	// StatusPaid is only reachable through an explicit override.
	StatusPaid Status = "PAID"
)

func (s Status) Valid() bool {
	switch s {
	case StatusIncomplete, StatusComplete, StatusPaid:
		return true
	}

	return false
}

// PaymentStatus tells whether a participant has settled their share.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "PAID"
	PaymentUnpaid PaymentStatus = "UNPAID"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentUnpaid
}

// Bill is one shared expense. It owns its participants, kept in input order.
type Bill struct {
	ID           uuid.UUID
	Title        string
	TotalAmount  money.Amount
	Strategy     Strategy
	Date         time.Time
	Status       Status
	Participants []Participant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Participant is one person's share of a bill.
type Participant struct {
	ID            uuid.UUID
	BillID        uuid.UUID
	Name          string
	Amount        money.Amount
	PaymentStatus PaymentStatus
	Position      int
}

// Participant returns the participant with the given id, or nil.
func (b *Bill) Participant(id uuid.UUID) *Participant {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return &b.Participants[i]
		}
	}

	return nil
}

// Amounts returns participant amounts in order.
func (b *Bill) Amounts() []money.Amount {
	amounts := make([]money.Amount, len(b.Participants))
	for i, p := range b.Participants {
		amounts[i] = p.Amount
	}

	return amounts
}

// PaidCount returns how many participants are marked as paid.
func (b *Bill) PaidCount() int {
	n := 0

	for _, p := range b.Participants {
		if p.PaymentStatus == PaymentPaid {
			n++
		}
	}

	return n
}
