package bill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sharemal/internal/metrics"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill
type Repository interface {
	CreateBill(ctx context.Context, b *Bill) error
	GetBill(ctx context.Context, id uuid.UUID) (*Bill, error)
	ListBills(ctx context.Context, filter ListFilter) ([]*Bill, error)
	// UpdateBill loads the bill, applies fn and saves the result as one unit.
	// Nothing is written when fn returns an error.
	UpdateBill(ctx context.Context, id uuid.UUID, fn func(*Bill) error) (*Bill, error)
	DeleteBill(ctx context.Context, id uuid.UUID) error

	GetParticipant(ctx context.Context, billID, participantID uuid.UUID) (*Participant, error)
	ListParticipants(ctx context.Context, filter ParticipantFilter) ([]*Participant, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Title        string
	TotalAmount  money.Amount
	Strategy     Strategy
	Date         time.Time
	Participants []ShareInput
}

// UpdateParams holds the fields to change; nil fields are left alone. Status
// goes through the override path and is not checked against payment flags.
type UpdateParams struct {
	Title       *string
	TotalAmount *money.Amount
	Strategy    *Strategy
	Date        *time.Time
	Status      *Status
}

type ListFilter struct {
	Status *Status
	Title  string
}

type ParticipantFilter struct {
	BillID        *uuid.UUID
	PaymentStatus *PaymentStatus
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Bill, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	amounts, err := Allocate(params.TotalAmount, params.Strategy, params.Participants)
	if err != nil {
		return nil, err
	}

	b := &Bill{
		Title:        params.Title,
		TotalAmount:  params.TotalAmount,
		Strategy:     params.Strategy,
		Date:         params.Date,
		Status:       StatusIncomplete,
		Participants: make([]Participant, len(params.Participants)),
	}

	for i, share := range params.Participants {
		b.Participants[i] = Participant{
			Name:          share.Name,
			Amount:        amounts[i],
			PaymentStatus: PaymentUnpaid,
			Position:      i,
		}
	}

	if err := s.repo.CreateBill(ctx, b); err != nil {
		return nil, err
	}

	slog.Info("bill created", "bill_id", b.ID, "strategy", b.Strategy, "total", b.TotalAmount, "participants", len(b.Participants))
	metrics.BillCreated(string(b.Strategy))

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.repo.GetBill(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Bill, error) {
	return s.repo.ListBills(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Bill, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.UpdateBill(ctx, id, func(b *Bill) error {
		return applyUpdate(b, params)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("bill updated", "bill_id", id, "status", b.Status)

	return b, nil
}

func applyUpdate(b *Bill, params UpdateParams) error {
	if params.Title != nil {
		b.Title = *params.Title
	}

	if params.Date != nil {
		b.Date = *params.Date
	}

	reallocate := false

	if params.TotalAmount != nil && *params.TotalAmount != b.TotalAmount {
		b.TotalAmount = *params.TotalAmount
		reallocate = true
	}

	if params.Strategy != nil && *params.Strategy != b.Strategy {
		b.Strategy = *params.Strategy
		reallocate = true
	}

	if reallocate {
		if err := b.Reallocate(); err != nil {
			return err
		}
	}

	if params.Status != nil {
		return b.OverrideStatus(*params.Status)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteBill(ctx, id); err != nil {
		return err
	}

	slog.Info("bill deleted", "bill_id", id)
	metrics.BillDeleted()

	return nil
}

// TogglePayment flips one participant's payment flag and re-derives the bill status.
func (s *Service) TogglePayment(ctx context.Context, billID, participantID uuid.UUID) (*Bill, error) {
	var flag PaymentStatus

	b, err := s.repo.UpdateBill(ctx, billID, func(b *Bill) error {
		var err error
		flag, err = b.TogglePayment(participantID)

		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("payment toggled", "bill_id", billID, "participant_id", participantID, "payment_status", flag, "status", b.Status)
	metrics.PaymentToggled(string(flag))

	return b, nil
}

// SetPaymentStatus sets one participant's payment flag and re-derives the bill status.
func (s *Service) SetPaymentStatus(ctx context.Context, billID, participantID uuid.UUID, status PaymentStatus) (*Bill, error) {
	b, err := s.repo.UpdateBill(ctx, billID, func(b *Bill) error {
		return b.SetPayment(participantID, status)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("payment status set", "bill_id", billID, "participant_id", participantID, "payment_status", status, "status", b.Status)

	return b, nil
}

// RecomputeStatus re-derives the status from current payment flags and stores it.
func (s *Service) RecomputeStatus(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := s.repo.UpdateBill(ctx, id, func(b *Bill) error {
		b.RecomputeStatus()
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("bill status recomputed", "bill_id", id, "status", b.Status)

	return b, nil
}

// OverrideStatus stores status without consulting payment flags. Callers that
// need the status to match the flags again must call RecomputeStatus.
func (s *Service) OverrideStatus(ctx context.Context, id uuid.UUID, status Status) (*Bill, error) {
	b, err := s.repo.UpdateBill(ctx, id, func(b *Bill) error {
		return b.OverrideStatus(status)
	})
	if err != nil {
		return nil, err
	}

	slog.Warn("bill status overridden", "bill_id", id, "status", status, "derived", DeriveStatus(b.Participants))

	return b, nil
}

func (s *Service) GetParticipant(ctx context.Context, billID, participantID uuid.UUID) (*Participant, error) {
	p, err := s.repo.GetParticipant(ctx, billID, participantID)
	if err != nil {
		return nil, fmt.Errorf("participant %s in bill %s: %w", participantID, billID, err)
	}

	return p, nil
}

func (s *Service) ListParticipants(ctx context.Context, filter ParticipantFilter) ([]*Participant, error) {
	return s.repo.ListParticipants(ctx, filter)
}
