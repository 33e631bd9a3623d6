package bill

import (
	"fmt"

	"github.com/google/uuid"
)

// DeriveStatus computes a bill status from its participants' payment flags.
// None paid and some paid both map to StatusIncomplete.
func DeriveStatus(participants []Participant) Status {
	if len(participants) == 0 {
		return StatusIncomplete
	}

	for _, p := range participants {
		if p.PaymentStatus != PaymentPaid {
			return StatusIncomplete
		}
	}

	return StatusComplete
}

// RecomputeStatus re-derives b.Status from the payment flags. It is idempotent.
func (b *Bill) RecomputeStatus() Status {
	b.Status = DeriveStatus(b.Participants)
	return b.Status
}

// TogglePayment flips the payment flag of one participant and re-derives the
// bill status. It returns the participant's new flag.
func (b *Bill) TogglePayment(participantID uuid.UUID) (PaymentStatus, error) {
	p := b.Participant(participantID)
	if p == nil {
		return "", fmt.Errorf("participant %s in bill %s: %w", participantID, b.ID, ErrNotFound)
	}

	if p.PaymentStatus == PaymentPaid {
		p.PaymentStatus = PaymentUnpaid
	} else {
		p.PaymentStatus = PaymentPaid
	}

	b.RecomputeStatus()

	return p.PaymentStatus, nil
}

// OverrideStatus assigns status as-is, without looking at payment flags. The
// status may disagree with the flags until the next RecomputeStatus.
func (b *Bill) OverrideStatus(status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown bill status %q", ErrValidation, status)
	}

	b.Status = status

	return nil
}

// SetPayment sets one participant's payment flag and re-derives the bill status.
func (b *Bill) SetPayment(participantID uuid.UUID, status PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}

	p := b.Participant(participantID)
	if p == nil {
		return fmt.Errorf("participant %s in bill %s: %w", participantID, b.ID, ErrNotFound)
	}

	p.PaymentStatus = status
	b.RecomputeStatus()

	return nil
}
