package bill_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

// applyTo makes UpdateBill run the callback against b, like the real store does.
func applyTo(b *bill.Bill) func(context.Context, uuid.UUID, func(*bill.Bill) error) (*bill.Bill, error) {
	return func(_ context.Context, _ uuid.UUID, fn func(*bill.Bill) error) (*bill.Bill, error) {
		if err := fn(b); err != nil {
			return nil, err
		}

		return b, nil
	}
}

func storedBill(total string, strategy bill.Strategy, amounts ...string) *bill.Bill {
	b := &bill.Bill{
		ID:          uuid.New(),
		Title:       "Dinner",
		TotalAmount: money.MustParse(total),
		Strategy:    strategy,
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:      bill.StatusIncomplete,
	}

	for i, a := range amounts {
		b.Participants = append(b.Participants, bill.Participant{
			ID:            uuid.New(),
			BillID:        b.ID,
			Name:          string(rune('A' + i)),
			Amount:        money.MustParse(a),
			PaymentStatus: bill.PaymentUnpaid,
			Position:      i,
		})
	}

	return b
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name        string
		params      bill.CreateParams
		setupMock   func(m *bill.MockRepository)
		wantErr     error
		wantAmounts []money.Amount
	}

	tests := []testCase{
		{
			name: "Equal split",
			params: bill.CreateParams{
				Title:        "Dinner",
				TotalAmount:  money.MustParse("100.00"),
				Strategy:     bill.StrategyEqually,
				Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Participants: names("Alice", "Bob", "Carol"),
			},
			setupMock: func(m *bill.MockRepository) {
				m.EXPECT().
					CreateBill(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *bill.Bill) error {
						b.ID = uuid.New()
						b.CreatedAt = time.Now()
						return nil
					})
			},
			wantAmounts: []money.Amount{3333, 3333, 3334},
		},
		{
			name: "Custom split",
			params: bill.CreateParams{
				Title:       "Groceries",
				TotalAmount: money.MustParse("100.00"),
				Strategy:    bill.StrategyCustom,
				Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Participants: []bill.ShareInput{
					{Name: "Alice", Amount: amt("60.00")},
					{Name: "Bob", Amount: amt("40.00")},
				},
			},
			setupMock: func(m *bill.MockRepository) {
				m.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantAmounts: []money.Amount{6000, 4000},
		},
		{
			name: "Custom split mismatch is not stored",
			params: bill.CreateParams{
				Title:       "Groceries",
				TotalAmount: money.MustParse("100.00"),
				Strategy:    bill.StrategyCustom,
				Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Participants: []bill.ShareInput{
					{Name: "Alice", Amount: amt("60.00")},
					{Name: "Bob", Amount: amt("30.00")},
				},
			},
			wantErr: bill.ErrInvalidSplit,
		},
		{
			name: "Invalid total is not stored",
			params: bill.CreateParams{
				Title:        "Dinner",
				TotalAmount:  0,
				Strategy:     bill.StrategyEqually,
				Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Participants: names("Alice"),
			},
			wantErr: bill.ErrInvalidAmount,
		},
		{
			name: "RepoError",
			params: bill.CreateParams{
				Title:        "Dinner",
				TotalAmount:  money.MustParse("10.00"),
				Strategy:     bill.StrategyEqually,
				Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Participants: names("Alice"),
			},
			setupMock: func(m *bill.MockRepository) {
				m.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := bill.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := bill.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, bill.ErrInvalidSplit) || errors.Is(tt.wantErr, bill.ErrInvalidAmount) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, bill.StatusIncomplete, got.Status)
			assert.Equal(t, tt.wantAmounts, got.Amounts())
			sum, err := money.Sum(got.Amounts()...)
			require.NoError(t, err)
			assert.Equal(t, got.TotalAmount, sum)

			for i, p := range got.Participants {
				assert.Equal(t, bill.PaymentUnpaid, p.PaymentStatus)
				assert.Equal(t, i, p.Position)
				assert.Equal(t, tt.params.Participants[i].Name, p.Name)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	type testCase struct {
		name        string
		stored      *bill.Bill
		params      bill.UpdateParams
		wantErr     error
		wantAmounts []money.Amount
		wantStatus  bill.Status
	}

	tests := []testCase{
		{
			name:        "Title only keeps amounts",
			stored:      storedBill("100.00", bill.StrategyCustom, "70.00", "30.00"),
			params:      bill.UpdateParams{Title: new("Late dinner")},
			wantAmounts: []money.Amount{7000, 3000},
			wantStatus:  bill.StatusIncomplete,
		},
		{
			name:        "New total re-splits equal bill",
			stored:      storedBill("90.00", bill.StrategyEqually, "30.00", "30.00", "30.00"),
			params:      bill.UpdateParams{TotalAmount: new(money.MustParse("100.00"))},
			wantAmounts: []money.Amount{3333, 3333, 3334},
			wantStatus:  bill.StatusIncomplete,
		},
		{
			name:        "Switch to equal re-splits",
			stored:      storedBill("100.00", bill.StrategyCustom, "70.00", "30.00"),
			params:      bill.UpdateParams{Strategy: new(bill.StrategyEqually)},
			wantAmounts: []money.Amount{5000, 5000},
			wantStatus:  bill.StatusIncomplete,
		},
		{
			name:    "New total breaks custom shares",
			stored:  storedBill("100.00", bill.StrategyCustom, "70.00", "30.00"),
			params:  bill.UpdateParams{TotalAmount: new(money.MustParse("120.00"))},
			wantErr: bill.ErrInvalidSplit,
		},
		{
			name:        "Status override is stored as-is",
			stored:      storedBill("100.00", bill.StrategyEqually, "50.00", "50.00"),
			params:      bill.UpdateParams{Status: new(bill.StatusPaid)},
			wantAmounts: []money.Amount{5000, 5000},
			wantStatus:  bill.StatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := bill.NewMockRepository(ctrl)
			repo.EXPECT().
				UpdateBill(gomock.Any(), tt.stored.ID, gomock.Any()).
				DoAndReturn(applyTo(tt.stored))

			svc := bill.NewService(repo)
			got, err := svc.Update(context.Background(), tt.stored.ID, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmounts, got.Amounts())
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestService_Update_InvalidParamsSkipRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := bill.NewService(bill.NewMockRepository(ctrl))

	_, err := svc.Update(context.Background(), uuid.New(), bill.UpdateParams{TotalAmount: new(money.Amount(-1))})
	assert.ErrorIs(t, err, bill.ErrInvalidAmount)
}

func TestService_SettlementLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := storedBill("100.00", bill.StrategyEqually, "33.33", "33.33", "33.34")
	a, b, c := stored.Participants[0].ID, stored.Participants[1].ID, stored.Participants[2].ID

	repo := bill.NewMockRepository(ctrl)
	repo.EXPECT().
		UpdateBill(gomock.Any(), stored.ID, gomock.Any()).
		DoAndReturn(applyTo(stored)).
		AnyTimes()

	svc := bill.NewService(repo)
	ctx := context.Background()

	steps := []struct {
		participant uuid.UUID
		want        bill.Status
	}{
		{a, bill.StatusIncomplete},
		{b, bill.StatusIncomplete},
		{c, bill.StatusComplete},
		{b, bill.StatusIncomplete},
		{b, bill.StatusComplete},
	}

	for _, step := range steps {
		got, err := svc.TogglePayment(ctx, stored.ID, step.participant)
		require.NoError(t, err)
		assert.Equal(t, step.want, got.Status)
	}

	got, err := svc.OverrideStatus(ctx, stored.ID, bill.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPaid, got.Status)

	got, err = svc.SetPaymentStatus(ctx, stored.ID, a, bill.PaymentUnpaid)
	require.NoError(t, err)
	assert.Equal(t, bill.StatusIncomplete, got.Status)

	_, err = svc.OverrideStatus(ctx, stored.ID, bill.StatusPaid)
	require.NoError(t, err)

	got, err = svc.RecomputeStatus(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.StatusIncomplete, got.Status)

	_, err = svc.TogglePayment(ctx, stored.ID, uuid.New())
	assert.ErrorIs(t, err, bill.ErrNotFound)

	_, err = svc.OverrideStatus(ctx, stored.ID, "ARCHIVED")
	assert.ErrorIs(t, err, bill.ErrValidation)
}

func TestService_TogglePayment_MissingBill(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := bill.NewMockRepository(ctrl)
	repo.EXPECT().
		UpdateBill(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, bill.ErrNotFound)

	_, err := bill.NewService(repo).TogglePayment(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, bill.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := bill.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().DeleteBill(gomock.Any(), id).Return(nil),
		repo.EXPECT().DeleteBill(gomock.Any(), id).Return(bill.ErrNotFound),
	)

	svc := bill.NewService(repo)
	require.NoError(t, svc.Delete(context.Background(), id))
	assert.ErrorIs(t, svc.Delete(context.Background(), id), bill.ErrNotFound)
}

func TestService_Queries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := storedBill("10.00", bill.StrategyEqually, "10.00")
	filter := bill.ListFilter{Status: new(bill.StatusIncomplete), Title: "din"}
	pFilter := bill.ParticipantFilter{PaymentStatus: new(bill.PaymentUnpaid)}

	repo := bill.NewMockRepository(ctrl)
	repo.EXPECT().GetBill(gomock.Any(), stored.ID).Return(stored, nil)
	repo.EXPECT().ListBills(gomock.Any(), filter).Return([]*bill.Bill{stored}, nil)
	repo.EXPECT().ListParticipants(gomock.Any(), pFilter).Return([]*bill.Participant{&stored.Participants[0]}, nil)
	repo.EXPECT().GetParticipant(gomock.Any(), stored.ID, gomock.Any()).Return(nil, bill.ErrNotFound)

	svc := bill.NewService(repo)
	ctx := context.Background()

	got, err := svc.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	list, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	participants, err := svc.ListParticipants(ctx, pFilter)
	require.NoError(t, err)
	assert.Len(t, participants, 1)

	_, err = svc.GetParticipant(ctx, stored.ID, uuid.New())
	assert.ErrorIs(t, err, bill.ErrNotFound)
}
