package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository"
)

type mockPromotionRepository struct {
	mock.Mock
}

func (m *mockPromotionRepository) Create(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionRepository) FindByID(ctx context.Context, id string) (domain.Promotion, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionRepository) FindByCode(ctx context.Context, code string) (domain.Promotion, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionRepository) FindAll(ctx context.Context, filter domain.PromotionFilter) ([]domain.Promotion, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Promotion), args.Error(1)
}

func (m *mockPromotionRepository) Update(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionRepository) Deactivate(ctx context.Context, id string) (domain.Promotion, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPromotionRepository) IncrementUsage(ctx context.Context, id string) (domain.Promotion, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func newPromotionService(repo *mockPromotionRepository) *PromotionService {
	events := eventTable{
		"event-1":    {ID: "event-1", OrganizerID: "org-1"},
		"team-event": {ID: "team-event", OrganizerID: "team-1"},
	}
	svc := NewPromotionService(repo, events, teams())
	svc.now = fixedClock
	return svc
}

func TestPromotionService_Validate(t *testing.T) {
	maxUses := 5
	active := domain.Promotion{
		Code: "SPRING", Kind: domain.PromotionPercent, Value: decimal.NewFromInt(15), IsActive: true,
		ValidFrom: testNow.AddDate(0, 0, -1), ValidUntil: testNow.AddDate(0, 0, 1), MaxUses: &maxUses,
	}
	exhausted := active
	exhausted.Code, exhausted.UsedCount = "GONE", 5
	future := active
	future.Code, future.ValidFrom = "SOON", testNow.AddDate(0, 0, 1)

	repo := &mockPromotionRepository{}
	repo.On("FindByCode", mock.Anything, "SPRING").Return(active, nil)
	repo.On("FindByCode", mock.Anything, "GONE").Return(exhausted, nil)
	repo.On("FindByCode", mock.Anything, "SOON").Return(future, nil)
	repo.On("FindByCode", mock.Anything, "NOPE").Return(domain.Promotion{}, repository.ErrPromotionNotFound)
	svc := newPromotionService(repo)

	tests := []struct {
		code      string
		wantValid bool
		wantMsg   string
	}{
		{code: "SPRING", wantValid: true},
		{code: "GONE", wantMsg: domain.PromotionMsgMaxUses},
		{code: "SOON", wantMsg: domain.PromotionMsgNotYet},
		{code: "NOPE", wantMsg: domain.PromotionMsgInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			res, err := svc.Validate(context.Background(), tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantMsg, res.Message)
			if tt.wantValid {
				require.NotNil(t, res.Promotion)
				assert.Equal(t, tt.code, res.Promotion.Code)
			}
		})
	}

	repo.AssertExpectations(t)
}

func TestPromotionService_Create(t *testing.T) {
	eventID := "event-1"

	t.Run("duplicate code", func(t *testing.T) {
		repo := &mockPromotionRepository{}
		repo.On("FindByCode", mock.Anything, "SAVE").Return(domain.Promotion{ID: "p1", Code: "SAVE"}, nil)

		_, err := newPromotionService(repo).Create(context.Background(), organizer, domain.Promotion{Code: " SAVE ", EventID: &eventID})
		assert.ErrorIs(t, err, errPromotionCodeExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("organizer of another event", func(t *testing.T) {
		repo := &mockPromotionRepository{}
		other := domain.Actor{UserID: "org-2", Role: domain.RoleOrganizer}

		_, err := newPromotionService(repo).Create(context.Background(), other, domain.Promotion{Code: "SAVE", EventID: &eventID})
		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, KindForbidden, svcErr.Kind)
	})

	t.Run("created with usage reset", func(t *testing.T) {
		repo := &mockPromotionRepository{}
		repo.On("FindByCode", mock.Anything, "SAVE").Return(domain.Promotion{}, repository.ErrPromotionNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p domain.Promotion) bool {
			return p.Code == "SAVE" && p.UsedCount == 0
		})).Return(domain.Promotion{ID: "p1", Code: "SAVE"}, nil)

		created, err := newPromotionService(repo).Create(context.Background(), organizer, domain.Promotion{Code: "SAVE", EventID: &eventID, UsedCount: 9})
		require.NoError(t, err)
		assert.Equal(t, "p1", created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("organization admin", func(t *testing.T) {
		teamEvent := "team-event"
		repo := &mockPromotionRepository{}
		repo.On("FindByCode", mock.Anything, "TEAM").Return(domain.Promotion{}, repository.ErrPromotionNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(domain.Promotion{ID: "p2", Code: "TEAM"}, nil)
		svc := newPromotionService(repo)

		_, err := svc.Create(context.Background(), teamMember, domain.Promotion{Code: "TEAM", EventID: &teamEvent})
		assert.ErrorIs(t, err, Forbidden("You do not have permission to create this promotion"))

		created, err := svc.Create(context.Background(), teamAdmin, domain.Promotion{Code: "TEAM", EventID: &teamEvent})
		require.NoError(t, err)
		assert.Equal(t, "p2", created.ID)
	})
}

func TestPromotionService_IncrementUsage(t *testing.T) {
	repo := &mockPromotionRepository{}
	repo.On("IncrementUsage", mock.Anything, "p1").Return(domain.Promotion{}, repository.ErrPromotionExhausted)

	_, err := newPromotionService(repo).IncrementUsage(context.Background(), "p1")
	assert.ErrorIs(t, err, errPromotionExhausted)
}
