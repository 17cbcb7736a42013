package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository"
)

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (domain.Review, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (domain.Review, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepository) FindAll(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) AverageRating(ctx context.Context, eventID string) (float64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepository) SetApproved(ctx context.Context, id string, approved bool) (domain.Review, error) {
	args := m.Called(ctx, id, approved)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var reviewEvents = eventTable{"event-1": {ID: "event-1", OrganizerID: "org-1"}}

func TestReviewService_Create(t *testing.T) {
	t.Run("pending review owned by the actor", func(t *testing.T) {
		repo := &mockReviewRepository{}
		repo.On("FindByEventAndUser", mock.Anything, "event-1", "alice").Return(domain.Review{}, repository.ErrReviewNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(r domain.Review) bool {
			return r.UserID == "alice" && !r.Approved
		})).Return(domain.Review{ID: "r1", UserID: "alice"}, nil)

		review, err := NewReviewService(repo, reviewEvents).Create(context.Background(), alice, domain.Review{
			EventID: "event-1", UserID: "bob", Rating: 4, Approved: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "r1", review.ID)
		repo.AssertExpectations(t)
	})

	t.Run("already reviewed", func(t *testing.T) {
		repo := &mockReviewRepository{}
		repo.On("FindByEventAndUser", mock.Anything, "event-1", "alice").Return(domain.Review{ID: "r1"}, nil)

		_, err := NewReviewService(repo, reviewEvents).Create(context.Background(), alice, domain.Review{EventID: "event-1", Rating: 5})
		assert.ErrorIs(t, err, errReviewExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	for _, rating := range []int{0, 6} {
		repo := &mockReviewRepository{}
		_, err := NewReviewService(repo, reviewEvents).Create(context.Background(), alice, domain.Review{EventID: "event-1", Rating: rating})
		assert.ErrorIs(t, err, errReviewRating, "rating %d", rating)
	}

	t.Run("unknown event", func(t *testing.T) {
		repo := &mockReviewRepository{}

		_, err := NewReviewService(repo, reviewEvents).Create(context.Background(), alice, domain.Review{EventID: "ghost", Rating: 4})
		assert.ErrorIs(t, err, NotFound("Event with ID ghost not found"))
		repo.AssertNotCalled(t, "FindByEventAndUser", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReviewService_Moderation(t *testing.T) {
	repo := &mockReviewRepository{}
	repo.On("SetApproved", mock.Anything, "r1", true).Return(domain.Review{ID: "r1", Approved: true}, nil)
	repo.On("SetApproved", mock.Anything, "missing", false).Return(domain.Review{}, repository.ErrReviewNotFound)
	svc := NewReviewService(repo, reviewEvents)

	for _, actor := range []domain.Actor{alice, organizer} {
		_, err := svc.Approve(context.Background(), actor, "r1")
		assert.ErrorIs(t, err, Forbidden("You do not have permission to manage this review"))
	}

	review, err := svc.Approve(context.Background(), admin, "r1")
	require.NoError(t, err)
	assert.True(t, review.Approved)

	_, err = svc.Reject(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, NotFound("Review with ID missing not found"))
}

func TestReviewService_UpdateAndDelete(t *testing.T) {
	existing := domain.Review{ID: "r1", EventID: "event-1", UserID: "alice", Rating: 3}

	repo := &mockReviewRepository{}
	repo.On("FindByID", mock.Anything, "r1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(r domain.Review) bool { return r.Rating == 5 })).
		Return(domain.Review{ID: "r1", Rating: 5}, nil)
	repo.On("Delete", mock.Anything, "r1").Return(nil)
	svc := NewReviewService(repo, reviewEvents)

	_, err := svc.Update(context.Background(), admin, "r1", func(r *domain.Review) { r.Rating = 5 })
	assert.ErrorIs(t, err, Forbidden("You do not have permission to update this review"))

	_, err = svc.Update(context.Background(), alice, "r1", func(r *domain.Review) { r.Rating = 9 })
	assert.ErrorIs(t, err, errReviewRating)

	updated, err := svc.Update(context.Background(), alice, "r1", func(r *domain.Review) { r.Rating = 5 })
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	err = svc.Delete(context.Background(), bob, "r1")
	assert.ErrorIs(t, err, Forbidden("You do not have permission to delete this review"))

	require.NoError(t, svc.Delete(context.Background(), admin, "r1"))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestReviewService_ListByEventOnlyApproved(t *testing.T) {
	repo := &mockReviewRepository{}
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f domain.ReviewFilter) bool {
		return f.EventID == "event-1" && f.Approved != nil && *f.Approved
	})).Return([]domain.Review{{ID: "r1"}}, nil)

	reviews, err := NewReviewService(repo, reviewEvents).ListByEvent(context.Background(), "event-1")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	repo.AssertExpectations(t)
}
