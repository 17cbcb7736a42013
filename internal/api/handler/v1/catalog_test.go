package v1

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

type mockPromotionService struct {
	mock.Mock
}

func (m *mockPromotionService) Create(ctx context.Context, actor domain.Actor, p domain.Promotion) (domain.Promotion, error) {
	args := m.Called(ctx, actor, p)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionService) Get(ctx context.Context, id string) (domain.Promotion, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionService) FindByCode(ctx context.Context, code string) (domain.Promotion, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionService) List(ctx context.Context, filter domain.PromotionFilter) ([]domain.Promotion, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Promotion), args.Error(1)
}

func (m *mockPromotionService) Validate(ctx context.Context, code string) (domain.PromotionValidation, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.PromotionValidation), args.Error(1)
}

func (m *mockPromotionService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Promotion)) (domain.Promotion, error) {
	args := m.Called(ctx, actor, id, apply)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionService) Deactivate(ctx context.Context, actor domain.Actor, id string) (domain.Promotion, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Promotion), args.Error(1)
}

func (m *mockPromotionService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func TestPromotionHandler(t *testing.T) {
	svc := &mockPromotionService{}
	svc.On("Validate", mock.Anything, "NOPE").Return(domain.PromotionValidation{Message: domain.PromotionMsgInvalid}, nil)
	svc.On("Create", mock.Anything, testUser, mock.Anything).
		Return(domain.Promotion{}, service.Forbidden("You do not have permission to create this promotion"))
	svc.On("List", mock.Anything, mock.Anything).Return([]domain.Promotion{}, nil)
	h := NewPromotionHandler(svc)

	r := gin.New()
	r.POST("/promotions/validate/:code", h.HandleValidatePromotion)
	authed := r.Group("", as(testUser))
	authed.POST("/promotions", h.HandleCreatePromotion)
	authed.GET("/promotions", h.HandleListPromotions)

	w := serve(r, http.MethodPost, "/promotions/validate/NOPE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[domain.PromotionValidation](t, w)
	assert.False(t, res.Valid)
	assert.Equal(t, domain.PromotionMsgInvalid, res.Message)

	promo := map[string]any{
		"code": "SUMMER", "type": "percent", "value": 20,
		"validFrom": "2026-06-01T00:00:00Z", "validUntil": "2026-09-01T00:00:00Z",
	}
	w = serve(r, http.MethodPost, "/promotions", promo)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to create this promotion", decodeErr(t, w).Message)

	promo["value"] = 150
	w = serve(r, http.MethodPost, "/promotions", promo)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "a percent discount cannot exceed 100", decodeErr(t, w).Message)

	promo["value"], promo["validUntil"] = 10, "2026-05-01T00:00:00Z"
	w = serve(r, http.MethodPost, "/promotions", promo)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/promotions?isActive=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)

	svc.AssertNumberOfCalls(t, "Create", 1)
}

type mockVenueService struct {
	mock.Mock
}

func (m *mockVenueService) Create(ctx context.Context, actor domain.Actor, venue domain.Venue) (domain.Venue, error) {
	args := m.Called(ctx, actor, venue)
	return args.Get(0).(domain.Venue), args.Error(1)
}

func (m *mockVenueService) Get(ctx context.Context, id string) (domain.Venue, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Venue), args.Error(1)
}

func (m *mockVenueService) List(ctx context.Context, filter domain.VenueFilter) ([]domain.Venue, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Venue), args.Error(1)
}

func (m *mockVenueService) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.NearbyVenue, error) {
	args := m.Called(ctx, lat, lon, radiusKm)
	return args.Get(0).([]domain.NearbyVenue), args.Error(1)
}

func (m *mockVenueService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Venue)) (domain.Venue, error) {
	args := m.Called(ctx, actor, id, apply)
	return args.Get(0).(domain.Venue), args.Error(1)
}

func (m *mockVenueService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func TestVenueHandler_HandleNearbyVenues(t *testing.T) {
	svc := &mockVenueService{}
	svc.On("FindNearby", mock.Anything, 48.85, 2.35, service.DefaultNearbyRadiusKm).
		Return([]domain.NearbyVenue{{Venue: domain.Venue{ID: "v1"}, DistanceKm: 0.4}}, nil)
	svc.On("FindNearby", mock.Anything, 48.85, 2.35, 5.0).Return([]domain.NearbyVenue{}, nil)
	h := NewVenueHandler(svc)

	r := gin.New()
	r.GET("/venues/nearby", as(testOrganizer), h.HandleNearbyVenues)

	w := serve(r, http.MethodGet, "/venues/nearby?lat=48.85&lon=2.35", nil)
	require.Equal(t, http.StatusOK, w.Code)
	venues := decode[[]domain.NearbyVenue](t, w)
	require.Len(t, venues, 1)
	assert.Equal(t, "v1", venues[0].ID)

	w = serve(r, http.MethodGet, "/venues/nearby?lat=48.85&lon=2.35&radius=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, target := range []string{
		"/venues/nearby",
		"/venues/nearby?lat=north&lon=2.35",
		"/venues/nearby?lat=48.85&lon=2.35&radius=-1",
	} {
		w = serve(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	assert.Equal(t, "lat and lon are required numbers", decodeErr(t, serve(r, http.MethodGet, "/venues/nearby", nil)).Message)

	svc.AssertNumberOfCalls(t, "FindNearby", 2)
}

func TestVenueHandler_HandleCreateVenue(t *testing.T) {
	svc := &mockVenueService{}
	svc.On("Create", mock.Anything, testOrganizer, mock.MatchedBy(func(v domain.Venue) bool { return v.Name == "Hall" })).
		Return(domain.Venue{ID: "v1", Name: "Hall"}, nil)
	h := NewVenueHandler(svc)

	r := gin.New()
	r.POST("/venues", as(testOrganizer), h.HandleCreateVenue)

	w := serve(r, http.MethodPost, "/venues", map[string]any{"name": "Hall", "city": "Paris", "country": "FR"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "v1", decode[domain.Venue](t, w).ID)

	w = serve(r, http.MethodPost, "/venues", map[string]any{"city": "Paris"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) Create(ctx context.Context, actor domain.Actor, review domain.Review) (domain.Review, error) {
	args := m.Called(ctx, actor, review)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewService) List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewService) ListByEvent(ctx context.Context, eventID string) ([]domain.Review, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewService) AverageRating(ctx context.Context, eventID string) (float64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockReviewService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Review)) (domain.Review, error) {
	args := m.Called(ctx, actor, id, apply)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewService) Approve(ctx context.Context, actor domain.Actor, id string) (domain.Review, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewService) Reject(ctx context.Context, actor domain.Actor, id string) (domain.Review, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func TestReviewHandler(t *testing.T) {
	svc := &mockReviewService{}
	svc.On("Get", mock.Anything, "missing").Return(domain.Review{}, service.NotFound("Review with ID missing not found"))
	svc.On("Get", mock.Anything, "broken").Return(domain.Review{}, errors.New("connection reset"))
	svc.On("AverageRating", mock.Anything, "event-1").Return(4.5, nil)
	svc.On("Approve", mock.Anything, testUser, "r1").Return(domain.Review{}, service.Forbidden("You do not have permission to manage this review"))
	h := NewReviewHandler(svc)

	r := gin.New()
	r.GET("/reviews/:id", as(testUser), h.HandleGetReview)
	r.GET("/reviews/event/:eventId/average", as(testUser), h.HandleEventAverageRating)
	r.POST("/reviews/:id/approve", as(testUser), h.HandleApproveReview)
	r.POST("/anonymous/:id/approve", h.HandleApproveReview)

	w := serve(r, http.MethodGet, "/reviews/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Review with ID missing not found", decodeErr(t, w).Message)

	w = serve(r, http.MethodGet, "/reviews/broken", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeErr(t, w).Message)

	w = serve(r, http.MethodGet, "/reviews/event/event-1/average", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"eventId":"event-1","averageRating":4.5}`, w.Body.String())

	w = serve(r, http.MethodPost, "/reviews/r1/approve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodPost, "/anonymous/r1/approve", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
