package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

var errBadCoordinates = errors.New("lat and lon are required numbers")

type VenueService interface {
	Create(ctx context.Context, actor domain.Actor, venue domain.Venue) (domain.Venue, error)
	Get(ctx context.Context, id string) (domain.Venue, error)
	List(ctx context.Context, filter domain.VenueFilter) ([]domain.Venue, error)
	FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.NearbyVenue, error)
	Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Venue)) (domain.Venue, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type VenueHandler struct {
	svc VenueService
}

func NewVenueHandler(svc VenueService) *VenueHandler {
	return &VenueHandler{
		svc: svc,
	}
}

// HandleCreateVenue godoc
// @Summary      Create a venue
// @Tags         venues
// @Accept       json
// @Produce      json
// @Param        request  body      request.VenueRequest  true  "request body"
// @Success      201  {object}  domain.Venue
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /venues [post]
// @Security BearerAuth
func (h *VenueHandler) HandleCreateVenue(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.VenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.ValidateCreate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var venue domain.Venue
	req.Apply(&venue)

	created, err := h.svc.Create(ctx.Request.Context(), actor, venue)
	if err != nil {
		renderErr(ctx, "v1.HandleCreateVenue -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListVenues godoc
// @Summary      List venues
// @Tags         venues
// @Produce      json
// @Param        city         query  string  false  "city"
// @Param        country      query  string  false  "country"
// @Param        minCapacity  query  int     false  "minimum capacity"
// @Success      200  {array}   domain.Venue
// @Failure      400  {object}  response.Err
// @Router       /venues [get]
// @Security BearerAuth
func (h *VenueHandler) HandleListVenues(ctx *gin.Context) {
	minCapacity, err := queryInt(ctx, "minCapacity")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	venues, err := h.svc.List(ctx.Request.Context(), domain.VenueFilter{
		City:        ctx.Query("city"),
		Country:     ctx.Query("country"),
		MinCapacity: minCapacity,
	})
	if err != nil {
		renderErr(ctx, "v1.HandleListVenues -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, venues)
}

// HandleNearbyVenues godoc
// @Summary      Venues within a radius of a point
// @Description  Sorted by distance. The radius defaults to 50 km.
// @Tags         venues
// @Produce      json
// @Param        lat     query  number  true   "latitude"
// @Param        lon     query  number  true   "longitude"
// @Param        radius  query  number  false  "radius in km"
// @Success      200  {array}   domain.NearbyVenue
// @Failure      400  {object}  response.Err
// @Router       /venues/nearby [get]
// @Security BearerAuth
func (h *VenueHandler) HandleNearbyVenues(ctx *gin.Context) {
	lat, errLat := strconv.ParseFloat(ctx.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(ctx.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errBadCoordinates))
		return
	}

	radius := service.DefaultNearbyRadiusKm
	if raw := ctx.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("radius must be a positive number")))
			return
		}
		radius = r
	}

	venues, err := h.svc.FindNearby(ctx.Request.Context(), lat, lon, radius)
	if err != nil {
		renderErr(ctx, "v1.HandleNearbyVenues -> h.svc.FindNearby", err)
		return
	}

	ctx.JSON(http.StatusOK, venues)
}

// HandleGetVenue godoc
// @Summary      Get a venue
// @Tags         venues
// @Produce      json
// @Param        id   path      string  true  "venue ID"
// @Success      200  {object}  domain.Venue
// @Failure      404  {object}  response.Err
// @Router       /venues/{id} [get]
// @Security BearerAuth
func (h *VenueHandler) HandleGetVenue(ctx *gin.Context) {
	venue, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetVenue -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, venue)
}

// HandleUpdateVenue godoc
// @Summary      Update a venue
// @Tags         venues
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "venue ID"
// @Param        request  body      request.VenueRequest  true  "fields to change"
// @Success      200  {object}  domain.Venue
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /venues/{id} [patch]
// @Security BearerAuth
func (h *VenueHandler) HandleUpdateVenue(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.VenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.ValidateUpdate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	venue, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req.Apply)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateVenue -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, venue)
}

// HandleDeleteVenue godoc
// @Summary      Delete a venue
// @Tags         venues
// @Param        id   path  string  true  "venue ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Router       /venues/{id} [delete]
// @Security BearerAuth
func (h *VenueHandler) HandleDeleteVenue(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteVenue -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
