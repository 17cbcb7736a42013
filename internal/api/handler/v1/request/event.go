package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ormeet/ormeet-api/internal/domain"
)

var eventStatuses = []interface{}{string(domain.EventDraft), string(domain.EventPublished), string(domain.EventCancelled)}

type CreateEventRequest struct {
	OrganizerID      string           `json:"organizerId"`
	Title            string           `json:"title"`
	ShortDescription string           `json:"shortDescription"`
	LongDescription  string           `json:"longDescription"`
	VenueID          *string          `json:"venueId"`
	Status           string           `json:"status" enums:"draft,published,cancelled"`
	Category         string           `json:"category"`
	Tags             []string         `json:"tags"`
	Images           []string         `json:"images"`
	StartAt          *time.Time       `json:"startAt"`
	EndAt            *time.Time       `json:"endAt"`
	Timezone         string           `json:"timezone"`
	Sessions         []domain.Session `json:"sessions"`
	Capacity         *int             `json:"capacity"`
	AgeLimit         *int             `json:"ageLimit"`
	AllowReentry     *bool            `json:"allowReentry"`
	RefundsAllowed   bool             `json:"refundsAllowed"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.OrganizerID, is.UUID),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.ShortDescription, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.VenueID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&req.Status, validation.In(eventStatuses...)),
		validation.Field(&req.StartAt, validation.Required),
		validation.Field(&req.EndAt, validation.Required, after(req.StartAt)),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.AgeLimit, validation.Min(0)),
	)
}

func (req *CreateEventRequest) ToDomain() domain.Event {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	allowReentry := true
	if req.AllowReentry != nil {
		allowReentry = *req.AllowReentry
	}

	return domain.Event{
		OrganizerID:      req.OrganizerID,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		VenueID:          req.VenueID,
		Status:           domain.EventStatus(req.Status),
		Category:         req.Category,
		Tags:             req.Tags,
		Images:           req.Images,
		StartAt:          *req.StartAt,
		EndAt:            *req.EndAt,
		Timezone:         timezone,
		Sessions:         req.Sessions,
		Capacity:         req.Capacity,
		AgeLimit:         req.AgeLimit,
		AllowReentry:     allowReentry,
		RefundsAllowed:   req.RefundsAllowed,
	}
}

type UpdateEventRequest struct {
	Title            *string          `json:"title"`
	ShortDescription *string          `json:"shortDescription"`
	LongDescription  *string          `json:"longDescription"`
	VenueID          *string          `json:"venueId"`
	Category         *string          `json:"category"`
	Tags             []string         `json:"tags"`
	Images           []string         `json:"images"`
	StartAt          *time.Time       `json:"startAt"`
	EndAt            *time.Time       `json:"endAt"`
	Timezone         *string          `json:"timezone"`
	Sessions         []domain.Session `json:"sessions"`
	Capacity         *int             `json:"capacity"`
	AgeLimit         *int             `json:"ageLimit"`
	AllowReentry     *bool            `json:"allowReentry"`
	RefundsAllowed   *bool            `json:"refundsAllowed"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.ShortDescription, validation.NilOrNotEmpty),
		validation.Field(&req.VenueID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&req.EndAt, after(req.StartAt)),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.AgeLimit, validation.Min(0)),
	)
}

// Apply copies the fields present in the request onto e.
func (req *UpdateEventRequest) Apply(e *domain.Event) {
	setIf(&e.Title, req.Title)
	setIf(&e.ShortDescription, req.ShortDescription)
	setIf(&e.LongDescription, req.LongDescription)
	setIf(&e.Category, req.Category)
	setIf(&e.StartAt, req.StartAt)
	setIf(&e.EndAt, req.EndAt)
	setIf(&e.Timezone, req.Timezone)
	setIf(&e.AllowReentry, req.AllowReentry)
	setIf(&e.RefundsAllowed, req.RefundsAllowed)
	if req.VenueID != nil {
		e.VenueID = req.VenueID
	}
	if req.Tags != nil {
		e.Tags = req.Tags
	}
	if req.Images != nil {
		e.Images = req.Images
	}
	if req.Sessions != nil {
		e.Sessions = req.Sessions
	}
	if req.Capacity != nil {
		e.Capacity = req.Capacity
	}
	if req.AgeLimit != nil {
		e.AgeLimit = req.AgeLimit
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
