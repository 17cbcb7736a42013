package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ormeet/ormeet-api/internal/domain"
)

type CreateReviewRequest struct {
	EventID string `json:"eventId"`
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (req *CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, is.UUID),
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Title, validation.Length(0, 200)),
		validation.Field(&req.Comment, validation.Length(0, 5000)),
	)
}

func (req *CreateReviewRequest) ToDomain() domain.Review {
	return domain.Review{
		EventID: req.EventID,
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	}
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

func (req *UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Rating, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Title, validation.Length(0, 200)),
		validation.Field(&req.Comment, validation.Length(0, 5000)),
	)
}

func (req *UpdateReviewRequest) Apply(r *domain.Review) {
	setIf(&r.Rating, req.Rating)
	setIf(&r.Title, req.Title)
	setIf(&r.Comment, req.Comment)
}
