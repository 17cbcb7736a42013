package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ormeet/ormeet-api/internal/domain"
)

type VenueRequest struct {
	Name          *string  `json:"name"`
	AddressLine1  *string  `json:"addressLine1"`
	AddressLine2  *string  `json:"addressLine2"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	PostalCode    *string  `json:"postalCode"`
	Country       *string  `json:"country"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Capacity      *int     `json:"capacity"`
	Accessibility *string  `json:"accessibility"`
	ContactName   *string  `json:"contactName"`
	ContactPhone  *string  `json:"contactPhone"`
	ContactEmail  *string  `json:"contactEmail"`
}

func (req *VenueRequest) rules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&req.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.ContactEmail, is.Email),
	}
}

// ValidateCreate requires the name; every other field is optional.
func (req *VenueRequest) ValidateCreate() error {
	rules := append(req.rules(), validation.Field(&req.Name, validation.Required, validation.Length(1, 200)))
	return validation.ValidateStruct(req, rules...)
}

func (req *VenueRequest) ValidateUpdate() error {
	rules := append(req.rules(), validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 200)))
	return validation.ValidateStruct(req, rules...)
}

func (req *VenueRequest) Apply(v *domain.Venue) {
	setIf(&v.Name, req.Name)
	setIf(&v.Line1, req.AddressLine1)
	setIf(&v.Line2, req.AddressLine2)
	setIf(&v.City, req.City)
	setIf(&v.State, req.State)
	setIf(&v.PostalCode, req.PostalCode)
	setIf(&v.Country, req.Country)
	setIf(&v.Accessibility, req.Accessibility)
	setIf(&v.Contact.Name, req.ContactName)
	setIf(&v.Contact.Phone, req.ContactPhone)
	setIf(&v.Contact.Email, req.ContactEmail)
	if req.Latitude != nil {
		v.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		v.Longitude = req.Longitude
	}
	if req.Capacity != nil {
		v.Capacity = req.Capacity
	}
}
