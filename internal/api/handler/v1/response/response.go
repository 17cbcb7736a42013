package response

import "github.com/ormeet/ormeet-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	EventID string `json:"eventId"`
	Count   int64  `json:"count"`
}

type AverageRatingResponse struct {
	EventID       string  `json:"eventId"`
	AverageRating float64 `json:"averageRating"`
}

type AvailableResponse struct {
	TicketTypeID string `json:"ticketTypeId"`
	Available    int    `json:"available"`
}

type IsAvailableResponse struct {
	TicketTypeID string `json:"ticketTypeId"`
	IsAvailable  bool   `json:"isAvailable"`
}

type UploadResponse struct {
	URL   string       `json:"url"`
	Media domain.Media `json:"media"`
}

type UploadsResponse struct {
	URLs  []string       `json:"urls"`
	Media []domain.Media `json:"media"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}
