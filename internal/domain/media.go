package domain

import "time"

type Media struct {
	ID        string    `json:"id"`
	OwnerType string    `json:"ownerType"`
	OwnerID   *string   `json:"ownerId"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimeType"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
}
