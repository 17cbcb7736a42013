package domain

import "time"

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
)

type Session struct {
	Title   string    `json:"title"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type Event struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	ShortDescription string      `json:"shortDescription"`
	LongDescription  string      `json:"longDescription"`
	OrganizerID      string      `json:"organizerId"`
	VenueID          *string     `json:"venueId"`
	Status           EventStatus `json:"status"`
	Category         string      `json:"category"`
	Tags             []string    `json:"tags"`
	Images           []string    `json:"images"`
	StartAt          time.Time   `json:"startAt"`
	EndAt            time.Time   `json:"endAt"`
	Timezone         string      `json:"timezone"`
	Sessions         []Session   `json:"sessions"`
	Capacity         *int        `json:"capacity"`
	AgeLimit         *int        `json:"ageLimit"`
	AllowReentry     bool        `json:"allowReentry"`
	RefundsAllowed   bool        `json:"refundsAllowed"`
	PublishedAt      *time.Time  `json:"publishedAt"`
	Views            int         `json:"views"`
	Favorites        int         `json:"favorites"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type EventFilter struct {
	Status      EventStatus
	Category    string
	OrganizerID string
}
