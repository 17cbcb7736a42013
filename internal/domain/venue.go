package domain

import "time"

type Address struct {
	Line1      string `json:"addressLine1"`
	Line2      string `json:"addressLine2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Contact struct {
	Name  string `json:"contactName"`
	Phone string `json:"contactPhone"`
	Email string `json:"contactEmail"`
}

type Venue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Address
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Capacity      *int     `json:"capacity"`
	Accessibility string   `json:"accessibility"`
	Contact
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type VenueFilter struct {
	City        string
	Country     string
	MinCapacity *int
}

// NearbyVenue is a venue with its distance from the search point.
type NearbyVenue struct {
	Venue
	DistanceKm float64 `json:"distanceKm"`
}
