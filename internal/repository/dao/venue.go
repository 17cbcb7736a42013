package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrVenueNotFound = errors.New("venue not found")

type Venue struct {
	Model

	Name          string `gorm:"not null"`
	AddressLine1  string
	AddressLine2  string
	City          string `gorm:"index"`
	State         string
	PostalCode    string
	Country       string `gorm:"index"`
	Latitude      *float64
	Longitude     *float64
	Capacity      *int
	Accessibility string
	ContactName   string
	ContactPhone  string
	ContactEmail  string
}

type VenueFilter struct {
	City        string
	Country     string
	MinCapacity *int
}

type VenueDAO struct {
	db *gorm.DB
}

func NewVenueDAO(db *gorm.DB) *VenueDAO {
	return &VenueDAO{
		db: db,
	}
}

func (d *VenueDAO) Insert(ctx context.Context, venue Venue) (Venue, error) {
	if err := d.db.WithContext(ctx).Create(&venue).Error; err != nil {
		return Venue{}, err
	}

	return venue, nil
}

func (d *VenueDAO) FindByID(ctx context.Context, id string) (Venue, error) {
	var venue Venue

	result := d.db.WithContext(ctx).First(&venue, "id = ?", id)
	if result.Error != nil {
		return Venue{}, notFound(result.Error, ErrVenueNotFound)
	}

	return venue, nil
}

func (d *VenueDAO) FindAll(ctx context.Context, filter VenueFilter) ([]Venue, error) {
	var venues []Venue

	query := d.db.WithContext(ctx).Order("name ASC")
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.MinCapacity != nil {
		query = query.Where("capacity >= ?", *filter.MinCapacity)
	}

	if err := query.Find(&venues).Error; err != nil {
		return nil, err
	}

	return venues, nil
}

// FindWithCoordinates returns every venue that has a latitude and longitude.
func (d *VenueDAO) FindWithCoordinates(ctx context.Context) ([]Venue, error) {
	var venues []Venue

	err := d.db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&venues).Error
	if err != nil {
		return nil, err
	}

	return venues, nil
}

func (d *VenueDAO) Update(ctx context.Context, venue Venue) (Venue, error) {
	result := d.db.WithContext(ctx).Model(&venue).Select("*").Omit("ID", "CreatedAt").Updates(&venue)
	if result.Error != nil {
		return Venue{}, notFound(result.Error, ErrVenueNotFound)
	}
	if result.RowsAffected == 0 {
		return Venue{}, ErrVenueNotFound
	}

	return d.FindByID(ctx, venue.ID)
}

func (d *VenueDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Venue{}, "id = ?", id)
	if result.Error != nil {
		return notFound(result.Error, ErrVenueNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrVenueNotFound
	}

	return nil
}
