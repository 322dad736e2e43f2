package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyCategory classifies a listed property.
type PropertyCategory string

const (
	PropertyCategoryResidential PropertyCategory = "residential"
	PropertyCategoryCommercial  PropertyCategory = "commercial"
	PropertyCategoryIndustrial  PropertyCategory = "industrial"
	PropertyCategoryLand        PropertyCategory = "land"
)

// PropertyListingType is how the property is offered.
type PropertyListingType string

const (
	PropertyListingSell  PropertyListingType = "sell"
	PropertyListingRent  PropertyListingType = "rent"
	PropertyListingLease PropertyListingType = "lease"
)

// PropertyStatus is the availability of a listing.
type PropertyStatus string

const (
	PropertyStatusRented       PropertyStatus = "rented"
	PropertyStatusSold         PropertyStatus = "sold"
	PropertyStatusUpForRenting PropertyStatus = "up_for_renting"
	PropertyStatusAvailable    PropertyStatus = "available"
)

// Property is a listing pinned on the map. Area is in square feet.
type Property struct {
	ID            string
	Title         string
	Description   string
	Category      PropertyCategory
	ListingType   PropertyListingType
	Price         decimal.Decimal
	Area          decimal.Decimal
	ContactNumber string
	Location      GeoPoint
	Status        PropertyStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
