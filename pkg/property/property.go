package property

// Summary is the display projection of a listing used for comparison.
// It is copied into a comparison set on add and never refreshed afterwards,
// so a later edit of the listing does not change an already selected card.
type Summary struct {
	Id           string  `json:"id"`
	Title        string  `json:"title"`
	Price        uint64  `json:"price"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Province     string  `json:"province"`
	Bedrooms     uint32  `json:"bedrooms"`
	Bathrooms    uint32  `json:"bathrooms"`
	Area         float64 `json:"area"`
	PropertyType string  `json:"property_type"`
	ImageUrl     string  `json:"image_url"`

	// Extended display fields. Optional everywhere: real listings usually
	// carry none of them and the comparison view falls back to defaults.
	YearBuilt uint32   `json:"year_built,omitempty"`
	Floors    uint32   `json:"floors,omitempty"`
	Garage    uint32   `json:"garage,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	Heating   string   `json:"heating,omitempty"`
	Cooling   string   `json:"cooling,omitempty"`
}
