package models

// Dimensions holds the physical size of a product in centimeters.
type Dimensions struct {
	WidthCM  float64 `json:"width_cm"`
	HeightCM float64 `json:"height_cm"`
	DepthCM  float64 `json:"depth_cm"`
}

// Product represents a catalog product. Products are supplied by the static
// catalog resource and are immutable for the lifetime of the process.
type Product struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Stock       int         `json:"stock"`
	Description string      `json:"description,omitempty"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Material    string      `json:"material,omitempty"`
	Colors      []string    `json:"colors,omitempty"`
}
