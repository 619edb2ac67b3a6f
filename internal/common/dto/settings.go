package dto

import "github.com/shopspring/decimal"

// SettingsRequest represents a settings save submission. The shape mirrors
// the console's settings form, not the backend wire contract; the handler
// maps one onto the other.
type SettingsRequest struct {
	SchoolName     string           `json:"school_name" binding:"required"`
	PrimaryColor   string           `json:"primary_color"`
	SecondaryColor string           `json:"secondary_color"`
	LogoURL        string           `json:"logo_url"`
	LevelTerm      string           `json:"level_term"`
	VIPTerm        string           `json:"vip_term"`
	Services       []ServiceRequest `json:"services"`
	Levels         []LevelRequest   `json:"levels"`
}

// ServiceRequest represents one service row in the settings form
type ServiceRequest struct {
	ID       *int64          `json:"id,omitempty"`
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category" binding:"required"`
	Price    decimal.Decimal `json:"price"`
}

// LevelRequest represents one level row in the settings form
type LevelRequest struct {
	ID            *int64               `json:"id,omitempty"`
	Name          string               `json:"name" binding:"required"`
	BadgeImageURL string               `json:"badge_image_url"`
	Requirements  []RequirementRequest `json:"requirements"`
}

// RequirementRequest represents one requirement row inside a level
type RequirementRequest struct {
	ID            *int64 `json:"id,omitempty"`
	ServiceID     int64  `json:"service_id" binding:"required"`
	RequiredCount int    `json:"required_count" binding:"required"`
}

// UploadResponse represents a completed image upload
type UploadResponse struct {
	URL string `json:"url"`
}
