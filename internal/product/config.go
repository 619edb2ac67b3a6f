package product

import (
	"github.com/shopspring/decimal"
)

// Category classifies an offered service
type Category string

const (
	CategoryTraining Category = "training"
	CategoryWorkshop Category = "workshop"
	CategoryLecture  Category = "lecture"
	CategoryExam     Category = "exam"
)

// Plan identifies a subscription plan
type Plan string

const (
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
	PlanVerband Plan = "verband"
)

// Branding holds the school's visual identity
type Branding struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

// Wording holds the school's custom terminology
type Wording struct {
	LevelTerm string `json:"levelTerm"`
	VIPTerm   string `json:"vipTerm"`
}

// Service is one bookable offer of the school. A nil ID marks a service that
// was created in the console but not yet persisted by the backend.
type Service struct {
	ID       *int64          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// Persisted reports whether the backend has assigned an id
func (s *Service) Persisted() bool {
	return s.ID != nil
}

// Requirement is the number of times a service must be completed to reach a
// level. ServiceID references a persisted Service.
type Requirement struct {
	ID            *int64 `json:"id,omitempty"`
	ServiceID     int64  `json:"serviceId"`
	RequiredCount int    `json:"requiredCount"`
}

// Level is one rank in the school's gamified progression
type Level struct {
	ID            *int64        `json:"id,omitempty"`
	Name          string        `json:"name"`
	RankOrder     int           `json:"rankOrder"`
	BadgeImageURL string        `json:"badgeImageUrl,omitempty"`
	Requirements  []Requirement `json:"requirements"`
}

// Config is the full tenant configuration edited by the settings console. It
// is loaded wholesale from the backend, mutated in memory and written back
// wholesale on save.
type Config struct {
	SchoolName string    `json:"schoolName"`
	Branding   Branding  `json:"branding"`
	Wording    Wording   `json:"wording"`
	Services   []Service `json:"services"`
	Levels     []Level   `json:"levels"`
}

// ServiceByID returns the persisted service with the given id
func (c *Config) ServiceByID(id int64) (*Service, bool) {
	for i := range c.Services {
		if c.Services[i].ID != nil && *c.Services[i].ID == id {
			return &c.Services[i], true
		}
	}
	return nil, false
}

// PersistedServices returns the services a requirement may reference.
// Unsaved services are excluded so a requirement can never point at an id
// the backend has not assigned yet.
func (c *Config) PersistedServices() []Service {
	out := make([]Service, 0, len(c.Services))
	for _, svc := range c.Services {
		if svc.Persisted() {
			out = append(out, svc)
		}
	}
	return out
}

// ReassignRanks renumbers levels by position. Rank order follows the slice,
// not whatever the levels carried before a reorder.
func (c *Config) ReassignRanks() {
	for i := range c.Levels {
		c.Levels[i].RankOrder = i + 1
	}
}
