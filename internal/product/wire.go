package product

import (
	"github.com/shopspring/decimal"
)

// The backend speaks snake_case. These types mirror its /api/config and
// /api/settings payloads; any change here is a breaking change against the
// backend contract.
type (
	WireConfig struct {
		SchoolName     string        `json:"school_name"`
		PrimaryColor   string        `json:"primary_color"`
		SecondaryColor string        `json:"secondary_color"`
		LogoURL        string        `json:"logo_url,omitempty"`
		LevelTerm      string        `json:"level_term"`
		VIPTerm        string        `json:"vip_term"`
		Services       []WireService `json:"services"`
		Levels         []WireLevel   `json:"levels"`
	}

	WireService struct {
		ID       *int64          `json:"id,omitempty"`
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Price    decimal.Decimal `json:"price"`
	}

	WireLevel struct {
		ID            *int64            `json:"id,omitempty"`
		Name          string            `json:"name"`
		RankOrder     int               `json:"rank_order"`
		BadgeImageURL string            `json:"badge_image_url,omitempty"`
		Requirements  []WireRequirement `json:"requirements"`
	}

	WireRequirement struct {
		ID            *int64 `json:"id,omitempty"`
		ServiceID     int64  `json:"service_id"`
		RequiredCount int    `json:"required_count"`
	}
)

// FromWire maps the backend shape onto the console model
func FromWire(w *WireConfig) *Config {
	cfg := &Config{
		SchoolName: w.SchoolName,
		Branding: Branding{
			PrimaryColor:   w.PrimaryColor,
			SecondaryColor: w.SecondaryColor,
			LogoURL:        w.LogoURL,
		},
		Wording: Wording{
			LevelTerm: w.LevelTerm,
			VIPTerm:   w.VIPTerm,
		},
		Services: make([]Service, 0, len(w.Services)),
		Levels:   make([]Level, 0, len(w.Levels)),
	}

	for _, s := range w.Services {
		cfg.Services = append(cfg.Services, Service{
			ID:       s.ID,
			Name:     s.Name,
			Category: Category(s.Category),
			Price:    s.Price,
		})
	}

	for _, l := range w.Levels {
		lvl := Level{
			ID:            l.ID,
			Name:          l.Name,
			RankOrder:     l.RankOrder,
			BadgeImageURL: l.BadgeImageURL,
			Requirements:  make([]Requirement, 0, len(l.Requirements)),
		}
		for _, r := range l.Requirements {
			lvl.Requirements = append(lvl.Requirements, Requirement{
				ID:            r.ID,
				ServiceID:     r.ServiceID,
				RequiredCount: r.RequiredCount,
			})
		}
		cfg.Levels = append(cfg.Levels, lvl)
	}

	return cfg
}

// ToWire maps the console model back onto the backend shape
func ToWire(c *Config) *WireConfig {
	w := &WireConfig{
		SchoolName:     c.SchoolName,
		PrimaryColor:   c.Branding.PrimaryColor,
		SecondaryColor: c.Branding.SecondaryColor,
		LogoURL:        c.Branding.LogoURL,
		LevelTerm:      c.Wording.LevelTerm,
		VIPTerm:        c.Wording.VIPTerm,
		Services:       make([]WireService, 0, len(c.Services)),
		Levels:         make([]WireLevel, 0, len(c.Levels)),
	}

	for _, s := range c.Services {
		w.Services = append(w.Services, WireService{
			ID:       s.ID,
			Name:     s.Name,
			Category: string(s.Category),
			Price:    s.Price,
		})
	}

	for _, l := range c.Levels {
		wl := WireLevel{
			ID:            l.ID,
			Name:          l.Name,
			RankOrder:     l.RankOrder,
			BadgeImageURL: l.BadgeImageURL,
			Requirements:  make([]WireRequirement, 0, len(l.Requirements)),
		}
		for _, r := range l.Requirements {
			wl.Requirements = append(wl.Requirements, WireRequirement{
				ID:            r.ID,
				ServiceID:     r.ServiceID,
				RequiredCount: r.RequiredCount,
			})
		}
		w.Levels = append(w.Levels, wl)
	}

	return w
}
