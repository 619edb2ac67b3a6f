package preview

import (
	"fmt"
	"strconv"

	"github.com/mikajoos-cmyk/pfotencard/internal/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchemaVersion is the version of the transport schema. The embedded preview
// application decodes exactly this shape; bump the version for any change to
// field names or nesting.
const SchemaVersion = 1

// UnknownServiceName is the placeholder used when a requirement references a
// service that no longer exists
const UnknownServiceName = "Unbekannt"

// Payload is the transport schema consumed by the preview application. The
// field names are the external contract, not an internal convenience.
type Payload struct {
	PrimaryColor   string           `json:"primary_color"`
	SecondaryColor string           `json:"secondary_color"`
	SchoolName     string           `json:"school_name"`
	LogoURL        string           `json:"logoUrl,omitempty"`
	Levels         []PayloadLevel   `json:"levels"`
	Services       []PayloadService `json:"services"`
	ViewMode       string           `json:"view_mode"`
	Role           string           `json:"role"`
}

// PayloadService is one service entry in the transport schema
type PayloadService struct {
	ID       *int64          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// PayloadLevel is one level entry in the transport schema
type PayloadLevel struct {
	ID            *int64               `json:"id,omitempty"`
	Name          string               `json:"name"`
	RankOrder     int                  `json:"rank_order"`
	BadgeImageURL string               `json:"badgeImageUrl,omitempty"`
	Requirements  []PayloadRequirement `json:"requirements"`
}

// PayloadRequirement is a requirement expanded with the resolved service
// name so the preview never needs to join against the services list
type PayloadRequirement struct {
	ID        string `json:"id"`
	ServiceID int64  `json:"serviceId"`
	Name      string `json:"name"`
	Required  int    `json:"required"`
}

// Project maps the configuration onto the transport schema. Service names
// are resolved at serialization time; a dangling service reference resolves
// to UnknownServiceName rather than failing the projection. Requirements
// without a persisted id get a synthetic one, the referenced service id plus
// a random component, stable enough for one render.
func Project(cfg *product.Config, viewMode, role string) *Payload {
	p := &Payload{
		PrimaryColor:   cfg.Branding.PrimaryColor,
		SecondaryColor: cfg.Branding.SecondaryColor,
		SchoolName:     cfg.SchoolName,
		LogoURL:        cfg.Branding.LogoURL,
		Levels:         make([]PayloadLevel, 0, len(cfg.Levels)),
		Services:       make([]PayloadService, 0, len(cfg.Services)),
		ViewMode:       viewMode,
		Role:           role,
	}

	for _, svc := range cfg.Services {
		p.Services = append(p.Services, PayloadService{
			ID:       svc.ID,
			Name:     svc.Name,
			Category: string(svc.Category),
			Price:    svc.Price,
		})
	}

	for _, lvl := range cfg.Levels {
		pl := PayloadLevel{
			ID:            lvl.ID,
			Name:          lvl.Name,
			RankOrder:     lvl.RankOrder,
			BadgeImageURL: lvl.BadgeImageURL,
			Requirements:  make([]PayloadRequirement, 0, len(lvl.Requirements)),
		}
		for _, req := range lvl.Requirements {
			name := UnknownServiceName
			if svc, ok := cfg.ServiceByID(req.ServiceID); ok {
				name = svc.Name
			}
			pl.Requirements = append(pl.Requirements, PayloadRequirement{
				ID:        requirementID(req),
				ServiceID: req.ServiceID,
				Name:      name,
				Required:  req.RequiredCount,
			})
		}
		p.Levels = append(p.Levels, pl)
	}

	return p
}

func requirementID(req product.Requirement) string {
	if req.ID != nil {
		return strconv.FormatInt(*req.ID, 10)
	}
	return fmt.Sprintf("%d-%s", req.ServiceID, uuid.NewString()[:8])
}
