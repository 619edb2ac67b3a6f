package handler

import (
	"github.com/mikajoos-cmyk/pfotencard/internal/common/dto"
	"github.com/mikajoos-cmyk/pfotencard/internal/product"
)

// configFromRequest maps a settings form submission onto the tenant
// configuration. Level ranks follow the submitted order.
func configFromRequest(req *dto.SettingsRequest) *product.Config {
	cfg := &product.Config{
		SchoolName: req.SchoolName,
		Branding: product.Branding{
			PrimaryColor:   req.PrimaryColor,
			SecondaryColor: req.SecondaryColor,
			LogoURL:        req.LogoURL,
		},
		Wording: product.Wording{
			LevelTerm: req.LevelTerm,
			VIPTerm:   req.VIPTerm,
		},
		Services: make([]product.Service, 0, len(req.Services)),
		Levels:   make([]product.Level, 0, len(req.Levels)),
	}

	for _, svc := range req.Services {
		cfg.Services = append(cfg.Services, product.Service{
			ID:       svc.ID,
			Name:     svc.Name,
			Category: product.Category(svc.Category),
			Price:    svc.Price,
		})
	}

	for _, lvl := range req.Levels {
		level := product.Level{
			ID:            lvl.ID,
			Name:          lvl.Name,
			BadgeImageURL: lvl.BadgeImageURL,
			Requirements:  make([]product.Requirement, 0, len(lvl.Requirements)),
		}
		for _, r := range lvl.Requirements {
			level.Requirements = append(level.Requirements, product.Requirement{
				ID:            r.ID,
				ServiceID:     r.ServiceID,
				RequiredCount: r.RequiredCount,
			})
		}
		cfg.Levels = append(cfg.Levels, level)
	}

	cfg.ReassignRanks()
	return cfg
}
