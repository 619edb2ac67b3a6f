package product

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrServiceNameRequired is returned for a service without a name
	ErrServiceNameRequired = errors.New("service name is required")
	// ErrNegativePrice is returned for a service with a price below zero
	ErrNegativePrice = errors.New("service price must not be negative")
	// ErrInvalidCategory is returned for an unknown service category
	ErrInvalidCategory = errors.New("unknown service category")
	// ErrRequiredCountTooLow is returned for a requirement count below one
	ErrRequiredCountTooLow = errors.New("requirement count must be at least 1")
	// ErrUnsavedServiceReference is returned when a requirement references a
	// service id the backend has not assigned
	ErrUnsavedServiceReference = errors.New("requirement references an unsaved service")
)

// Validate checks the configuration before it is written back to the backend
func (c *Config) Validate() error {
	for i := range c.Services {
		svc := &c.Services[i]
		if svc.Name == "" {
			return fmt.Errorf("service %d: %w", i, ErrServiceNameRequired)
		}
		switch svc.Category {
		case CategoryTraining, CategoryWorkshop, CategoryLecture, CategoryExam:
		default:
			return fmt.Errorf("service %q: %w", svc.Name, ErrInvalidCategory)
		}
		if svc.Price.LessThan(decimal.Zero) {
			return fmt.Errorf("service %q: %w", svc.Name, ErrNegativePrice)
		}
	}

	for _, lvl := range c.Levels {
		for _, req := range lvl.Requirements {
			if req.RequiredCount < 1 {
				return fmt.Errorf("level %q: %w", lvl.Name, ErrRequiredCountTooLow)
			}
			if _, ok := c.ServiceByID(req.ServiceID); !ok {
				return fmt.Errorf("level %q, service id %d: %w", lvl.Name, req.ServiceID, ErrUnsavedServiceReference)
			}
		}
	}
	return nil
}
