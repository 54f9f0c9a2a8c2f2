package domain

import "github.com/shopspring/decimal"

// Salon is the owner of an operating calendar and of all its slots.
// Salon data lives in the catalog service, only identity is used here.
type Salon struct {
	ID   int64
	Name string
}

// Service is a bookable service offered by a salon (read-only input)
type Service struct {
	ID              int64
	SalonID         int64
	Category        string
	Title           string
	Price           decimal.Decimal
	DurationMinutes int
}

// TotalPrice returns the exact sum of service prices
func TotalPrice(services []Service) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Price)
	}
	return total
}

// TotalDuration returns the summed duration of services in minutes
func TotalDuration(services []Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}
