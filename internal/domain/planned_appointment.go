package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedAppointment is a validated allocation ready to be reserved.
// Slots are sorted by time_from and form one contiguous run.
type PlannedAppointment struct {
	SalonID     int64
	Customer    string
	Comment     *string
	Date        time.Time
	Services    []Service
	Slots       []Slot
	TotalAmount decimal.Decimal
}

// SlotIDs returns ids of the planned slots in order
func (p *PlannedAppointment) SlotIDs() []int64 {
	ids := make([]int64, 0, len(p.Slots))
	for _, s := range p.Slots {
		ids = append(ids, s.ID)
	}
	return ids
}
