package generator

import "time"

// Conflict дата, пропущенная из-за пересечения с существующими слотами
type Conflict struct {
	Date    time.Time
	Message string
}

// Report результат генерации слотов одного салона
type Report struct {
	SalonID        int64
	DatesProcessed int
	SlotsCreated   int
	Conflicts      []Conflict
}

func newReport(salonID int64) *Report {
	return &Report{
		SalonID:   salonID,
		Conflicts: make([]Conflict, 0),
	}
}

// HasConflicts возвращает true, если хотя бы одна дата была пропущена
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}
