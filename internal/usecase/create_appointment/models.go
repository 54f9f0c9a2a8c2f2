package create_appointment

// Request модель запроса на создание записи
type Request struct {
	SalonID    int64   `json:"salonId"`
	Customer   string  `json:"customer"`
	Comment    *string `json:"comment,omitempty"`
	ServiceIDs []int64 `json:"serviceIds"`
	SlotIDs    []int64 `json:"slotIds"`
}
