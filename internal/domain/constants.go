package domain

// Default configuration values
const (
	DefaultSlotLengthMinutes = 20
	DefaultHorizonDays       = 30
)

// Business validation constants
const (
	MinSlotLengthMinutes  = 5
	MaxSlotLengthMinutes  = 480 // 8 hours
	MaxHorizonDays        = 365
	MaxCommentLength      = 500
	MaxCustomerLength     = 255
	MaxSlotsPerBooking    = 96
	MaxServicesPerBooking = 20
	MoneyScale            = 2 // digits after the point in stored prices and totals
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllStatuses every known appointment status
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusFinished,
	StatusCancelled,
}
