package list_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// UseCase use case для получения слотов салона
type UseCase struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Execute возвращает слоты салона за период, упорядоченные по (дата, время начала)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListSlots: salon=%d, from=%v, to=%v, availableOnly=%t",
		req.SalonID, req.DateFrom, req.DateTo, req.AvailableOnly)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListSlots: validation failed: %v", err)
		return nil, err
	}

	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		SalonID:       req.SalonID,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		AvailableOnly: req.AvailableOnly,
	})
	if err != nil {
		uc.logger.Error("ListSlots: failed to list slots for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	uc.logger.Info("ListSlots: found %d slots for salon=%d", len(slots), req.SalonID)
	return fromDomainSlots(req.SalonID, slots), nil
}
