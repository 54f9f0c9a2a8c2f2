package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	catalogClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/planner"
)

// UseCase use case для создания записи: каталог -> планировщик -> бронирование
type UseCase struct {
	catalog CatalogClient
	planner Planner
	booking Booking
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalog CatalogClient, planner Planner, booking Booking, logger Logger) *UseCase {
	return &UseCase{
		catalog: catalog,
		planner: planner,
		booking: booking,
		logger:  logger,
	}
}

// Execute выполняет use case создания записи
// Планирование не меняет доступность слотов, все изменения делает Reserve в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("CreateAppointment: salon=%d, customer=%s, services=%v, slots=%v",
		req.SalonID, req.Customer, req.ServiceIDs, req.SlotIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем салон
	if _, err := uc.catalog.GetSalon(ctx, req.SalonID); err != nil {
		if errors.Is(err, catalogClient.ErrSalonNotFound) {
			uc.logger.Warn("CreateAppointment: salon id=%d not found", req.SalonID)
			return nil, domain.ErrSalonNotFound.Wrap("salon %d", req.SalonID)
		}
		uc.logger.Error("CreateAppointment: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 3. Получаем услуги в порядке запроса
	services, err := uc.catalog.GetServices(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: services %v not found: %v", req.ServiceIDs, err)
			return nil, domain.ErrServiceNotFound.WithCause(err)
		}
		uc.logger.Error("CreateAppointment: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	// 4. Планируем
	planned, err := uc.planner.Plan(ctx, &planner.Request{
		SalonID:  req.SalonID,
		Customer: strings.TrimSpace(req.Customer),
		Comment:  req.Comment,
		Services: services,
		SlotIDs:  req.SlotIDs,
	})
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: planning failed: %v", err)
		return nil, fmt.Errorf("%w: failed to plan appointment: %w", ErrInternal, err)
	}

	// 5. Резервируем
	appointment, err := uc.booking.Reserve(ctx, planned)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: reservation failed: %v", err)
		return nil, fmt.Errorf("%w: failed to reserve slots: %w", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", appointment.ID)
	return appointment, nil
}
