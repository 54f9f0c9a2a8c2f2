package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
	"github.com/m04kA/SMC-SalonScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/pgerr"
)

// Service менеджер транзакций бронирования
// Единственный компонент, который меняет доступность слотов. Резервирование и освобождение
// выполняются в одной транзакции и либо применяются целиком, либо откатываются
type Service struct {
	appointmentRepo AppointmentRepository
	slotRepo        SlotRepository
	txManager       TransactionManager
	metrics         MetricsRecorder
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирования
func NewService(
	appointmentRepo AppointmentRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Reserve резервирует слоты запланированной записи и создает запись в статусе Pending
// Слоты занимаются условным UPDATE ... WHERE is_available = true. Если занято меньше слотов,
// чем запрошено, транзакция откатывается целиком и возвращается ConcurrentReservationConflict
func (s *Service) Reserve(ctx context.Context, planned *domain.PlannedAppointment) (*models.AppointmentResponse, error) {
	if planned == nil || len(planned.Slots) == 0 || len(planned.Services) == 0 {
		return nil, domain.ErrInvalidInput.Wrap("planned appointment must have slots and services")
	}

	slotIDs := planned.SlotIDs()
	s.logger.Info("Reserve: salon=%d, date=%s, slots=%v, customer=%s",
		planned.SalonID, planned.Date.Format(domain.DateFormat), slotIDs, planned.Customer)

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Сериализуемся с генерацией и другими бронированиями этой даты
		if err := s.slotRepo.LockSalonDate(txCtx, planned.SalonID, planned.Date); err != nil {
			return fmt.Errorf("%w: lock salon date: %w", ErrInternal, err)
		}

		// 2. Создаем запись
		appointment := newAppointment(planned)
		created, err := s.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			return fmt.Errorf("%w: create appointment: %w", ErrInternal, err)
		}

		// 3. Условно занимаем слоты
		reserved, err := s.slotRepo.Reserve(txCtx, planned.SalonID, created.ID, slotIDs)
		if err != nil {
			return fmt.Errorf("%w: reserve slots: %w", ErrInternal, err)
		}
		if reserved != int64(len(slotIDs)) {
			return domain.ErrConcurrentReservationConflict.Wrap("reserved %d of %d slots", reserved, len(slotIDs))
		}

		// 4. Связываем услуги и слоты
		if err := s.appointmentRepo.LinkServices(txCtx, created.ID, created.Services); err != nil {
			return fmt.Errorf("%w: link services: %w", ErrInternal, err)
		}
		if err := s.appointmentRepo.LinkSlots(txCtx, created.ID, slotIDs); err != nil {
			return fmt.Errorf("%w: link slots: %w", ErrInternal, err)
		}

		for i := range created.Slots {
			id := created.ID
			created.Slots[i].IsAvailable = false
			created.Slots[i].AppointmentID = &id
		}

		result = created
		return nil
	})

	if err != nil {
		err = conflictOrSelf(err)

		switch {
		case errors.Is(err, domain.ErrConcurrentReservationConflict):
			s.logger.Warn("Reserve: conflict for salon=%d, slots=%v: %v", planned.SalonID, slotIDs, err)
			s.metrics.RecordReservation(metrics.ResultConflict)
		case domain.IsValidation(err):
			s.logger.Warn("Reserve: rejected for salon=%d: %v", planned.SalonID, err)
			s.metrics.RecordReservation(metrics.ResultRejected)
		default:
			s.logger.Error("Reserve: failed for salon=%d: %v", planned.SalonID, err)
			s.metrics.RecordReservation(metrics.ResultError)
		}
		return nil, err
	}

	s.metrics.RecordReservation(metrics.ResultSuccess)
	s.logger.Info("Reserve: created appointment id=%d, %s %s-%s",
		result.ID, result.Date.Format(domain.DateFormat), result.TimeFrom, result.TimeTo)

	return models.FromDomainAppointment(result), nil
}

// Release освобождает слоты записи и переводит ее в Cancelled
// Завершенную или уже отмененную запись освободить нельзя (InvalidTransition)
func (s *Service) Release(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Release: appointment id=%d", id)

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись с блокировкой строки
		appointment, err := s.getAppointment(txCtx, id)
		if err != nil {
			return err
		}

		// 2. Проверяем переход статуса
		if err := appointment.ValidateTransition(domain.StatusCancelled); err != nil {
			return err
		}

		if err := s.slotRepo.LockSalonDate(txCtx, appointment.SalonID, appointment.Date); err != nil {
			return fmt.Errorf("%w: lock salon date: %w", ErrInternal, err)
		}

		// 3. Возвращаем слоты в доступные
		released, err := s.slotRepo.ReleaseByAppointment(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: release slots: %w", ErrInternal, err)
		}
		if released != int64(len(appointment.Slots)) {
			s.logger.Warn("Release: appointment id=%d owned %d slots, released %d",
				id, len(appointment.Slots), released)
		}

		// 4. Меняем статус
		if err := s.updateStatus(txCtx, appointment, domain.StatusCancelled); err != nil {
			return err
		}

		for i := range appointment.Slots {
			appointment.Slots[i].IsAvailable = true
			appointment.Slots[i].AppointmentID = nil
		}

		result = appointment
		return nil
	})

	if err != nil {
		err = conflictOrSelf(err)

		switch {
		case domain.IsNotFound(err) || domain.IsValidation(err):
			s.logger.Warn("Release: rejected for appointment id=%d: %v", id, err)
			s.metrics.RecordRelease(metrics.ResultRejected)
		case domain.IsRetryable(err):
			s.logger.Warn("Release: conflict for appointment id=%d: %v", id, err)
			s.metrics.RecordRelease(metrics.ResultConflict)
		default:
			s.logger.Error("Release: failed for appointment id=%d: %v", id, err)
			s.metrics.RecordRelease(metrics.ResultError)
		}
		return nil, err
	}

	s.metrics.RecordRelease(metrics.ResultSuccess)
	s.logger.Info("Release: appointment id=%d cancelled, %d slots released", id, len(result.Slots))

	return models.FromDomainAppointment(result), nil
}

// Confirm переводит запись из Pending в Confirmed
func (s *Service) Confirm(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return s.transition(ctx, "Confirm", id, domain.StatusConfirmed)
}

// Complete переводит запись из Confirmed в Finished, слоты остаются занятыми
func (s *Service) Complete(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	return s.transition(ctx, "Complete", id, domain.StatusFinished)
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// List получает записи с фильтрацией по салону, клиенту, статусу и периоду
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: salon=%v, customer=%v, status=%v", req.SalonID, req.Customer, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

func (s *Service) transition(ctx context.Context, op string, id int64, next domain.AppointmentStatus) (*models.AppointmentResponse, error) {
	s.logger.Info("%s: appointment id=%d -> %s", op, id, next)

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, id)
		if err != nil {
			return err
		}

		if err := appointment.ValidateTransition(next); err != nil {
			return err
		}

		if err := s.updateStatus(txCtx, appointment, next); err != nil {
			return err
		}

		result = appointment
		return nil
	})

	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			s.logger.Warn("%s: rejected for appointment id=%d: %v", op, id, err)
		} else {
			s.logger.Error("%s: failed for appointment id=%d: %v", op, id, err)
		}
		return nil, err
	}

	s.logger.Info("%s: appointment id=%d is %s", op, id, result.Status)
	return models.FromDomainAppointment(result), nil
}

func (s *Service) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, domain.ErrAppointmentNotFound.Wrap("appointment %d", id)
		}
		return nil, fmt.Errorf("%w: get appointment %d: %v", ErrInternal, id, err)
	}
	return appointment, nil
}

// updateStatus условно меняет статус, гонку с другим переходом отдает как InvalidTransition
func (s *Service) updateStatus(ctx context.Context, appointment *domain.Appointment, next domain.AppointmentStatus) error {
	err := s.appointmentRepo.UpdateStatus(ctx, appointment.ID, domain.AllowedSources(next), next)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			return domain.ErrInvalidTransition.Wrap("appointment %d changed status concurrently", appointment.ID)
		}
		return fmt.Errorf("%w: update status: %w", ErrInternal, err)
	}

	appointment.Status = next
	return nil
}

func newAppointment(planned *domain.PlannedAppointment) *domain.Appointment {
	services := make([]domain.AppointmentService, 0, len(planned.Services))
	for _, s := range planned.Services {
		services = append(services, domain.AppointmentService{
			ServiceID:       s.ID,
			Title:           s.Title,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	slots := make([]domain.Slot, len(planned.Slots))
	copy(slots, planned.Slots)

	return &domain.Appointment{
		SalonID:     planned.SalonID,
		Customer:    planned.Customer,
		Comment:     planned.Comment,
		Status:      domain.StatusPending,
		TotalAmount: planned.TotalAmount,
		Date:        domain.DateOf(planned.Date),
		TimeFrom:    slots[0].TimeFrom,
		TimeTo:      slots[len(slots)-1].TimeTo,
		Services:    services,
		Slots:       slots,
	}
}

// conflictOrSelf превращает сбой сериализации или deadlock в ConcurrentReservationConflict
func conflictOrSelf(err error) error {
	if errors.Is(err, slotRepo.ErrSerializationFailure) || pgerr.IsSerializationFailure(err) {
		return domain.ErrConcurrentReservationConflict.WithCause(err)
	}
	return err
}
