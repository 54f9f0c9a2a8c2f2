package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/generator"
)

// ErrInvalidSchedule возвращается при некорректном cron-выражении
var ErrInvalidSchedule = errors.New("scheduler: invalid schedule")

// Generator интерфейс генератора слотов
type Generator interface {
	GenerateAll(ctx context.Context, today time.Time, horizonDays int) ([]*generator.Report, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически продлевает горизонт слотов всех салонов
type Scheduler struct {
	cron        *cron.Cron
	generator   Generator
	logger      Logger
	location    *time.Location
	horizonDays int
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New создает планировщик с cron-выражением spec в часовом поясе location (nil - UTC)
func New(spec string, location *time.Location, horizonDays int, gen Generator, logger Logger) (*Scheduler, error) {
	if location == nil {
		location = time.UTC
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:        cron.New(cron.WithLocation(location)),
		generator:   gen,
		logger:      logger,
		location:    location,
		horizonDays: horizonDays,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: cron %q: %v", ErrInvalidSchedule, spec, err)
	}

	return s, nil
}

// Start запускает cron в фоне
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler: started, horizon=%d days, timezone=%s", s.horizonDays, s.location)
	s.cron.Start()
}

// Stop останавливает cron и ждет завершения текущего запуска, но не дольше ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	defer s.cancel()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler: stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler: stop timed out, cancelling running generation")
		return ctx.Err()
	}
}

// RunOnce генерирует слоты всех салонов на горизонт от сегодняшней даты в часовом поясе планировщика
// Ошибки отдельных салонов логируются и не прерывают остальные
func (s *Scheduler) RunOnce(ctx context.Context) {
	today := s.now().In(s.location)
	started := time.Now()

	reports, err := s.generator.GenerateAll(ctx, today, s.horizonDays)

	created, conflicts := 0, 0
	for _, r := range reports {
		if r == nil {
			continue
		}
		created += r.SlotsCreated
		conflicts += len(r.Conflicts)
	}

	if err != nil {
		s.logger.Error("Scheduler: generation finished with errors in %s: %v", time.Since(started), err)
	}
	s.logger.Info("Scheduler: %d salons processed, %d slots created, %d conflicts",
		len(reports), created, conflicts)
}
