package backup

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"vibes/internal/backup/interfaces"
	"vibes/internal/providers"
	"vibes/internal/services"
	"vibes/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.CollectionServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		if !s.service.TakeDirty() {
			return
		}
		if err := s.save(); err != nil {
			s.service.MarkDirty()
			s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Backup written to %s", s.config.Persistence.FilePath)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return s.fileManager.LoadFromFile(ctx, s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeApp, "Writing collection backup...")
	if err := s.save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) save() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	err := s.fileManager.SaveToFile(ctx, s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.CollectionServiceInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
