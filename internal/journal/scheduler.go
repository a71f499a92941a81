package journal

import (
	"sync"
	"time"

	"ctd/internal/journal/interfaces"
	"ctd/internal/providers"
	"ctd/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	fileManager *FileManager
	opsMu       sync.Mutex
	stop        chan struct{}
	done        chan struct{}
}

func (s *Scheduler) Init() {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.config.Journal.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.flush()
			}
		}
	}()
}

func (s *Scheduler) flush() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Journal.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting journal: %s", err)
		return
	}
	s.logger.Debugf(providers.TypeApp, "Persisted journal to file %s", s.config.Journal.FilePath)
}

func (s *Scheduler) Stop() {
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Journal.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting journal to file...")
	err := s.fileManager.SaveToFile(s.config.Journal.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting journal: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		fileManager: fileManager,
	}
}
