package avatar

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"avatard/internal/avatar/interfaces"
	"avatard/internal/providers"
	"avatard/internal/structures"
)

// Revalidator is the slice of the avatar service the scheduler needs.
type Revalidator interface {
	RevalidateAll(ctx context.Context, identities []string) map[string]bool
}

// Scheduler runs the background jobs: snapshot persistence, expired-entry
// sweeps, and revalidation of records nearing expiry. All jobs run off the
// request path.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	revalidator Revalidator
	store       *RecordStore
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted snapshot to file %s", s.config.Persistence.FilePath)
	})

	if sweepEvery := s.config.Store.SweepEvery; sweepEvery > 0 {
		s.cron.AddFunc(gron.Every(sweepEvery), func() {
			if removed := s.store.ClearExpired(); removed > 0 {
				s.logger.Infof(providers.TypeApp, "Sweep removed %d expired records", removed)
			}
		})
	}

	s.cron.AddFunc(gron.Every(s.config.Revalidation.Interval), s.revalidateExpiring)

	s.cron.Start()
}

// revalidateExpiring picks the records closest to expiry and refreshes them
// in the background.
func (s *Scheduler) revalidateExpiring() {
	identities := s.store.ExpiringWithin(s.config.Revalidation.ExpiryWindow, s.config.Revalidation.BatchLimit)
	if len(identities) == 0 {
		return
	}

	s.logger.Infof(providers.TypeRevalidate, "Revalidating %d records nearing expiry", len(identities))
	results := s.revalidator.RevalidateAll(context.Background(), identities)

	refreshed := 0
	for _, ok := range results {
		if ok {
			refreshed++
		}
	}
	s.logger.Infof(providers.TypeRevalidate, "Revalidation pass done: %d/%d refreshed", refreshed, len(identities))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshot to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, revalidator Revalidator, store *RecordStore, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		revalidator: revalidator,
		store:       store,
		fileManager: fileManager,
	}
}
