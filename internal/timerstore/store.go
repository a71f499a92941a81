package timerstore

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	json "github.com/goccy/go-json"

	"ctd/internal/bus"
	"ctd/internal/models"
	"ctd/internal/providers"
	"ctd/internal/structures"
)

type StoreInterface interface {
	Load() *models.ActiveTimerRecord
	Save(record *models.ActiveTimerRecord) error
	Clear() error
	Close()
}

// Store holds the single persisted ActiveTimerRecord in a JSON state file.
// Save and Clear publish SignalTimerChanged only after the write is durable.
// A filesystem watcher picks up writes made by another process to the same
// file and republishes them, deduplicated against this process's own writes.
type Store struct {
	path    string
	bus     bus.BusInterface
	logger  providers.Logger
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	lastBytes []byte // content of the last write this process made or observed
	done      chan struct{}
}

func NewStore(conf *structures.Config, b bus.BusInterface, logger providers.Logger) (StoreInterface, error) {
	path := conf.Timer.StatePath
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	s := &Store{
		path:    path,
		bus:     b,
		logger:  logger,
		watcher: watcher,
		done:    make(chan struct{}),
	}

	if data, err := os.ReadFile(path); err == nil {
		s.lastBytes = data
	}

	go s.watch()
	return s, nil
}

func (s *Store) Load() *models.ActiveTimerRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var record models.ActiveTimerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.logger.Warnf(providers.TypeTimer, "Malformed timer state at %s, treating as absent", s.path)
		return nil
	}
	if !record.Valid() {
		return nil
	}
	return &record
}

func (s *Store) Save(record *models.ActiveTimerRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	err = s.writeLocked(data)
	if err == nil {
		s.lastBytes = data
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.Publish(bus.SignalTimerChanged)
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		s.mu.Unlock()
		return err
	}
	s.lastBytes = nil
	s.mu.Unlock()

	s.bus.Publish(bus.SignalTimerChanged)
	return nil
}

func (s *Store) Close() {
	close(s.done)
	_ = s.watcher.Close()
}

func (s *Store) writeLocked(data []byte) error {
	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}

// watch republishes out-of-process state changes. Events caused by this
// process's own Save/Clear are filtered out by content comparison, so
// subscribers only hear each change once.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
				event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Remove) {
				s.handleExternalChange()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warnf(providers.TypeTimer, "State watcher error: %s", err)
		}
	}
}

func (s *Store) handleExternalChange() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		data = nil
	}

	s.mu.Lock()
	changed := !bytes.Equal(data, s.lastBytes)
	if changed {
		s.lastBytes = data
	}
	s.mu.Unlock()

	if changed {
		s.logger.Debugf(providers.TypeTimer, "Timer state changed externally")
		s.bus.Publish(bus.SignalTimerChanged)
	}
}
