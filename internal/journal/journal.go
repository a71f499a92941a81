package journal

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ctd/internal/journal/interfaces"
	"ctd/internal/models"
	"ctd/internal/structures"
)

const defaultMaxEvents = 10000

// Journal buffers committed timer transitions in memory. The scheduler
// flushes it to disk periodically and on shutdown. The buffer is bounded,
// oldest events are dropped first.
type Journal struct {
	mu     sync.Mutex
	events []*models.TransitionEvent
	max    int
	now    func() time.Time
}

func NewJournal(conf *structures.Config) interfaces.JournalInterface {
	maxEvents := conf.Journal.MaxEvents
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	return &Journal{
		events: make([]*models.TransitionEvent, 0),
		max:    maxEvents,
		now:    time.Now,
	}
}

func (j *Journal) Record(kind models.TransitionKind, caseID string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events = append(j.events, &models.TransitionEvent{
		ID:     uuid.NewString(),
		CaseID: caseID,
		Kind:   kind,
		At:     j.now(),
	})
	if len(j.events) > j.max {
		j.events = j.events[len(j.events)-j.max:]
	}
}

func (j *Journal) Events() []*models.TransitionEvent {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*models.TransitionEvent, len(j.events))
	copy(out, j.events)
	return out
}

func (j *Journal) PutEvents(events []*models.TransitionEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(events) > j.max {
		events = events[len(events)-j.max:]
	}
	j.events = make([]*models.TransitionEvent, len(events))
	copy(j.events, events)
}

func (j *Journal) Size() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}
