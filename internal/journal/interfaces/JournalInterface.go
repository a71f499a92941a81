package interfaces

import "ctd/internal/models"

type JournalInterface interface {
	Record(kind models.TransitionKind, caseID string)
	Events() []*models.TransitionEvent
	PutEvents(events []*models.TransitionEvent)
	Size() int
}
