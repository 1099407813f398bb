package usecase

import (
	"sync/atomic"

	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

// ClassifierSlot holds the process-wide classifier once it has been loaded.
// It can be filled exactly once and is safe for concurrent use.
type ClassifierSlot struct {
	v atomic.Pointer[classifierBox]
}

type classifierBox struct {
	classifier service.Classifier
}

// NewClassifierSlot creates an empty slot
func NewClassifierSlot() *ClassifierSlot {
	return &ClassifierSlot{}
}

// Set stores the classifier. It returns false if one was already stored.
func (s *ClassifierSlot) Set(c service.Classifier) bool {
	return s.v.CompareAndSwap(nil, &classifierBox{classifier: c})
}

// Get returns the loaded classifier, if any
func (s *ClassifierSlot) Get() (service.Classifier, bool) {
	box := s.v.Load()
	if box == nil {
		return nil, false
	}
	return box.classifier, true
}
