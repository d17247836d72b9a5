package metrics

import (
	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
)

// SyncTime records the first time the global order reached threshold,
// or -1 if it never did.
type SyncTime struct {
	name      string
	threshold float64
	at        float64
	reached   bool
}

func NewSyncTime(threshold float64) *SyncTime {
	return &SyncTime{
		name:      "sync_time",
		threshold: threshold,
	}
}

func (s *SyncTime) Name() string {
	return s.name
}

func (s *SyncTime) Observe(x dynamo.State, t float64) {
	if s.reached {
		return
	}
	if analysis.GlobalOrder(x) >= s.threshold {
		s.at = t
		s.reached = true
	}
}

func (s *SyncTime) Value() float64 {
	if !s.reached {
		return -1
	}
	return s.at
}

func (s *SyncTime) Reset() {
	s.at = 0
	s.reached = false
}
