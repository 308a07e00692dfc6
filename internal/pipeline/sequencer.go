package pipeline

import "sync/atomic"

// Sequencer hands out increasing request ids so that only the completion
// of the latest request is applied. The zero value is ready to use; id 0
// is never issued.
type Sequencer struct {
	n atomic.Uint64
}

// Next issues a new id, superseding every earlier one.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Current is the most recently issued id.
func (s *Sequencer) Current() uint64 { return s.n.Load() }

// IsCurrent reports whether id is still the latest request.
func (s *Sequencer) IsCurrent(id uint64) bool { return id != 0 && id == s.n.Load() }
