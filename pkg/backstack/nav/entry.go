package nav

import (
	"strconv"
	"strings"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
)

// Entry is one open overlay or one phase of a multi-step overlay.
// It is implemented by *Simple and *Step only.
type Entry interface {
	// ID returns the identifier the entry is registered under.
	ID() string

	entry()
}

// Simple is a plain overlay such as a modal or drawer.
type Simple struct {
	Key     string
	OnClose func() // called when a back action closes this overlay
}

// ID returns the overlay key.
func (s *Simple) ID() string { return s.Key }

func (*Simple) entry() {}

// Step is one phase of a multi-step overlay (a wizard). Phase 1 is
// registered under the bare BaseID, later phases under StepID(BaseID, Phase).
type Step struct {
	BaseID       string
	Phase        int
	OnStepChange func(phase int) // called with the previous phase when back steps the wizard backward
	OnClose      func()          // called when a back action closes the wizard
}

// ID returns the derived id of this phase.
func (s *Step) ID() string { return StepID(s.BaseID, s.Phase) }

func (*Step) entry() {}

// StepID derives the registration id for a phase of a multi-step overlay.
func StepID(baseID string, phase int) string {
	if phase <= 1 {
		return baseID
	}
	return baseID + constants.StepSuffix + strconv.Itoa(phase)
}

// belongsTo reports whether e is the overlay prefix itself or one of its
// phases. A Simple key shaped like StepID(prefix, n) counts as a phase.
func belongsTo(e Entry, prefix string) bool {
	switch v := e.(type) {
	case *Step:
		return v.BaseID == prefix
	case *Simple:
		if v.Key == prefix {
			return true
		}
		rest, ok := strings.CutPrefix(v.Key, prefix+constants.StepSuffix)
		if !ok {
			return false
		}
		phase, err := strconv.Atoi(rest)
		return err == nil && phase > 1 && strconv.Itoa(phase) == rest
	}
	return false
}

// refresh copies the callbacks of incoming onto existing without changing
// its identity or position. It returns false, copying nothing, when the two
// are different kinds of entry; the caller swaps the entry instead.
func refresh(existing, incoming Entry) bool {
	switch dst := existing.(type) {
	case *Simple:
		src, ok := incoming.(*Simple)
		if !ok {
			return false
		}
		dst.OnClose = src.OnClose
	case *Step:
		src, ok := incoming.(*Step)
		if !ok {
			return false
		}
		dst.OnClose = src.OnClose
		dst.OnStepChange = src.OnStepChange
	}
	return true
}

func onCloseOf(e Entry) func() {
	switch v := e.(type) {
	case *Simple:
		return v.OnClose
	case *Step:
		return v.OnClose
	}
	return nil
}
