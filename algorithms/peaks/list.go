package peaks

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/carbonlab/nexafs-engine/algorithms/common"
)

// ErrNonFiniteEnergy rejects peak energies that are NaN or infinite.
var ErrNonFiniteEnergy = errors.New("peaks: energy is not finite")

// ErrPeakNotFound reports an unknown peak id.
var ErrPeakNotFound = errors.New("peaks: peak not found")

// Source is the provenance of a peak. Auto-detected and manual peaks live
// in the same ordered collection; re-running detection replaces only the
// auto subset.
type Source int

const (
	SourceManual Source = iota
	SourceAuto
)

func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Peak is one annotatable spectral peak. Amplitude and Width are zero when
// unset; curve synthesis substitutes defaults. IsStep flags the step-edge
// pseudo-peak, which sorts first and is excluded from Gaussian synthesis.
type Peak struct {
	ID         string  `json:"id"`
	Energy     float64 `json:"energy"`
	Amplitude  float64 `json:"amplitude,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Bond       string  `json:"bond,omitempty"`
	Transition string  `json:"transition,omitempty"`
	IsStep     bool    `json:"is_step,omitempty"`
	Source     Source  `json:"source"`
}

// List is the ordered peak collection for one spectrum. All mutations keep
// the sort invariant (step peaks first, then ascending energy) and are
// mutex-guarded so auto-detection re-runs serialize against manual edits.
type List struct {
	mu             sync.Mutex
	peaks          []Peak
	seq            int
	onEnergyChange func(id string, energy float64)
}

// NewList creates an empty peak list.
func NewList() *List {
	return &List{}
}

// OnEnergyChange registers a hook invoked after UpdateEnergy, so external
// trackers such as chart annotations follow the peak.
func (l *List) OnEnergyChange(fn func(id string, energy float64)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onEnergyChange = fn
}

// Add inserts a manual peak and returns it with an assigned id. Non-finite
// energies are rejected and no peak is created.
func (l *List) Add(p Peak) (Peak, error) {
	if !common.IsFinite(p.Energy) {
		return Peak{}, ErrNonFiniteEnergy
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p.Source = SourceManual
	if p.ID == "" {
		l.seq++
		p.ID = fmt.Sprintf("manual-%d", l.seq)
	}
	l.peaks = append(l.peaks, p)
	l.sortLocked()
	return p, nil
}

// AddStep inserts the step-edge pseudo-peak at the given energy.
func (l *List) AddStep(energy float64) (Peak, error) {
	return l.Add(Peak{Energy: energy, IsStep: true})
}

// ReplaceAuto swaps the auto-detected subset for newly detected peaks while
// preserving every manual peak. Non-finite detection energies are skipped.
func (l *List) ReplaceAuto(raw []RawPeak) []Peak {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.peaks[:0]
	for _, p := range l.peaks {
		if p.Source != SourceAuto {
			kept = append(kept, p)
		}
	}
	l.peaks = kept

	added := make([]Peak, 0, len(raw))
	for _, r := range raw {
		if !common.IsFinite(r.Energy) {
			continue
		}
		l.seq++
		p := Peak{
			ID:        fmt.Sprintf("auto-%d", l.seq),
			Energy:    r.Energy,
			Amplitude: r.Absorption,
			Width:     r.Width,
			Source:    SourceAuto,
		}
		l.peaks = append(l.peaks, p)
		added = append(added, p)
	}
	l.sortLocked()
	return added
}

// UpdateEnergy moves a peak to a new energy, re-sorts and notifies the
// change hook.
func (l *List) UpdateEnergy(id string, energy float64) error {
	if !common.IsFinite(energy) {
		return ErrNonFiniteEnergy
	}

	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return ErrPeakNotFound
	}
	l.peaks[i].Energy = energy
	l.sortLocked()
	hook := l.onEnergyChange
	l.mu.Unlock()

	if hook != nil {
		hook(id, energy)
	}
	return nil
}

// UpdateAnnotation sets a peak's bond and transition labels.
func (l *List) UpdateAnnotation(id, bond, transition string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return ErrPeakNotFound
	}
	l.peaks[i].Bond = bond
	l.peaks[i].Transition = transition
	return nil
}

// UpdateShape sets a peak's amplitude and width.
func (l *List) UpdateShape(id string, amplitude, width float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return ErrPeakNotFound
	}
	l.peaks[i].Amplitude = amplitude
	l.peaks[i].Width = width
	return nil
}

// Remove deletes one peak by id.
func (l *List) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return false
	}
	l.peaks = append(l.peaks[:i], l.peaks[i+1:]...)
	return true
}

// Clear removes every peak and resets id generation.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.peaks = nil
	l.seq = 0
}

// Peaks returns a snapshot of the ordered collection.
func (l *List) Peaks() []Peak {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Peak, len(l.peaks))
	copy(out, l.peaks)
	return out
}

// Get returns a peak by id.
func (l *List) Get(id string) (Peak, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Peak{}, false
	}
	return l.peaks[i], true
}

// Len returns the number of peaks.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.peaks)
}

func (l *List) indexLocked(id string) int {
	for i, p := range l.peaks {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// sortLocked restores the invariant: step peaks first, then ascending
// energy, stable for equal energies.
func (l *List) sortLocked() {
	sort.SliceStable(l.peaks, func(i, j int) bool {
		if l.peaks[i].IsStep != l.peaks[j].IsStep {
			return l.peaks[i].IsStep
		}
		return l.peaks[i].Energy < l.peaks[j].Energy
	})
}
