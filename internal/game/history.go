package game

import (
	"fmt"

	"github.com/rawblock/arkham-companion/internal/deck"
)

// timeline is the linear history of one label: a list of immutable pile
// snapshots plus an index pointing at the current one. A nil entry means
// the pile is absent at that point (e.g. Terror for a non-terror scenario,
// or a neighbourhood before it was unlocked).
type timeline struct {
	states []deck.Pile
	idx    int
}

func newTimeline(start deck.Pile) *timeline {
	return &timeline{states: []deck.Pile{start}}
}

// current returns the live pile value.
func (t *timeline) current() deck.Pile { return t.states[t.idx] }

// truncate drops all forward history past the current index.
func (t *timeline) truncate() { t.states = t.states[:t.idx+1] }

// record appends a deep copy of the current value and advances the index,
// so mutations land on the copy and every older snapshot stays frozen.
func (t *timeline) record() {
	t.truncate()
	cur := t.current()
	if cur == nil {
		t.states = append(t.states, nil)
	} else {
		t.states = append(t.states, cur.Clone())
	}
	t.idx++
}

func (t *timeline) undo() error {
	if t.idx == 0 {
		return fmt.Errorf("%w: nothing to undo", deck.ErrInvalidOp)
	}
	t.idx--
	return nil
}

func (t *timeline) redo() error {
	if t.idx+1 >= len(t.states) {
		return fmt.Errorf("%w: nothing to redo", deck.ErrInvalidOp)
	}
	t.idx++
	return nil
}

// histories is the per-label timeline set.
type histories struct {
	timelines map[Label]*timeline
}

func newHistories() *histories {
	return &histories{timelines: make(map[Label]*timeline)}
}

// init installs the starting value for a label.
func (h *histories) init(l Label, p deck.Pile) {
	h.timelines[l] = newTimeline(p)
}

// install adds a label that did not exist at game start (an unlocked
// neighbourhood). The fresh timeline starts at nil so an undo removes the
// pile again.
func (h *histories) install(l Label, p deck.Pile) {
	t := newTimeline(nil)
	t.states = append(t.states, p)
	t.idx = 1
	h.timelines[l] = t
}

// current returns the live pile under a label, or nil when absent.
func (h *histories) current(l Label) deck.Pile {
	t, ok := h.timelines[l]
	if !ok {
		return nil
	}
	return t.current()
}

// record checkpoints the given labels. Any mutation invalidates the
// forward history of every label, not just the touched ones, so redo never
// replays states that no longer connect.
func (h *histories) record(cs ChangeSet) {
	for _, t := range h.timelines {
		t.truncate()
	}
	for l := range cs {
		if t, ok := h.timelines[l]; ok {
			t.record()
		}
	}
}

// undo steps every listed label back one snapshot.
func (h *histories) undo(cs ChangeSet) error {
	for l := range cs {
		t, ok := h.timelines[l]
		if !ok {
			return fmt.Errorf("%w: label %s", deck.ErrNotFound, l)
		}
		if err := t.undo(); err != nil {
			return err
		}
	}
	return nil
}

// redo steps every listed label forward one snapshot.
func (h *histories) redo(cs ChangeSet) error {
	for l := range cs {
		t, ok := h.timelines[l]
		if !ok {
			return fmt.Errorf("%w: label %s", deck.ErrNotFound, l)
		}
		if err := t.redo(); err != nil {
			return err
		}
	}
	return nil
}
