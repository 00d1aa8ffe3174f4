// Package game holds the authoritative game state: every live pile keyed
// by a stable label, the operation vocabulary that mutates them, and the
// snapshot-per-label history engine with its per-player change-logs.
package game

import "github.com/rawblock/arkham-companion/internal/catalog"

// Label names a pile. The label set is the eight fixed labels plus one
// label per neighbourhood; labels are the unit of history.
type Label string

const (
	LabelEventDeck      Label = "EventDeck"
	LabelEventDiscard   Label = "EventDiscard"
	LabelHeadline       Label = "Headline"
	LabelCodex          Label = "Codex"
	LabelArchive        Label = "Archive"
	LabelTerror         Label = "Terror"
	LabelRumor          Label = "Rumor"
	LabelActionRequired Label = "ActionRequired"
)

// NeighbourhoodLabel is the label of a neighbourhood pile.
func NeighbourhoodLabel(nb catalog.Neighbourhood) Label { return Label(nb) }

// ChangeSet is the set of labels one player action touched; it is the
// atomic unit of undo.
type ChangeSet map[Label]struct{}

// NewChangeSet builds a change-set from labels.
func NewChangeSet(labels ...Label) ChangeSet {
	cs := make(ChangeSet, len(labels))
	for _, l := range labels {
		cs[l] = struct{}{}
	}
	return cs
}

// Intersects reports whether the two sets share a label.
func (cs ChangeSet) Intersects(other ChangeSet) bool {
	for l := range cs {
		if _, ok := other[l]; ok {
			return true
		}
	}
	return false
}

// Labels returns the member labels in unspecified order.
func (cs ChangeSet) Labels() []Label {
	ls := make([]Label, 0, len(cs))
	for l := range cs {
		ls = append(ls, l)
	}
	return ls
}
