package game

import (
	"fmt"

	"github.com/rawblock/arkham-companion/internal/deck"
)

// playerLog keeps, per seated player, the ordered sequence of change-sets
// their actions produced, plus an index into it. Players are identified by
// opaque seat handles so the history engine never aliases connections.
type playerLog struct {
	changes map[string][]ChangeSet
	index   map[string]int // -1 means nothing to undo
}

func newPlayerLog() *playerLog {
	return &playerLog{
		changes: make(map[string][]ChangeSet),
		index:   make(map[string]int),
	}
}

func (pl *playerLog) indexOf(player string) int {
	if i, ok := pl.index[player]; ok {
		return i
	}
	return -1
}

// record appends a change-set for player. Any new action invalidates
// every player's forward change-log, mirroring the label timelines.
func (pl *playerLog) record(player string, cs ChangeSet) {
	for p := range pl.changes {
		pl.changes[p] = pl.changes[p][:pl.indexOf(p)+1]
	}
	pl.changes[player] = append(pl.changes[player], cs)
	pl.index[player] = len(pl.changes[player]) - 1
}

// canUndo applies the non-interference rule: a player may undo only their
// own most recent action, and only if no other player's most recent action
// touched any of the same labels.
func (pl *playerLog) canUndo(player string) bool {
	i := pl.indexOf(player)
	if i < 0 {
		return false
	}
	last := pl.changes[player][i]
	for other := range pl.changes {
		if other == player {
			continue
		}
		j := pl.indexOf(other)
		if j < 0 {
			continue
		}
		if last.Intersects(pl.changes[other][j]) {
			return false
		}
	}
	return true
}

func (pl *playerLog) canRedo(player string) bool {
	return pl.indexOf(player)+1 < len(pl.changes[player])
}

// undo returns the change-set to roll back and steps the player's index.
func (pl *playerLog) undo(player string) (ChangeSet, error) {
	if !pl.canUndo(player) {
		return nil, fmt.Errorf("%w: cannot undo", deck.ErrInvalidOp)
	}
	i := pl.indexOf(player)
	cs := pl.changes[player][i]
	pl.index[player] = i - 1
	return cs, nil
}

// redo steps the player's index forward and returns the change-set to
// replay.
func (pl *playerLog) redo(player string) (ChangeSet, error) {
	if !pl.canRedo(player) {
		return nil, fmt.Errorf("%w: cannot redo", deck.ErrInvalidOp)
	}
	i := pl.indexOf(player) + 1
	pl.index[player] = i
	return pl.changes[player][i], nil
}
