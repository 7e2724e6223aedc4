package lookup

import (
	"fmt"
	"strings"
)

// maxTotalDepth bounds the key space at 2^20 entries so a bad configuration
// cannot allocate unbounded memory.
const maxTotalDepth = 20

// Plays captures how much history a table consumes: the deciding player's
// most recent moves, the opponent's most recent moves, and the opponent's
// opening moves.
type Plays struct {
	Self     int `json:"self_depth"`
	Opponent int `json:"opponent_depth"`
	Opening  int `json:"opening_depth"`
}

// Validate ensures the depths describe a usable key space.
func (p Plays) Validate() error {
	if p.Self < 0 || p.Opponent < 0 || p.Opening < 0 {
		return fmt.Errorf("%w: negative depth in %s", ErrConfiguration, p)
	}
	if p.Self+p.Opponent+p.Opening > maxTotalDepth {
		return fmt.Errorf("%w: total depth of %s exceeds %d", ErrConfiguration, p, maxTotalDepth)
	}
	return nil
}

// MaxDepth is the number of seed actions a player with these depths needs.
func (p Plays) MaxDepth() int {
	return max(p.Self, p.Opponent, p.Opening)
}

func (p Plays) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Self, p.Opponent, p.Opening)
}

// Window is a sequence of actions rendered as C/D letters, oldest first.
// Using a string keeps Key comparable so it can index maps directly.
type Window string

// WindowOf builds a Window from actions.
func WindowOf(actions []Action) Window {
	return Window(FormatActions(actions))
}

// Key identifies one cell of a lookup table.
type Key struct {
	Self     Window
	Opponent Window
	Opening  Window
}

// NewKey assembles a key from three action windows.
func NewKey(self, opponent, opening []Action) Key {
	return Key{Self: WindowOf(self), Opponent: WindowOf(opponent), Opening: WindowOf(opening)}
}

func (k Key) String() string {
	return string(k.Self) + "/" + string(k.Opponent) + "/" + string(k.Opening)
}

// Plays reports the window lengths of the key.
func (k Key) Plays() Plays {
	return Plays{Self: len(k.Self), Opponent: len(k.Opponent), Opening: len(k.Opening)}
}

// KeyCount returns the size of the key space for the given depths.
func KeyCount(p Plays) int {
	return 1 << (p.Self + p.Opponent + p.Opening)
}

// GenerateKeys enumerates the key space in canonical order.
//
// The order is the lexicographic product with Cooperate < Defect, self
// window outermost, then the opponent window, then the opening window.
// Equivalently, key i is the big-endian binary expansion of i over
// Self+Opponent+Opening bits (C=0, D=1, oldest action most significant)
// split into the three windows. Patterns are zipped against exactly this
// order everywhere, so it must never change.
func GenerateKeys(p Plays) ([]Key, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := KeyCount(p)
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = keyAt(p, i)
	}
	return keys, nil
}

// keyAt decodes the i-th key of the canonical ordering.
func keyAt(p Plays, i int) Key {
	total := p.Self + p.Opponent + p.Opening
	var b strings.Builder
	b.Grow(total)
	for bit := total - 1; bit >= 0; bit-- {
		if i&(1<<bit) == 0 {
			b.WriteByte('C')
		} else {
			b.WriteByte('D')
		}
	}
	s := b.String()
	return Key{
		Self:     Window(s[:p.Self]),
		Opponent: Window(s[p.Self : p.Self+p.Opponent]),
		Opening:  Window(s[p.Self+p.Opponent:]),
	}
}

// indexOf is the inverse of keyAt. The key must already match p.
func indexOf(p Plays, k Key) int {
	idx := 0
	for _, w := range []Window{k.Self, k.Opponent, k.Opening} {
		for i := 0; i < len(w); i++ {
			idx <<= 1
			if w[i] == 'D' {
				idx |= 1
			}
		}
	}
	return idx
}

// validWindow reports whether w contains only C and D.
func validWindow(w Window) bool {
	for i := 0; i < len(w); i++ {
		if w[i] != 'C' && w[i] != 'D' {
			return false
		}
	}
	return true
}
