package deskkit

import "fmt"

// Selector picks a session out of the journal. Positions are only valid
// until the journal changes, so hosts that display a list should prefer
// SelectByID.
type Selector struct {
	latest bool
	index  int
	id     string
}

func MostRecent() Selector { return Selector{latest: true} }

func SelectIndex(idx int) Selector { return Selector{index: idx} }

func SelectByID(id string) Selector { return Selector{id: id, index: -1} }

func (s Selector) String() string {
	switch {
	case s.latest:
		return "most recent"
	case s.id != "":
		return "id " + s.id
	default:
		return fmt.Sprintf("#%d", s.index)
	}
}

func (s Selector) resolve(j Journal) (int, error) {
	n := j.Len()
	switch {
	case s.latest:
		if n == 0 {
			return -1, fmt.Errorf("%w: rename history is empty", ErrInvalidSelector)
		}
		return n - 1, nil
	case s.id != "":
		for i, sess := range j.Sessions {
			if sess.ID == s.id {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w: no session with id %s", ErrInvalidSelector, s.id)
	default:
		if s.index < 0 || s.index >= n {
			return -1, fmt.Errorf("%w: session %d out of range (have %d)", ErrInvalidSelector, s.index, n)
		}
		return s.index, nil
	}
}
