package session

import "github.com/plus3/blockfall/playfield"

// MutableField lets tests seed the stack directly.
func (s *Session) MutableField() *playfield.Field {
	return s.field
}
