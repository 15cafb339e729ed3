package ast

import "strings"

// NameSlot is a shared, mutable cell holding a policy or policyset name.
// Anonymous elements get an empty slot at parse time; finalization fills
// it in once all sibling names are known. Because the cell is shared,
// every path that references the element observes the assigned name.
type NameSlot struct {
	value *string
}

// NewNameSlot creates an empty name slot.
func NewNameSlot() *NameSlot {
	return &NameSlot{}
}

// NewNamedSlot creates a slot already holding a name.
func NewNamedSlot(name string) *NameSlot {
	return &NameSlot{value: &name}
}

// Get returns the slot's name, or "" and false if unassigned.
func (s *NameSlot) Get() (string, bool) {
	if s.value == nil {
		return "", false
	}
	return *s.value, true
}

// Set assigns the slot's name.
func (s *NameSlot) Set(name string) {
	s.value = &name
}

// IsSet returns true if the slot holds a name.
func (s *NameSlot) IsSet() bool {
	return s.value != nil
}

// GenName is a path of name slots describing where a policy, policyset,
// or rule sits inside its enclosing policy structure. Slots for anonymous
// ancestors stay empty until finalization.
type GenName struct {
	namePath []*NameSlot
}

// PushName appends a slot to the end of the path.
func (g *GenName) PushName(slot *NameSlot) {
	g.namePath = append(g.namePath, slot)
}

// PushNameAtIndex inserts a slot at the given index, shifting later
// entries toward the end.
func (g *GenName) PushNameAtIndex(slot *NameSlot, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(g.namePath) {
		index = len(g.namePath)
	}
	g.namePath = append(g.namePath, nil)
	copy(g.namePath[index+1:], g.namePath[index:])
	g.namePath[index] = slot
}

// IsResolvable returns true if every slot in the path has a name.
// An empty path is resolvable.
func (g *GenName) IsResolvable() bool {
	for _, s := range g.namePath {
		if !s.IsSet() {
			return false
		}
	}
	return true
}

// BuildPath joins all slot names with the separator. It returns false if
// any slot is still unassigned.
func (g *GenName) BuildPath(sep string) (string, bool) {
	parts := make([]string, 0, len(g.namePath))
	for _, s := range g.namePath {
		v, ok := s.Get()
		if !ok {
			return "", false
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, sep), true
}

// LastElem returns the final slot of the path, or nil if the path is empty.
func (g *GenName) LastElem() *NameSlot {
	if len(g.namePath) == 0 {
		return nil
	}
	return g.namePath[len(g.namePath)-1]
}

// PolicyLevel returns how many policy/policyset levels deep this path is.
func (g *GenName) PolicyLevel() int {
	return len(g.namePath)
}

// Clone returns a copy of the path. The slots themselves are shared:
// assigning a name through one copy is visible through all copies.
func (g *GenName) Clone() GenName {
	np := make([]*NameSlot, len(g.namePath))
	copy(np, g.namePath)
	return GenName{namePath: np}
}
