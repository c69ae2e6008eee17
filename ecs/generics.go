package ecs

// GetSystem returns the system registered for t as T.
func GetSystem[T System](w *World, t BehaviourType) (T, bool) {
	var zero T
	sys, ok := w.System(t)
	if !ok {
		return zero, false
	}
	cast, ok := sys.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// Tracker is the live behaviour list systems embed.
type Tracker[B Behaviour] struct {
	items []B
}

// Track appends b when it is a B and not yet tracked.
func (t *Tracker[B]) Track(b Behaviour) bool {
	v, ok := b.(B)
	if !ok {
		return false
	}
	for _, existing := range t.items {
		if Behaviour(existing) == b {
			return false
		}
	}
	t.items = append(t.items, v)
	return true
}

// Items returns the live list. Callers must not append to it.
func (t *Tracker[B]) Items() []B {
	return t.items
}

func (t *Tracker[B]) Len() int {
	return len(t.items)
}
