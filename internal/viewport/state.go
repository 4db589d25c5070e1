package viewport

// State holds the chapter currently being read for one viewing session.
type State struct {
	chapter   int
	known     bool
	mutations int
	listeners []func(chapter int, ok bool)
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Current returns the current chapter, or false when none has been seen.
func (s *State) Current() (int, bool) {
	return s.chapter, s.known
}

// Mutations counts how many times the value actually changed.
func (s *State) Mutations() int {
	return s.mutations
}

// Subscribe registers fn to be called after every change.
func (s *State) Subscribe(fn func(chapter int, ok bool)) {
	s.listeners = append(s.listeners, fn)
}

// set stores chapter and notifies listeners. It is a no-op when unchanged.
func (s *State) set(chapter int) bool {
	if s.known && s.chapter == chapter {
		return false
	}
	s.chapter = chapter
	s.known = true
	s.mutations++
	for _, fn := range s.listeners {
		fn(chapter, true)
	}
	return true
}

// reset forgets the current chapter and notifies listeners.
func (s *State) reset() {
	if !s.known {
		return
	}
	s.chapter = 0
	s.known = false
	s.mutations++
	for _, fn := range s.listeners {
		fn(0, false)
	}
}
