package input

import "github.com/milk9111/tileforge/geom"

// Key names a keyboard key the way scripts refer to it: lower-case letters
// and digits, plus a few named keys ("space", "control", "home", ...).
type Key string

const (
	KeyW       Key = "w"
	KeyA       Key = "a"
	KeyS       Key = "s"
	KeyD       Key = "d"
	KeyC       Key = "c"
	KeyV       Key = "v"
	KeySpace   Key = "space"
	KeyControl Key = "control"
	KeyHome    Key = "home"
	KeyEscape  Key = "escape"
)

// DigitKey returns the key for the digit n (0..9).
func DigitKey(n int) Key {
	return Key(rune('0' + n%10))
}

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
)

// State is the per-runtime input snapshot. Raw events are recorded as they
// arrive (SetKey, SetMouseButton); BeginFrame turns the edges gathered since
// the previous frame into this frame's pressed/released sets, so GetKeyDown
// is true for exactly one frame per press.
type State struct {
	held    map[Key]bool
	pending map[Key]edge
	frame   map[Key]edge

	buttons        map[MouseButton]bool
	pendingButtons map[MouseButton]edge
	frameButtons   map[MouseButton]edge

	mouse geom.Vector2
}

type edge uint8

const (
	edgeDown edge = 1 << iota
	edgeUp
)

func NewState() *State {
	return &State{
		held:           make(map[Key]bool),
		pending:        make(map[Key]edge),
		frame:          make(map[Key]edge),
		buttons:        make(map[MouseButton]bool),
		pendingButtons: make(map[MouseButton]edge),
		frameButtons:   make(map[MouseButton]edge),
	}
}

// SetKey records a key transition. Repeated downs while held are ignored.
func (s *State) SetKey(k Key, down bool) {
	if s == nil || s.held[k] == down {
		return
	}
	s.held[k] = down
	if down {
		s.pending[k] |= edgeDown
	} else {
		s.pending[k] |= edgeUp
	}
}

func (s *State) SetMouseButton(b MouseButton, down bool) {
	if s == nil || s.buttons[b] == down {
		return
	}
	s.buttons[b] = down
	if down {
		s.pendingButtons[b] |= edgeDown
	} else {
		s.pendingButtons[b] |= edgeUp
	}
}

func (s *State) SetMousePos(x, y float64) {
	if s == nil {
		return
	}
	s.mouse = geom.Vec2(x, y)
}

// BeginFrame clears last frame's edges and promotes the pending ones.
func (s *State) BeginFrame() {
	if s == nil {
		return
	}
	s.frame, s.pending = s.pending, s.frame
	clear(s.pending)
	s.frameButtons, s.pendingButtons = s.pendingButtons, s.frameButtons
	clear(s.pendingButtons)
}

func (s *State) GetKey(k Key) bool {
	return s != nil && s.held[k]
}

func (s *State) GetKeyDown(k Key) bool {
	return s != nil && s.frame[k]&edgeDown != 0
}

func (s *State) GetKeyUp(k Key) bool {
	return s != nil && s.frame[k]&edgeUp != 0
}

func (s *State) GetMouseButton(b MouseButton) bool {
	return s != nil && s.buttons[b]
}

func (s *State) GetMouseButtonDown(b MouseButton) bool {
	return s != nil && s.frameButtons[b]&edgeDown != 0
}

func (s *State) GetMouseButtonUp(b MouseButton) bool {
	return s != nil && s.frameButtons[b]&edgeUp != 0
}

// MousePos is the cursor position in canvas pixels, origin top-left.
func (s *State) MousePos() geom.Vector2 {
	if s == nil {
		return geom.Vector2{}
	}
	return s.mouse
}
