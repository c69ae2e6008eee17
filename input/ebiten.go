package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenKeys = map[ebiten.Key]Key{
	ebiten.KeyW:           KeyW,
	ebiten.KeyA:           KeyA,
	ebiten.KeyS:           KeyS,
	ebiten.KeyD:           KeyD,
	ebiten.KeyC:           KeyC,
	ebiten.KeyV:           KeyV,
	ebiten.KeySpace:       KeySpace,
	ebiten.KeyControl:     KeyControl,
	ebiten.KeyMeta:        KeyControl,
	ebiten.KeyHome:        KeyHome,
	ebiten.KeyEscape:      KeyEscape,
	ebiten.KeyArrowUp:     KeyW,
	ebiten.KeyArrowLeft:   KeyA,
	ebiten.KeyArrowDown:   KeyS,
	ebiten.KeyArrowRight:  KeyD,
	ebiten.KeyDigit0:      DigitKey(0),
	ebiten.KeyDigit1:      DigitKey(1),
	ebiten.KeyDigit2:      DigitKey(2),
	ebiten.KeyDigit3:      DigitKey(3),
	ebiten.KeyDigit4:      DigitKey(4),
	ebiten.KeyDigit5:      DigitKey(5),
	ebiten.KeyDigit6:      DigitKey(6),
	ebiten.KeyDigit7:      DigitKey(7),
	ebiten.KeyDigit8:      DigitKey(8),
	ebiten.KeyDigit9:      DigitKey(9),
	ebiten.KeyQ:           "q",
	ebiten.KeyE:           "e",
	ebiten.KeyR:           "r",
	ebiten.KeyF:           "f",
	ebiten.KeyShiftLeft:   "shift",
	ebiten.KeyShiftRight:  "shift",
	ebiten.KeyEnter:       "enter",
	ebiten.KeyBackspace:   "backspace",
	ebiten.KeyTab:         "tab",
	ebiten.KeyNumpadEnter: "enter",
}

var ebitenButtons = map[ebiten.MouseButton]MouseButton{
	ebiten.MouseButtonLeft:   MouseLeft,
	ebiten.MouseButtonMiddle: MouseMiddle,
	ebiten.MouseButtonRight:  MouseRight,
}

// PollEbiten feeds the current ebiten keyboard and mouse state into s. It
// must run on the ebiten update goroutine, before the frame's BeginFrame.
func PollEbiten(s *State) {
	if s == nil {
		return
	}

	for ek, k := range ebitenKeys {
		if inpututil.IsKeyJustPressed(ek) {
			s.SetKey(k, true)
		} else if inpututil.IsKeyJustReleased(ek) && !anyHeld(k) {
			s.SetKey(k, false)
		}
	}

	for eb, b := range ebitenButtons {
		if inpututil.IsMouseButtonJustPressed(eb) {
			s.SetMouseButton(b, true)
		} else if inpututil.IsMouseButtonJustReleased(eb) {
			s.SetMouseButton(b, false)
		}
	}

	mx, my := ebiten.CursorPosition()
	s.SetMousePos(float64(mx), float64(my))
}

// anyHeld reports whether some other physical key mapped to k is still down,
// so releasing Left while A is held keeps "a" pressed.
func anyHeld(k Key) bool {
	for ek, mapped := range ebitenKeys {
		if mapped == k && ebiten.IsKeyPressed(ek) {
			return true
		}
	}
	return false
}
