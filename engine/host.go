package engine

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileforge/input"
	"github.com/milk9111/tileforge/render/ebitenrender"
)

// Overlay is drawn over the world and updated before each frame, e.g. an
// ebitenui UI.
type Overlay interface {
	Update()
	Draw(screen *ebiten.Image)
}

// Host runs a Runtime inside ebiten. It is the runtime's Scheduler: a frame
// requested during one ebiten Update runs on the next.
type Host struct {
	Backend *ebitenrender.Backend
	Runtime *Runtime
	Overlay Overlay

	mu      sync.Mutex
	pending FrameFunc
	start   time.Time
}

func NewHost(backend *ebitenrender.Backend) *Host {
	return &Host{Backend: backend, start: time.Now()}
}

func (h *Host) RequestFrame(fn FrameFunc) {
	h.mu.Lock()
	h.pending = fn
	h.mu.Unlock()
}

func (h *Host) CancelFrame() {
	h.mu.Lock()
	h.pending = nil
	h.mu.Unlock()
}

func (h *Host) Update() error {
	if h.Runtime != nil && h.Runtime.State() == StateStopped {
		return ebiten.Termination
	}
	if h.Overlay != nil {
		h.Overlay.Update()
	}
	if h.Runtime != nil {
		input.PollEbiten(h.Runtime.Input)
	}

	h.mu.Lock()
	fn := h.pending
	h.pending = nil
	h.mu.Unlock()
	if fn != nil {
		fn(time.Since(h.start))
	}
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.Backend.Draw(screen)
	if h.Overlay != nil {
		h.Overlay.Draw(screen)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.Backend.SetSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}
