package ecs

import "github.com/milk9111/tileforge/render"

// Drawers returns the registered systems that draw, in update order.
func (w *World) Drawers() []render.Drawer {
	if w == nil {
		return nil
	}
	var out []render.Drawer
	for _, s := range w.systems {
		d, ok := s.(render.Drawer)
		if !ok || d == nil {
			continue
		}
		out = append(out, d)
	}
	return out
}
