package ecs

import (
	"testing"

	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render"
)

type fakeBehaviour struct {
	BaseBehaviour
	typ     BehaviourType
	updates int
}

func (b *fakeBehaviour) Type() BehaviourType { return b.typ }

type fakeSystem struct {
	Tracker[*fakeBehaviour]
	typ     BehaviourType
	updates int
	order   *[]BehaviourType
}

func (s *fakeSystem) Type() BehaviourType { return s.typ }

func (s *fakeSystem) NewBehaviour() Behaviour { return &fakeBehaviour{typ: s.typ} }

func (s *fakeSystem) Update(w *World) {
	s.updates++
	if s.order != nil {
		*s.order = append(*s.order, s.typ)
	}
	for _, b := range s.Items() {
		b.updates++
	}
}

// drawingSystem also contributes draws.
type drawingSystem struct {
	fakeSystem
}

func (s *drawingSystem) Render(r *render.Renderer, draw render.DrawFunc) {}

func TestRegisterSystem(t *testing.T) {
	cases := []struct {
		name      string
		register  []BehaviourType
		wantTypes []BehaviourType
	}{
		{"single", []BehaviourType{BehaviourSprite}, []BehaviourType{BehaviourSprite}},
		{"order_kept", []BehaviourType{BehaviourPlayer, BehaviourSprite}, []BehaviourType{BehaviourPlayer, BehaviourSprite}},
		{"replace_in_slot", []BehaviourType{BehaviourPlayer, BehaviourSprite, BehaviourPlayer}, []BehaviourType{BehaviourPlayer, BehaviourSprite}},
		{"none_rejected", []BehaviourType{BehaviourNone}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(nil, nil)
			for _, bt := range c.register {
				w.RegisterSystem(&fakeSystem{typ: bt})
			}
			got := w.Systems()
			if len(got) != len(c.wantTypes) {
				t.Fatalf("expected %d systems, got %d", len(c.wantTypes), len(got))
			}
			for i, s := range got {
				if s.Type() != c.wantTypes[i] {
					t.Fatalf("system %d: expected %s, got %s", i, c.wantTypes[i], s.Type())
				}
			}
		})
	}
}

func TestReplacedSystemNoLongerUpdates(t *testing.T) {
	w := NewWorld(nil, nil)
	first := &fakeSystem{typ: BehaviourSprite}
	second := &fakeSystem{typ: BehaviourSprite}
	w.RegisterSystem(first)
	w.RegisterSystem(second)
	w.Update()

	if first.updates != 0 || second.updates != 1 {
		t.Fatalf("expected only the replacement to update, got %d and %d", first.updates, second.updates)
	}
	got, ok := GetSystem[*fakeSystem](w, BehaviourSprite)
	if !ok || got != second {
		t.Fatalf("expected GetSystem to return the replacement")
	}
}

func TestGetSystem(t *testing.T) {
	w := NewWorld(nil, nil)
	w.RegisterSystem(&fakeSystem{typ: BehaviourSprite})

	if _, ok := GetSystem[*fakeSystem](w, BehaviourSprite); !ok {
		t.Fatalf("expected registered system")
	}
	if _, ok := GetSystem[*fakeSystem](w, BehaviourPlayer); ok {
		t.Fatalf("expected missing system for unregistered type")
	}
	if _, ok := GetSystem[*drawingSystem](w, BehaviourSprite); ok {
		t.Fatalf("expected failed cast to report false")
	}
	if _, ok := w.System(BehaviourType(99)); ok {
		t.Fatalf("expected out-of-range type to report false")
	}
}

func TestUpdateRunsInRegistrationOrder(t *testing.T) {
	var order []BehaviourType
	w := NewWorld(nil, nil)
	w.RegisterSystem(&fakeSystem{typ: BehaviourScript, order: &order})
	w.RegisterSystem(&fakeSystem{typ: BehaviourPlayer, order: &order})
	w.RegisterSystem(&fakeSystem{typ: BehaviourSprite, order: &order})
	w.Update()

	want := []BehaviourType{BehaviourScript, BehaviourPlayer, BehaviourSprite}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestNewBehaviour(t *testing.T) {
	w := NewWorld(nil, nil)
	sys := &fakeSystem{typ: BehaviourSprite}
	w.RegisterSystem(sys)
	o := NewGameObject("o", geom.Vec2(1, 2))

	b, ok := w.NewBehaviour(BehaviourSprite, o)
	if !ok {
		t.Fatalf("expected behaviour")
	}
	if b.GameObject() != o || o.Behaviour(BehaviourSprite) != b {
		t.Fatalf("expected behaviour attached both ways")
	}
	if sys.Len() != 1 {
		t.Fatalf("expected 1 tracked behaviour, got %d", sys.Len())
	}

	loose, ok := w.NewBehaviour(BehaviourSprite, nil)
	if !ok || loose.GameObject() != nil {
		t.Fatalf("expected an unattached behaviour")
	}
	if sys.Len() != 2 {
		t.Fatalf("expected unattached behaviour tracked, got %d", sys.Len())
	}

	if _, ok := w.NewBehaviour(BehaviourPlayer, o); ok {
		t.Fatalf("expected failure without a player system")
	}
	if _, ok := o.NewBehaviour(w, BehaviourSprite); !ok {
		t.Fatalf("expected GameObject.NewBehaviour to delegate")
	}
}

func TestAddBehaviourReplacementKeepsTracking(t *testing.T) {
	w := NewWorld(nil, nil)
	sys := &fakeSystem{typ: BehaviourSprite}
	w.RegisterSystem(sys)
	o := NewGameObject("o", geom.Vector2{})

	first, _ := w.NewBehaviour(BehaviourSprite, o)
	second := sys.NewBehaviour()
	if !w.AddBehaviour(o, second) {
		t.Fatalf("AddBehaviour failed")
	}

	if first.GameObject() != nil {
		t.Fatalf("expected replaced behaviour detached")
	}
	if o.Behaviour(BehaviourSprite) != second || second.GameObject() != o {
		t.Fatalf("expected replacement attached")
	}
	if sys.Len() != 2 {
		t.Fatalf("expected both behaviours still tracked, got %d", sys.Len())
	}

	w.Update()
	if first.(*fakeBehaviour).updates != 1 {
		t.Fatalf("expected detached behaviour to keep updating")
	}

	events := w.Events().Drain()
	var attached, detached int
	for _, e := range events {
		switch e.Type {
		case EventBehaviourAttached:
			attached++
		case EventBehaviourDetached:
			detached++
			if e.Data.(BehaviourEvent).Behaviour != first {
				t.Fatalf("expected detach event for the first behaviour")
			}
		}
	}
	if attached != 2 || detached != 1 {
		t.Fatalf("expected 2 attach and 1 detach events, got %d and %d", attached, detached)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("expected drained queue")
	}
}

func TestAddBehaviourMovesBetweenObjects(t *testing.T) {
	w := NewWorld(nil, nil)
	sys := &fakeSystem{typ: BehaviourSprite}
	w.RegisterSystem(sys)
	a := NewGameObject("a", geom.Vector2{})
	b := NewGameObject("b", geom.Vector2{})

	beh, _ := w.NewBehaviour(BehaviourSprite, a)
	w.AddBehaviour(b, beh)

	if a.Behaviour(BehaviourSprite) != nil {
		t.Fatalf("expected old owner slot cleared")
	}
	if beh.GameObject() != b {
		t.Fatalf("expected behaviour owned by b")
	}
	if sys.Len() != 1 {
		t.Fatalf("expected no duplicate tracking, got %d", sys.Len())
	}
}

func TestAddBehaviourRejects(t *testing.T) {
	w := NewWorld(nil, nil)
	o := NewGameObject("o", geom.Vector2{})
	cases := []struct {
		name string
		obj  *GameObject
		b    Behaviour
	}{
		{"nil_object", nil, &fakeBehaviour{typ: BehaviourSprite}},
		{"nil_behaviour", o, nil},
		{"no_system", o, &fakeBehaviour{typ: BehaviourSprite}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if w.AddBehaviour(c.obj, c.b) {
				t.Fatalf("expected AddBehaviour to fail")
			}
		})
	}
}

func TestTrackerRejectsDuplicatesAndOtherTypes(t *testing.T) {
	var tr Tracker[*fakeBehaviour]
	b := &fakeBehaviour{typ: BehaviourSprite}
	if !tr.Track(b) {
		t.Fatalf("expected first Track to succeed")
	}
	if tr.Track(b) {
		t.Fatalf("expected duplicate Track to fail")
	}
	if tr.Track(&otherBehaviour{}) {
		t.Fatalf("expected foreign behaviour to be rejected")
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", tr.Len())
	}
}

type otherBehaviour struct {
	BaseBehaviour
}

func (b *otherBehaviour) Type() BehaviourType { return BehaviourScript }

func TestTick(t *testing.T) {
	w := NewWorld(nil, nil)
	w.Tick(0)
	w.Tick(0.25)
	w.Tick(0.5)
	if w.Time.Delta != 0.5 || w.Time.Elapsed != 0.75 || w.Time.Frame != 3 {
		t.Fatalf("unexpected clock %+v", w.Time)
	}
	if w.Input == nil {
		t.Fatalf("expected a default input state")
	}
}

func TestDrawers(t *testing.T) {
	w := NewWorld(nil, nil)
	w.RegisterSystem(&fakeSystem{typ: BehaviourPlayer})
	d := &drawingSystem{fakeSystem{typ: BehaviourSprite}}
	w.RegisterSystem(d)

	got := w.Drawers()
	if len(got) != 1 || got[0] != render.Drawer(d) {
		t.Fatalf("expected only the drawing system, got %v", got)
	}
}

func TestBehaviourTypeNames(t *testing.T) {
	for _, bt := range []BehaviourType{BehaviourSprite, BehaviourPlayer, BehaviourScript, BehaviourMovement} {
		got, err := ParseBehaviourType(bt.String())
		if err != nil || got != bt {
			t.Fatalf("ParseBehaviourType(%q) = %v, %v", bt.String(), got, err)
		}
	}
	if _, err := ParseBehaviourType("none"); err == nil {
		t.Fatalf("expected none to be rejected")
	}
}

func TestSceneFind(t *testing.T) {
	s := NewScene("s", nil)
	a := s.AddObject("a", geom.Vec2(1, 1))
	s.AddObject("b", geom.Vector2{})
	if s.Find("a") != a || s.Find("missing") != nil {
		t.Fatalf("unexpected Find results")
	}
	if a.Transform.Scale != [2]float64{1, 1} {
		t.Fatalf("expected unit scale, got %v", a.Transform.Scale)
	}
}
