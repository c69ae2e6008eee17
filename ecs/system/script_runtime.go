package system

import (
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/ecs/component"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/input"
	"github.com/milk9111/tileforge/prefabs"
)

// ScriptLoader returns the source of a named tengo script.
type ScriptLoader func(name string) ([]byte, error)

// ScriptSystem runs script behaviours. The engine map gives scripts name,
// position, set_position, translate, has, key, key_down, dt, elapsed and
// log. Tengo scripts must define
//
//	start := func(engine, state) { ... }
//	update := func(engine, state) { ... }
//
// state is a map that survives between calls and across reloads.
type ScriptSystem struct {
	ecs.Tracker[*component.Script]

	load     ScriptLoader
	runtimes map[*component.Script]*scriptRuntime
}

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	failed   bool
}

const scriptDispatch = `
if __phase == "start" {
	start(__engine, __state)
} else if __phase == "update" {
	update(__engine, __state)
}
`

func NewScriptSystem(load ScriptLoader) *ScriptSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &ScriptSystem{load: load, runtimes: map[*component.Script]*scriptRuntime{}}
}

func (s *ScriptSystem) Type() ecs.BehaviourType { return ecs.BehaviourScript }

func (s *ScriptSystem) NewBehaviour() ecs.Behaviour {
	return &component.Script{}
}

// StartAll runs Start for every attached script that has not started yet.
func (s *ScriptSystem) StartAll(w *ecs.World) {
	for _, sc := range s.Items() {
		if sc.GameObject() != nil && !sc.Started {
			s.start(sc, w)
		}
	}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, sc := range s.Items() {
		if sc.GameObject() == nil {
			continue
		}
		if !sc.Started {
			s.start(sc, w)
		}
		if sc.OnUpdate != nil {
			sc.OnUpdate(sc, w)
		}
		if sc.Path != "" {
			s.run(sc, w, "update")
		}
	}
}

func (s *ScriptSystem) start(sc *component.Script, w *ecs.World) {
	sc.Started = true
	if sc.OnStart != nil {
		sc.OnStart(sc, w)
	}
	if sc.Path != "" {
		s.run(sc, w, "start")
	}
}

// Reload drops the compiled form of every script loaded from name so the
// next call recompiles it. Script state is kept.
func (s *ScriptSystem) Reload(name string) int {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	n := 0
	for _, rt := range s.runtimes {
		if path.Base(rt.path) == base {
			rt.compiled = nil
			rt.failed = false
			n++
		}
	}
	return n
}

func (s *ScriptSystem) run(sc *component.Script, w *ecs.World, phase string) {
	rt, err := s.runtime(sc)
	if err != nil {
		if rt != nil && !rt.failed {
			rt.failed = true
			log.Printf("script: %s: %v", sc.Path, err)
		}
		return
	}
	if rt.failed {
		return
	}

	engine := buildScriptEngine(sc, w)
	if err := rt.runPhase(phase, engine); err != nil {
		rt.failed = true
		log.Printf("script: %s %s error: %v", sc.Path, phase, err)
	}
}

func (s *ScriptSystem) runtime(sc *component.Script) (*scriptRuntime, error) {
	rt, ok := s.runtimes[sc]
	if !ok || rt.path != sc.Path {
		state, err := initialState(sc.Vars)
		if err != nil {
			rt = &scriptRuntime{path: sc.Path, state: &tengo.Map{Value: map[string]tengo.Object{}}}
			s.runtimes[sc] = rt
			return rt, err
		}
		rt = &scriptRuntime{path: sc.Path, state: state}
		s.runtimes[sc] = rt
	}
	if rt.compiled != nil || rt.failed {
		return rt, nil
	}

	src, err := s.load(sc.Path)
	if err != nil {
		return rt, fmt.Errorf("load: %w", err)
	}
	compiled, err := compileScript(src)
	if err != nil {
		return rt, fmt.Errorf("compile: %w", err)
	}
	rt.compiled = compiled
	return rt, nil
}

func initialState(vars map[string]any) (*tengo.Map, error) {
	m := &tengo.Map{Value: make(map[string]tengo.Object, len(vars))}
	for k, v := range vars {
		obj, err := tengo.FromInterface(v)
		if err != nil {
			return nil, fmt.Errorf("var %s: %w", k, err)
		}
		m.Value[k] = obj
	}
	return m, nil
}

func compileScript(src []byte) (*tengo.Compiled, error) {
	full := string(src) + "\n" + scriptDispatch
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (rt *scriptRuntime) runPhase(phase string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func vec2Object(x, y float64) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}
}

func floatArgs(args []tengo.Object, n int) ([]float64, error) {
	if len(args) != n {
		return nil, tengo.ErrWrongNumArguments
	}
	out := make([]float64, n)
	for i, a := range args {
		f, ok := tengo.ToFloat64(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg %d", i), Expected: "float", Found: a.TypeName()}
		}
		out[i] = f
	}
	return out, nil
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func buildScriptEngine(sc *component.Script, w *ecs.World) *tengo.ImmutableMap {
	obj := sc.GameObject()
	values := map[string]tengo.Object{}

	values["name"] = &tengo.String{Value: obj.Name}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := obj.Transform.Position
		return vec2Object(p.X, p.Y), nil
	}}

	// set_position takes x, y or the [x, y] array position returns.
	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) == 1 {
			arr, ok := args[0].(*tengo.Array)
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "position", Expected: "array", Found: args[0].TypeName()}
			}
			xy, err := floatArgs(arr.Value, len(arr.Value))
			if err != nil {
				return nil, err
			}
			p, err := geom.Vector2FromSlice(xy)
			if err != nil {
				return nil, err
			}
			obj.Transform.Position = p
			return tengo.UndefinedValue, nil
		}
		xy, err := floatArgs(args, 2)
		if err != nil {
			return nil, err
		}
		obj.Transform.Position.X, obj.Transform.Position.Y = xy[0], xy[1]
		return tengo.UndefinedValue, nil
	}}

	values["translate"] = &tengo.UserFunction{Name: "translate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		d, err := floatArgs(args, 2)
		if err != nil {
			return nil, err
		}
		obj.Transform.Position.X += d[0]
		obj.Transform.Position.Y += d[1]
		return tengo.UndefinedValue, nil
	}}

	values["has"] = &tengo.UserFunction{Name: "has", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		bt, err := ecs.ParseBehaviourType(objectAsString(args[0]))
		if err != nil {
			return nil, err
		}
		return boolObject(obj.Behaviour(bt) != nil), nil
	}}

	values["key"] = &tengo.UserFunction{Name: "key", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(w.Input.GetKey(input.Key(objectAsString(args[0])))), nil
	}}

	values["key_down"] = &tengo.UserFunction{Name: "key_down", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(w.Input.GetKeyDown(input.Key(objectAsString(args[0])))), nil
	}}

	values["dt"] = &tengo.UserFunction{Name: "dt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Time.Delta}, nil
	}}

	values["elapsed"] = &tengo.UserFunction{Name: "elapsed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Time.Elapsed}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("script: %s: %s", obj.Name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}

// State returns a copy of a script's state map as Go values.
func (s *ScriptSystem) State(sc *component.Script) map[string]any {
	rt, ok := s.runtimes[sc]
	if !ok {
		return nil
	}
	out, _ := objectToAny(rt.state).(map[string]any)
	return out
}
