package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoadPaletteSpec(t *testing.T) {
	spec, err := LoadPaletteSpec()
	if err != nil {
		t.Fatalf("LoadPaletteSpec: %v", err)
	}
	if spec.Cell != 16 {
		t.Fatalf("expected cell 16, got %d", spec.Cell)
	}
	if len(spec.Descriptors) < 2 {
		t.Fatalf("expected at least 2 descriptors, got %d", len(spec.Descriptors))
	}
	for i, d := range spec.Descriptors {
		if d.ID != i {
			t.Fatalf("descriptor %d has id %d", i, d.ID)
		}
	}
}

func TestLoadSceneSpec(t *testing.T) {
	spec, err := LoadSceneSpec()
	if err != nil {
		t.Fatalf("LoadSceneSpec: %v", err)
	}
	if spec.Player.Idle.Frames == 0 || spec.Player.Run.Frames == 0 {
		t.Fatalf("player sprites missing frames: %+v", spec.Player)
	}
	for _, o := range spec.Objects {
		if o.Script == "" {
			continue
		}
		if _, err := LoadScript(o.Script); err != nil {
			t.Fatalf("object %s script %s: %v", o.Name, o.Script, err)
		}
	}
}

func TestPaletteValidate(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int
		wantErr bool
	}{
		{name: "dense", ids: []int{0, 1, 2}},
		{name: "empty", ids: nil, wantErr: true},
		{name: "duplicate", ids: []int{0, 0}, wantErr: true},
		{name: "gap", ids: []int{0, 2}, wantErr: true},
		{name: "negative", ids: []int{-1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PaletteSpec
			for _, id := range tt.ids {
				p.Descriptors = append(p.Descriptors, DescriptorSpec{ID: id})
			}
			if err := p.validate(); (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: `"#3c9632"`, want: color.NRGBA{R: 0x3c, G: 0x96, B: 0x32, A: 0xff}},
		{in: `"10203040"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: `"#fff"`, wantErr: true},
		{in: `"#gg0000"`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := c.Color.(color.NRGBA); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCleanScriptPath(t *testing.T) {
	for in, want := range map[string]string{
		"bob.tengo":                 "scripts/bob.tengo",
		"scripts/bob.tengo":         "scripts/bob.tengo",
		"prefabs/scripts/bob.tengo": "scripts/bob.tengo",
		"prefabs/bob.tengo":         "scripts/bob.tengo",
	} {
		if got := cleanScriptPath(in); got != want {
			t.Fatalf("cleanScriptPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := []byte("start := func(e, s) {}\nupdate := func(e, s) {}\n")
	if err := os.WriteFile(filepath.Join(dir, "scripts", "bob.tengo"), src, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadScript("bob.tengo")
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if string(got) != string(src) {
		t.Fatalf("expected disk copy, got %q", got)
	}

	scene, err := Load(SceneFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(scene) == 0 {
		t.Fatalf("expected the embedded scene when no disk copy exists")
	}
}

func TestScriptWatcherCollectsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := WatchScripts(dir)
	if err != nil {
		t.Fatalf("WatchScripts: %v", err)
	}
	defer w.Close()

	writes := []string{"notes.txt", "scene.yaml", "patrol.tengo", "patrol.tengo", "bob.tengo"}
	for _, name := range writes {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	var got []string
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		for _, name := range w.Changed() {
			if !slices.Contains(got, name) {
				got = append(got, name)
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"bob.tengo", "patrol.tengo"}) {
		t.Fatalf("expected bob.tengo and patrol.tengo, got %v", got)
	}
	if again := w.Changed(); len(again) != 0 {
		t.Fatalf("expected Changed to forget reported scripts, got %v", again)
	}
}

func TestScriptWatcherCloseTwice(t *testing.T) {
	w, err := WatchScripts(t.TempDir())
	if err != nil {
		t.Fatalf("WatchScripts: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if got := w.Changed(); len(got) != 0 {
		t.Fatalf("expected nothing after close, got %v", got)
	}

	var nilWatcher *ScriptWatcher
	if got := nilWatcher.Changed(); got != nil {
		t.Fatalf("expected nil from a nil watcher, got %v", got)
	}
}
