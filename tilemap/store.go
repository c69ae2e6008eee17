package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/milk9111/tileforge/common"
)

var (
	ErrBufferLength = errors.New("tilemap: stored buffer has wrong length")
	ErrNotFound     = errors.New("tilemap: key not found")
)

// Store is a string key-value store, the persistence seam for tile maps.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// MemoryStore keeps values in memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// FileStore keeps one <key>.json file per key under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("tilemap: invalid key %q", key)
	}
	return filepath.Join(s.Dir, key+".json"), nil
}

func (s *FileStore) Get(key string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("tilemap: read %s: %w", p, err)
	}
	return string(data), nil
}

func (s *FileStore) Set(key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("tilemap: create %s: %w", s.Dir, err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("tilemap: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("tilemap: rename %s: %w", p, err)
	}
	return nil
}

// Loader is the receiving end of Load. *render.Renderer implements it.
type Loader interface {
	UpdateTileMap(values []float32, stride int) error
}

// Encode serializes a dense tile buffer as a flat JSON number array.
func Encode(values []float32) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("tilemap: encode: %w", err)
	}
	return string(data), nil
}

// Decode parses a flat JSON number array and checks it holds a full grid.
func Decode(s string) ([]float32, error) {
	var values []float32
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, fmt.Errorf("tilemap: decode: %w", err)
	}
	want := common.TilemapWidth * common.TilemapHeight * common.TileStride
	if len(values) != want {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrBufferLength, want, len(values))
	}
	return values, nil
}

// Save writes values to store under common.TileMapStorageKey.
func Save(store Store, values []float32) error {
	s, err := Encode(values)
	if err != nil {
		return err
	}
	if err := store.Set(common.TileMapStorageKey, s); err != nil {
		return fmt.Errorf("tilemap: save: %w", err)
	}
	return nil
}

// Load reads the stored buffer into dst. A missing key leaves dst untouched
// and reports false.
func Load(store Store, dst Loader) (bool, error) {
	s, err := store.Get(common.TileMapStorageKey)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("tilemap: load: %w", err)
	}
	values, err := Decode(s)
	if err != nil {
		return false, err
	}
	if err := dst.UpdateTileMap(values, common.TileStride); err != nil {
		return false, fmt.Errorf("tilemap: load: %w", err)
	}
	return true, nil
}
