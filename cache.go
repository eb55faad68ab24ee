package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	lru "github.com/hashicorp/golang-lru"
)

// CompileCache memoizes a backend's emitted output for a given input file,
// keyed by the content hash of the source plus the backend name (SPEC_FULL.md
// §11.1). A hit skips re-parsing and re-emitting that file entirely; misses
// always run the full pipeline and never poison the cache with a failed
// compile, since only a successful Generate result is ever stored.
type CompileCache struct {
	dir string
	mem *lru.Cache // front for repeated lookups within one process
}

// NewCompileCache opens (creating if needed) a cache rooted at dir. An
// empty dir uses the OS cache directory under "wireforge".
func NewCompileCache(dir string) (*CompileCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "wireforge")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("compile cache: %w", err)
	}
	mem, err := lru.New(128)
	if err != nil {
		panic(err)
	}
	return &CompileCache{dir: dir, mem: mem}, nil
}

// Key computes the cache key for one input file's contents under one
// backend name.
func (c *CompileCache) Key(source []byte, backend string) string {
	h := xxhash.Sum64(source)
	h2 := xxhash.Sum64String(backend)
	return fmt.Sprintf("%016x-%016x", h, h2)
}

func (c *CompileCache) path(key string) string {
	return filepath.Join(c.dir, key+".zst")
}

// Get returns the cached output for key, if present.
func (c *CompileCache) Get(key string) (string, bool) {
	if v, ok := c.mem.Get(key); ok {
		return v.(string), true
	}
	f, err := os.Open(c.path(key))
	if err != nil {
		return "", false
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return "", false
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return "", false
	}
	out := buf.String()
	c.mem.Add(key, out)
	return out, true
}

// Put stores output under key, compressed with zstd.
func (c *CompileCache) Put(key, output string) error {
	c.mem.Add(key, output)

	f, err := os.Create(c.path(key))
	if err != nil {
		return fmt.Errorf("compile cache: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("compile cache: %w", err)
	}
	if _, err := enc.Write([]byte(output)); err != nil {
		enc.Close()
		return fmt.Errorf("compile cache: %w", err)
	}
	return enc.Close()
}
