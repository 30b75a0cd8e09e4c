package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// AudioCache is a thread-safe two-tier cache (in-memory + filesystem) for
// synthesized audio. Intents come from a small fixed vocabulary, so after a
// few announcements nearly every utterance is a hit.
//
// The key covers voice, rate, pitch and text, so changing any of them
// misses until it is switched back. The disk layer is always read when a
// directory is set; diskWrite only controls whether new entries are saved.
type AudioCache struct {
	mu        sync.RWMutex
	entries   map[string][]byte // key -> WAV bytes
	log       *logger.Logger
	voice     string
	cacheDir  string // empty = no disk layer
	diskWrite bool
	hits      int64
	misses    int64
}

// NewAudioCache creates an audio cache for the given voice.
func NewAudioCache(voice, cacheDir string, diskWrite bool, log *logger.Logger) *AudioCache {
	c := &AudioCache{
		entries:   make(map[string][]byte),
		log:       log,
		voice:     voice,
		cacheDir:  cacheDir,
		diskWrite: diskWrite,
	}

	if cacheDir != "" && diskWrite {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			log.Error("cache: failed to create cache dir %s: %v", cacheDir, err)
		}
	}
	return c
}

// Get returns cached audio for u, checking memory first and then disk.
func (c *AudioCache) Get(u domain.Utterance) ([]byte, bool) {
	key := c.key(u)

	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok && c.cacheDir != "" {
		data, ok = c.readDisk(key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.misses++
		return nil, false
	}
	// Promote disk hits so the next lookup stays in memory.
	c.entries[key] = data
	c.hits++
	c.log.Debug("cache hit: %q (%d bytes)", u.Text, len(data))
	return data, true
}

// Put stores audio for u in memory, and on disk when diskWrite is enabled.
func (c *AudioCache) Put(u domain.Utterance, audio []byte) {
	key := c.key(u)

	c.mu.Lock()
	c.entries[key] = audio
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("cache store: %q (%d bytes, %d entries)", u.Text, len(audio), size)

	if c.cacheDir != "" && c.diskWrite {
		path := c.diskPath(key)
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			c.log.Error("cache: disk write failed for %s: %v", path, err)
		}
	}
}

// Len returns the number of in-memory cached entries.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AudioCache) key(u domain.Utterance) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%g:%g:%s", c.voice, u.Rate, u.Pitch, u.Text)))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) diskPath(key string) string {
	return filepath.Join(c.cacheDir, key+".wav")
}

func (c *AudioCache) readDisk(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.diskPath(key))
	if err != nil {
		return nil, false
	}
	return data, true
}
