package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/hammamikhairi/friday/internal/logger"
)

// AudioCache is a thread-safe in-memory cache of synthesized audio. The
// key is sha256(namespace + ":" + text), where the namespace names the
// provider and voice, so switching either causes misses instead of
// replaying the wrong voice. Nothing is persisted across runs.
type AudioCache struct {
	mu      sync.RWMutex
	entries map[string]PCM
	log     *logger.Logger
	hits    int64
	misses  int64
}

// NewAudioCache creates an empty cache.
func NewAudioCache(log *logger.Logger) *AudioCache {
	return &AudioCache{
		entries: make(map[string]PCM),
		log:     log,
	}
}

// Get returns cached audio for the text under the namespace.
func (c *AudioCache) Get(ns, text string) (PCM, bool) {
	key := hashKey(ns, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	clip, ok := c.entries[key]
	if ok {
		c.hits++
		c.log.Debug("cache hit: %s %s (%d samples)", ns, truncate(text, 40), len(clip.Samples))
		return clip, true
	}
	c.misses++
	return PCM{}, false
}

// Put stores audio for the text under the namespace.
func (c *AudioCache) Put(ns, text string, clip PCM) {
	key := hashKey(ns, text)

	c.mu.Lock()
	c.entries[key] = clip
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("cache store: %s %s (%d entries)", ns, truncate(text, 40), size)
}

// Len returns the number of cached entries.
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

func hashKey(ns, text string) string {
	h := sha256.Sum256([]byte(ns + ":" + text))
	return hex.EncodeToString(h[:])
}
