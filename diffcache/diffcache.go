package diffcache

/*
 * Licensed under LGPL-3.0.
 *
 * You can get a copy of the LGPL-3.0 License at
 *
 * https://www.gnu.org/licenses/lgpl-3.0.en.html
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"fmt"
	"sort"

	logging "github.com/ipfs/go-log"
)

// Logger
var log = logging.Logger("diffcache")

// Element is a cached value. Exists being false means the key is known not to exist.
type Element[V any] struct {
	Value  V
	Exists bool
}

// Entry is a key and its current element, as returned by Flush.
type Entry[K comparable, V any] struct {
	Key     K
	Element Element[V]
}

// Stats is the cache statistics.
type Stats struct {
	Size   int
	Reads  uint64
	Hits   uint64
	Writes uint64
	Dels   uint64
}

// preState is the state of a key before the first touch in a frame.
// cached being false means the key was not in the cache.
type preState[V any] struct {
	elem   Element[V]
	cached bool
}

// Cache is a key value cache with nested checkpoints.
// Every open checkpoint owns one diff frame recording the pre-state of each
// key first touched inside it.
type Cache[K comparable, V any] struct {
	name    string
	current map[K]Element[V]
	// frames[height] is the diff frame of the current checkpoint.
	frames []map[K]preState[V]
	less   func(a, b K) bool
	stats  Stats
}

// New creates a new cache. less is used to order flushed entries.
func New[K comparable, V any](name string, less func(a, b K) bool) *Cache[K, V] {
	return &Cache[K, V]{
		name:    name,
		current: make(map[K]Element[V]),
		frames:  []map[K]preState[V]{make(map[K]preState[V])},
		less:    less,
	}
}

// Get gets the element for given key, the second return reports presence in the cache.
func (c *Cache[K, V]) Get(k K) (Element[V], bool) {
	c.stats.Reads++
	elem, ok := c.current[k]
	if ok {
		c.stats.Hits++
	}
	return elem, ok
}

// Put sets the value for given key.
func (c *Cache[K, V]) Put(k K, v V) {
	c.savePreState(k)
	c.current[k] = Element[V]{Value: v, Exists: true}
	c.stats.Writes++
}

// Del marks the given key as known not to exist.
func (c *Cache[K, V]) Del(k K) {
	c.savePreState(k)
	var empty V
	c.current[k] = Element[V]{Value: empty, Exists: false}
	c.stats.Dels++
}

// Load caches an element read from the backing store.
// Loaded elements are not recorded in any frame and are never flushed.
func (c *Cache[K, V]) Load(k K, elem Element[V]) {
	if _, ok := c.current[k]; ok {
		return
	}
	c.current[k] = elem
}

// savePreState saves the pre-state of the key on first touch in the current frame.
func (c *Cache[K, V]) savePreState(k K) {
	frame := c.frames[len(c.frames)-1]
	if _, ok := frame[k]; ok {
		return
	}
	elem, cached := c.current[k]
	frame[k] = preState[V]{elem: elem, cached: cached}
}

// Checkpoint opens a new checkpoint.
func (c *Cache[K, V]) Checkpoint() {
	c.frames = append(c.frames, make(map[K]preState[V]))
	log.Debugf("%v: new checkpoint %v", c.name, c.Height())
}

// Commit closes the current checkpoint, keeping its changes at the parent level.
func (c *Cache[K, V]) Commit() error {
	if len(c.frames) <= 1 {
		return fmt.Errorf("%v: commit without checkpoint", c.name)
	}
	top := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	parent := c.frames[len(c.frames)-1]
	for k, pre := range top {
		if _, ok := parent[k]; !ok {
			parent[k] = pre
		}
	}
	log.Debugf("%v: commit to checkpoint %v", c.name, c.Height())
	return nil
}

// Revert closes the current checkpoint, undoing its changes.
func (c *Cache[K, V]) Revert() error {
	if len(c.frames) <= 1 {
		return fmt.Errorf("%v: revert without checkpoint", c.name)
	}
	top := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	for k, pre := range top {
		if pre.cached {
			c.current[k] = pre.elem
		} else {
			delete(c.current, k)
		}
	}
	log.Debugf("%v: revert to checkpoint %v", c.name, c.Height())
	return nil
}

// Flush returns all entries modified in the current frame and resets the frame.
func (c *Cache[K, V]) Flush() []Entry[K, V] {
	frame := c.frames[len(c.frames)-1]
	res := make([]Entry[K, V], 0, len(frame))
	for k := range frame {
		elem, ok := c.current[k]
		if !ok {
			continue
		}
		res = append(res, Entry[K, V]{Key: k, Element: elem})
	}
	if c.less != nil {
		sort.Slice(res, func(i, j int) bool {
			return c.less(res[i].Key, res[j].Key)
		})
	}
	c.frames[len(c.frames)-1] = make(map[K]preState[V])
	log.Debugf("%v: flushed %v entries at checkpoint %v", c.name, len(res), c.Height())
	return res
}

// Clear drops all cached elements and checkpoints.
func (c *Cache[K, V]) Clear() {
	c.current = make(map[K]Element[V])
	c.frames = []map[K]preState[V]{make(map[K]preState[V])}
}

// Height returns the number of open checkpoints.
func (c *Cache[K, V]) Height() int {
	return len(c.frames) - 1
}

// Size returns the number of cached keys.
func (c *Cache[K, V]) Size() int {
	return len(c.current)
}

// Stats returns the cache statistics, optionally resetting the counters.
func (c *Cache[K, V]) Stats(reset bool) Stats {
	res := c.stats
	res.Size = c.Size()
	if reset {
		c.stats = Stats{}
	}
	return res
}
