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
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCache() *Cache[string, int] {
	return New[string, int]("test", func(a, b string) bool { return a < b })
}

// snapshot copies the observable cache content.
func snapshot(c *Cache[string, int]) map[string]Element[int] {
	res := make(map[string]Element[int])
	for k, v := range c.current {
		res[k] = v
	}
	return res
}

func TestGetPutDel(t *testing.T) {
	c := newTestCache()

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	elem, ok := c.Get("a")
	assert.True(t, ok)
	assert.True(t, elem.Exists)
	assert.Equal(t, 1, elem.Value)

	c.Del("a")
	elem, ok = c.Get("a")
	assert.True(t, ok)
	assert.False(t, elem.Exists)

	stats := c.Stats(true)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(3), stats.Reads)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Writes)
	assert.Equal(t, uint64(1), stats.Dels)

	stats = c.Stats(false)
	assert.Equal(t, uint64(0), stats.Reads)
}

func TestRevertIsInverse(t *testing.T) {
	c := newTestCache()
	c.Put("a", 1)
	c.Load("b", Element[int]{Value: 2, Exists: true})
	c.Del("c")
	before := snapshot(c)

	c.Checkpoint()
	c.Put("a", 10)
	c.Del("b")
	c.Put("c", 3)
	c.Put("d", 4)
	c.Put("a", 11)
	c.Checkpoint()
	c.Put("a", 12)
	c.Del("d")
	c.Put("e", 5)
	assert.Equal(t, 2, c.Height())
	assert.Nil(t, c.Revert())
	assert.Equal(t, 1, c.Height())
	elem, _ := c.Get("a")
	assert.Equal(t, 11, elem.Value)
	elem, _ = c.Get("d")
	assert.True(t, elem.Exists)
	_, ok := c.Get("e")
	assert.False(t, ok)

	assert.Nil(t, c.Revert())
	assert.Equal(t, 0, c.Height())
	assert.Equal(t, before, snapshot(c))

	assert.NotNil(t, c.Revert())
	assert.NotNil(t, c.Commit())
}

func TestCommitIsTransparent(t *testing.T) {
	direct := newTestCache()
	direct.Put("a", 1)
	direct.Put("b", 2)
	direct.Del("a")
	direct.Put("c", 3)

	nested := newTestCache()
	nested.Put("a", 1)
	nested.Checkpoint()
	nested.Put("b", 2)
	nested.Checkpoint()
	nested.Del("a")
	assert.Nil(t, nested.Commit())
	nested.Put("c", 3)
	assert.Nil(t, nested.Commit())

	assert.Equal(t, snapshot(direct), snapshot(nested))
	assert.Equal(t, direct.Flush(), nested.Flush())
}

func TestCommitThenRevertParent(t *testing.T) {
	c := newTestCache()
	c.Put("a", 1)
	before := snapshot(c)

	c.Checkpoint()
	c.Checkpoint()
	c.Put("a", 2)
	c.Put("b", 3)
	assert.Nil(t, c.Commit())
	c.Put("a", 4)
	assert.Nil(t, c.Revert())

	assert.Equal(t, before, snapshot(c))
}

func TestFlush(t *testing.T) {
	c := newTestCache()
	c.Load("x", Element[int]{Value: 9, Exists: true})
	c.Put("b", 2)
	c.Put("a", 1)
	c.Del("c")

	entries := c.Flush()
	assert.Equal(t, 3, len(entries))
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, 1, entries[0].Element.Value)
	assert.Equal(t, "b", entries[1].Key)
	assert.Equal(t, "c", entries[2].Key)
	assert.False(t, entries[2].Element.Exists)

	// Flushed frame is reset, cached values survive.
	assert.Equal(t, 0, len(c.Flush()))
	elem, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, elem.Value)

	// Changes inside a checkpoint only show once committed to the flushed level.
	c.Checkpoint()
	c.Put("d", 4)
	assert.Nil(t, c.Commit())
	entries = c.Flush()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "d", entries[0].Key)

	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, 0, c.Height())
}

func TestLoadDoesNotOverride(t *testing.T) {
	c := newTestCache()
	c.Put("a", 1)
	c.Load("a", Element[int]{Value: 2, Exists: true})
	elem, _ := c.Get("a")
	assert.Equal(t, 1, elem.Value)

	c.Checkpoint()
	c.Load("b", Element[int]{Value: 2, Exists: true})
	assert.Nil(t, c.Revert())
	elem, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, elem.Value)
}
