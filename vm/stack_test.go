package vm

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

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestStackPushPop(t *testing.T) {
	st := NewStack()
	defer st.release()

	_, err := st.Pop()
	assert.Equal(t, ErrStackUnderflow, err)

	for i := uint64(1); i <= 3; i++ {
		assert.Nil(t, st.Push(uint256.NewInt(i)))
	}
	assert.Equal(t, 3, st.Len())

	top, err := st.Peek(2)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), top[0].Uint64())
	assert.Equal(t, uint64(2), top[1].Uint64())

	words, err := st.PopN(2)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), words[0].Uint64())
	assert.Equal(t, uint64(2), words[1].Uint64())
	assert.Equal(t, 1, st.Len())

	_, err = st.PopN(2)
	assert.Equal(t, ErrStackUnderflow, err)
}

func TestStackLimit(t *testing.T) {
	st := NewStack()
	defer st.release()

	for i := 0; i < StackLimit; i++ {
		assert.Nil(t, st.Push(uint256.NewInt(uint64(i))))
	}
	assert.Equal(t, ErrStackOverflow, st.Push(uint256.NewInt(0)))
	assert.Equal(t, ErrStackOverflow, st.Dup(1))
}

func TestStackSwapDup(t *testing.T) {
	st := NewStack()
	defer st.release()

	assert.Equal(t, ErrStackUnderflow, st.Swap(1))
	assert.Equal(t, ErrStackUnderflow, st.Dup(1))

	assert.Nil(t, st.Push(uint256.NewInt(1)))
	assert.Nil(t, st.Push(uint256.NewInt(2)))
	assert.Nil(t, st.Swap(1))
	data := st.Data()
	assert.Equal(t, uint64(2), data[0].Uint64())
	assert.Equal(t, uint64(1), data[1].Uint64())

	assert.Nil(t, st.Dup(2))
	assert.Equal(t, 3, st.Len())
	assert.Equal(t, uint64(2), st.peek().Uint64())
	assert.Equal(t, ErrStackUnderflow, st.Dup(4))
}

func TestStackReleaseResets(t *testing.T) {
	st := NewStack()
	assert.Nil(t, st.Push(uint256.NewInt(1)))
	st.release()

	st = NewStack()
	defer st.release()
	assert.Equal(t, 0, st.Len())
}
