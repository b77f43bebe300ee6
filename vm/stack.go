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
	"sync"

	"github.com/holiman/uint256"
)

// StackLimit is the maximum number of words on the stack.
const StackLimit = 1024

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]uint256.Int, 0, 16)}
	},
}

// Stack is the operand stack of a call frame. Top of stack is the last element.
type Stack struct {
	data []uint256.Int
}

// NewStack gets an empty stack.
func NewStack() *Stack {
	return stackPool.Get().(*Stack)
}

// release returns the stack to the pool.
func (st *Stack) release() {
	st.data = st.data[:0]
	stackPool.Put(st)
}

// Data gets the stack content, bottom first.
func (st *Stack) Data() []uint256.Int {
	return st.data
}

// Len gets the stack height.
func (st *Stack) Len() int {
	return len(st.data)
}

// Push pushes a word onto the stack.
func (st *Stack) Push(d *uint256.Int) error {
	if len(st.data) >= StackLimit {
		return ErrStackOverflow
	}
	st.data = append(st.data, *d)
	return nil
}

// Pop pops the top word.
func (st *Stack) Pop() (uint256.Int, error) {
	if len(st.data) == 0 {
		return uint256.Int{}, ErrStackUnderflow
	}
	return st.pop(), nil
}

// PopN pops n words, the original top first.
func (st *Stack) PopN(n int) ([]uint256.Int, error) {
	if len(st.data) < n {
		return nil, ErrStackUnderflow
	}
	res := make([]uint256.Int, n)
	for i := 0; i < n; i++ {
		res[i] = st.data[len(st.data)-1-i]
	}
	st.data = st.data[:len(st.data)-n]
	return res, nil
}

// Peek gets n words without removing them, the top first.
func (st *Stack) Peek(n int) ([]uint256.Int, error) {
	if len(st.data) < n {
		return nil, ErrStackUnderflow
	}
	res := make([]uint256.Int, n)
	for i := 0; i < n; i++ {
		res[i] = st.data[len(st.data)-1-i]
	}
	return res, nil
}

// Swap exchanges the top with the word position slots below it.
func (st *Stack) Swap(position int) error {
	top := len(st.data) - 1
	if position < 1 || top-position < 0 {
		return ErrStackUnderflow
	}
	st.data[top], st.data[top-position] = st.data[top-position], st.data[top]
	return nil
}

// Dup pushes a copy of the word position-1 slots below the top. Dup(1) duplicates the top.
func (st *Stack) Dup(position int) error {
	if position < 1 || len(st.data) < position {
		return ErrStackUnderflow
	}
	if len(st.data) >= StackLimit {
		return ErrStackOverflow
	}
	st.data = append(st.data, st.data[len(st.data)-position])
	return nil
}

// Internal accessors used after the stack height has been validated.

func (st *Stack) push(d *uint256.Int) {
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret uint256.Int) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

func (st *Stack) peek() *uint256.Int {
	return &st.data[len(st.data)-1]
}

// back gets the word n slots below the top.
func (st *Stack) back(n int) *uint256.Int {
	return &st.data[len(st.data)-n-1]
}
