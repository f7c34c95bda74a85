package codeheap

import (
	"fmt"

	"github.com/smazumder05/zetavm/vm"
)

// StackWords is the fixed depth of the value stack, in 64-bit words.
const StackWords = 65536

// Stack is a fixed-depth, downward-growing value stack. basePtr marks
// the current frame's base; stackBottom is the slot NewStack seeds with
// a sentinel return address, and Pop never goes past it. A top-level
// call pushes its own caller placeholder and sentinel above that slot.
type Stack struct {
	mem         []vm.Value
	stackBottom int
	stackPtr    int
	basePtr     int
}

// NewStack allocates a StackWords-deep stack with the bottom slot
// pre-seeded with the sentinel return address.
func NewStack() *Stack {
	mem := make([]vm.Value, StackWords)
	bottom := StackWords - 1
	mem[bottom] = vm.RetAddrSentinel()
	return &Stack{mem: mem, stackBottom: bottom, stackPtr: bottom, basePtr: bottom}
}

// Push grows the stack downward by one word.
func (s *Stack) Push(v vm.Value) error {
	if s.stackPtr <= 0 {
		return fmt.Errorf("codeheap: stack overflow")
	}
	s.stackPtr--
	s.mem[s.stackPtr] = v
	return nil
}

// Pop shrinks the stack by one word.
func (s *Stack) Pop() (vm.Value, error) {
	if s.stackPtr >= s.stackBottom {
		return vm.Undef, fmt.Errorf("codeheap: stack underflow")
	}
	v := s.mem[s.stackPtr]
	s.stackPtr++
	return v, nil
}

// AtBottom reports whether the stack has unwound all the way back to
// the sentinel return address slot.
func (s *Stack) AtBottom() bool {
	return s.stackPtr == s.stackBottom
}
