// Package joypad implements the P1 register and button matrix: eight
// physical buttons multiplexed onto four bits through two selectable
// groups (direction pad, action buttons).
package joypad

import (
	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/types"
)

// Button identifies one of the eight physical inputs. The value is the
// button's bit in the pressed mask; value mod 4 is the bit it occupies
// within its group nibble of P1.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

const (
	selectButtons uint8 = 1 << 5
	selectDirs    uint8 = 1 << 4
)

// State owns the pressed-button mask and the P1 group-select bits
// written by the CPU.
type State struct {
	pressed uint8 // bit i set means Button(i) is currently held
	select_ uint8 // raw P1 bits 4-5 as last written

	irq *interrupts.Service
}

func NewState(irq *interrupts.Service) *State {
	return &State{select_: selectButtons | selectDirs, irq: irq}
}

// Read composes the P1 register: bits 6-7 always read 1, bits 4-5
// reflect the last group selection, and bits 0-3 are the inverted
// pressed state of whichever group(s) are selected.
func (s *State) Read() uint8 {
	out := uint8(0xC0) | s.select_ | 0x0F

	if s.select_&selectDirs == 0 {
		if s.pressed&(1<<Right) != 0 {
			out &^= 1 << 0
		}
		if s.pressed&(1<<Left) != 0 {
			out &^= 1 << 1
		}
		if s.pressed&(1<<Up) != 0 {
			out &^= 1 << 2
		}
		if s.pressed&(1<<Down) != 0 {
			out &^= 1 << 3
		}
	}
	if s.select_&selectButtons == 0 {
		if s.pressed&(1<<A) != 0 {
			out &^= 1 << 0
		}
		if s.pressed&(1<<B) != 0 {
			out &^= 1 << 1
		}
		if s.pressed&(1<<Select) != 0 {
			out &^= 1 << 2
		}
		if s.pressed&(1<<Start) != 0 {
			out &^= 1 << 3
		}
	}
	return out
}

// Write stores the group-select bits (4-5); the rest of P1 is
// read-only from the CPU's perspective.
func (s *State) Write(val uint8) {
	s.select_ = val & (selectButtons | selectDirs)
}

// Press updates a button's held state. A newly-pressed button whose
// group is currently selected raises the Joypad interrupt, matching
// the real matrix's wired-OR behaviour on a 1-to-0 transition.
func (s *State) Press(b Button, down bool) {
	mask := uint8(1) << b
	wasDown := s.pressed&mask != 0
	if down {
		s.pressed |= mask
	} else {
		s.pressed &^= mask
	}

	if down && !wasDown && s.groupSelected(b) {
		s.irq.Request(interrupts.Joypad)
	}
}

func (s *State) groupSelected(b Button) bool {
	if b <= Down {
		return s.select_&selectDirs == 0
	}
	return s.select_&selectButtons == 0
}

var _ types.Stater = (*State)(nil)

func (s *State) Save(st *types.State) {
	st.Write8(s.pressed)
	st.Write8(s.select_)
}

func (s *State) Load(st *types.State) {
	s.pressed = st.Read8()
	s.select_ = st.Read8()
}
