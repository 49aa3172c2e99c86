// Package interrupts implements the IF/IE bitmasks and the five
// interrupt vectors that tie the CPU to its peripherals.
package interrupts

import "github.com/hopperlabs/gbx/internal/types"

// Flag identifies one of the five interrupt sources, ordered from
// highest to lowest priority.
type Flag uint8

const (
	VBlank Flag = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// Vector is the address the CPU jumps to when servicing an interrupt.
func (f Flag) Vector() uint16 {
	switch f {
	case VBlank:
		return 0x0040
	case LCDStat:
		return 0x0048
	case Timer:
		return 0x0050
	case Serial:
		return 0x0058
	case Joypad:
		return 0x0060
	}
	return 0x0000
}

// Service owns the IF (0xFF0F) and IE (0xFFFF) registers.
type Service struct {
	Flag   uint8
	Enable uint8
}

func NewService() *Service { return &Service{} }

// Request raises the IF bit for flag.
func (s *Service) Request(flag Flag) { s.Flag |= 1 << flag }

// Clear lowers the IF bit for flag, done when an interrupt is acknowledged.
func (s *Service) Clear(flag Flag) { s.Flag &^= 1 << flag }

// Pending returns the bitmask of requested-and-enabled interrupts,
// masked to the five valid bits.
func (s *Service) Pending() uint8 { return s.Flag & s.Enable & 0x1F }

// Highest returns the highest-priority pending interrupt and true, or
// false if none is pending.
func (s *Service) Highest() (Flag, bool) {
	pending := s.Pending()
	if pending == 0 {
		return 0, false
	}
	for f := VBlank; f <= Joypad; f++ {
		if pending&(1<<f) != 0 {
			return f, true
		}
	}
	return 0, false
}

// ReadIF returns the IF register as read by the CPU: the low 5 bits
// reflect requested interrupts, the high 3 bits always read as 1.
func (s *Service) ReadIF() uint8 { return s.Flag&0x1F | 0xE0 }

func (s *Service) WriteIF(v uint8) { s.Flag = v & 0x1F }

func (s *Service) ReadIE() uint8 { return s.Enable }

func (s *Service) WriteIE(v uint8) { s.Enable = v }

var _ types.Stater = (*Service)(nil)

func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
}

func (s *Service) Load(st *types.State) {
	s.Flag = st.Read8()
	s.Enable = st.Read8()
}
