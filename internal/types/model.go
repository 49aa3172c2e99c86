// Package types holds small value types shared across the engine:
// the hardware Model enum and the savestate serialization helper.
package types

// Model selects the hardware personality the engine emulates. It
// governs WRAM/VRAM bank counts, CGB-only registers, and the default
// register values loaded when a ROM boots without a boot ROM image.
type Model uint8

const (
	// DMG is the original Game Boy.
	DMG Model = iota
	// CGB is the Game Boy Color, running in CGB-native mode.
	CGB
	// CGBCompat is a CGB running a DMG-only cartridge in backwards
	// compatibility mode: CGB hardware, DMG color rules.
	CGBCompat
)

func (m Model) String() string {
	switch m {
	case DMG:
		return "DMG"
	case CGB:
		return "CGB"
	case CGBCompat:
		return "CGBCompat"
	default:
		return "Unknown"
	}
}

// IsCGB reports whether the model exposes CGB-only registers and VRAM/
// WRAM bank switching.
func (m Model) IsCGB() bool { return m == CGB || m == CGBCompat }

// PostBootRegisters returns the A,F,B,C,D,E,H,L register values a real
// boot ROM leaves behind when control passes to the cartridge at
// 0x0100. Used when the engine is configured to skip boot ROM
// execution entirely.
func (m Model) PostBootRegisters() [8]uint8 {
	switch m {
	case CGB, CGBCompat:
		return [8]uint8{0x11, 0x80, 0x00, 0x00, 0x00, 0x08, 0x00, 0x7C}
	default:
		return [8]uint8{0x01, 0xB0, 0x00, 0x13, 0x00, 0xD8, 0x01, 0x4D}
	}
}
