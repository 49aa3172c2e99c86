// Package mbc implements the cartridge Memory Bank Controller variants:
// NoMBC, MBC1, MBC3 (with optional real-time clock) and MBC5 (with
// optional rumble). Each variant owns its ROM image and external RAM
// and responds to writes in [0x0000, 0x8000) as bank-switching control
// codes rather than data writes.
package mbc

import "github.com/hopperlabs/gbx/internal/types"

// MBC is the polymorphic interface every bank controller satisfies. It
// is a tagged-variant family (four concrete arms), not an inheritance
// hierarchy: each arm carries exactly the register state real hardware
// of that kind has.
type MBC interface {
	// ReadROM reads from the switched ROM window (0x4000-0x7FFF) or
	// permanent bank 0 (0x0000-0x3FFF); addr is the full 16-bit address.
	ReadROM(addr uint16) uint8
	// WriteROM handles a write anywhere in [0x0000, 0x8000) as a
	// control code - never as cartridge data.
	WriteROM(addr uint16, val uint8)
	// ReadRAM reads the external RAM window (0xA000-0xBFFF).
	ReadRAM(addr uint16) uint8
	// WriteRAM writes the external RAM window.
	WriteRAM(addr uint16, val uint8)

	// RAMBytes returns the raw external RAM for battery-backed saves.
	// Returns nil if the cartridge has no external RAM.
	RAMBytes() []byte
	// LoadRAM restores external RAM from a previously saved blob.
	LoadRAM(data []byte)

	// Dirty reports whether external RAM has been written since the
	// last ClearDirty call. Only meaningful when a battery is present.
	Dirty() bool
	ClearDirty()

	types.Stater
}

// RTC is implemented by MBC arms that additionally carry a real-time
// clock (MBC3 with the timer sub-variant).
type RTC interface {
	RTCBytes() []byte
	LoadRTC(data []byte)
	// TickSeconds advances the live clock by the given number of whole
	// seconds; it is a no-op while the clock is halted.
	TickSeconds(seconds int)
}

// New constructs the MBC arm matching kind around the already-loaded
// rom image, with ramSize bytes of external RAM.
func New(kind Kind, rom []byte, ramSize int, battery, rtc, rumble bool) MBC {
	switch kind {
	case KindMBC1:
		return newMBC1(rom, ramSize)
	case KindMBC3:
		return newMBC3(rom, ramSize, rtc)
	case KindMBC5:
		return newMBC5(rom, ramSize, rumble)
	default:
		return newNoMBC(rom, ramSize)
	}
}

// Kind classifies which bank-switching scheme a cartridge type byte
// implies.
type Kind uint8

const (
	KindNone Kind = iota
	KindMBC1
	KindMBC3
	KindMBC5
)

func romBankCount(rom []byte) int { return len(rom) / 0x4000 }
