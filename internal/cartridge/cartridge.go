package cartridge

import (
	"github.com/hopperlabs/gbx/internal/cartridge/mbc"
	"github.com/hopperlabs/gbx/internal/types"
)

// Cartridge owns the parsed header and the MBC instance for the
// lifetime of a loaded ROM session.
type Cartridge struct {
	Header *Header
	MBC    mbc.MBC
}

// New parses rom's header and constructs the matching MBC arm.
func New(rom []byte) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	kind := mbc.KindNone
	switch {
	case h.Type >= TypeMBC1 && h.Type <= TypeMBC1RAMBattery:
		kind = mbc.KindMBC1
	case h.Type >= TypeMBC3TimerBattery && h.Type <= TypeMBC3RAMBattery:
		kind = mbc.KindMBC3
	case h.Type >= TypeMBC5 && h.Type <= TypeMBC5RumbleRAMBatt:
		kind = mbc.KindMBC5
	case h.Type == TypeROMOnly:
		kind = mbc.KindNone
	default:
		return nil, configErr(ErrUnsupportedMBC, "cartridge: unsupported cartridge type 0x%02X", h.Type)
	}

	m := mbc.New(kind, rom, h.RAMSize, h.HasBattery(), h.HasRTC(), h.HasRumble())
	return &Cartridge{Header: h, MBC: m}, nil
}

// ReadROM dispatches a read in [0x0000, 0x8000) to the MBC.
func (c *Cartridge) ReadROM(addr uint16) uint8 { return c.MBC.ReadROM(addr) }

// WriteROM dispatches a write in [0x0000, 0x8000) to the MBC as a
// control code.
func (c *Cartridge) WriteROM(addr uint16, val uint8) { c.MBC.WriteROM(addr, val) }

// ReadRAM dispatches a read in [0xA000, 0xC000) to the MBC.
func (c *Cartridge) ReadRAM(addr uint16) uint8 { return c.MBC.ReadRAM(addr) }

// WriteRAM dispatches a write in [0xA000, 0xC000) to the MBC.
func (c *Cartridge) WriteRAM(addr uint16, val uint8) { c.MBC.WriteRAM(addr, val) }

// SaveBytes returns the battery-backed external RAM blob, or nil if
// the cartridge has no battery.
func (c *Cartridge) SaveBytes() []byte {
	if !c.Header.HasBattery() {
		return nil
	}
	return c.MBC.RAMBytes()
}

// LoadSave restores external RAM from a previously saved blob. The
// blob must be exactly RAMSize bytes.
func (c *Cartridge) LoadSave(data []byte) error {
	if !c.Header.HasBattery() {
		return configErr(ErrBadSaveLength, "cartridge: cartridge has no battery, refusing save data")
	}
	if len(data) != c.Header.RAMSize {
		return configErr(ErrBadSaveLength, "cartridge: save blob is %d bytes, want %d", len(data), c.Header.RAMSize)
	}
	c.MBC.LoadRAM(data)
	return nil
}

// RTCBytes returns the 5-byte RTC blob for an MBC3-with-timer
// cartridge, or nil otherwise.
func (c *Cartridge) RTCBytes() []byte {
	if r, ok := c.MBC.(mbc.RTC); ok {
		return r.RTCBytes()
	}
	return nil
}

// LoadRTC restores the RTC registers from a 5-byte blob (S, M, H, DL, DH).
func (c *Cartridge) LoadRTC(data []byte) error {
	r, ok := c.MBC.(mbc.RTC)
	if !ok {
		return configErr(ErrBadRTCLength, "cartridge: cartridge has no real-time clock")
	}
	if len(data) != 5 {
		return configErr(ErrBadRTCLength, "cartridge: RTC blob is %d bytes, want 5", len(data))
	}
	r.LoadRTC(data)
	return nil
}

// TickRTC advances a live RTC by whole elapsed seconds; a no-op for
// cartridges without one.
func (c *Cartridge) TickRTC(seconds int) {
	if r, ok := c.MBC.(mbc.RTC); ok {
		r.TickSeconds(seconds)
	}
}

// Dirty reports whether battery-backed RAM has unsaved writes.
func (c *Cartridge) Dirty() bool {
	return c.Header.HasBattery() && c.MBC.Dirty()
}

// ClearDirty resets the dirty flag after the host has persisted SaveBytes.
func (c *Cartridge) ClearDirty() { c.MBC.ClearDirty() }

var _ types.Stater = (*Cartridge)(nil)

func (c *Cartridge) Save(s *types.State) { c.MBC.Save(s) }
func (c *Cartridge) Load(s *types.State) { c.MBC.Load(s) }
