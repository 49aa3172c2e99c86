package mbc

import "github.com/hopperlabs/gbx/internal/types"

// noMBC is a cartridge with no bank controller: up to 32 KiB of ROM
// (a single fixed bank) and up to 8 KiB of unbanked external RAM.
type noMBC struct {
	rom []byte
	ram []byte

	ramEnabled bool
	dirty      bool
}

func newNoMBC(rom []byte, ramSize int) *noMBC {
	return &noMBC{rom: rom, ram: make([]byte, ramSize), ramEnabled: ramSize > 0}
}

func (m *noMBC) ReadROM(addr uint16) uint8 {
	if int(addr) < len(m.rom) {
		return m.rom[addr]
	}
	return 0xFF
}

func (m *noMBC) WriteROM(addr uint16, val uint8) {}

func (m *noMBC) ReadRAM(addr uint16) uint8 {
	idx := int(addr - 0xA000)
	if !m.ramEnabled || idx >= len(m.ram) {
		return 0xFF
	}
	return m.ram[idx]
}

func (m *noMBC) WriteRAM(addr uint16, val uint8) {
	idx := int(addr - 0xA000)
	if !m.ramEnabled || idx >= len(m.ram) {
		return
	}
	m.ram[idx] = val
	m.dirty = true
}

func (m *noMBC) RAMBytes() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	return m.ram
}
func (m *noMBC) LoadRAM(data []byte) { copy(m.ram, data) }
func (m *noMBC) Dirty() bool         { return m.dirty }
func (m *noMBC) ClearDirty()         { m.dirty = false }

var _ types.Stater = (*noMBC)(nil)

func (m *noMBC) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.dirty)
}
func (m *noMBC) Load(s *types.State) {
	s.ReadData(m.ram)
	m.dirty = s.ReadBool()
}
