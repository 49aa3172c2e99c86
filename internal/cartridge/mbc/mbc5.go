package mbc

import "github.com/hopperlabs/gbx/internal/types"

// mbc5 implements the MBC5 scheme: a full 9-bit ROM bank register
// (bank 0 is legal in the switched window, unlike MBC1/MBC3) and a
// 4-bit RAM bank register, masked to 2 bits when rumble motor control
// steals the top RAM-register bit.
type mbc5 struct {
	rom []byte
	ram []byte

	romBankLo uint8
	romBankHi uint8 // bit 8 of the ROM bank
	ramBank   uint8
	ramg      bool

	rumble bool

	dirty bool
}

func newMBC5(rom []byte, ramSize int, rumble bool) *mbc5 {
	return &mbc5{rom: rom, ram: make([]byte, ramSize), rumble: rumble}
}

func (m *mbc5) romBank() int {
	bank := int(m.romBankHi)<<8 | int(m.romBankLo)
	if n := romBankCount(m.rom); n > 0 {
		bank %= n
	}
	return bank
}

func (m *mbc5) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	}
	offset := m.romBank()*0x4000 + int(addr-0x4000)
	if offset < len(m.rom) {
		return m.rom[offset]
	}
	return 0xFF
}

func (m *mbc5) WriteROM(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.ramg = val&0x0F == 0x0A
	case addr < 0x3000:
		m.romBankLo = val
	case addr < 0x4000:
		m.romBankHi = val & 0x01
	case addr < 0x6000:
		mask := uint8(0x0F)
		if m.rumble {
			mask = 0x03
		}
		m.ramBank = val & mask
	}
}

func (m *mbc5) ReadRAM(addr uint16) uint8 {
	if !m.ramg || len(m.ram) == 0 {
		return 0xFF
	}
	idx := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if idx < len(m.ram) {
		return m.ram[idx]
	}
	return 0xFF
}

func (m *mbc5) WriteRAM(addr uint16, val uint8) {
	if !m.ramg || len(m.ram) == 0 {
		return
	}
	idx := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if idx < len(m.ram) {
		m.ram[idx] = val
		m.dirty = true
	}
}

func (m *mbc5) RAMBytes() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	return m.ram
}
func (m *mbc5) LoadRAM(data []byte) { copy(m.ram, data) }
func (m *mbc5) Dirty() bool         { return m.dirty }
func (m *mbc5) ClearDirty()         { m.dirty = false }

var _ types.Stater = (*mbc5)(nil)

func (m *mbc5) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramg)
	s.Write8(m.romBankLo)
	s.Write8(m.romBankHi)
	s.Write8(m.ramBank)
	s.WriteBool(m.dirty)
}
func (m *mbc5) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramg = s.ReadBool()
	m.romBankLo = s.Read8()
	m.romBankHi = s.Read8()
	m.ramBank = s.Read8()
	m.dirty = s.ReadBool()
}
