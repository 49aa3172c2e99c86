package mbc

import "github.com/hopperlabs/gbx/internal/types"

// mbc1 implements the MBC1 bank-switching scheme: a 5-bit lower ROM
// bank register (bank1, the bank-0 remap applies here), a 2-bit upper
// register (bank2, doubling as ROM bits 5-6 or the RAM bank number
// depending on mode), and a 1-bit banking mode.
type mbc1 struct {
	rom []byte
	ram []byte

	ramg  bool // RAM gate, 0x0000-0x1FFF
	bank1 uint8
	bank2 uint8
	mode  bool

	dirty bool
}

func newMBC1(rom []byte, ramSize int) *mbc1 {
	return &mbc1{rom: rom, ram: make([]byte, ramSize), bank1: 1}
}

func (m *mbc1) romBank() int {
	bank := int(m.bank1) | int(m.bank2)<<5
	if n := romBankCount(m.rom); n > 0 {
		bank %= n
	}
	return bank
}

// zeroBank is the bank mapped at 0x0000-0x3FFF. In mode 1 (large ROM/
// large RAM), bank2 additionally selects among ROM banks 0x00, 0x20,
// 0x40, 0x60 here; in mode 0 it is always bank 0.
func (m *mbc1) zeroBank() int {
	if !m.mode {
		return 0
	}
	bank := int(m.bank2) << 5
	if n := romBankCount(m.rom); n > 0 {
		bank %= n
	}
	return bank
}

func (m *mbc1) ramBank() int {
	if !m.mode {
		return 0
	}
	return int(m.bank2 & 0x03)
}

func (m *mbc1) ReadROM(addr uint16) uint8 {
	var offset int
	if addr < 0x4000 {
		offset = m.zeroBank()*0x4000 + int(addr)
	} else {
		offset = m.romBank()*0x4000 + int(addr-0x4000)
	}
	if offset < len(m.rom) {
		return m.rom[offset]
	}
	return 0xFF
}

func (m *mbc1) WriteROM(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.ramg = val&0x0F == 0x0A
	case addr < 0x4000:
		v := val & 0x1F
		if v == 0 {
			v = 1
		}
		m.bank1 = v
	case addr < 0x6000:
		m.bank2 = val & 0x03
	default:
		m.mode = val&0x01 == 0x01
	}
}

func (m *mbc1) ReadRAM(addr uint16) uint8 {
	if !m.ramg || len(m.ram) == 0 {
		return 0xFF
	}
	idx := m.ramBank()*0x2000 + int(addr-0xA000)
	if idx < len(m.ram) {
		return m.ram[idx]
	}
	return 0xFF
}

func (m *mbc1) WriteRAM(addr uint16, val uint8) {
	if !m.ramg || len(m.ram) == 0 {
		return
	}
	idx := m.ramBank()*0x2000 + int(addr-0xA000)
	if idx < len(m.ram) {
		m.ram[idx] = val
		m.dirty = true
	}
}

func (m *mbc1) RAMBytes() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	return m.ram
}
func (m *mbc1) LoadRAM(data []byte) { copy(m.ram, data) }
func (m *mbc1) Dirty() bool         { return m.dirty }
func (m *mbc1) ClearDirty()         { m.dirty = false }

var _ types.Stater = (*mbc1)(nil)

func (m *mbc1) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramg)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
	s.WriteBool(m.dirty)
}
func (m *mbc1) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramg = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
	m.dirty = s.ReadBool()
}
