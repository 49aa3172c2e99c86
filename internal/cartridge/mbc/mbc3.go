package mbc

import "github.com/hopperlabs/gbx/internal/types"

// rtc register indices within the 5-byte RTC blob, in the order the
// engine and save files round-trip them: S, M, H, DL, DH.
const (
	rtcS = iota
	rtcM
	rtcH
	rtcDL
	rtcDH
)

// mbc3 implements the MBC3 scheme: a 7-bit ROM bank register (bank 0
// remaps to bank 1), a 4-bit RAM/RTC selector, and an optional
// real-time clock exposed at selector values 0x08-0x0C.
type mbc3 struct {
	rom []byte
	ram []byte

	romBank uint8
	selector uint8
	ramg     bool

	hasRTC bool
	rtc    [5]uint8 // live registers: S, M, H, DL, DH
	latch  [5]uint8 // latched snapshot exposed through the RAM window
	latchWriteSeenZero bool

	dirty bool
}

func newMBC3(rom []byte, ramSize int, rtc bool) *mbc3 {
	return &mbc3{rom: rom, ram: make([]byte, ramSize), romBank: 1, hasRTC: rtc}
}

func (m *mbc3) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	}
	bank := int(m.romBank)
	if n := romBankCount(m.rom); n > 0 {
		bank %= n
	}
	offset := bank*0x4000 + int(addr-0x4000)
	if offset < len(m.rom) {
		return m.rom[offset]
	}
	return 0xFF
}

func (m *mbc3) WriteROM(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.ramg = val&0x0F == 0x0A
	case addr < 0x4000:
		v := val & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.selector = val & 0x0F
	default:
		// latch sequence: write 0 then 1 copies the live RTC into the
		// visible (latched) registers.
		if val == 0x00 {
			m.latchWriteSeenZero = true
		} else if val == 0x01 && m.latchWriteSeenZero {
			m.latch = m.rtc
			m.latchWriteSeenZero = false
		} else {
			m.latchWriteSeenZero = false
		}
	}
}

// isRTCSelected reports whether the current selector exposes an RTC
// register (0x08 = S, 0x09 = M, 0x0A = H, 0x0B = DL, 0x0C = DH)
// instead of a RAM bank.
func (m *mbc3) isRTCSelected() bool {
	return m.hasRTC && m.selector >= 0x08 && m.selector <= 0x0C
}

func (m *mbc3) ReadRAM(addr uint16) uint8 {
	if !m.ramg {
		return 0xFF
	}
	if m.isRTCSelected() {
		return m.latch[m.selector-0x08]
	}
	idx := int(m.selector)*0x2000 + int(addr-0xA000)
	if idx >= 0 && idx < len(m.ram) {
		return m.ram[idx]
	}
	return 0xFF
}

func (m *mbc3) WriteRAM(addr uint16, val uint8) {
	if !m.ramg {
		return
	}
	if m.isRTCSelected() {
		reg := m.selector - 0x08
		m.rtc[reg] = val
		m.latch[reg] = val
		m.dirty = true
		return
	}
	idx := int(m.selector)*0x2000 + int(addr-0xA000)
	if idx >= 0 && idx < len(m.ram) {
		m.ram[idx] = val
		m.dirty = true
	}
}

// TickSeconds advances the live RTC by whole seconds, rippling S->M->
// H->day-counter, unless halted (DH bit 6).
func (m *mbc3) TickSeconds(seconds int) {
	if m.rtc[rtcDH]&0x40 != 0 { // halt bit
		return
	}
	total := int(m.rtc[rtcS]) + int(m.rtc[rtcM])*60 + int(m.rtc[rtcH])*3600
	days := int(m.rtc[rtcDL]) | int(m.rtc[rtcDH]&0x01)<<8
	total += seconds
	days += total / 86400
	total %= 86400

	m.rtc[rtcH] = uint8(total / 3600)
	total %= 3600
	m.rtc[rtcM] = uint8(total / 60)
	m.rtc[rtcS] = uint8(total % 60)

	overflow := m.rtc[rtcDH] & 0x80
	if days > 0x1FF {
		days %= 0x200
		overflow = 0x80 // sticky day-overflow bit
	}
	m.rtc[rtcDL] = uint8(days & 0xFF)
	m.rtc[rtcDH] = m.rtc[rtcDH]&0x3E | uint8(days>>8)&0x01 | overflow
}

func (m *mbc3) RTCBytes() []byte {
	if !m.hasRTC {
		return nil
	}
	return append([]byte(nil), m.rtc[:]...)
}

func (m *mbc3) LoadRTC(data []byte) {
	if !m.hasRTC || len(data) != 5 {
		return
	}
	copy(m.rtc[:], data)
	m.latch = m.rtc
}

func (m *mbc3) RAMBytes() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	return m.ram
}
func (m *mbc3) LoadRAM(data []byte) { copy(m.ram, data) }
func (m *mbc3) Dirty() bool         { return m.dirty }
func (m *mbc3) ClearDirty()         { m.dirty = false }

var _ types.Stater = (*mbc3)(nil)
var _ RTC = (*mbc3)(nil)

func (m *mbc3) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramg)
	s.Write8(m.romBank)
	s.Write8(m.selector)
	s.WriteData(m.rtc[:])
	s.WriteData(m.latch[:])
	s.WriteBool(m.dirty)
}
func (m *mbc3) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramg = s.ReadBool()
	m.romBank = s.Read8()
	m.selector = s.Read8()
	s.ReadData(m.rtc[:])
	s.ReadData(m.latch[:])
	m.dirty = s.ReadBool()
}
