package mbc

import "testing"

func newTestROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b) // tag each bank's first byte with its index
	}
	return rom
}

func TestMBC1BankZeroRemap(t *testing.T) {
	m := newMBC1(newTestROM(4), 0)
	m.WriteROM(0x2000, 0x00) // write 0 to the 5-bit lower register
	if got := m.ReadROM(0x4000); got != 1 {
		t.Errorf("bank0 remap: got bank tag %d, want 1", got)
	}
}

func TestMBC1LargeROMComposition(t *testing.T) {
	m := newMBC1(newTestROM(128), 0)
	m.WriteROM(0x4000, 0x21) // upper register: only the low 2 bits are used
	m.WriteROM(0x2000, 0x01) // lower register
	if got := m.ReadROM(0x4000); got != 0x21 {
		t.Errorf("lower=1: got bank %d, want 0x21", got)
	}

	// writing 0 to the lower register rewrites it to 1, so the
	// resulting bank is identical to writing 1 directly.
	m.WriteROM(0x2000, 0x00)
	if got := m.ReadROM(0x4000); got != 0x21 {
		t.Errorf("lower=0 (remapped to 1): got bank %d, want 0x21", got)
	}
}

func TestMBC1RAMBanking(t *testing.T) {
	m := newMBC1(newTestROM(4), 4*0x2000)
	m.WriteROM(0x0000, 0x0A) // enable RAM
	m.WriteROM(0x6000, 0x01) // banking mode 1 (RAM banking enabled)
	m.WriteROM(0x4000, 0x02) // RAM bank 2

	m.WriteRAM(0xA000, 0x99)
	if got := m.ReadRAM(0xA000); got != 0x99 {
		t.Errorf("got %02X, want 0x99", got)
	}

	m.WriteROM(0x4000, 0x00) // switch back to bank 0
	if got := m.ReadRAM(0xA000); got == 0x99 {
		t.Errorf("expected bank 0 to be distinct from bank 2, got same value")
	}
}

func TestMBC1RAMDisabledReadsFF(t *testing.T) {
	m := newMBC1(newTestROM(2), 0x2000)
	if got := m.ReadRAM(0xA000); got != 0xFF {
		t.Errorf("RAM disabled: got %02X, want 0xFF", got)
	}
}
