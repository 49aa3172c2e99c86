package mbc

import "testing"

func TestMBC3RTCLatchAndHalt(t *testing.T) {
	m := newMBC3(newTestROM(2), 0x2000, true)
	m.WriteROM(0x0000, 0x0A) // enable RAM/RTC access

	m.TickSeconds(3661) // 1h 1m 1s, halt bit clear

	m.WriteROM(0x4000, 0x09) // select RTC_M
	m.WriteROM(0x6000, 0x00) // latch sequence: 0 then 1
	m.WriteROM(0x6000, 0x01)

	if got := m.ReadRAM(0xA000); got != 1 {
		t.Errorf("latched RTC_M = %d, want 1", got)
	}

	m.WriteROM(0x4000, 0x0C) // select DH
	m.WriteRAM(0xA000, 0x40) // set halt bit

	before := m.rtc[rtcS]
	m.TickSeconds(10)
	if m.rtc[rtcS] != before {
		t.Errorf("seconds advanced after halt: got %d, want %d", m.rtc[rtcS], before)
	}
}

func TestMBC3RTCLatchRequiresZeroThenOne(t *testing.T) {
	m := newMBC3(newTestROM(2), 0x2000, true)
	m.WriteROM(0x0000, 0x0A)
	m.TickSeconds(5)

	m.WriteROM(0x4000, 0x08) // select RTC_S
	m.WriteROM(0x6000, 0x01) // 1 without a preceding 0 does not latch

	if got := m.ReadRAM(0xA000); got != 0 {
		t.Errorf("latched RTC_S = %d, want 0 (no latch should have occurred)", got)
	}
}

func TestMBC3RAMDisabledReadsFF(t *testing.T) {
	m := newMBC3(newTestROM(2), 0x2000, false)
	if got := m.ReadRAM(0xA000); got != 0xFF {
		t.Errorf("RAM disabled: got %02X, want 0xFF", got)
	}
}
