package timer

import (
	"testing"

	"github.com/hopperlabs/gbx/internal/interrupts"
)

func TestTIMAOverflowReloadsTMAAndRequestsInterrupt(t *testing.T) {
	irq := interrupts.NewService()
	c := NewController(irq)
	c.WriteTAC(0x05) // enabled, period 16
	c.WriteTMA(0xFE)
	c.WriteTIMA(0xFE)

	c.Step(32) // two periods: 0xFE -> 0xFF -> overflow -> reload

	if c.tima != 0xFE {
		t.Errorf("TIMA = %#02x, want 0xFE (reloaded from TMA)", c.tima)
	}
	if irq.ReadIF()&0x04 == 0 {
		t.Errorf("Timer IF bit not set after TIMA overflow")
	}
}

func TestTIMADoesNotOverflowBeforeItsPeriodElapses(t *testing.T) {
	irq := interrupts.NewService()
	c := NewController(irq)
	c.WriteTAC(0x05) // period 16
	c.WriteTMA(0xFE)
	c.WriteTIMA(0xFE)

	c.Step(31)

	if c.tima != 0xFF {
		t.Errorf("TIMA = %#02x, want 0xFF (one increment short of overflow)", c.tima)
	}
	if irq.ReadIF()&0x04 != 0 {
		t.Errorf("Timer IF bit should not be set yet")
	}
}

func TestWriteDIVResetsFreeRunningCounter(t *testing.T) {
	c := NewController(interrupts.NewService())
	for i := 0; i < 300; i++ {
		c.Step(1)
	}
	if c.ReadDIV() == 0 {
		t.Fatalf("DIV should have advanced after 300 cycles")
	}

	c.WriteDIV(0xFF) // any written value resets the counter to 0
	if c.ReadDIV() != 0 {
		t.Errorf("DIV = %#02x after write, want 0", c.ReadDIV())
	}
	if c.DIV16() != 0 {
		t.Errorf("DIV16 = %#04x after write, want 0", c.DIV16())
	}
}

func TestTACPeriodTable(t *testing.T) {
	cases := []struct {
		tac    uint8
		period uint16
	}{
		{0x04, 1024},
		{0x05, 16},
		{0x06, 64},
		{0x07, 256},
	}

	for _, tc := range cases {
		irq := interrupts.NewService()
		c := NewController(irq)
		c.WriteTAC(tc.tac)
		c.WriteTMA(0)
		c.WriteTIMA(0xFF) // one more tick overflows

		for i := uint16(0); i < tc.period-1; i++ {
			c.Step(1)
		}
		if c.tima != 0xFF {
			t.Errorf("TAC=%#02x: TIMA=%#02x before period elapses, want 0xFF unchanged", tc.tac, c.tima)
		}

		c.Step(1)
		if c.tima != 0 {
			t.Errorf("TAC=%#02x: TIMA=%#02x after period elapses, want 0 (overflowed)", tc.tac, c.tima)
		}
	}
}

func TestTimerDisabledDoesNotAdvanceTIMA(t *testing.T) {
	c := NewController(interrupts.NewService())
	c.WriteTAC(0x00) // disabled (bit 2 clear)
	c.WriteTIMA(0x10)

	c.Step(255)

	if c.tima != 0x10 {
		t.Errorf("TIMA = %#02x, want unchanged 0x10 while timer disabled", c.tima)
	}
}

func TestReadTACMasksUnusedBitsHigh(t *testing.T) {
	c := NewController(interrupts.NewService())
	c.WriteTAC(0x05)
	if got := c.ReadTAC(); got != 0xFD {
		t.Errorf("ReadTAC() = %#02x, want 0xFD (unused bits read as 1)", got)
	}
}
