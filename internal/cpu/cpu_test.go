package cpu

import (
	"testing"

	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

type fakeBus struct {
	mem [0x10000]uint8
}

func (b *fakeBus) Read(addr uint16) uint8    { return b.mem[addr] }
func (b *fakeBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

func newTestCPU() (*CPU, *fakeBus, *interrupts.Service) {
	bus := &fakeBus{}
	irq := interrupts.NewService()
	c := New(bus, irq, gblog.Null())
	return c, bus, irq
}

func TestAddThenSubRestoresAccumulator(t *testing.T) {
	for _, r := range []uint8{0, 1, 0x0F, 0x7F, 0x80, 0xFF} {
		for _, v := range []uint8{0, 1, 0x0F, 0x80, 0xFF} {
			c, _, _ := newTestCPU()
			c.A = r
			c.add8(v, 0)
			c.sub8(v, 0, false)
			if c.A != r {
				t.Errorf("ADD %#x then SUB %#x: got A=%#x, want %#x", v, v, c.A, r)
			}
		}
	}
}

func TestSubtractFromSelfIsZero(t *testing.T) {
	for _, v := range []uint8{0, 1, 0x0F, 0x80, 0xFF} {
		c, _, _ := newTestCPU()
		c.A = v
		c.sub8(v, 0, false)
		if c.A != 0 || !c.flagSet(FlagZ) || !c.flagSet(FlagN) || c.flagSet(FlagH) || c.flagSet(FlagC) {
			t.Errorf("SUB %#x,%#x: got A=%#x F=%#x, want A=0 Z=1 N=1 H=0 C=0", v, v, c.A, c.F)
		}
	}
}

func TestSwapIsSelfInverse(t *testing.T) {
	for r := 0; r < 256; r++ {
		c, _, _ := newTestCPU()
		v := uint8(r)
		result := c.swap(c.swap(v))
		if result != v {
			t.Fatalf("SWAP twice: got %#x, want %#x", result, v)
		}
		c.swap(v)
		if c.flagSet(FlagC) || c.flagSet(FlagH) || c.flagSet(FlagN) {
			t.Fatalf("SWAP %#x: expected C=H=N=0", v)
		}
		wantZ := v == 0
		if c.flagSet(FlagZ) != wantZ {
			t.Fatalf("SWAP %#x: Z=%v, want %v", v, c.flagSet(FlagZ), wantZ)
		}
	}
}

func TestBitResBitRoundTrip(t *testing.T) {
	for r := 0; r < 256; r++ {
		for bit := uint8(0); bit < 8; bit++ {
			c, _, _ := newTestCPU()
			v := uint8(r)
			c.bit(bit, v)
			v = v &^ (1 << bit) // RES bit,v
			c.bit(bit, v)
			if !c.flagSet(FlagZ) {
				t.Fatalf("BIT %d after RES %d on %#x: Z not set", bit, bit, r)
			}
		}
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SP = 0xFFFE
	for _, v := range []uint16{0x0000, 0x1234, 0xFFFF, 0xABCD} {
		c.push16(v)
		got := c.pop16()
		if got != v {
			t.Errorf("push/pop %#04x: got %#04x", v, got)
		}
	}
}

func TestPopAFMasksLowNibble(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SP = 0xFFFE
	c.push16(0x12FF) // low byte 0xFF would set all F bits if unmasked
	c.setRegPairStack(3, c.pop16())
	if c.F != 0xF0 {
		t.Errorf("POP AF: got F=%#02x, want F=%#02x (low nibble masked)", c.F, 0xF0)
	}
}

func TestFiveNOPsAdvancePCAndReturnFiveCycles(t *testing.T) {
	c, bus, _ := newTestCPU()
	for i := range bus.mem[:5] {
		bus.mem[i] = 0x00
	}
	var total uint8
	for i := 0; i < 5; i++ {
		total += c.Step()
	}
	if c.PC != 5 {
		t.Errorf("PC = %d, want 5", c.PC)
	}
	if total != 5 {
		t.Errorf("total cycles = %d, want 5", total)
	}
	if c.A != 0 || c.B != 0 || c.F != 0 {
		t.Errorf("registers should remain zero after NOPs")
	}
}

func TestLoadImmediateThenStoreToMemory(t *testing.T) {
	c, bus, _ := newTestCPU()
	prog := []uint8{0x3E, 0x42, 0x21, 0x00, 0xC0, 0x77} // LD A,0x42; LD HL,0xC000; LD (HL),A
	copy(bus.mem[:], prog)
	for i := 0; i < 3; i++ {
		c.Step()
	}
	if bus.mem[0xC000] != 0x42 {
		t.Errorf("(0xC000) = %#02x, want 0x42", bus.mem[0xC000])
	}
}

func TestTimerInterruptVectorsToHandler(t *testing.T) {
	c, bus, irq := newTestCPU()
	irq.WriteIE(0x04) // Timer
	irq.Request(interrupts.Timer)
	c.ime = imeEnabled
	bus.mem[0x0050] = 0x00 // NOP at the vector, so the next Step doesn't fault
	cycles := c.Step()
	if cycles != 5 {
		t.Errorf("interrupt service returned %d cycles, want 5", cycles)
	}
	if c.PC != 0x0050 {
		t.Errorf("PC = %#04x, want 0x0050", c.PC)
	}
	if irq.ReadIF()&0x04 != 0 {
		t.Errorf("Timer IF bit should be cleared after service")
	}
}

func TestEIDelaysInterruptByOneInstruction(t *testing.T) {
	c, bus, irq := newTestCPU()
	bus.mem[0] = 0xFB // EI
	bus.mem[1] = 0x00 // NOP, must run uninterrupted
	bus.mem[2] = 0x00
	irq.WriteIE(0x01)
	irq.Request(interrupts.VBlank)

	c.Step() // EI
	if c.PC != 1 {
		t.Fatalf("after EI, PC = %d, want 1", c.PC)
	}
	c.Step() // NOP immediately after EI: must not be interrupted
	if c.PC != 2 {
		t.Fatalf("instruction after EI should not be interrupted, PC = %d, want 2", c.PC)
	}
	bus.mem[0x0040] = 0x00
	cycles := c.Step() // now IME is enabled: interrupt should fire
	if cycles != 5 || c.PC != 0x0040 {
		t.Fatalf("expected interrupt service after EI's delay, got cycles=%d PC=%#04x", cycles, c.PC)
	}
}
