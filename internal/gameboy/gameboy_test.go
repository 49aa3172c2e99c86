package gameboy

import (
	"testing"

	"github.com/hopperlabs/gbx/internal/interrupts"
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// buildROM constructs a minimal, checksum-valid 32KiB ROMOnly header
// around program, which is placed starting at 0x0000. Passing
// rom[:0x100] as the boot ROM runs program from reset with every
// register zeroed.
func buildROM(program []byte) []byte {
	rom := make([]byte, 32*1024)
	copy(rom[0x104:0x134], nintendoLogo[:])
	copy(rom[0x0000:], program)
	rom[0x147] = 0x00 // ROMOnly
	rom[0x148] = 0x00 // 32 KiB
	rom[0x149] = 0x00 // no RAM

	var sum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		sum = sum - rom[addr] - 1
	}
	rom[0x14D] = sum
	return rom
}

func TestBootlessROMHeaderCheck(t *testing.T) {
	rom := buildROM(nil)
	core, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if core.cart.Header.Type != 0 {
		t.Errorf("header.Type = %v, want ROMOnly(0)", core.cart.Header.Type)
	}
	if core.cart.Header.ROMSize != 32*1024 {
		t.Errorf("header.ROMSize = %d, want 32768", core.cart.Header.ROMSize)
	}
}

func TestFiveNOPsAdvancePCAndLeaveRegistersZero(t *testing.T) {
	program := []byte{0x00, 0x00, 0x00, 0x00, 0x00}
	rom := buildROM(program)
	core, err := New(rom, WithBootROM(rom[:0x100]))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var total uint16
	for i := 0; i < 5; i++ {
		before := core.CPU.PC
		core.Step()
		total += core.CPU.PC - before
	}

	if core.CPU.PC != 5 {
		t.Errorf("PC = %d, want 5", core.CPU.PC)
	}
	if core.CPU.SP != 0 {
		t.Errorf("SP = %d, want 0", core.CPU.SP)
	}
	regs := [8]uint8{core.CPU.A, core.CPU.F, core.CPU.B, core.CPU.C, core.CPU.D, core.CPU.E, core.CPU.H, core.CPU.L}
	for i, r := range regs {
		if r != 0 {
			t.Errorf("register %d = %d, want 0", i, r)
		}
	}
}

func TestLoadImmediateThenStoreToMemory(t *testing.T) {
	program := []byte{0x3E, 0x42, 0x21, 0x00, 0xC0, 0x77}
	rom := buildROM(program)
	core, err := New(rom, WithBootROM(rom[:0x100]))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		core.Step()
	}

	if got := core.MMU.Read(0xC000); got != 0x42 {
		t.Errorf("mem[0xC000] = 0x%02X, want 0x42", got)
	}
}

func TestTimerOverflowVectorsToHandler(t *testing.T) {
	program := make([]byte, 32) // all NOPs
	program[0] = 0xFB           // EI
	program[1] = 0x00           // NOP, closes the EI one-instruction delay
	rom := buildROM(program)
	core, err := New(rom, WithBootROM(rom[:0x100]))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	core.MMU.Write(0xFF07, 0x05) // TAC: enabled, every 16 oscillator cycles
	core.MMU.Write(0xFF06, 0xFE) // TMA
	core.MMU.Write(0xFF05, 0xFE) // TIMA
	core.MMU.Write(0xFFFF, 0x04) // IE: Timer

	core.Step()
	core.Step()

	reachedVector := false
	for i := 0; i < 16; i++ {
		core.Step()
		if core.CPU.PC == interrupts.Timer.Vector() {
			reachedVector = true
			break
		}
	}

	if !reachedVector {
		t.Fatalf("PC never reached Timer vector 0x%04X (stuck at 0x%04X)", interrupts.Timer.Vector(), core.CPU.PC)
	}
}

func TestVBlankInterruptServicedAtLine144(t *testing.T) {
	program := []byte{
		0xFB,       // EI
		0x00,       // NOP
		0x18, 0xFE, // JR -2: spin here until the interrupt arrives
	}
	rom := buildROM(program)
	core, err := New(rom, WithBootROM(rom[:0x100]))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	core.MMU.Write(0xFFFF, 0x01) // IE: VBlank only
	core.Step()
	core.Step()

	for core.PPU.LY != 144 {
		core.Step()
	}
	// give the CPU a chance to service the now-pending interrupt
	for i := 0; i < 2 && core.CPU.PC != interrupts.VBlank.Vector(); i++ {
		core.Step()
	}

	if core.CPU.PC != interrupts.VBlank.Vector() {
		t.Errorf("PC = 0x%04X, want VBlank vector 0x%04X", core.CPU.PC, interrupts.VBlank.Vector())
	}
}
