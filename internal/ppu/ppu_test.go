package ppu

import (
	"testing"

	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/ppu/lcd"
	"github.com/hopperlabs/gbx/internal/ppu/palette"
	"github.com/hopperlabs/gbx/internal/types"
)

func TestFullFrameReturnsToLineZeroOAMScan(t *testing.T) {
	irq := interrupts.NewService()
	p := New(types.DMG, irq)
	if p.LY != 0 || p.STAT.Mode != lcd.OAMScan {
		t.Fatalf("initial state: LY=%d mode=%d, want LY=0 mode=OAMScan", p.LY, p.STAT.Mode)
	}

	const cyclesPerFrame = 70224
	for i := 0; i < cyclesPerFrame/cyclesPerLine; i++ {
		p.Step(cyclesPerLine)
	}

	if p.LY != 0 {
		t.Errorf("LY = %d, want 0", p.LY)
	}
	if p.STAT.Mode != lcd.OAMScan {
		t.Errorf("mode = %d, want OAMScan", p.STAT.Mode)
	}
}

func TestVBlankRequestsVBlankInterruptAtLine144(t *testing.T) {
	irq := interrupts.NewService()
	p := New(types.DMG, irq)

	for p.LY != 144 {
		p.Step(1)
	}
	if irq.Flag&(1<<interrupts.VBlank) == 0 {
		t.Errorf("VBlank interrupt not requested on entering line 144")
	}
}

func TestLYCMatchRequestsLCDStatWhenEnabled(t *testing.T) {
	irq := interrupts.NewService()
	p := New(types.DMG, irq)
	p.Write(0xFF41, 0x40) // enable LYC=LY STAT interrupt
	p.Write(0xFF45, 5)    // LYC = 5

	for p.LY != 5 {
		p.Step(1)
	}
	if irq.Flag&(1<<interrupts.LCDStat) == 0 {
		t.Errorf("LCDStat interrupt not requested when LY reached LYC")
	}
}

func TestScanlineCallbackFiresOncePerLine(t *testing.T) {
	irq := interrupts.NewService()
	p := New(types.DMG, irq)
	var lines []uint8
	p.SetScanlineFunc(func(line uint8, _ [ScreenWidth][3]uint8) {
		lines = append(lines, line)
	})

	for i := 0; i < ScreenHeight; i++ {
		p.Step(cyclesPerLine)
	}

	if len(lines) != ScreenHeight {
		t.Fatalf("got %d scanline callbacks, want %d", len(lines), ScreenHeight)
	}
	for i, l := range lines {
		if l != uint8(i) {
			t.Errorf("scanline callback %d reported line %d", i, l)
		}
	}
}

func TestBackgroundDisabledRendersBlankLine(t *testing.T) {
	irq := interrupts.NewService()
	p := New(types.DMG, irq)
	p.Write(0xFF40, 0x80) // LCD on, everything else off (BG disabled)

	p.Step(cyclesOAMScan + cyclesLCDTransfer)
	for _, c := range p.composited {
		want := palette.Greyscale[0]
		if c != want {
			t.Fatalf("expected blank white line when BG disabled, got %v", c)
		}
	}
}
