// Package ppu implements the LCD state machine and scanline renderer:
// OAM-scan, LCD-transfer, H-blank timing across 144 visible lines plus
// V-blank, background/window/sprite compositing, and the DMG/CGB
// palette paths.
package ppu

import (
	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/ppu/lcd"
	"github.com/hopperlabs/gbx/internal/ppu/palette"
	"github.com/hopperlabs/gbx/internal/types"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	cyclesOAMScan     = 80
	cyclesLCDTransfer = 172
	cyclesHBlank      = 204
	cyclesPerLine     = cyclesOAMScan + cyclesLCDTransfer + cyclesHBlank
)

// ModeSample records one mode transition, consumed by
// internal/debugtools to plot per-scanline timing.
type ModeSample struct {
	Line  uint8
	Mode  lcd.Mode
	Frame uint64
}

type pixel struct {
	code     uint8
	palette  uint8
	priority bool // CGB BG-over-OBJ tag for this pixel
}

type PPU struct {
	LCDC *lcd.Controller
	STAT *lcd.Status

	LY, LYC  uint8
	SCY, SCX uint8
	WY, WX   uint8
	BGP      uint8
	OBP0     uint8
	OBP1     uint8

	vram     [2][0x2000]uint8
	vramBank uint8
	oam      [160]uint8

	bgPalette  *palette.CGB
	objPalette *palette.CGB

	model types.Model
	irq   *interrupts.Service

	dot        uint16
	windowLine uint8
	bgLine     [ScreenWidth]pixel
	composited [ScreenWidth][3]uint8
	frame      uint64

	scanlineFunc func(line uint8, pixels [ScreenWidth][3]uint8)
	hblankFunc   func()

	Trace      bool
	ModeTrace  []ModeSample
}

func New(model types.Model, irq *interrupts.Service) *PPU {
	p := &PPU{
		LCDC:       lcd.NewController(),
		STAT:       &lcd.Status{Mode: lcd.OAMScan},
		model:      model,
		irq:        irq,
		bgPalette:  palette.NewCGB(),
		objPalette: palette.NewCGB(),
	}
	p.LCDC.Write(0x91)
	p.BGP = 0xFC
	p.OBP0, p.OBP1 = 0xFF, 0xFF
	return p
}

// SetScanlineFunc registers the callback invoked with a finished line's
// pixels at H-blank entry.
func (p *PPU) SetScanlineFunc(f func(line uint8, pixels [ScreenWidth][3]uint8)) {
	p.scanlineFunc = f
}

// SetHBlankFunc registers the callback invoked once per line when the
// GPU enters H-blank, used to drive the CGB H-blank HDMA transfer.
func (p *PPU) SetHBlankFunc(f func()) { p.hblankFunc = f }

// Step advances the GPU by cycles CPU oscillator cycles.
func (p *PPU) Step(cycles uint16) {
	for i := uint16(0); i < cycles; i++ {
		p.tick()
	}
}

func (p *PPU) tick() {
	if !p.LCDC.Enabled {
		return
	}
	p.dot++
	switch p.STAT.Mode {
	case lcd.OAMScan:
		if p.dot == cyclesOAMScan {
			p.dot = 0
			p.setMode(lcd.LCDTransfer)
		}
	case lcd.LCDTransfer:
		if p.dot == cyclesLCDTransfer {
			p.dot = 0
			p.renderScanline()
			if p.scanlineFunc != nil {
				p.scanlineFunc(p.LY, p.composited)
			}
			p.setMode(lcd.HBlank)
			if p.hblankFunc != nil {
				p.hblankFunc()
			}
		}
	case lcd.HBlank:
		if p.dot == cyclesHBlank {
			p.dot = 0
			p.LY++
			p.checkLYC()
			if p.LY == ScreenHeight {
				p.setMode(lcd.VBlank)
				p.irq.Request(interrupts.VBlank)
				p.frame++
			} else {
				p.setMode(lcd.OAMScan)
			}
		}
	case lcd.VBlank:
		if p.dot == cyclesPerLine {
			p.dot = 0
			p.LY++
			p.checkLYC()
			if p.LY > 153 {
				p.LY = 0
				p.windowLine = 0
				p.setMode(lcd.OAMScan)
				p.checkLYC()
			}
		}
	}
}

func (p *PPU) setMode(m lcd.Mode) {
	p.STAT.Mode = m
	if p.Trace {
		p.ModeTrace = append(p.ModeTrace, ModeSample{Line: p.LY, Mode: m, Frame: p.frame})
	}
	switch m {
	case lcd.HBlank:
		if p.STAT.HBlankInterrupt {
			p.irq.Request(interrupts.LCDStat)
		}
	case lcd.VBlank:
		if p.STAT.VBlankInterrupt {
			p.irq.Request(interrupts.LCDStat)
		}
	case lcd.OAMScan:
		if p.STAT.OAMInterrupt {
			p.irq.Request(interrupts.LCDStat)
		}
	}
}

func (p *PPU) checkLYC() {
	p.STAT.Coincidence = p.LY == p.LYC
	if p.STAT.Coincidence && p.STAT.CoincidenceInterrupt {
		p.irq.Request(interrupts.LCDStat)
	}
}
