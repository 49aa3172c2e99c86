// Package lcd decodes the LCDC and STAT registers shared by the GPU's
// rendering and mode-timing logic.
package lcd

import "github.com/hopperlabs/gbx/pkg/bits"

// Mode is one of the four LCD states a visible or V-blank line cycles
// through.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	LCDTransfer
)

// Controller decodes LCDC (0xFF40).
type Controller struct {
	Enabled                  bool
	WindowTileMapHigh        bool // false: 0x9800, true: 0x9C00
	WindowEnabled            bool
	TileDataUnsigned         bool // true: 0x8000 unsigned, false: 0x9000 signed
	BackgroundTileMapHigh    bool // false: 0x9800, true: 0x9C00
	SpriteSize               uint8
	SpriteEnabled            bool
	BackgroundEnabled        bool // CGB: BG-over-OBJ master priority
}

func NewController() *Controller {
	return &Controller{SpriteSize: 8}
}

func (c *Controller) Write(v uint8) {
	c.Enabled = bits.Test(v, bits.Bit7)
	c.WindowTileMapHigh = bits.Test(v, bits.Bit6)
	c.WindowEnabled = bits.Test(v, bits.Bit5)
	c.TileDataUnsigned = bits.Test(v, bits.Bit4)
	c.BackgroundTileMapHigh = bits.Test(v, bits.Bit3)
	if bits.Test(v, bits.Bit2) {
		c.SpriteSize = 16
	} else {
		c.SpriteSize = 8
	}
	c.SpriteEnabled = bits.Test(v, bits.Bit1)
	c.BackgroundEnabled = bits.Test(v, bits.Bit0)
}

func (c *Controller) Read() uint8 {
	var v uint8
	if c.Enabled {
		v |= bits.Bit7
	}
	if c.WindowTileMapHigh {
		v |= bits.Bit6
	}
	if c.WindowEnabled {
		v |= bits.Bit5
	}
	if c.TileDataUnsigned {
		v |= bits.Bit4
	}
	if c.BackgroundTileMapHigh {
		v |= bits.Bit3
	}
	if c.SpriteSize == 16 {
		v |= bits.Bit2
	}
	if c.SpriteEnabled {
		v |= bits.Bit1
	}
	if c.BackgroundEnabled {
		v |= bits.Bit0
	}
	return v
}

// Status decodes STAT (0xFF41). Mode and Coincidence are read-only from
// the CPU's point of view; the GPU's mode state machine drives them.
type Status struct {
	CoincidenceInterrupt bool
	OAMInterrupt         bool
	VBlankInterrupt      bool
	HBlankInterrupt      bool
	Coincidence          bool
	Mode                 Mode
}

func (s *Status) Write(v uint8) {
	s.CoincidenceInterrupt = bits.Test(v, bits.Bit6)
	s.OAMInterrupt = bits.Test(v, bits.Bit5)
	s.VBlankInterrupt = bits.Test(v, bits.Bit4)
	s.HBlankInterrupt = bits.Test(v, bits.Bit3)
}

func (s *Status) Read() uint8 {
	var v uint8 = 0x80 // bit 7 always reads 1
	if s.CoincidenceInterrupt {
		v |= bits.Bit6
	}
	if s.OAMInterrupt {
		v |= bits.Bit5
	}
	if s.VBlankInterrupt {
		v |= bits.Bit4
	}
	if s.HBlankInterrupt {
		v |= bits.Bit3
	}
	if s.Coincidence {
		v |= bits.Bit2
	}
	v |= uint8(s.Mode) & 0x03
	return v
}
