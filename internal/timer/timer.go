// Package timer implements the DIV/TIMA/TMA/TAC register chain that
// drives the Timer interrupt from the CPU's raw oscillator cycle count.
package timer

import (
	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/types"
)

// tacCycles maps TAC's bottom 2 bits to the number of CPU oscillator
// cycles between TIMA increments.
var tacCycles = [4]uint16{1024, 16, 64, 256}

// Controller owns DIV (the high byte of a free-running 16-bit counter)
// and the TIMA/TMA/TAC overflow chain.
type Controller struct {
	div  uint16 // free-running counter; DIV register reads the high byte
	tima uint8
	tma  uint8
	tac  uint8

	irq *interrupts.Service
}

func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// Step advances the timer by cycles CPU oscillator cycles.
func (c *Controller) Step(cycles uint8) {
	for i := uint8(0); i < cycles; i++ {
		c.tick()
	}
}

func (c *Controller) tick() {
	c.div++
	if c.tac&0x04 == 0 {
		return
	}
	period := tacCycles[c.tac&0x03]
	if c.div%period == 0 {
		c.tima++
		if c.tima == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.Timer)
		}
	}
}

func (c *Controller) ReadDIV() uint8   { return uint8(c.div >> 8) }
func (c *Controller) WriteDIV(_ uint8) { c.div = 0 }

func (c *Controller) ReadTIMA() uint8    { return c.tima }
func (c *Controller) WriteTIMA(v uint8)  { c.tima = v }
func (c *Controller) ReadTMA() uint8     { return c.tma }
func (c *Controller) WriteTMA(v uint8)   { c.tma = v }
func (c *Controller) ReadTAC() uint8     { return c.tac | 0xF8 }
func (c *Controller) WriteTAC(v uint8)   { c.tac = v & 0x07 }

// DIV16 exposes the full internal 16-bit counter; the serial
// controller's clock is derived from one of its bits.
func (c *Controller) DIV16() uint16 { return c.div }

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write16(c.div)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
}

func (c *Controller) Load(s *types.State) {
	c.div = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
}
