// Package serial implements the link-cable shift register: SB/SC,
// the internal 8192 Hz clock, and the external Device hookup used
// when a link partner is attached.
package serial

import (
	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/types"
)

// Device is an external link partner. Exchange is called once per
// bit transferred at the active clock's rate and returns the bit the
// partner is presenting.
type Device interface {
	Exchange(bit uint8) uint8
}

const (
	scTransferStart uint8 = 1 << 7
	scClockSpeed    uint8 = 1 << 1 // CGB double-speed shift clock, unused in DMG mode
	scClockSource   uint8 = 1 << 0 // 1 = internal clock, 0 = external
)

// Controller drives SB (0xFF01) and SC (0xFF02). Internal-clock
// transfers shift one bit per falling edge of DIV bit 8 (every 512
// oscillator cycles, 8192 bits per second); external-clock transfers
// advance only through ExchangeExternalBit.
type Controller struct {
	sb uint8
	sc uint8

	transferring bool
	bitsLeft     uint8
	lastDivBit8  bool

	device Device
	irq    *interrupts.Service
}

func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// Attach connects an external link partner. A nil device detaches it;
// internal-clock transfers then shift in 1 bits.
func (c *Controller) Attach(d Device) { c.device = d }

func (c *Controller) ReadSB() uint8 { return c.sb }
func (c *Controller) WriteSB(v uint8) {
	if !c.transferring {
		c.sb = v
	}
}

func (c *Controller) ReadSC() uint8 {
	out := c.sc | 0x7C
	if c.transferring {
		out |= scTransferStart
	}
	return out
}

func (c *Controller) WriteSC(v uint8) {
	c.sc = v & (scClockSpeed | scClockSource)
	if v&scTransferStart != 0 && !c.transferring {
		c.transferring = true
		c.bitsLeft = 8
	}
}

// Step advances the shift clock by the timer's free-running counter
// value so the internal clock's falling-edge detector can observe
// bit 8 directly, matching the real hardware's shared divider.
func (c *Controller) Step(div16 uint16) {
	if !c.transferring {
		return
	}
	if c.sc&scClockSource == 0 {
		return // external clock: advanced by ExchangeExternalBit instead
	}

	bit8 := div16&(1<<8) != 0
	if c.lastDivBit8 && !bit8 {
		c.shiftOne()
	}
	c.lastDivBit8 = bit8
}

func (c *Controller) shiftOne() {
	var in uint8
	if c.device != nil {
		in = c.device.Exchange((c.sb >> 7) & 0x01)
	} else {
		in = 1
	}
	c.sb = c.sb<<1 | in
	c.bitsLeft--
	if c.bitsLeft == 0 {
		c.transferring = false
		c.irq.Request(interrupts.Serial)
	}
}

// ExchangeExternalBit services one bit of an externally-clocked
// transfer, driven by the link partner rather than the internal
// divider.
func (c *Controller) ExchangeExternalBit(bit uint8) {
	if !c.transferring || c.sc&scClockSource != 0 {
		return
	}
	c.sb = c.sb<<1 | (bit & 0x01)
	c.bitsLeft--
	if c.bitsLeft == 0 {
		c.transferring = false
		c.irq.Request(interrupts.Serial)
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.sb)
	s.Write8(c.sc)
	s.WriteBool(c.transferring)
	s.Write8(c.bitsLeft)
	s.WriteBool(c.lastDivBit8)
}

func (c *Controller) Load(s *types.State) {
	c.sb = s.Read8()
	c.sc = s.Read8()
	c.transferring = s.ReadBool()
	c.bitsLeft = s.Read8()
	c.lastDivBit8 = s.ReadBool()
}
