// Package cpu implements the Sharp LR35902 core: registers, flags,
// the 512-entry (256 + 256 CB-prefixed) opcode dispatch table, and
// the interrupt/HALT/STOP state machine.
package cpu

import (
	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/types"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

// Bus is the memory-mapped address space the CPU executes against.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// SpeedSwitcher lets STOP arm and apply the CGB double-speed toggle;
// a DMG bus can implement it as a no-op.
type SpeedSwitcher interface {
	TrySpeedSwitch() bool
}

type imeState uint8

const (
	imeDisabled imeState = iota
	imeScheduled
	imeEnabled
)

// CPU is the Sharp LR35902 execution core. It owns no peripherals
// directly; Step decodes and executes exactly one instruction (or
// services one interrupt, or idles one HALT tick) and returns the
// number of machine cycles elapsed, leaving the caller to fan that
// out to the timer, PPU, APU and serial controller.
type CPU struct {
	Registers
	PC, SP uint16

	ime      imeState
	halted   bool
	haltBug  bool

	bus Bus
	irq *interrupts.Service
	log gblog.Logger
}

func New(bus Bus, irq *interrupts.Service, log gblog.Logger) *CPU {
	return &CPU{bus: bus, irq: irq, log: log}
}

// Reset sets the register file to regs (A,F,B,C,D,E,H,L order) and
// PC/SP to their post-boot values, matching what a skipped boot ROM
// would have left behind.
func (c *CPU) Reset(regs [8]uint8, pc, sp uint16) {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = regs[0], regs[1], regs[2], regs[3], regs[4], regs[5], regs[6], regs[7]
	c.PC, c.SP = pc, sp
	c.ime = imeDisabled
	c.halted = false
	c.haltBug = false
}

// Step executes exactly one of: interrupt service (returns 5),
// one HALT idle tick (returns 4), or one decoded instruction
// (returns its own cycle count).
func (c *CPU) Step() uint8 {
	pendingAny := c.irq.Enable&c.irq.Flag&0x1F != 0

	if c.halted {
		if pendingAny {
			c.halted = false
		} else {
			return 4
		}
	}

	serviceNow := pendingAny && c.ime == imeEnabled

	if c.ime == imeScheduled {
		c.ime = imeEnabled
	}

	if serviceNow {
		return c.serviceInterrupt()
	}

	cycles := c.decodeAndExecute()
	if c.haltBug {
		c.haltBug = false
		c.PC--
	}
	return cycles
}

func (c *CPU) serviceInterrupt() uint8 {
	f, _ := c.irq.Highest()
	c.irq.Clear(f)
	c.ime = imeDisabled
	c.push16(c.PC)
	c.PC = f.Vector()
	return 5
}

func (c *CPU) decodeAndExecute() uint8 {
	op := c.fetch8()
	if op == 0xCB {
		return cbTable[c.fetch8()](c)
	}
	return mainTable[op](c)
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return hi<<8 | lo
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(v>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.bus.Read(c.SP))
	c.SP++
	hi := uint16(c.bus.Read(c.SP))
	c.SP++
	return hi<<8 | lo
}

// halt is invoked by the HALT opcode handler. The halt bug triggers
// when IME is disabled but an interrupt is already pending: real
// hardware fails to actually stop the CPU and instead fails to
// advance PC past the following opcode once.
func (c *CPU) halt() {
	pendingAny := c.irq.Enable&c.irq.Flag&0x1F != 0
	if c.ime != imeEnabled && pendingAny {
		c.haltBug = true
	} else {
		c.halted = true
	}
}

func (c *CPU) stop() {
	if sw, ok := c.bus.(SpeedSwitcher); ok {
		sw.TrySpeedSwitch()
	}
}

var _ types.Stater = (*CPU)(nil)

func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.Write8(uint8(c.ime))
	s.WriteBool(c.halted)
	s.WriteBool(c.haltBug)
}

func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.ime = imeState(s.Read8())
	c.halted = s.ReadBool()
	c.haltBug = s.ReadBool()
}
