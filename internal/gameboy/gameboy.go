// Package gameboy aggregates the CPU, memory controller, and
// cartridge into a single steppable unit, fanning each CPU step's
// cycle count out to the timer, serial controller, GPU, and APU and
// exposing the external interfaces a host drives: ROM/save/RTC
// loading, frame stepping, button input, and scanline/audio/serial/
// runnability callbacks.
package gameboy

import (
	"github.com/hopperlabs/gbx/internal/apu"
	"github.com/hopperlabs/gbx/internal/boot"
	"github.com/hopperlabs/gbx/internal/cartridge"
	"github.com/hopperlabs/gbx/internal/cpu"
	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/joypad"
	"github.com/hopperlabs/gbx/internal/mmu"
	"github.com/hopperlabs/gbx/internal/ppu"
	"github.com/hopperlabs/gbx/internal/types"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

// ldBB is the opcode for LD B,B, used as a software breakpoint
// convention by WithBreakOnLDBB.
const ldBB = 0x40

// Core owns every emulated component for one loaded ROM session and
// is the sole entry point a host drives.
type Core struct {
	CPU    *cpu.CPU
	MMU    *mmu.MMU
	PPU    *ppu.PPU
	APU    *apu.APU
	Joypad *joypad.State
	IRQ    *interrupts.Service

	cart *cartridge.Cartridge

	model         types.Model
	modelOverride *types.Model
	bootROM       *boot.ROM
	breakOnLDBB   bool

	log gblog.Logger

	runnable    bool
	breakpoints map[uint16]bool
	lastLY      uint8

	scanlineFunc    func(line uint8, pixels [ppu.ScreenWidth][3]uint8)
	audioSampleFunc func(left, right int16)
	runnabilityFunc func(bool)
	saveDirtyFunc   func(bool)
}

// New parses rom's header, wires every component for the resulting
// hardware model, and leaves the CPU positioned at its first
// instruction (either the boot ROM's entry point or the cartridge's,
// per whether WithBootROM was supplied).
func New(rom []byte, opts ...Option) (*Core, error) {
	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, err
	}

	c := &Core{
		cart:        cart,
		log:         gblog.Default(),
		runnable:    true,
		breakpoints: make(map[uint16]bool),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.model = cart.Header.Model()
	if c.modelOverride != nil {
		c.model = *c.modelOverride
	}

	irq := interrupts.NewService()
	sound := apu.New()
	video := ppu.New(c.model, irq)
	var overlay interface {
		Read(addr uint16) uint8
		IsCGB() bool
	}
	if c.bootROM != nil {
		overlay = c.bootROM
	}
	bus := mmu.New(c.model, cart, video, sound, overlay, irq, c.log)
	core := cpu.New(bus, irq, c.log)

	c.MMU = bus
	c.PPU = video
	c.APU = sound
	c.IRQ = irq
	c.Joypad = bus.Joypad
	c.CPU = core

	video.SetScanlineFunc(func(line uint8, pixels [ppu.ScreenWidth][3]uint8) {
		if c.scanlineFunc != nil {
			c.scanlineFunc(line, pixels)
		}
	})
	video.SetHBlankFunc(bus.OnHBlank)
	sound.SetSampleFunc(func(s apu.Sample) {
		if c.audioSampleFunc != nil {
			c.audioSampleFunc(s.Left, s.Right)
		}
	})

	if c.bootROM != nil {
		core.Reset([8]uint8{}, 0x0000, 0x0000)
	} else {
		core.Reset(c.model.PostBootRegisters(), 0x0100, 0xFFFE)
	}

	c.log.Infof("gameboy: loaded %q (%s, %d KiB ROM, %d KiB RAM)", cart.Header.Title, c.model, cart.Header.ROMSize/1024, cart.Header.RAMSize/1024)
	return c, nil
}

// SetScanlineFunc registers the callback invoked with a finished
// line's pixels at H-blank entry.
func (c *Core) SetScanlineFunc(f func(line uint8, pixels [ppu.ScreenWidth][3]uint8)) {
	c.scanlineFunc = f
}

// SetAudioSampleFunc registers the callback invoked once per generated
// stereo sample, at 44100Hz of emulated time.
func (c *Core) SetAudioSampleFunc(f func(left, right int16)) { c.audioSampleFunc = f }

// SetRunnabilityFunc registers the callback fired whenever Runnable()
// changes value, e.g. when a breakpoint is hit.
func (c *Core) SetRunnabilityFunc(f func(runnable bool)) { c.runnabilityFunc = f }

// SetSaveDirtyFunc registers the callback fired whenever battery-backed
// RAM's dirty flag changes: with true when a step first dirties it, with
// false when ClearSaveDirty clears it.
func (c *Core) SetSaveDirtyFunc(f func(dirty bool)) { c.saveDirtyFunc = f }

// Runnable reports whether EmulateFrame will advance the engine. Step
// always advances regardless of this flag.
func (c *Core) Runnable() bool { return c.runnable }

// SetBreakpoint arms (or, with enabled=false, disarms) a PC breakpoint.
func (c *Core) SetBreakpoint(addr uint16, enabled bool) {
	if enabled {
		c.breakpoints[addr] = true
	} else {
		delete(c.breakpoints, addr)
	}
}

func (c *Core) setRunnable(v bool) {
	if c.runnable == v {
		return
	}
	c.runnable = v
	if c.runnabilityFunc != nil {
		c.runnabilityFunc(v)
	}
}

// Step executes exactly one CPU step (one instruction, one interrupt
// service, or one HALT idle tick) and fans its cycle count out to
// every peripheral, then checks the breakpoint/LD B,B conditions.
func (c *Core) Step() {
	if c.breakpoints[c.CPU.PC] {
		c.setRunnable(false)
	}
	if c.breakOnLDBB && c.MMU.Read(c.CPU.PC) == ldBB {
		c.setRunnable(false)
	}

	wasDirty := c.cart.Dirty()
	machineCycles := c.CPU.Step()
	oscCycles := uint16(machineCycles) * 4 / uint16(c.MMU.CurrentSpeed())

	c.MMU.StepPeripherals(uint8(oscCycles))
	c.PPU.Step(oscCycles)
	c.APU.Step(oscCycles)

	if !wasDirty && c.cart.Dirty() {
		if c.saveDirtyFunc != nil {
			c.saveDirtyFunc(true)
		}
	}
}

// EmulateFrame runs until LY transitions from <144 to 144 exactly
// once, or returns immediately if Runnable() is false.
func (c *Core) EmulateFrame() {
	if !c.runnable {
		return
	}
	for {
		wasBelow := c.lastLY < 144
		c.Step()
		c.lastLY = c.PPU.LY
		if wasBelow && c.lastLY == 144 {
			return
		}
		if !c.runnable {
			return
		}
	}
}

// SetButton updates one button's held state.
func (c *Core) SetButton(b joypad.Button, pressed bool) { c.Joypad.Press(b, pressed) }

// SaveBytes returns the battery-backed external RAM blob, or nil.
func (c *Core) SaveBytes() []byte { return c.cart.SaveBytes() }

// LoadSave restores external RAM from a previously saved blob.
func (c *Core) LoadSave(data []byte) error { return c.cart.LoadSave(data) }

// RTCBytes returns the 5-byte RTC blob for an MBC3-with-timer
// cartridge, or nil.
func (c *Core) RTCBytes() []byte { return c.cart.RTCBytes() }

// LoadRTC restores the RTC registers from a 5-byte blob.
func (c *Core) LoadRTC(data []byte) error { return c.cart.LoadRTC(data) }

// TickRTC advances a live MBC3 real-time clock by elapsed wall-clock
// seconds; a no-op for cartridges without one. The host calls this
// with the real time elapsed since the previous call, independent of
// the emulated CPU cycle count, matching real RTC hardware's own
// crystal oscillator.
func (c *Core) TickRTC(seconds int) { c.cart.TickRTC(seconds) }

// ClearSaveDirty resets the battery-RAM dirty flag after the host has
// persisted SaveBytes.
func (c *Core) ClearSaveDirty() {
	wasDirty := c.cart.Dirty()
	c.cart.ClearDirty()
	if wasDirty && c.saveDirtyFunc != nil {
		c.saveDirtyFunc(false)
	}
}

// Model reports the hardware personality this Core was configured for.
func (c *Core) Model() types.Model { return c.model }
