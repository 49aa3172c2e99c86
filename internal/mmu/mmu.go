// Package mmu routes every CPU-visible memory access to the component
// that owns the addressed region: cartridge ROM/RAM through the MBC,
// VRAM/OAM/LCD registers through the PPU, sound registers through the
// APU, and the rest through the MMU's own working RAM, HRAM, and
// system registers.
package mmu

import (
	"github.com/hopperlabs/gbx/internal/cartridge"
	"github.com/hopperlabs/gbx/internal/interrupts"
	"github.com/hopperlabs/gbx/internal/joypad"
	"github.com/hopperlabs/gbx/internal/serial"
	"github.com/hopperlabs/gbx/internal/timer"
	"github.com/hopperlabs/gbx/internal/types"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

// IOBus is implemented by any component that owns a region of the
// CPU's address space.
type IOBus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// MMU is the Game Boy's 64 KiB address space router.
type MMU struct {
	Cart  *cartridge.Cartridge
	Video IOBus // VRAM, OAM, LCD registers, CGB palettes
	Sound IOBus // NR10-NR52, waveform RAM

	Timer  *timer.Controller
	Joypad *joypad.State
	Serial *serial.Controller
	IRQ    *interrupts.Service

	wram     [8][0x1000]uint8
	wramBank uint8 // 1-7; 0xFF70 bits 0-2, 0 treated as 1
	hram     [0x80]uint8

	bootROM   bootOverlay
	bootMapped bool

	model types.Model
	key1  uint8 // bit 0 = speed switch armed, bit 7 = current speed (read-only here)

	hdma *hdma

	log gblog.Logger
}

// bootOverlay is satisfied by *boot.ROM; kept as a narrow local
// interface so this package doesn't need to import internal/boot
// just to accept an optional overlay.
type bootOverlay interface {
	Read(addr uint16) uint8
	IsCGB() bool
}

// New constructs an MMU for model, with video and sound already wired
// to their owning components and irq shared with them (the GPU and
// CPU must request/service interrupts through the same Service this
// MMU wires its Timer/Joypad/Serial to). A nil bootROM skips the
// overlay and starts execution directly at the cartridge entry point.
func New(model types.Model, cart *cartridge.Cartridge, video, sound IOBus, bootROM bootOverlay, irq *interrupts.Service, log gblog.Logger) *MMU {
	m := &MMU{
		Cart:       cart,
		Video:      video,
		Sound:      sound,
		Timer:      timer.NewController(irq),
		Joypad:     joypad.NewState(irq),
		Serial:     serial.NewController(irq),
		IRQ:        irq,
		wramBank:   1,
		bootROM:    bootROM,
		bootMapped: bootROM != nil,
		model:      model,
		log:        log,
	}
	m.hdma = newHDMA(m)
	return m
}

// StepPeripherals advances the timer and serial controller by cycles
// CPU oscillator cycles. The PPU and APU are stepped independently by
// the core loop, since their owners (gameboy.Core) hold them directly.
func (m *MMU) StepPeripherals(cycles uint8) {
	for i := uint8(0); i < cycles; i++ {
		m.Timer.Step(1)
		m.Serial.Step(m.Timer.DIV16())
	}
}

// OnHBlank notifies the HDMA controller that the PPU has entered
// H-blank, triggering one block of an armed H-blank transfer.
func (m *MMU) OnHBlank() { m.hdma.OnHBlank() }

// IsCGB reports whether this MMU was constructed for CGB hardware.
func (m *MMU) IsCGB() bool { return m.model.IsCGB() }

// TrySpeedSwitch implements cpu.SpeedSwitcher. STOP calls this on CGB
// hardware; if the switch was armed via KEY1 bit 0, it flips the
// current-speed bit and disarms, reporting that a switch happened.
func (m *MMU) TrySpeedSwitch() bool {
	if !m.IsCGB() || m.key1&0x01 == 0 {
		return false
	}
	m.key1 &^= 0x01 // clear armed bit
	m.key1 ^= 0x80  // flip current speed
	return true
}

// CurrentSpeed returns 1 for normal speed or 2 for CGB double speed.
func (m *MMU) CurrentSpeed() uint8 {
	if m.key1&0x80 != 0 {
		return 2
	}
	return 1
}

func (m *MMU) wramIndex(bank uint8) uint8 {
	if bank == 0 {
		return 1
	}
	return bank
}

func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		if m.bootMapped && m.bootRange(address) {
			return m.bootROM.Read(m.bootAddr(address))
		}
		return m.Cart.ReadROM(address)
	case address < 0xA000:
		return m.Video.Read(address)
	case address < 0xC000:
		return m.Cart.ReadRAM(address)
	case address < 0xD000:
		return m.wram[0][address-0xC000]
	case address < 0xE000:
		return m.wram[m.wramIndex(m.wramBank)][address-0xD000]
	case address < 0xFE00:
		return m.Read(address - 0x2000) // echo of 0xC000-0xDE00
	case address < 0xFEA0:
		return m.Video.Read(address)
	case address < 0xFF00:
		return 0xFF
	case address == 0xFF00:
		return m.Joypad.Read()
	case address == 0xFF01:
		return m.Serial.ReadSB()
	case address == 0xFF02:
		return m.Serial.ReadSC()
	case address == 0xFF04:
		return m.Timer.ReadDIV()
	case address == 0xFF05:
		return m.Timer.ReadTIMA()
	case address == 0xFF06:
		return m.Timer.ReadTMA()
	case address == 0xFF07:
		return m.Timer.ReadTAC()
	case address == 0xFF0F:
		return m.IRQ.ReadIF()
	case address < 0xFF40:
		return m.Sound.Read(address)
	case address == 0xFF46:
		return 0xFF // OAM DMA register is write-only
	case address == 0xFF4D:
		if m.IsCGB() {
			return m.key1 | 0x7E
		}
		return 0xFF
	case address == 0xFF51, address == 0xFF52, address == 0xFF53, address == 0xFF54:
		return 0xFF
	case address == 0xFF55:
		if m.IsCGB() {
			return m.hdma.readControl()
		}
		return 0xFF
	case address == 0xFF70:
		if m.IsCGB() {
			return m.wramBank | 0xF8
		}
		return 0xFF
	case address < 0xFF80:
		return m.Video.Read(address)
	case address < 0xFFFF:
		return m.hram[address-0xFF80]
	default: // 0xFFFF
		return m.IRQ.ReadIE()
	}
}

func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address < 0x8000:
		m.Cart.WriteROM(address, value)
	case address < 0xA000:
		m.Video.Write(address, value)
	case address < 0xC000:
		m.Cart.WriteRAM(address, value)
	case address < 0xD000:
		m.wram[0][address-0xC000] = value
	case address < 0xE000:
		m.wram[m.wramIndex(m.wramBank)][address-0xD000] = value
	case address < 0xFE00:
		m.Write(address-0x2000, value)
	case address < 0xFEA0:
		m.Video.Write(address, value)
	case address < 0xFF00:
		// unmapped, writes ignored
	case address == 0xFF00:
		m.Joypad.Write(value)
	case address == 0xFF01:
		m.Serial.WriteSB(value)
	case address == 0xFF02:
		m.Serial.WriteSC(value)
	case address == 0xFF04:
		m.Timer.WriteDIV(value)
	case address == 0xFF05:
		m.Timer.WriteTIMA(value)
	case address == 0xFF06:
		m.Timer.WriteTMA(value)
	case address == 0xFF07:
		m.Timer.WriteTAC(value)
	case address == 0xFF0F:
		m.IRQ.WriteIF(value)
	case address < 0xFF40:
		m.Sound.Write(address, value)
	case address == 0xFF46:
		m.oamDMA(value)
	case address == 0xFF4D:
		if m.IsCGB() {
			m.key1 = m.key1&0x80 | value&0x01
		}
	case address == 0xFF50:
		if value != 0 && m.bootMapped {
			m.bootMapped = false
			m.log.Debugf("mmu: boot ROM unmapped")
		}
	case address == 0xFF51:
		m.hdma.writeSourceHi(value)
	case address == 0xFF52:
		m.hdma.writeSourceLo(value)
	case address == 0xFF53:
		m.hdma.writeDestHi(value)
	case address == 0xFF54:
		m.hdma.writeDestLo(value)
	case address == 0xFF55:
		if m.IsCGB() {
			m.hdma.writeControl(value)
		}
	case address == 0xFF70:
		if m.IsCGB() {
			value &= 0x07
			if value == 0 {
				value = 1
			}
			m.wramBank = value
		}
	case address < 0xFF80:
		m.Video.Write(address, value)
	case address < 0xFFFF:
		m.hram[address-0xFF80] = value
	default: // 0xFFFF
		m.IRQ.WriteIE(value)
	}
}

// oamDMA copies 160 bytes from (val<<8) to OAM (0xFE00), synchronously.
func (m *MMU) oamDMA(val uint8) {
	src := uint16(val) << 8
	for i := uint16(0); i < 160; i++ {
		m.Video.Write(0xFE00+i, m.Read(src+i))
	}
}

func (m *MMU) bootRange(addr uint16) bool {
	if addr < 0x100 {
		return true
	}
	return m.bootROM.IsCGB() && addr >= 0x200 && addr < 0x900
}

func (m *MMU) bootAddr(addr uint16) uint16 { return addr }

var _ types.Stater = (*MMU)(nil)

func (m *MMU) Save(s *types.State) {
	for _, bank := range m.wram {
		s.WriteData(bank[:])
	}
	s.Write8(m.wramBank)
	s.WriteData(m.hram[:])
	s.WriteBool(m.bootMapped)
	s.Write8(m.key1)
	m.Timer.Save(s)
	m.Joypad.Save(s)
	m.Serial.Save(s)
	m.IRQ.Save(s)
	m.Cart.Save(s)
}

func (m *MMU) Load(s *types.State) {
	for i := range m.wram {
		s.ReadData(m.wram[i][:])
	}
	m.wramBank = s.Read8()
	s.ReadData(m.hram[:])
	m.bootMapped = s.ReadBool()
	m.key1 = s.Read8()
	m.Timer.Load(s)
	m.Joypad.Load(s)
	m.Serial.Load(s)
	m.IRQ.Load(s)
	m.Cart.Load(s)
}
