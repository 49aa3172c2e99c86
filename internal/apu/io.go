package apu

import "github.com/hopperlabs/gbx/internal/types"

// Read implements mmu.IOBus for the sound registers at 0xFF10-0xFF26
// and waveform RAM at 0xFF30-0xFF3F.
func (a *APU) Read(address uint16) uint8 {
	switch {
	case address == 0xFF10:
		return a.nr10 | 0x80
	case address == 0xFF11:
		return a.nr11 | 0x3F
	case address == 0xFF12:
		return a.nr12
	case address == 0xFF13:
		return 0xFF
	case address == 0xFF14:
		return a.nr14 | 0xBF
	case address == 0xFF16:
		return a.nr21 | 0x3F
	case address == 0xFF17:
		return a.nr22
	case address == 0xFF18:
		return 0xFF
	case address == 0xFF19:
		return a.nr24 | 0xBF
	case address == 0xFF1A:
		return a.nr30 | 0x7F
	case address == 0xFF1B:
		return 0xFF
	case address == 0xFF1C:
		return a.nr32 | 0x9F
	case address == 0xFF1D:
		return 0xFF
	case address == 0xFF1E:
		return a.nr34 | 0xBF
	case address == 0xFF20:
		return 0xFF
	case address == 0xFF21:
		return a.nr42
	case address == 0xFF22:
		return a.nr43
	case address == 0xFF23:
		return a.nr44 | 0xBF
	case address == 0xFF24:
		return a.nr50
	case address == 0xFF25:
		return a.nr51
	case address == 0xFF26:
		v := a.channelStatus() | 0x70
		if a.enabled {
			v |= 0x80
		}
		return v
	case address >= 0xFF30 && address < 0xFF40:
		return a.waveRAM[address-0xFF30]
	default:
		return 0xFF
	}
}

// Write implements mmu.IOBus. All register writes are ignored while
// the APU is powered off except for NR52 itself and waveform RAM,
// matching real hardware.
func (a *APU) Write(address uint16, value uint8) {
	if address >= 0xFF30 && address < 0xFF40 {
		a.waveRAM[address-0xFF30] = value
		return
	}
	if !a.enabled && address != 0xFF26 {
		return
	}
	switch address {
	case 0xFF10:
		a.nr10 = value
		a.ch1.sweepPeriod = (value >> 4) & 0x07
		a.ch1.sweepDecreasing = value&0x08 != 0
		a.ch1.sweepShift = value & 0x07
	case 0xFF11:
		a.nr11 = value
		a.ch1.duty = value >> 6
		a.ch1.lengthCounter = 64 - (value & 0x3F)
	case 0xFF12:
		a.nr12 = value
		a.ch1.volume = value >> 4
		a.ch1.envIncreasing = value&0x08 != 0
		a.ch1.envPeriod = value & 0x07
		a.ch1.dacEnabled = value&0xF8 != 0
		if !a.ch1.dacEnabled {
			a.ch1.enabled = false
		}
	case 0xFF13:
		a.nr13 = value
		a.ch1.freq = a.ch1.freq&0x0700 | uint16(value)
	case 0xFF14:
		a.nr14 = value
		a.ch1.freq = a.ch1.freq&0x00FF | uint16(value&0x07)<<8
		a.ch1.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch1.trigger()
		}
	case 0xFF16:
		a.nr21 = value
		a.ch2.duty = value >> 6
		a.ch2.lengthCounter = 64 - (value & 0x3F)
	case 0xFF17:
		a.nr22 = value
		a.ch2.volume = value >> 4
		a.ch2.envIncreasing = value&0x08 != 0
		a.ch2.envPeriod = value & 0x07
		a.ch2.dacEnabled = value&0xF8 != 0
		if !a.ch2.dacEnabled {
			a.ch2.enabled = false
		}
	case 0xFF18:
		a.nr23 = value
		a.ch2.freq = a.ch2.freq&0x0700 | uint16(value)
	case 0xFF19:
		a.nr24 = value
		a.ch2.freq = a.ch2.freq&0x00FF | uint16(value&0x07)<<8
		a.ch2.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch2.trigger()
		}
	case 0xFF1A:
		a.nr30 = value
		a.ch3.dacEnabled = value&0x80 != 0
		if !a.ch3.dacEnabled {
			a.ch3.enabled = false
		}
	case 0xFF1B:
		a.nr31 = value
		a.ch3.lengthCounter = 256 - uint16(value)
	case 0xFF1C:
		a.nr32 = value
		a.ch3.volumeShift = (value >> 5) & 0x03
	case 0xFF1D:
		a.nr33 = value
		a.ch3.freq = a.ch3.freq&0x0700 | uint16(value)
	case 0xFF1E:
		a.nr34 = value
		a.ch3.freq = a.ch3.freq&0x00FF | uint16(value&0x07)<<8
		a.ch3.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch3.trigger()
		}
	case 0xFF20:
		a.nr41 = value
		a.ch4.lengthCounter = 64 - (value & 0x3F)
	case 0xFF21:
		a.nr42 = value
		a.ch4.volume = value >> 4
		a.ch4.envIncreasing = value&0x08 != 0
		a.ch4.envPeriod = value & 0x07
		a.ch4.dacEnabled = value&0xF8 != 0
		if !a.ch4.dacEnabled {
			a.ch4.enabled = false
		}
	case 0xFF22:
		a.nr43 = value
		a.ch4.shiftClock = value >> 4
		a.ch4.widthMode = value&0x08 != 0
		a.ch4.divisorCode = value & 0x07
	case 0xFF23:
		a.nr44 = value
		a.ch4.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch4.trigger()
		}
	case 0xFF24:
		a.nr50 = value
	case 0xFF25:
		a.nr51 = value
	case 0xFF26:
		wasEnabled := a.enabled
		a.enabled = value&0x80 != 0
		if wasEnabled && !a.enabled {
			a.powerOff()
		} else if !wasEnabled && a.enabled {
			a.frameSeqStep = 0
		}
	}
}

// powerOff clears every register except waveform RAM, matching the
// hardware behavior of writing zero to NR10-NR51 on power-down.
func (a *APU) powerOff() {
	a.nr10, a.nr11, a.nr12, a.nr13, a.nr14 = 0, 0, 0, 0, 0
	a.nr21, a.nr22, a.nr23, a.nr24 = 0, 0, 0, 0
	a.nr30, a.nr31, a.nr32, a.nr33, a.nr34 = 0, 0, 0, 0, 0
	a.nr41, a.nr42, a.nr43, a.nr44 = 0, 0, 0, 0
	a.nr50, a.nr51 = 0, 0
	a.ch1 = square{}
	a.ch2 = square{}
	a.ch3 = wave{ram: &a.waveRAM}
	a.ch4 = noise{}
}

func (a *APU) Save(s *types.State) {
	s.WriteBool(a.enabled)
	s.Write8(a.nr10)
	s.Write8(a.nr11)
	s.Write8(a.nr12)
	s.Write8(a.nr13)
	s.Write8(a.nr14)
	s.Write8(a.nr21)
	s.Write8(a.nr22)
	s.Write8(a.nr23)
	s.Write8(a.nr24)
	s.Write8(a.nr30)
	s.Write8(a.nr31)
	s.Write8(a.nr32)
	s.Write8(a.nr33)
	s.Write8(a.nr34)
	s.Write8(a.nr41)
	s.Write8(a.nr42)
	s.Write8(a.nr43)
	s.Write8(a.nr44)
	s.Write8(a.nr50)
	s.Write8(a.nr51)
	s.WriteData(a.waveRAM[:])

	saveSquare(s, &a.ch1, true)
	saveSquare(s, &a.ch2, false)

	s.WriteBool(a.ch3.enabled)
	s.WriteBool(a.ch3.dacEnabled)
	s.Write16(a.ch3.freq)
	s.Write32(uint32(a.ch3.timer))
	s.Write16(a.ch3.lengthCounter)
	s.WriteBool(a.ch3.lengthEnabled)
	s.Write8(a.ch3.volumeShift)
	s.Write8(a.ch3.position)

	s.WriteBool(a.ch4.enabled)
	s.WriteBool(a.ch4.dacEnabled)
	s.Write8(a.ch4.lengthCounter)
	s.WriteBool(a.ch4.lengthEnabled)
	s.Write8(a.ch4.volume)
	s.Write8(a.ch4.envVolume)
	s.WriteBool(a.ch4.envIncreasing)
	s.Write8(a.ch4.envPeriod)
	s.Write8(a.ch4.envTimer)
	s.Write8(a.ch4.shiftClock)
	s.WriteBool(a.ch4.widthMode)
	s.Write8(a.ch4.divisorCode)
	s.Write32(uint32(a.ch4.timer))
	s.Write16(a.ch4.lfsr)

	s.Write32(uint32(a.frameSeqTimer))
	s.Write8(a.frameSeqStep)
	s.Write32(uint32(a.sampleTimer))
}

func saveSquare(s *types.State, c *square, hasSweep bool) {
	s.WriteBool(c.enabled)
	s.WriteBool(c.dacEnabled)
	s.Write8(c.duty)
	s.Write8(c.dutyPos)
	s.Write16(c.freq)
	s.Write32(uint32(c.timer))
	s.Write8(c.lengthCounter)
	s.WriteBool(c.lengthEnabled)
	s.Write8(c.volume)
	s.Write8(c.envVolume)
	s.WriteBool(c.envIncreasing)
	s.Write8(c.envPeriod)
	s.Write8(c.envTimer)
	if hasSweep {
		s.Write8(c.sweepPeriod)
		s.WriteBool(c.sweepDecreasing)
		s.Write8(c.sweepShift)
		s.Write8(c.sweepTimer)
		s.WriteBool(c.sweepEnabled)
		s.Write16(c.shadowFreq)
	}
}

func loadSquare(s *types.State, c *square, hasSweep bool) {
	c.enabled = s.ReadBool()
	c.dacEnabled = s.ReadBool()
	c.duty = s.Read8()
	c.dutyPos = s.Read8()
	c.freq = s.Read16()
	c.timer = int32(s.Read32())
	c.lengthCounter = s.Read8()
	c.lengthEnabled = s.ReadBool()
	c.volume = s.Read8()
	c.envVolume = s.Read8()
	c.envIncreasing = s.ReadBool()
	c.envPeriod = s.Read8()
	c.envTimer = s.Read8()
	if hasSweep {
		c.sweepPeriod = s.Read8()
		c.sweepDecreasing = s.ReadBool()
		c.sweepShift = s.Read8()
		c.sweepTimer = s.Read8()
		c.sweepEnabled = s.ReadBool()
		c.shadowFreq = s.Read16()
	}
}

func (a *APU) Load(s *types.State) {
	a.enabled = s.ReadBool()
	a.nr10 = s.Read8()
	a.nr11 = s.Read8()
	a.nr12 = s.Read8()
	a.nr13 = s.Read8()
	a.nr14 = s.Read8()
	a.nr21 = s.Read8()
	a.nr22 = s.Read8()
	a.nr23 = s.Read8()
	a.nr24 = s.Read8()
	a.nr30 = s.Read8()
	a.nr31 = s.Read8()
	a.nr32 = s.Read8()
	a.nr33 = s.Read8()
	a.nr34 = s.Read8()
	a.nr41 = s.Read8()
	a.nr42 = s.Read8()
	a.nr43 = s.Read8()
	a.nr44 = s.Read8()
	a.nr50 = s.Read8()
	a.nr51 = s.Read8()
	s.ReadData(a.waveRAM[:])

	loadSquare(s, &a.ch1, true)
	loadSquare(s, &a.ch2, false)

	a.ch3.enabled = s.ReadBool()
	a.ch3.dacEnabled = s.ReadBool()
	a.ch3.freq = s.Read16()
	a.ch3.timer = int32(s.Read32())
	a.ch3.lengthCounter = s.Read16()
	a.ch3.lengthEnabled = s.ReadBool()
	a.ch3.volumeShift = s.Read8()
	a.ch3.position = s.Read8()
	a.ch3.ram = &a.waveRAM

	a.ch4.enabled = s.ReadBool()
	a.ch4.dacEnabled = s.ReadBool()
	a.ch4.lengthCounter = s.Read8()
	a.ch4.lengthEnabled = s.ReadBool()
	a.ch4.volume = s.Read8()
	a.ch4.envVolume = s.Read8()
	a.ch4.envIncreasing = s.ReadBool()
	a.ch4.envPeriod = s.Read8()
	a.ch4.envTimer = s.Read8()
	a.ch4.shiftClock = s.Read8()
	a.ch4.widthMode = s.ReadBool()
	a.ch4.divisorCode = s.Read8()
	a.ch4.timer = int32(s.Read32())
	a.ch4.lfsr = s.Read16()

	a.frameSeqTimer = int32(s.Read32())
	a.frameSeqStep = s.Read8()
	a.sampleTimer = int64(int32(s.Read32()))
}
