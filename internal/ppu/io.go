package ppu

import (
	"github.com/hopperlabs/gbx/internal/ppu/lcd"
	"github.com/hopperlabs/gbx/internal/types"
)

// Read implements mmu.IOBus for VRAM, OAM, and the LCD/palette
// registers at 0xFF40-0xFF4B, 0xFF4F, 0xFF68-0xFF6B.
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address < 0xA000:
		return p.vram[p.vramBank][address-0x8000]
	case address >= 0xFE00 && address < 0xFEA0:
		return p.oam[address-0xFE00]
	case address == 0xFF40:
		return p.LCDC.Read()
	case address == 0xFF41:
		return p.STAT.Read()
	case address == 0xFF42:
		return p.SCY
	case address == 0xFF43:
		return p.SCX
	case address == 0xFF44:
		return p.LY
	case address == 0xFF45:
		return p.LYC
	case address == 0xFF47:
		return p.BGP
	case address == 0xFF48:
		return p.OBP0
	case address == 0xFF49:
		return p.OBP1
	case address == 0xFF4A:
		return p.WY
	case address == 0xFF4B:
		return p.WX
	case address == 0xFF4F:
		if p.model.IsCGB() {
			return p.vramBank | 0xFE
		}
		return 0xFF
	case address == 0xFF68:
		if p.model.IsCGB() {
			return p.bgPalette.ReadIndex()
		}
		return 0xFF
	case address == 0xFF69:
		if p.model.IsCGB() {
			return p.bgPalette.ReadData()
		}
		return 0xFF
	case address == 0xFF6A:
		if p.model.IsCGB() {
			return p.objPalette.ReadIndex()
		}
		return 0xFF
	case address == 0xFF6B:
		if p.model.IsCGB() {
			return p.objPalette.ReadData()
		}
		return 0xFF
	default:
		return 0xFF
	}
}

// Write implements mmu.IOBus. It also serves as the target of CGB HDMA
// block copies (always landing in 0x8000-0x9FFF).
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= 0x8000 && address < 0xA000:
		p.vram[p.vramBank][address-0x8000] = value
	case address >= 0xFE00 && address < 0xFEA0:
		p.oam[address-0xFE00] = value
	case address == 0xFF40:
		wasEnabled := p.LCDC.Enabled
		p.LCDC.Write(value)
		if wasEnabled && !p.LCDC.Enabled {
			p.STAT.Mode = lcd.HBlank
			p.LY = 0
			p.dot = 0
		} else if !wasEnabled && p.LCDC.Enabled {
			p.STAT.Mode = lcd.OAMScan
			p.dot = 0
			p.checkLYC()
		}
	case address == 0xFF41:
		p.STAT.Write(value)
	case address == 0xFF42:
		p.SCY = value
	case address == 0xFF43:
		p.SCX = value
	case address == 0xFF44:
		// LY is read-only on real hardware; writes are ignored.
	case address == 0xFF45:
		p.LYC = value
		p.checkLYC()
	case address == 0xFF47:
		p.BGP = value
	case address == 0xFF48:
		p.OBP0 = value
	case address == 0xFF49:
		p.OBP1 = value
	case address == 0xFF4A:
		p.WY = value
	case address == 0xFF4B:
		p.WX = value
	case address == 0xFF4F:
		if p.model.IsCGB() {
			p.vramBank = value & 0x01
		}
	case address == 0xFF68:
		if p.model.IsCGB() {
			p.bgPalette.WriteIndex(value)
		}
	case address == 0xFF69:
		if p.model.IsCGB() {
			p.bgPalette.WriteData(value)
		}
	case address == 0xFF6A:
		if p.model.IsCGB() {
			p.objPalette.WriteIndex(value)
		}
	case address == 0xFF6B:
		if p.model.IsCGB() {
			p.objPalette.WriteData(value)
		}
	}
}

func decodeMode(stat uint8) lcd.Mode { return lcd.Mode(stat & 0x03) }

var _ types.Stater = (*PPU)(nil)

func (p *PPU) Save(s *types.State) {
	s.WriteData(p.vram[0][:])
	s.WriteData(p.vram[1][:])
	s.Write8(p.vramBank)
	s.WriteData(p.oam[:])
	s.Write8(p.LCDC.Read())
	s.Write8(p.STAT.Read())
	s.Write8(p.LY)
	s.Write8(p.LYC)
	s.Write8(p.SCY)
	s.Write8(p.SCX)
	s.Write8(p.WY)
	s.Write8(p.WX)
	s.Write8(p.BGP)
	s.Write8(p.OBP0)
	s.Write8(p.OBP1)
	s.Write16(p.dot)
	s.Write8(p.windowLine)
	bg := p.bgPalette.Save()
	obj := p.objPalette.Save()
	for _, pal := range bg {
		for _, col := range pal {
			s.WriteData(col[:])
		}
	}
	for _, pal := range obj {
		for _, col := range pal {
			s.WriteData(col[:])
		}
	}
}

func (p *PPU) Load(s *types.State) {
	s.ReadData(p.vram[0][:])
	s.ReadData(p.vram[1][:])
	p.vramBank = s.Read8()
	s.ReadData(p.oam[:])
	p.LCDC.Write(s.Read8())
	statVal := s.Read8()
	p.STAT.Write(statVal)
	p.STAT.Mode = decodeMode(statVal)
	p.LY = s.Read8()
	p.LYC = s.Read8()
	p.SCY = s.Read8()
	p.SCX = s.Read8()
	p.WY = s.Read8()
	p.WX = s.Read8()
	p.BGP = s.Read8()
	p.OBP0 = s.Read8()
	p.OBP1 = s.Read8()
	p.dot = s.Read16()
	p.windowLine = s.Read8()
	var bg, obj [8][4][3]uint8
	for i := range bg {
		for j := range bg[i] {
			col := make([]byte, 3)
			s.ReadData(col)
			bg[i][j] = [3]uint8{col[0], col[1], col[2]}
		}
	}
	for i := range obj {
		for j := range obj[i] {
			col := make([]byte, 3)
			s.ReadData(col)
			obj[i][j] = [3]uint8{col[0], col[1], col[2]}
		}
	}
	p.bgPalette.Load(bg)
	p.objPalette.Load(obj)
}
