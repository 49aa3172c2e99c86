package ppu

import (
	"sort"

	"github.com/hopperlabs/gbx/internal/ppu/palette"
)

func tileIndex(code uint8, unsigned bool) uint16 {
	if unsigned {
		return uint16(code)
	}
	return uint16(256 + int(int8(code)))
}

func (p *PPU) tileRow(bank uint8, tile uint16, row uint8) (lo, hi uint8) {
	addr := tile*16 + uint16(row)*2
	return p.vram[bank][addr], p.vram[bank][addr+1]
}

func (p *PPU) renderScanline() {
	cgb := p.model.IsCGB()
	if !cgb && !p.LCDC.BackgroundEnabled {
		p.bgLine = [ScreenWidth]pixel{}
	} else {
		p.renderBackgroundAndWindow(cgb)
	}
	p.composite(cgb)
}

func (p *PPU) renderBackgroundAndWindow(cgb bool) {
	bgY := p.LY + p.SCY
	bgTileRow := bgY / 8
	bgRowInTile := bgY % 8

	mapBaseBG := uint16(0x1800)
	if p.LCDC.BackgroundTileMapHigh {
		mapBaseBG = 0x1C00
	}

	windowActive := p.LCDC.WindowEnabled && p.WY <= p.LY && int(p.WX)-7 <= ScreenWidth-1
	mapBaseWin := uint16(0x1800)
	if p.LCDC.WindowTileMapHigh {
		mapBaseWin = 0x1C00
	}
	winTileRow := p.windowLine / 8
	winRowInTile := p.windowLine % 8
	usedWindow := false

	for x := 0; x < ScreenWidth; x++ {
		var code, attr uint8
		var row, colInTile uint8
		var mapAddr uint16

		if windowActive && x >= int(p.WX)-7 {
			usedWindow = true
			wx := uint8(x - (int(p.WX) - 7))
			mapAddr = mapBaseWin + uint16(winTileRow)*32 + uint16(wx/8)
			row = winRowInTile
			colInTile = wx % 8
		} else {
			bgX := uint8(uint16(x) + uint16(p.SCX))
			mapAddr = mapBaseBG + uint16(bgTileRow)*32 + uint16(bgX/8)
			row = bgRowInTile
			colInTile = bgX % 8
		}

		code = p.vram[0][mapAddr]
		if cgb {
			attr = p.vram[1][mapAddr]
		}

		var bank uint8
		var xflip, yflip, priority bool
		var palIdx uint8
		if cgb {
			palIdx = attr & 0x07
			bank = (attr >> 3) & 0x01
			xflip = attr&0x20 != 0
			yflip = attr&0x40 != 0
			priority = attr&0x80 != 0
		}
		if yflip {
			row = 7 - row
		}
		col := colInTile
		if xflip {
			col = 7 - col
		}

		idx := tileIndex(code, p.LCDC.TileDataUnsigned)
		lo, hi := p.tileRow(bank, idx, row)
		bit := 7 - col
		colorCode := (hi>>bit&1)<<1 | (lo >> bit & 1)

		p.bgLine[x] = pixel{
			code:     colorCode,
			palette:  palIdx,
			priority: priority || (cgb && p.LCDC.BackgroundEnabled),
		}
	}

	if usedWindow {
		p.windowLine++
	}
}

type oamEntry struct {
	y, x, tile, attr uint8
	index            int
}

func (p *PPU) scanSprites() []oamEntry {
	if !p.LCDC.SpriteEnabled {
		return nil
	}
	height := uint8(8)
	if p.LCDC.SpriteSize == 16 {
		height = 16
	}
	var found []oamEntry
	for i := 0; i < 40; i++ {
		base := i * 4
		y := p.oam[base]
		top := int(y) - 16
		if int(p.LY) < top || int(p.LY) >= top+int(height) {
			continue
		}
		found = append(found, oamEntry{
			y: y, x: p.oam[base+1], tile: p.oam[base+2], attr: p.oam[base+3], index: i,
		})
		if len(found) == 10 {
			break
		}
	}
	if !p.model.IsCGB() {
		sort.SliceStable(found, func(a, b int) bool {
			if found[a].x != found[b].x {
				return found[a].x < found[b].x
			}
			return found[a].index < found[b].index
		})
	}
	return found
}

func (p *PPU) composite(cgb bool) {
	sprites := p.scanSprites()
	height := uint8(8)
	if p.LCDC.SpriteSize == 16 {
		height = 16
	}

	for x := 0; x < ScreenWidth; x++ {
		bg := p.bgLine[x]

		var objCode, objPalette uint8
		var objBehind, objFound bool
		for _, s := range sprites {
			left := int(s.x) - 8
			if x < left || x >= left+8 {
				continue
			}
			row := uint8(int(p.LY) - (int(s.y) - 16))
			if s.attr&0x40 != 0 { // Y flip
				row = height - 1 - row
			}
			tile := uint16(s.tile)
			if height == 16 {
				tile &^= 1
				if row >= 8 {
					tile |= 1
					row -= 8
				}
			}
			col := uint8(x - left)
			if s.attr&0x20 != 0 { // X flip
				col = 7 - col
			}
			var bank uint8
			if cgb {
				bank = (s.attr >> 3) & 1
			}
			lo, hi := p.tileRow(bank, tile, row)
			bit := 7 - col
			code := (hi>>bit&1)<<1 | (lo >> bit & 1)
			if code == 0 {
				continue
			}
			objCode = code
			if cgb {
				objPalette = s.attr & 0x07
			} else if s.attr&0x10 != 0 {
				objPalette = 1
			}
			objBehind = s.attr&0x80 != 0
			objFound = true
			break
		}

		switch {
		case !objFound:
			p.composited[x] = p.bgColor(bg, cgb)
		case bg.code == 0:
			p.composited[x] = p.objColor(objCode, objPalette, cgb)
		case bg.priority:
			p.composited[x] = p.bgColor(bg, cgb)
		case objBehind:
			p.composited[x] = p.bgColor(bg, cgb)
		default:
			p.composited[x] = p.objColor(objCode, objPalette, cgb)
		}
	}
}

func (p *PPU) bgColor(px pixel, cgb bool) [3]uint8 {
	if cgb {
		return p.bgPalette.Color(px.palette, px.code)
	}
	shades := palette.FromByte(p.BGP)
	return palette.Greyscale[shades[px.code]]
}

func (p *PPU) objColor(code, pal uint8, cgb bool) [3]uint8 {
	if cgb {
		return p.objPalette.Color(pal, code)
	}
	reg := p.OBP0
	if pal == 1 {
		reg = p.OBP1
	}
	shades := palette.FromByte(reg)
	return palette.Greyscale[shades[code]]
}
