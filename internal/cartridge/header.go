// Package cartridge parses the ROM header, classifies the MBC type and
// bank counts, and wires the resulting MBC into the CPU-facing ROM/RAM
// address windows.
package cartridge

import (
	"fmt"

	"github.com/hopperlabs/gbx/internal/types"
)

// CGBFlag classifies a cartridge's Game Boy Color support from the
// byte at 0x0143.
type CGBFlag uint8

const (
	CGBNone CGBFlag = iota
	CGBSupported
	CGBOnly
)

// Type is the raw cartridge type byte at 0x0147.
type Type uint8

const (
	TypeROMOnly           Type = 0x00
	TypeMBC1              Type = 0x01
	TypeMBC1RAM           Type = 0x02
	TypeMBC1RAMBattery    Type = 0x03
	TypeMBC3TimerBattery  Type = 0x0F
	TypeMBC3TimerRAMBatt  Type = 0x10
	TypeMBC3              Type = 0x11
	TypeMBC3RAM           Type = 0x12
	TypeMBC3RAMBattery    Type = 0x13
	TypeMBC5              Type = 0x19
	TypeMBC5RAM           Type = 0x1A
	TypeMBC5RAMBattery    Type = 0x1B
	TypeMBC5Rumble        Type = 0x1C
	TypeMBC5RumbleRAM     Type = 0x1D
	TypeMBC5RumbleRAMBatt Type = 0x1E
)

var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header holds the parsed contents of the 80-byte cartridge header at
// ROM offset 0x100.
type Header struct {
	Title          string
	CGBFlag        CGBFlag
	NewLicensee    string
	SGBFlag        bool
	Type           Type
	ROMSize        int
	RAMSize        int
	DestinationJP  bool
	OldLicensee    uint8
	Version        uint8
	HeaderChecksum uint8
	GlobalChecksum uint16
}

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// ConfigErrorKind classifies why loading a ROM, save, or RTC blob failed.
type ConfigErrorKind uint8

const (
	ErrUnsupportedMBC ConfigErrorKind = iota
	ErrROMSizeMismatch
	ErrBadChecksum
	ErrBadLogo
	ErrBadSaveLength
	ErrBadRTCLength
)

// ConfigError is returned by ParseHeader, New and the Cartridge
// save/RTC loaders (which internal/gameboy's Core forwards) when the
// supplied bytes can't be interpreted.
type ConfigError struct {
	Kind ConfigErrorKind
	Msg  string
}

func (e *ConfigError) Error() string { return e.Msg }

func configErr(kind ConfigErrorKind, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ParseHeader parses the header embedded in rom (which must be at
// least 0x150 bytes long) and validates the logo block and header
// checksum.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < 0x150 {
		return nil, configErr(ErrROMSizeMismatch, "cartridge: ROM too short to contain a header (%d bytes)", len(rom))
	}

	for i, b := range nintendoLogo {
		if rom[0x104+i] != b {
			return nil, configErr(ErrBadLogo, "cartridge: Nintendo logo block at 0x104 does not match")
		}
	}

	h := &Header{}
	switch rom[0x143] {
	case 0x80:
		h.CGBFlag = CGBSupported
	case 0xC0:
		h.CGBFlag = CGBOnly
	default:
		h.CGBFlag = CGBNone
	}

	titleEnd := 0x144
	if h.CGBFlag != CGBNone {
		titleEnd = 0x143
	}
	h.Title = trimTitle(rom[0x134:titleEnd])
	h.NewLicensee = string(rom[0x144:0x146])
	h.SGBFlag = rom[0x146] == 0x03
	h.Type = Type(rom[0x147])
	h.ROMSize = (32 * 1024) << rom[0x148]
	h.RAMSize = ramSizes[rom[0x149]]
	h.DestinationJP = rom[0x14A] == 0x00
	h.OldLicensee = rom[0x14B]
	h.Version = rom[0x14C]
	h.HeaderChecksum = rom[0x14D]
	h.GlobalChecksum = uint16(rom[0x14E])<<8 | uint16(rom[0x14F])

	var sum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		sum = sum - rom[addr] - 1
	}
	if sum != h.HeaderChecksum {
		return nil, configErr(ErrBadChecksum, "cartridge: header checksum mismatch: computed 0x%02X, stored 0x%02X", sum, h.HeaderChecksum)
	}

	if len(rom) != h.ROMSize {
		return nil, configErr(ErrROMSizeMismatch, "cartridge: ROM buffer is %d bytes, header declares %d", len(rom), h.ROMSize)
	}

	return h, nil
}

func trimTitle(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

// Model returns the hardware personality implied by the header's CGB
// flag.
func (h *Header) Model() types.Model {
	switch h.CGBFlag {
	case CGBOnly:
		return types.CGB
	case CGBSupported:
		return types.CGB
	default:
		return types.DMG
	}
}

// HasBattery reports whether the cartridge type byte implies
// battery-backed external RAM (and, for MBC3, an RTC).
func (h *Header) HasBattery() bool {
	switch h.Type {
	case TypeMBC1RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt,
		TypeMBC3RAMBattery, TypeMBC5RAMBattery, TypeMBC5RumbleRAMBatt:
		return true
	default:
		return false
	}
}

// HasRTC reports whether the cartridge type byte implies an MBC3 real-time clock.
func (h *Header) HasRTC() bool {
	return h.Type == TypeMBC3TimerBattery || h.Type == TypeMBC3TimerRAMBatt
}

// HasRumble reports whether the cartridge type byte implies an MBC5 rumble motor.
func (h *Header) HasRumble() bool {
	switch h.Type {
	case TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBatt:
		return true
	default:
		return false
	}
}
