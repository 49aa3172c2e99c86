package gameboy

import (
	"github.com/hopperlabs/gbx/internal/boot"
	"github.com/hopperlabs/gbx/internal/types"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

// Option configures a Core at construction time. Following the
// functional-options pattern, options apply in order after the
// cartridge is parsed but before the first instruction executes.
type Option func(*Core)

// WithModel overrides the hardware personality the cartridge header
// would otherwise select. Forcing DMG on a CGB-flagged cartridge runs
// it in backwards-compatibility mode.
func WithModel(m types.Model) Option {
	return func(c *Core) { c.modelOverride = &m }
}

// WithBootROM attaches a boot ROM overlay; execution starts at 0x0000
// instead of jumping straight to the cartridge entry point at 0x0100.
func WithBootROM(rom []byte) Option {
	return func(c *Core) {
		b, err := boot.Load(rom)
		if err != nil {
			c.log.Errorf("gameboy: ignoring invalid boot ROM: %v", err)
			return
		}
		c.bootROM = b
	}
}

// WithLogger replaces the default Info-level stderr logger.
func WithLogger(l gblog.Logger) Option {
	return func(c *Core) { c.log = l }
}

// WithBreakOnLDBB arms a debugging convention borrowed from
// hand-written test ROMs: executing the opcode for LD B,B (0x40)
// clears Runnable() instead of running past it, giving a ROM a way to
// trap into a debugger without a host-side breakpoint address.
func WithBreakOnLDBB() Option {
	return func(c *Core) { c.breakOnLDBB = true }
}
