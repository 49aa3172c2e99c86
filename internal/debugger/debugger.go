// Package debugger exposes the engine's register state and a
// breakpoint control channel to a remote client over a websocket,
// giving a concrete implementation to the register-state readback and
// breakpoint/runnability contract without pulling any rendering
// toolkit into the engine itself.
package debugger

import "github.com/hopperlabs/gbx/internal/cpu"

// Flags mirrors the four flag bits of F as booleans.
type Flags struct {
	Z  bool `json:"z"`
	N  bool `json:"n"`
	H  bool `json:"h"`
	Cy bool `json:"cy"`
}

// Frame is one register-state snapshot, emitted once per Core.Step
// while a client is attached.
type Frame struct {
	PC uint16 `json:"pc"`
	SP uint16 `json:"sp"`
	A  uint8  `json:"a"`
	F  uint8  `json:"f"`
	B  uint8  `json:"b"`
	C  uint8  `json:"c"`
	D  uint8  `json:"d"`
	E  uint8  `json:"e"`
	H  uint8  `json:"h"`
	L  uint8  `json:"l"`

	Flags Flags `json:"flags"`
}

// FrameFromCPU snapshots c's register file into the wire format.
func FrameFromCPU(c *cpu.CPU) Frame {
	return Frame{
		PC: c.PC, SP: c.SP,
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		Flags: Flags{
			Z:  c.F&uint8(cpu.FlagZ) != 0,
			N:  c.F&uint8(cpu.FlagN) != 0,
			H:  c.F&uint8(cpu.FlagH) != 0,
			Cy: c.F&uint8(cpu.FlagC) != 0,
		},
	}
}

// command is one inbound control message from a client.
type command struct {
	Op      string `json:"op"`
	Addr    uint16 `json:"addr"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// Breakpoint is a drained command asking the caller to arm or disarm
// a PC breakpoint via gameboy.Core.SetBreakpoint.
type Breakpoint struct {
	Addr    uint16
	Enabled bool
}
