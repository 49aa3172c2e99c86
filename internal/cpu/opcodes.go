package cpu

// mainTable is indexed by the unprefixed opcode byte. Each entry
// returns the machine-cycle count actually elapsed, which for
// conditional branches/calls/returns differs between taken and
// not-taken. The LD r,r' block (0x40-0x7F, minus HALT at 0x76) and
// the ALU A,r block (0x80-0xBF) are filled programmatically since
// their operand decoding is a pure function of the opcode's bit
// fields; every other entry is written out individually, though the
// dd-indexed ones (LD dd,nn / INC rr / DEC rr / ADD HL,rr) still go
// through regPair/setRegPair rather than naming BC/DE/HL/SP directly.
var mainTable [256]func(*CPU) uint8

func init() {
	mainTable[0x00] = func(c *CPU) uint8 { return 1 } // NOP

	mainTable[0x01] = func(c *CPU) uint8 { c.setRegPair(0, c.fetch16()); return 3 }
	mainTable[0x02] = func(c *CPU) uint8 { c.bus.Write(c.BC(), c.A); return 2 }
	mainTable[0x03] = func(c *CPU) uint8 { c.setRegPair(0, c.regPair(0)+1); return 2 }
	mainTable[0x04] = func(c *CPU) uint8 { c.B = c.inc8(c.B); return 1 }
	mainTable[0x05] = func(c *CPU) uint8 { c.B = c.dec8(c.B); return 1 }
	mainTable[0x06] = func(c *CPU) uint8 { c.B = c.fetch8(); return 2 }
	mainTable[0x07] = func(c *CPU) uint8 { c.A = c.rlc(c.A); c.setFlag(FlagZ, false); return 1 }
	mainTable[0x08] = func(c *CPU) uint8 {
		addr := c.fetch16()
		c.bus.Write(addr, uint8(c.SP))
		c.bus.Write(addr+1, uint8(c.SP>>8))
		return 5
	}
	mainTable[0x09] = func(c *CPU) uint8 { c.addHL(c.regPair(0)); return 2 }
	mainTable[0x0A] = func(c *CPU) uint8 { c.A = c.bus.Read(c.BC()); return 2 }
	mainTable[0x0B] = func(c *CPU) uint8 { c.setRegPair(0, c.regPair(0)-1); return 2 }
	mainTable[0x0C] = func(c *CPU) uint8 { c.C = c.inc8(c.C); return 1 }
	mainTable[0x0D] = func(c *CPU) uint8 { c.C = c.dec8(c.C); return 1 }
	mainTable[0x0E] = func(c *CPU) uint8 { c.C = c.fetch8(); return 2 }
	mainTable[0x0F] = func(c *CPU) uint8 { c.A = c.rrc(c.A); c.setFlag(FlagZ, false); return 1 }

	mainTable[0x10] = func(c *CPU) uint8 { c.fetch8(); c.stop(); return 1 } // STOP 0
	mainTable[0x11] = func(c *CPU) uint8 { c.setRegPair(1, c.fetch16()); return 3 }
	mainTable[0x12] = func(c *CPU) uint8 { c.bus.Write(c.DE(), c.A); return 2 }
	mainTable[0x13] = func(c *CPU) uint8 { c.setRegPair(1, c.regPair(1)+1); return 2 }
	mainTable[0x14] = func(c *CPU) uint8 { c.D = c.inc8(c.D); return 1 }
	mainTable[0x15] = func(c *CPU) uint8 { c.D = c.dec8(c.D); return 1 }
	mainTable[0x16] = func(c *CPU) uint8 { c.D = c.fetch8(); return 2 }
	mainTable[0x17] = func(c *CPU) uint8 { c.A = c.rl(c.A); c.setFlag(FlagZ, false); return 1 }
	mainTable[0x18] = func(c *CPU) uint8 { c.jr(int8(c.fetch8())); return 3 }
	mainTable[0x19] = func(c *CPU) uint8 { c.addHL(c.regPair(1)); return 2 }
	mainTable[0x1A] = func(c *CPU) uint8 { c.A = c.bus.Read(c.DE()); return 2 }
	mainTable[0x1B] = func(c *CPU) uint8 { c.setRegPair(1, c.regPair(1)-1); return 2 }
	mainTable[0x1C] = func(c *CPU) uint8 { c.E = c.inc8(c.E); return 1 }
	mainTable[0x1D] = func(c *CPU) uint8 { c.E = c.dec8(c.E); return 1 }
	mainTable[0x1E] = func(c *CPU) uint8 { c.E = c.fetch8(); return 2 }
	mainTable[0x1F] = func(c *CPU) uint8 { c.A = c.rr(c.A); c.setFlag(FlagZ, false); return 1 }

	mainTable[0x20] = func(c *CPU) uint8 { return c.jrCond(c.condition(0)) }
	mainTable[0x21] = func(c *CPU) uint8 { c.setRegPair(2, c.fetch16()); return 3 }
	mainTable[0x22] = func(c *CPU) uint8 { c.bus.Write(c.HL(), c.A); c.SetHL(c.HL() + 1); return 2 }
	mainTable[0x23] = func(c *CPU) uint8 { c.setRegPair(2, c.regPair(2)+1); return 2 }
	mainTable[0x24] = func(c *CPU) uint8 { c.H = c.inc8(c.H); return 1 }
	mainTable[0x25] = func(c *CPU) uint8 { c.H = c.dec8(c.H); return 1 }
	mainTable[0x26] = func(c *CPU) uint8 { c.H = c.fetch8(); return 2 }
	mainTable[0x27] = func(c *CPU) uint8 { c.daa(); return 1 }
	mainTable[0x28] = func(c *CPU) uint8 { return c.jrCond(c.condition(1)) }
	mainTable[0x29] = func(c *CPU) uint8 { c.addHL(c.regPair(2)); return 2 }
	mainTable[0x2A] = func(c *CPU) uint8 { c.A = c.bus.Read(c.HL()); c.SetHL(c.HL() + 1); return 2 }
	mainTable[0x2B] = func(c *CPU) uint8 { c.setRegPair(2, c.regPair(2)-1); return 2 }
	mainTable[0x2C] = func(c *CPU) uint8 { c.L = c.inc8(c.L); return 1 }
	mainTable[0x2D] = func(c *CPU) uint8 { c.L = c.dec8(c.L); return 1 }
	mainTable[0x2E] = func(c *CPU) uint8 { c.L = c.fetch8(); return 2 }
	mainTable[0x2F] = func(c *CPU) uint8 { c.cpl(); return 1 }

	mainTable[0x30] = func(c *CPU) uint8 { return c.jrCond(c.condition(2)) }
	mainTable[0x31] = func(c *CPU) uint8 { c.setRegPair(3, c.fetch16()); return 3 }
	mainTable[0x32] = func(c *CPU) uint8 { c.bus.Write(c.HL(), c.A); c.SetHL(c.HL() - 1); return 2 }
	mainTable[0x33] = func(c *CPU) uint8 { c.setRegPair(3, c.regPair(3)+1); return 2 }
	mainTable[0x34] = func(c *CPU) uint8 { c.bus.Write(c.HL(), c.inc8(c.bus.Read(c.HL()))); return 3 }
	mainTable[0x35] = func(c *CPU) uint8 { c.bus.Write(c.HL(), c.dec8(c.bus.Read(c.HL()))); return 3 }
	mainTable[0x36] = func(c *CPU) uint8 { c.bus.Write(c.HL(), c.fetch8()); return 3 }
	mainTable[0x37] = func(c *CPU) uint8 { c.scf(); return 1 }
	mainTable[0x38] = func(c *CPU) uint8 { return c.jrCond(c.condition(3)) }
	mainTable[0x39] = func(c *CPU) uint8 { c.addHL(c.regPair(3)); return 2 }
	mainTable[0x3A] = func(c *CPU) uint8 { c.A = c.bus.Read(c.HL()); c.SetHL(c.HL() - 1); return 2 }
	mainTable[0x3B] = func(c *CPU) uint8 { c.setRegPair(3, c.regPair(3)-1); return 2 }
	mainTable[0x3C] = func(c *CPU) uint8 { c.A = c.inc8(c.A); return 1 }
	mainTable[0x3D] = func(c *CPU) uint8 { c.A = c.dec8(c.A); return 1 }
	mainTable[0x3E] = func(c *CPU) uint8 { c.A = c.fetch8(); return 2 }
	mainTable[0x3F] = func(c *CPU) uint8 { c.ccf(); return 1 }

	// 0x40-0x7F: LD r,r' for every (dst, src) pair, except 0x76 which
	// is HALT rather than LD (HL),(HL).
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 + dst*8 + src
			if op == 0x76 {
				continue
			}
			d, s := dst, src
			cycles := uint8(1)
			if d == 6 || s == 6 {
				cycles = 2
			}
			mainTable[op] = func(c *CPU) uint8 {
				c.setReg8(d, c.reg8(s))
				return cycles
			}
		}
	}
	mainTable[0x76] = func(c *CPU) uint8 { c.halt(); return 1 }

	// 0x80-0xBF: ALU A,r for the eight operations {ADD,ADC,SUB,SBC,
	// AND,XOR,OR,CP} over the eight source operands.
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + op*8 + src
			o, s := op, src
			cycles := uint8(1)
			if s == 6 {
				cycles = 2
			}
			mainTable[opcode] = func(c *CPU) uint8 {
				c.aluOp(o, c.reg8(s))
				return cycles
			}
		}
	}

	mainTable[0xC0] = func(c *CPU) uint8 { return c.retCond(c.condition(0)) }
	mainTable[0xC1] = func(c *CPU) uint8 { c.setRegPairStack(0, c.pop16()); return 3 }
	mainTable[0xC2] = func(c *CPU) uint8 { return c.jpCond(c.condition(0)) }
	mainTable[0xC3] = func(c *CPU) uint8 { c.PC = c.fetch16(); return 4 }
	mainTable[0xC4] = func(c *CPU) uint8 { return c.callCond(c.condition(0)) }
	mainTable[0xC5] = func(c *CPU) uint8 { c.push16(c.regPairStack(0)); return 4 }
	mainTable[0xC6] = func(c *CPU) uint8 { c.aluOp(0, c.fetch8()); return 2 }
	mainTable[0xC7] = func(c *CPU) uint8 { return c.rst(0x00) }
	mainTable[0xC8] = func(c *CPU) uint8 { return c.retCond(c.condition(1)) }
	mainTable[0xC9] = func(c *CPU) uint8 { c.PC = c.pop16(); return 4 }
	mainTable[0xCA] = func(c *CPU) uint8 { return c.jpCond(c.condition(1)) }
	mainTable[0xCB] = nil // handled directly in decodeAndExecute
	mainTable[0xCC] = func(c *CPU) uint8 { return c.callCond(c.condition(1)) }
	mainTable[0xCD] = func(c *CPU) uint8 { addr := c.fetch16(); c.push16(c.PC); c.PC = addr; return 6 }
	mainTable[0xCE] = func(c *CPU) uint8 { c.aluOp(1, c.fetch8()); return 2 }
	mainTable[0xCF] = func(c *CPU) uint8 { return c.rst(0x08) }

	mainTable[0xD0] = func(c *CPU) uint8 { return c.retCond(c.condition(2)) }
	mainTable[0xD1] = func(c *CPU) uint8 { c.setRegPairStack(1, c.pop16()); return 3 }
	mainTable[0xD2] = func(c *CPU) uint8 { return c.jpCond(c.condition(2)) }
	mainTable[0xD3] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xD3") }
	mainTable[0xD4] = func(c *CPU) uint8 { return c.callCond(c.condition(2)) }
	mainTable[0xD5] = func(c *CPU) uint8 { c.push16(c.regPairStack(1)); return 4 }
	mainTable[0xD6] = func(c *CPU) uint8 { c.aluOp(2, c.fetch8()); return 2 }
	mainTable[0xD7] = func(c *CPU) uint8 { return c.rst(0x10) }
	mainTable[0xD8] = func(c *CPU) uint8 { return c.retCond(c.condition(3)) }
	mainTable[0xD9] = func(c *CPU) uint8 { c.PC = c.pop16(); c.ime = imeEnabled; return 4 }
	mainTable[0xDA] = func(c *CPU) uint8 { return c.jpCond(c.condition(3)) }
	mainTable[0xDB] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xDB") }
	mainTable[0xDC] = func(c *CPU) uint8 { return c.callCond(c.condition(3)) }
	mainTable[0xDD] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xDD") }
	mainTable[0xDE] = func(c *CPU) uint8 { c.aluOp(3, c.fetch8()); return 2 }
	mainTable[0xDF] = func(c *CPU) uint8 { return c.rst(0x18) }

	mainTable[0xE0] = func(c *CPU) uint8 { c.bus.Write(0xFF00+uint16(c.fetch8()), c.A); return 3 }
	mainTable[0xE1] = func(c *CPU) uint8 { c.setRegPairStack(2, c.pop16()); return 3 }
	mainTable[0xE2] = func(c *CPU) uint8 { c.bus.Write(0xFF00+uint16(c.C), c.A); return 2 }
	mainTable[0xE3] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xE3") }
	mainTable[0xE4] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xE4") }
	mainTable[0xE5] = func(c *CPU) uint8 { c.push16(c.regPairStack(2)); return 4 }
	mainTable[0xE6] = func(c *CPU) uint8 { c.aluOp(4, c.fetch8()); return 2 }
	mainTable[0xE7] = func(c *CPU) uint8 { return c.rst(0x20) }
	mainTable[0xE8] = func(c *CPU) uint8 { c.SP = c.addSPSigned(int8(c.fetch8())); return 4 }
	mainTable[0xE9] = func(c *CPU) uint8 { c.PC = c.HL(); return 1 }
	mainTable[0xEA] = func(c *CPU) uint8 { c.bus.Write(c.fetch16(), c.A); return 4 }
	mainTable[0xEB] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xEB") }
	mainTable[0xEC] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xEC") }
	mainTable[0xED] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xED") }
	mainTable[0xEE] = func(c *CPU) uint8 { c.aluOp(5, c.fetch8()); return 2 }
	mainTable[0xEF] = func(c *CPU) uint8 { return c.rst(0x28) }

	mainTable[0xF0] = func(c *CPU) uint8 { c.A = c.bus.Read(0xFF00 + uint16(c.fetch8())); return 3 }
	mainTable[0xF1] = func(c *CPU) uint8 { c.setRegPairStack(3, c.pop16()); return 3 }
	mainTable[0xF2] = func(c *CPU) uint8 { c.A = c.bus.Read(0xFF00 + uint16(c.C)); return 2 }
	mainTable[0xF3] = func(c *CPU) uint8 { c.ime = imeDisabled; return 1 }
	mainTable[0xF4] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xF4") }
	mainTable[0xF5] = func(c *CPU) uint8 { c.push16(c.regPairStack(3)); return 4 }
	mainTable[0xF6] = func(c *CPU) uint8 { c.aluOp(6, c.fetch8()); return 2 }
	mainTable[0xF7] = func(c *CPU) uint8 { return c.rst(0x30) }
	mainTable[0xF8] = func(c *CPU) uint8 { c.SetHL(c.addSPSigned(int8(c.fetch8()))); return 3 }
	mainTable[0xF9] = func(c *CPU) uint8 { c.SP = c.HL(); return 2 }
	mainTable[0xFA] = func(c *CPU) uint8 { c.A = c.bus.Read(c.fetch16()); return 4 }
	mainTable[0xFB] = func(c *CPU) uint8 {
		if c.ime != imeEnabled {
			c.ime = imeScheduled
		}
		return 1
	}
	mainTable[0xFC] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xFC") }
	mainTable[0xFD] = func(c *CPU) uint8 { return c.fault("illegal opcode 0xFD") }
	mainTable[0xFE] = func(c *CPU) uint8 { c.aluOp(7, c.fetch8()); return 2 }
	mainTable[0xFF] = func(c *CPU) uint8 { return c.rst(0x38) }
}

// aluOp dispatches the eight ALU operations shared by the 0x80-0xBF
// block and their immediate forms (0xC6, 0xCE, ...).
func (c *CPU) aluOp(op uint8, v uint8) {
	switch op {
	case 0:
		c.add8(v, 0)
	case 1:
		var carry uint8
		if c.flagSet(FlagC) {
			carry = 1
		}
		c.add8(v, carry)
	case 2:
		c.sub8(v, 0, false)
	case 3:
		var borrow uint8
		if c.flagSet(FlagC) {
			borrow = 1
		}
		c.sub8(v, borrow, false)
	case 4:
		c.and8(v)
	case 5:
		c.xor8(v)
	case 6:
		c.or8(v)
	case 7:
		c.sub8(v, 0, true)
	}
}

func (c *CPU) jr(offset int8) { c.PC = uint16(int32(c.PC) + int32(offset)) }

func (c *CPU) jrCond(taken bool) uint8 {
	offset := int8(c.fetch8())
	if !taken {
		return 2
	}
	c.jr(offset)
	return 3
}

func (c *CPU) jpCond(taken bool) uint8 {
	addr := c.fetch16()
	if !taken {
		return 3
	}
	c.PC = addr
	return 4
}

func (c *CPU) callCond(taken bool) uint8 {
	addr := c.fetch16()
	if !taken {
		return 3
	}
	c.push16(c.PC)
	c.PC = addr
	return 6
}

func (c *CPU) retCond(taken bool) uint8 {
	if !taken {
		return 2
	}
	c.PC = c.pop16()
	return 5
}

func (c *CPU) rst(addr uint16) uint8 {
	c.push16(c.PC)
	c.PC = addr
	return 4
}
