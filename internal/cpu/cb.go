package cpu

// cbTable is indexed by the byte following a 0xCB prefix. The entire
// space is regular: bits 5-3 select the operation (or bit index for
// BIT/RES/SET) and bits 2-0 select the register operand, so the
// table is built entirely by loop rather than spelled out by hand.
var cbTable [256]func(*CPU) uint8

func init() {
	rotateShift := []func(*CPU, uint8) uint8{
		(*CPU).rlc,
		(*CPU).rrc,
		(*CPU).rl,
		(*CPU).rr,
		(*CPU).sla,
		(*CPU).sra,
		(*CPU).swap,
		(*CPU).srl,
	}

	for group := uint8(0); group < 8; group++ {
		op := rotateShift[group]
		for reg := uint8(0); reg < 8; reg++ {
			opcode := group*8 + reg
			r := reg
			cycles := uint8(2)
			if r == 6 {
				cycles = 4
			}
			cbTable[opcode] = func(c *CPU) uint8 {
				c.setReg8(r, op(c, c.reg8(r)))
				return cycles
			}
		}
	}

	for bit := uint8(0); bit < 8; bit++ {
		for reg := uint8(0); reg < 8; reg++ {
			b, r := bit, reg
			opcode := 0x40 + b*8 + r
			cycles := uint8(2)
			if r == 6 {
				cycles = 3
			}
			cbTable[opcode] = func(c *CPU) uint8 {
				c.bit(b, c.reg8(r))
				return cycles
			}
		}
	}

	for bit := uint8(0); bit < 8; bit++ {
		for reg := uint8(0); reg < 8; reg++ {
			b, r := bit, reg
			opcode := 0x80 + b*8 + r
			cycles := uint8(2)
			if r == 6 {
				cycles = 4
			}
			cbTable[opcode] = func(c *CPU) uint8 {
				c.setReg8(r, c.reg8(r)&^(1<<b))
				return cycles
			}
		}
	}

	for bit := uint8(0); bit < 8; bit++ {
		for reg := uint8(0); reg < 8; reg++ {
			b, r := bit, reg
			opcode := 0xC0 + b*8 + r
			cycles := uint8(2)
			if r == 6 {
				cycles = 4
			}
			cbTable[opcode] = func(c *CPU) uint8 {
				c.setReg8(r, c.reg8(r)|1<<b)
				return cycles
			}
		}
	}
}
