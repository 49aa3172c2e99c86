package cpu

// Operand decoding for the regular opcode blocks. Register index r
// follows the standard encoding: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
// Register pair index dd follows 0=BC 1=DE 2=HL 3=SP (or AF in the
// PUSH/POP table). Condition index cc follows 0=NZ 1=Z 2=NC 3=C.

func (c *CPU) reg8(i uint8) uint8 {
	switch i {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.bus.Read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(i uint8, v uint8) {
	switch i {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.bus.Write(c.HL(), v)
	default:
		c.A = v
	}
}

func (c *CPU) regPair(i uint8) uint16 {
	switch i {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setRegPair(i uint8, v uint16) {
	switch i {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

func (c *CPU) regPairStack(i uint8) uint16 {
	switch i {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.AF()
	}
}

func (c *CPU) setRegPairStack(i uint8, v uint16) {
	switch i {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SetAF(v)
	}
}

func (c *CPU) condition(i uint8) bool {
	switch i {
	case 0:
		return !c.flagSet(FlagZ)
	case 1:
		return c.flagSet(FlagZ)
	case 2:
		return !c.flagSet(FlagC)
	default:
		return c.flagSet(FlagC)
	}
}
