package cpu

// execTrap raises a software-requested exception: cause is 0xFFA0 with the
// low 4 bits of the instruction's immediate folded in. Unlike a detected
// fault (illegal opcode, zero divisor), TRAP completes normally first, so
// the saved return address is the instruction following it.
func (c *Context) execTrap(inst *Instruction) int {
	c.pc += uint32(inst.Size)
	return c.raiseException(0xFFA0 | uint16(inst.Immediate&0xF))
}

// execReti returns from whichever exception level is currently active,
// preferring the duplexed (fatal-adjacent) level over the regular one since
// a duplexed fault can only occur nested inside a regular one.
func (c *Context) execReti(inst *Instruction) int {
	if c.psw.NP {
		c.pc = c.fepc &^ 1
		c.psw = UnpackPSW(c.fepsw)
	} else {
		c.pc = c.eipc &^ 1
		c.psw = UnpackPSW(c.eipsw)
	}
	return 0
}

// execLdsr and execStsr move a value between a general register and a
// system register; the system-register ID rides in the instruction's
// 5-bit immediate field (format II's non-register operand slot).
func (c *Context) execLdsr(inst *Instruction) int {
	c.SetSystemRegister(int(inst.Immediate), uint32(c.Register(int(inst.Reg2))))
	c.pc += uint32(inst.Size)
	return 0
}

func (c *Context) execStsr(inst *Instruction) int {
	c.SetRegister(int(inst.Reg2), int32(c.GetSystemRegister(int(inst.Immediate))))
	c.pc += uint32(inst.Size)
	return 0
}

// execIllegal handles IDIllegal along with the decode-only bit-string and
// FPU/extension families: none of them have an execute-time implementation,
// so they all raise the reserved-instruction exception.
func (c *Context) execIllegal(inst *Instruction) int {
	return c.raiseException(causeIllegal)
}
