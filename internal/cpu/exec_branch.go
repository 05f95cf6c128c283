package cpu

// execBcond takes the precomputed branch target when the condition holds,
// otherwise simply steps past the instruction.
func (c *Context) execBcond(inst *Instruction) int {
	if inst.IsTrue {
		c.pc = inst.Address
	} else {
		c.pc += uint32(inst.Size)
	}
	return 0
}

// execJr is an unconditional relative jump; the target was precomputed
// during fetch from PC + displacement.
func (c *Context) execJr(inst *Instruction) int {
	c.pc = inst.Address
	return 0
}

// execJal is JR plus a link: r31 receives the address of the instruction
// following the jump.
func (c *Context) execJal(inst *Instruction) int {
	c.SetRegister(31, int32(c.pc+uint32(inst.Size)))
	c.pc = inst.Address
	return 0
}

// execJmp is an unconditional jump to the address held in reg1, used both
// as a plain jump and, with r31, as a return.
func (c *Context) execJmp(inst *Instruction) int {
	c.pc = uint32(c.Register(int(inst.Reg1))) &^ 1
	return 0
}
