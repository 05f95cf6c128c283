package cpu

// execALU runs every integer instruction whose only side effects are a
// register write and flag update, then advances the PC past it. None of
// these can trap.
func (c *Context) execALU(inst *Instruction) {
	switch inst.ID {
	case IDMovReg:
		c.SetRegister(int(inst.Reg2), c.Register(int(inst.Reg1)))
	case IDMovImm:
		c.SetRegister(int(inst.Reg2), int32(inst.Immediate))
	case IDMovea:
		c.SetRegister(int(inst.Reg2), c.Register(int(inst.Reg1))+int32(inst.Immediate))
	case IDMovhi:
		c.SetRegister(int(inst.Reg2), c.Register(int(inst.Reg1))+int32(inst.Immediate<<16))

	case IDAddReg:
		c.add(inst, uint32(c.Register(int(inst.Reg1))), uint32(c.Register(int(inst.Reg2))), int(inst.Reg2))
	case IDAddImm:
		c.add(inst, uint32(int32(inst.Immediate)), uint32(c.Register(int(inst.Reg2))), int(inst.Reg2))
	case IDAddI:
		c.add(inst, uint32(int32(inst.Immediate)), uint32(c.Register(int(inst.Reg1))), int(inst.Reg2))

	case IDSub:
		c.sub(uint32(c.Register(int(inst.Reg2))), uint32(c.Register(int(inst.Reg1))), int(inst.Reg2))
	case IDCmpReg:
		c.sub(uint32(c.Register(int(inst.Reg2))), uint32(c.Register(int(inst.Reg1))), -1)
	case IDCmpImm:
		c.sub(uint32(c.Register(int(inst.Reg2))), uint32(int32(inst.Immediate)), -1)

	case IDOr:
		c.logic(uint32(c.Register(int(inst.Reg2)))|uint32(c.Register(int(inst.Reg1))), int(inst.Reg2))
	case IDOrI:
		c.logic(uint32(c.Register(int(inst.Reg1)))|inst.Immediate, int(inst.Reg2))
	case IDAnd:
		c.logic(uint32(c.Register(int(inst.Reg2)))&uint32(c.Register(int(inst.Reg1))), int(inst.Reg2))
	case IDAndI:
		c.logic(uint32(c.Register(int(inst.Reg1)))&inst.Immediate, int(inst.Reg2))
	case IDXor:
		c.logic(uint32(c.Register(int(inst.Reg2)))^uint32(c.Register(int(inst.Reg1))), int(inst.Reg2))
	case IDXorI:
		c.logic(uint32(c.Register(int(inst.Reg1)))^inst.Immediate, int(inst.Reg2))
	case IDNot:
		c.logic(^uint32(c.Register(int(inst.Reg1))), int(inst.Reg2))

	case IDShlReg:
		c.shiftLeft(uint32(c.Register(int(inst.Reg2))), uint32(c.Register(int(inst.Reg1)))&0x1F, int(inst.Reg2))
	case IDShlImm:
		c.shiftLeft(uint32(c.Register(int(inst.Reg2))), inst.Immediate&0x1F, int(inst.Reg2))
	case IDShrReg:
		c.shiftRight(uint32(c.Register(int(inst.Reg2))), uint32(c.Register(int(inst.Reg1)))&0x1F, int(inst.Reg2))
	case IDShrImm:
		c.shiftRight(uint32(c.Register(int(inst.Reg2))), inst.Immediate&0x1F, int(inst.Reg2))
	case IDSarReg:
		c.shiftArith(c.Register(int(inst.Reg2)), uint32(c.Register(int(inst.Reg1)))&0x1F, int(inst.Reg2))
	case IDSarImm:
		c.shiftArith(c.Register(int(inst.Reg2)), inst.Immediate&0x1F, int(inst.Reg2))

	case IDSetf:
		if c.psw.Condition(uint8(inst.Immediate) & 0xF) {
			c.SetRegister(int(inst.Reg2), 1)
		} else {
			c.SetRegister(int(inst.Reg2), 0)
		}

	case IDMul, IDMulu:
		c.multiply(inst)
	case IDMpyhw:
		lo1 := int32(signExtend32(uint32(c.Register(int(inst.Reg1)))&0x1FFFF, 17))
		c.SetRegister(int(inst.Reg2), lo1*c.Register(int(inst.Reg2)))

	case IDRev:
		c.SetRegister(int(inst.Reg2), int32(bitReverse32(uint32(c.Register(int(inst.Reg1))))))
	case IDXb:
		v := uint32(c.Register(int(inst.Reg2)))
		c.SetRegister(int(inst.Reg2), int32(v&0xFFFF0000|(v&0xFF)<<8|(v&0xFF00)>>8))
	case IDXh:
		v := uint32(c.Register(int(inst.Reg2)))
		c.SetRegister(int(inst.Reg2), int32(v<<16|v>>16))
	}

	c.pc += uint32(inst.Size)
}

func (c *Context) add(inst *Instruction, a, b uint32, dest int) {
	result := a + b
	c.psw.CY = uint64(a)+uint64(b) > 0xFFFFFFFF
	c.psw.OV = (^(a^b) & (a ^ result) & 0x80000000) != 0
	c.psw.setZS(result)
	if dest >= 0 {
		c.SetRegister(dest, int32(result))
	}
}

func (c *Context) sub(a, b uint32, dest int) {
	result := a - b
	c.psw.CY = a < b
	c.psw.OV = ((a ^ b) & (a ^ result) & 0x80000000) != 0
	c.psw.setZS(result)
	if dest >= 0 {
		c.SetRegister(dest, int32(result))
	}
}

func (c *Context) logic(result uint32, dest int) {
	c.psw.setZS(result)
	c.psw.OV = false
	c.SetRegister(dest, int32(result))
}

func (c *Context) shiftLeft(value, amount uint32, dest int) {
	var cy bool
	if amount > 0 {
		cy = (value>>(32-amount))&1 != 0
	}
	result := value << amount
	c.psw.CY = cy
	c.psw.OV = false
	c.psw.setZS(result)
	c.SetRegister(dest, int32(result))
}

func (c *Context) shiftRight(value, amount uint32, dest int) {
	var cy bool
	if amount > 0 {
		cy = (value>>(amount-1))&1 != 0
	}
	result := value >> amount
	c.psw.CY = cy
	c.psw.OV = false
	c.psw.setZS(result)
	c.SetRegister(dest, int32(result))
}

func (c *Context) shiftArith(value int32, amount uint32, dest int) {
	var cy bool
	if amount > 0 {
		cy = (uint32(value)>>(amount-1))&1 != 0
	}
	result := value >> amount
	c.psw.CY = cy
	c.psw.OV = false
	c.psw.setZS(uint32(result))
	c.SetRegister(dest, result)
}

func (c *Context) multiply(inst *Instruction) {
	a := c.Register(int(inst.Reg1))
	b := c.Register(int(inst.Reg2))

	if inst.ID == IDMulu {
		product := uint64(uint32(a)) * uint64(uint32(b))
		c.SetRegister(30, int32(product>>32))
		c.SetRegister(int(inst.Reg2), int32(uint32(product)))
		c.psw.setZS(uint32(product))
		c.psw.OV = uint32(product>>32) != 0
		return
	}

	product := int64(a) * int64(b)
	c.SetRegister(30, int32(uint64(product)>>32))
	c.SetRegister(int(inst.Reg2), int32(product))
	c.psw.setZS(uint32(product))
	c.psw.OV = product != int64(int32(product))
}

// execDiv runs DIV/DIVU, which alone among the ALU family can trap: a
// zero divisor raises the zero-division exception (0xFF80), and
// signed DIV additionally special-cases INT32_MIN / -1 (overflow, quotient
// defined as INT32_MIN, no trap).
func (c *Context) execDiv(inst *Instruction) int {
	a := c.Register(int(inst.Reg2))
	b := c.Register(int(inst.Reg1))

	if b == 0 {
		return c.raiseException(causeZeroDivide)
	}

	if inst.ID == IDDivu {
		ua, ub := uint32(a), uint32(b)
		q, r := ua/ub, ua%ub
		c.SetRegister(int(inst.Reg2), int32(q))
		c.SetRegister(30, int32(r))
		c.psw.setZS(q)
		c.psw.OV = false
	} else {
		var q, r int32
		if a == -0x80000000 && b == -1 {
			q, r = -0x80000000, 0
			c.psw.OV = true
		} else {
			q, r = a/b, a%b
			c.psw.OV = false
		}
		c.SetRegister(int(inst.Reg2), q)
		c.SetRegister(30, r)
		c.psw.setZS(uint32(q))
	}

	c.pc += uint32(inst.Size)
	return 0
}

func bitReverse32(v uint32) uint32 {
	var result uint32
	for i := 0; i < 32; i++ {
		result = result<<1 | (v & 1)
		v >>= 1
	}
	return result
}
