package cpu

import "github.com/rcornwell/vb810/internal/bus"

// execLoad runs LD.{b,h,w} and IN.{b,h,w}; the only difference between the
// two families is that LD sign-extends sub-word widths and IN zero-extends
// them, matching their respective access-format bytes.
func (c *Context) execLoad(inst *Instruction) int {
	format, ok := loadFormat(inst.ID)
	if !ok {
		return c.raiseException(causeIllegal)
	}

	value, brk := c.busRead(inst.Address, format)
	c.SetRegister(int(inst.Reg2), int32(value))
	c.pc += uint32(inst.Size)
	return brk
}

func loadFormat(id ID) (bus.Format, bool) {
	switch id {
	case IDLdB:
		return bus.SignExtend8, true
	case IDLdH:
		return bus.SignExtend16, true
	case IDLdW:
		return bus.Width32, true
	case IDInB:
		return bus.Width8, true
	case IDInH:
		return bus.Width16, true
	case IDInW:
		return bus.Width32, true
	default:
		return 0, false
	}
}

// execStore runs ST.{b,h,w} and OUT.{b,h,w}.
func (c *Context) execStore(inst *Instruction) int {
	format, ok := storeFormat(inst.ID)
	if !ok {
		return c.raiseException(causeIllegal)
	}

	brk := c.busWrite(inst.Address, format, uint32(c.Register(int(inst.Reg2))))
	c.pc += uint32(inst.Size)
	return brk
}

func storeFormat(id ID) (bus.Format, bool) {
	switch id {
	case IDStB, IDOutB:
		return bus.Width8, true
	case IDStH, IDOutH:
		return bus.Width16, true
	case IDStW, IDOutW:
		return bus.Width32, true
	default:
		return 0, false
	}
}

// execCaxi is the one atomic read-modify-write instruction: compare the
// word at the effective address against reg2 (through the same flag
// pathway as SUB/CMP); if equal, replace it with r30, otherwise write the
// same value back unchanged. Either way reg2 receives the value that was
// read. Single-threaded emulation makes the compare-and-exchange trivially
// atomic; both halves of the transaction always happen.
func (c *Context) execCaxi(inst *Instruction) int {
	old, brk := c.busRead(inst.Address, bus.Width32)
	if brk != 0 {
		return brk
	}

	c.sub(old, uint32(c.Register(int(inst.Reg2))), -1)

	newValue := old
	if c.psw.Z {
		newValue = uint32(c.Register(30))
	}
	if brk := c.busWrite(inst.Address, bus.Width32, newValue); brk != 0 {
		return brk
	}
	c.SetRegister(int(inst.Reg2), int32(old))

	c.pc += uint32(inst.Size)
	return 0
}
