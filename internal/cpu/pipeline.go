package cpu

import "github.com/rcornwell/vb810/internal/bus"

// scratch fields used only while a fetch is in flight across pipeline
// stages; not part of the architectural state and not reset by anything but
// Reset.
type fetchState struct {
	op         opdef
	opcode     uint8
	firstWord  uint16
	secondWord uint16
}

func (c *Context) stepFetch16() int {
	word := uint16(c.Bus.Read(c.pc, bus.Width16))
	op, opcode := decodeFirst(word)
	c.fetch = fetchState{op: op, opcode: opcode, firstWord: word}

	if op.format.needsSecondWord() {
		c.stage = StageFetch32
	} else {
		c.stage = StageExecute
	}
	return 0
}

func (c *Context) stepFetch32() int {
	c.fetch.secondWord = uint16(c.Bus.Read(c.pc+2, bus.Width16))
	c.stage = StageExecute
	return 0
}

func (c *Context) stepExecute() int {
	inst := decodeComplete(c.fetch.op, c.fetch.opcode, c.fetch.firstWord, c.fetch.secondWord)
	c.precomputeAddress(&inst)
	c.instruction = inst

	if c.Debug.OnExecute != nil {
		if brk := c.Debug.OnExecute(c, c.pc, &c.instruction); brk != 0 {
			return brk
		}
	}

	taken, brk := c.dispatch(&c.instruction)
	c.cycles += cycleCost(c.instruction.ID, taken)

	c.registers[0] = 0
	c.stage = StageInterrupt
	return brk
}

func (c *Context) stepInterrupt() int {
	for level := numIRQLevels - 1; level >= 0; level-- {
		if !c.irq[level] {
			continue
		}
		if c.psw.NP || c.psw.EP || c.psw.ID {
			continue
		}
		if c.psw.I > uint8(level) {
			continue
		}

		// The request line stays latched: raising PSW.I past the level
		// keeps it from re-entering until the peripheral drops the line
		// (ClearIRQ) or the handler returns with a lower mask.
		cause := interruptCause(level)
		if brk := c.raiseException(cause); brk != 0 {
			return brk
		}
		break
	}

	if !c.halt {
		c.stage = StageFetch16
	}
	return 0
}

// interruptCause maps an IRQ level to its architectural exception cause
// code: 0xFE00 | level<<4 (level 4 / VIP -> cause 0xFE40 -> vector
// 0xFFFFFE40).
func interruptCause(level int) uint16 {
	return 0xFE00 | uint16(level)<<4
}

// precomputeAddress fills Instruction.Address and, for Bcond,
// Instruction.IsTrue, ahead of dispatch.
func (c *Context) precomputeAddress(inst *Instruction) {
	switch inst.ID {
	case IDBcond:
		inst.IsTrue = c.psw.Condition(inst.Condition)
		inst.Address = (c.pc + uint32(inst.Displacement)) &^ 1
	case IDJr, IDJal:
		inst.Address = (c.pc + uint32(inst.Displacement)) &^ 1
	case IDLdB, IDLdH, IDLdW, IDStB, IDStH, IDStW,
		IDInB, IDInH, IDInW, IDOutB, IDOutH, IDOutW, IDCaxi:
		inst.Address = uint32(c.Register(int(inst.Reg1))) + uint32(inst.Displacement)
	}
}

// Fetch decodes a single instruction at address without executing it or
// mutating any architectural state (PC, cycle counter, pipeline stage).
func (c *Context) Fetch(address uint32) Instruction {
	first := uint16(c.Bus.Read(address, bus.Width16))
	op, opcode := decodeFirst(first)

	var second uint16
	if op.format.needsSecondWord() {
		second = uint16(c.Bus.Read(address+2, bus.Width16))
	}

	inst := decodeComplete(op, opcode, first, second)
	switch inst.ID {
	case IDBcond:
		inst.IsTrue = c.psw.Condition(inst.Condition)
		inst.Address = (address + uint32(inst.Displacement)) &^ 1
	case IDJr, IDJal:
		inst.Address = (address + uint32(inst.Displacement)) &^ 1
	case IDLdB, IDLdH, IDLdW, IDStB, IDStH, IDStW,
		IDInB, IDInH, IDInW, IDOutB, IDOutH, IDOutW, IDCaxi:
		inst.Address = uint32(c.Register(int(inst.Reg1))) + uint32(inst.Displacement)
	}
	return inst
}
