package cpu

// dispatch routes a decoded instruction to its executor and reports whether
// it counts as "taken" for cycle costing (only Bcond can answer false; every
// other instruction that reaches here is unconditionally taken). Every
// executor is responsible for leaving the PC in its final state itself,
// whether that is the next sequential instruction, a branch target, or an
// exception vector.
func (c *Context) dispatch(inst *Instruction) (taken bool, brk int) {
	switch inst.ID {
	case IDBcond:
		return inst.IsTrue, c.execBcond(inst)
	case IDJr:
		return true, c.execJr(inst)
	case IDJal:
		return true, c.execJal(inst)
	case IDJmp:
		return true, c.execJmp(inst)

	case IDDiv, IDDivu:
		return true, c.execDiv(inst)

	case IDLdB, IDLdH, IDLdW, IDInB, IDInH, IDInW:
		return true, c.execLoad(inst)
	case IDStB, IDStH, IDStW, IDOutB, IDOutH, IDOutW:
		return true, c.execStore(inst)
	case IDCaxi:
		return true, c.execCaxi(inst)

	case IDTrap:
		return true, c.execTrap(inst)
	case IDReti:
		return true, c.execReti(inst)
	case IDLdsr:
		return true, c.execLdsr(inst)
	case IDStsr:
		return true, c.execStsr(inst)

	case IDHalt:
		// HALT leaves the PC in place; the CPU re-executes it after an
		// interrupt handler returns, staying parked until the next wake.
		c.halt = true
		return true, 0
	case IDSei:
		c.psw.ID = true
		c.pc += uint32(inst.Size)
		return true, 0
	case IDCli:
		c.psw.ID = false
		c.pc += uint32(inst.Size)
		return true, 0

	case IDMovReg, IDMovImm, IDMovea, IDMovhi,
		IDAddReg, IDAddImm, IDAddI, IDSub, IDCmpReg, IDCmpImm,
		IDOr, IDOrI, IDAnd, IDAndI, IDXor, IDXorI, IDNot,
		IDShlReg, IDShlImm, IDShrReg, IDShrImm, IDSarReg, IDSarImm,
		IDSetf, IDMul, IDMulu, IDMpyhw, IDRev, IDXb, IDXh:
		c.execALU(inst)
		return true, 0

	default:
		// IDIllegal, the bit-string family (Sch0bsu..Notbsu), and the
		// FPU/extension family (CmpfS..TrncSw): none have an execute-time
		// implementation and all raise the reserved-instruction exception.
		return true, c.execIllegal(inst)
	}
}
