package cpu

// cycleCost returns the number of CPU cycles an executed instruction takes,
// per the architecture's per-class timing. taken is only consulted for
// Bcond; JR/JMP/JAL are unconditionally "taken" for costing purposes.
func cycleCost(id ID, taken bool) uint64 {
	switch id {
	case IDMovReg, IDMovImm, IDAddReg, IDAddImm, IDAddI, IDSub,
		IDCmpReg, IDCmpImm, IDShlReg, IDShlImm, IDShrReg, IDShrImm,
		IDSarReg, IDSarImm, IDOr, IDOrI, IDAnd, IDAndI, IDXor, IDXorI,
		IDNot, IDMovea, IDMovhi, IDSetf, IDHalt:
		return 1

	case IDBcond:
		if taken {
			return 3
		}
		return 1

	case IDJr, IDJmp, IDJal:
		return 3

	case IDLdB, IDStB, IDStH, IDStW:
		return 4
	case IDLdH, IDLdW, IDInH, IDInW:
		return 5
	case IDInB:
		return 3
	case IDOutB, IDOutH, IDOutW:
		return 4

	case IDCaxi:
		return 26

	case IDMpyhw:
		return 9
	case IDMul, IDMulu:
		return 13
	case IDDiv:
		return 38
	case IDDivu:
		return 36

	case IDTrap:
		return 15
	case IDReti:
		return 10
	case IDSei, IDCli:
		return 12
	case IDLdsr, IDStsr:
		return 8
	case IDRev:
		return 22
	case IDXb:
		return 6
	case IDXh:
		return 1

	default:
		// Illegal opcodes and the decode-only bit-string/FPU stubs all
		// raise an exception immediately, so they cost the same as a
		// plain ALU op.
		return 1
	}
}
