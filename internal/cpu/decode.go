package cpu

// decodeOpcode extracts the 6-bit opcode from the first half-word of an
// instruction (bits 15..10).
func decodeOpcode(firstWord uint16) uint8 {
	return uint8(firstWord>>10) & 0x3F
}

// decodeFirst classifies the first half-word: which format it selects and
// whether decoding needs a second half-word before the descriptor is
// complete. It does not populate operand fields — those depend on whether a
// second half-word is needed.
func decodeFirst(firstWord uint16) (op opdef, opcode uint8) {
	opcode = decodeOpcode(firstWord)
	return opcodeTable[opcode], opcode
}

// decodeComplete finishes decoding once the full bit pattern is known: for
// 16-bit formats, secondWord is ignored; for 32-bit formats, the combined
// word is built as secondWord | firstWord<<16, matching the reference
// decoder's bit layout.
func decodeComplete(op opdef, opcode uint8, firstWord uint16, secondWord uint16) Instruction {
	inst := Instruction{Opcode: opcode, Size: 2}

	format := op.format
	var combined uint32
	if format.needsSecondWord() {
		inst.Size = 4
		combined = uint32(secondWord) | uint32(firstWord)<<16
		inst.Bits = combined
	} else {
		inst.Bits = uint32(firstWord)
	}

	switch format {
	case FormatI:
		inst.Format = FormatI
		inst.Reg1 = uint8(firstWord) & 0x1F
		inst.Reg2 = uint8(firstWord>>5) & 0x1F
		inst.ID = op.id

	case FormatII:
		inst.Format = FormatII
		inst.Immediate = uint32(firstWord) & 0x1F
		inst.Reg2 = uint8(firstWord>>5) & 0x1F
		if op.signExtend {
			inst.Immediate = signExtend32(inst.Immediate, 5)
		}
		if op.isBitString {
			sub := uint8(firstWord) & 0xF
			inst.Subopcode = sub
			inst.ID = bitStringTable[sub]
		} else {
			inst.ID = op.id
		}

	case FormatIII:
		inst.Format = FormatIII
		disp := uint32(firstWord) & 0x1FF
		inst.Displacement = int32(signExtend32(disp, 9))
		inst.Condition = uint8(firstWord>>9) & 0xF
		inst.ID = IDBcond

	case FormatIV:
		inst.Format = FormatIV
		disp := combined & 0x03FFFFFF
		inst.Displacement = int32(signExtend32(disp, 26))
		inst.ID = op.id

	case FormatV:
		inst.Format = FormatV
		inst.Immediate = combined & 0xFFFF
		if op.signExtend {
			inst.Immediate = signExtend32(inst.Immediate, 16)
		}
		inst.Reg1 = uint8(combined>>16) & 0x1F
		inst.Reg2 = uint8(combined>>21) & 0x1F
		inst.ID = op.id

	case FormatVI:
		inst.Format = FormatVI
		disp := combined & 0xFFFF
		inst.Displacement = int32(signExtend32(disp, 16))
		inst.Reg1 = uint8(combined>>16) & 0x1F
		inst.Reg2 = uint8(combined>>21) & 0x1F
		inst.ID = op.id

	case FormatVII:
		inst.Format = FormatVII
		sub := uint8(combined>>10) & 0x3F
		inst.Subopcode = sub
		inst.Reg1 = uint8(combined>>16) & 0x1F
		inst.Reg2 = uint8(combined>>21) & 0x1F
		if op.isFloatendo {
			if int(sub) < len(floatendoTable) {
				inst.ID = floatendoTable[sub]
			} else {
				inst.ID = IDIllegal
			}
		} else {
			inst.ID = op.id
		}

	default:
		inst.Format = 0
		inst.ID = IDIllegal
		inst.Size = 2
	}

	return inst
}
