package cpu

import (
	"fmt"
	"strings"

	"github.com/rcornwell/vb810/util/hex"
)

var mnemonics = map[ID]string{
	IDIllegal: "illegal",

	IDMovReg: "mov", IDMovImm: "mov", IDAddReg: "add", IDAddImm: "add",
	IDAddI: "addi", IDSub: "sub", IDCmpReg: "cmp", IDCmpImm: "cmp",
	IDShlReg: "shl", IDShlImm: "shl", IDShrReg: "shr", IDShrImm: "shr",
	IDSarReg: "sar", IDSarImm: "sar", IDMul: "mul", IDMulu: "mulu",
	IDDiv: "div", IDDivu: "divu", IDOr: "or", IDOrI: "ori", IDAnd: "and",
	IDAndI: "andi", IDXor: "xor", IDXorI: "xori", IDNot: "not",
	IDMpyhw: "mpyhw", IDRev: "rev", IDXb: "xb", IDXh: "xh", IDSetf: "setf",

	IDBcond: "bcond", IDJr: "jr", IDJal: "jal", IDJmp: "jmp",
	IDMovea: "movea", IDMovhi: "movhi",

	IDLdB: "ld.b", IDLdH: "ld.h", IDLdW: "ld.w",
	IDStB: "st.b", IDStH: "st.h", IDStW: "st.w",
	IDInB: "in.b", IDInH: "in.h", IDInW: "in.w",
	IDOutB: "out.b", IDOutH: "out.h", IDOutW: "out.w",
	IDCaxi: "caxi",

	IDTrap: "trap", IDReti: "reti", IDHalt: "halt",
	IDLdsr: "ldsr", IDStsr: "stsr", IDSei: "sei", IDCli: "cli",

	IDSch0bsu: "sch0bsu", IDSch0bsd: "sch0bsd", IDSch1bsu: "sch1bsu", IDSch1bsd: "sch1bsd",
	IDOrbsu: "orbsu", IDAndbsu: "andbsu", IDXorbsu: "xorbsu", IDMovbsu: "movbsu",
	IDOrnbsu: "ornbsu", IDAndnbsu: "andnbsu", IDXornbsu: "xornbsu", IDNotbsu: "notbsu",

	IDCmpfS: "cmpf.s", IDCvtWs: "cvt.ws", IDCvtSw: "cvt.sw",
	IDAddfS: "addf.s", IDSubfS: "subf.s", IDMulfS: "mulf.s", IDDivfS: "divf.s",
	IDTrncSw: "trnc.sw",
}

// Disassemble decodes the instruction at address without touching any
// architectural state and renders it as a short assembler-style mnemonic
// line, for use by a debugger console or trace log.
func (c *Context) Disassemble(address uint32) string {
	inst := c.Fetch(address)

	name, ok := mnemonics[inst.ID]
	if !ok {
		name = "???"
	}

	var operands strings.Builder
	var words strings.Builder
	hex.FormatWord(&words, []uint32{address})
	if inst.Size == 4 {
		hex.FormatHalf(&words, true, []uint16{uint16(inst.Bits >> 16), uint16(inst.Bits)})
	} else {
		hex.FormatHalf(&words, true, []uint16{uint16(inst.Bits)})
	}

	switch inst.Format {
	case FormatI:
		fmt.Fprintf(&operands, "r%d, r%d", inst.Reg1, inst.Reg2)
	case FormatII:
		if inst.ID == IDLdsr || inst.ID == IDStsr {
			fmt.Fprintf(&operands, "%s, r%d", SystemRegisterName(int(inst.Immediate)), inst.Reg2)
		} else if inst.ID == IDTrap {
			fmt.Fprintf(&operands, "%d", inst.Immediate)
		} else {
			fmt.Fprintf(&operands, "%d, r%d", int32(inst.Immediate), inst.Reg2)
		}
	case FormatIII:
		fmt.Fprintf(&operands, "%#x", uint32(int32(address)+inst.Displacement))
	case FormatIV:
		fmt.Fprintf(&operands, "%#x", uint32(int32(address)+inst.Displacement))
	case FormatV:
		fmt.Fprintf(&operands, "%d, r%d, r%d", int32(inst.Immediate), inst.Reg1, inst.Reg2)
	case FormatVI:
		fmt.Fprintf(&operands, "%d[r%d], r%d", inst.Displacement, inst.Reg1, inst.Reg2)
	case FormatVII:
		fmt.Fprintf(&operands, "r%d, r%d", inst.Reg1, inst.Reg2)
	}

	return fmt.Sprintf("%s %s %s", strings.TrimSpace(words.String()), name, operands.String())
}
