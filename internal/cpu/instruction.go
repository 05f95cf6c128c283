package cpu

// Format identifies one of the seven V810 instruction encodings.
type Format uint8

const (
	FormatI Format = 1 + iota
	FormatII
	FormatIII
	FormatIV
	FormatV
	FormatVI
	FormatVII
)

// ID is the canonical, decode-independent instruction identity the executor
// dispatch table is keyed on. It is distinct from the raw opcode: several
// opcodes (Bcond's eight, the bit-string family's sixteen sub-ops, the
// FPU/extension table's thirteen) all route through decode to a single ID
// space here.
type ID uint8

const (
	IDIllegal ID = iota

	IDMovReg
	IDMovImm
	IDAddReg
	IDAddImm
	IDAddI
	IDSub
	IDCmpReg
	IDCmpImm
	IDShlReg
	IDShlImm
	IDShrReg
	IDShrImm
	IDSarReg
	IDSarImm
	IDMul
	IDMulu
	IDDiv
	IDDivu
	IDOr
	IDOrI
	IDAnd
	IDAndI
	IDXor
	IDXorI
	IDNot
	IDMpyhw
	IDRev
	IDXb
	IDXh
	IDSetf

	IDBcond
	IDJr
	IDJal
	IDJmp

	IDMovea
	IDMovhi

	IDLdB
	IDLdH
	IDLdW
	IDStB
	IDStH
	IDStW
	IDInB
	IDInH
	IDInW
	IDOutB
	IDOutH
	IDOutW
	IDCaxi

	IDTrap
	IDReti
	IDHalt
	IDLdsr
	IDStsr
	IDSei
	IDCli

	// Bit-string family (format II, opcode 31). Decode-only: no execute
	// handlers exist yet, so they raise the reserved-instruction
	// exception at execute time (see exec_misc.go).
	IDSch0bsu
	IDSch0bsd
	IDSch1bsu
	IDSch1bsd
	IDOrbsu
	IDAndbsu
	IDXorbsu
	IDMovbsu
	IDOrnbsu
	IDAndnbsu
	IDXornbsu
	IDNotbsu

	// FPU family (format VII). Decode-only: no FPU execute handlers are
	// implemented; these raise the reserved-instruction exception at
	// execute time.
	IDCmpfS
	IDCvtWs
	IDCvtSw
	IDAddfS
	IDSubfS
	IDMulfS
	IDDivfS
	IDTrncSw
)

// Instruction is the working descriptor populated per fetch and consumed by
// exactly one executor, then discarded.
type Instruction struct {
	Bits uint32

	Opcode uint8 // 6 bits, bits 15..10 of the first half-word
	Size   uint8 // 2 or 4 bytes
	Format Format
	ID     ID

	Reg1 uint8 // 5 bits
	Reg2 uint8 // 5 bits

	Immediate    uint32 // format II/V, sign-extended per opdef when applicable
	Displacement int32  // format III/IV/VI

	Condition uint8 // 4 bits, format III only
	Subopcode uint8 // 6 bits, format II (bit-string) or VII

	IsTrue  bool   // precomputed Bcond outcome
	Address uint32 // precomputed effective address (branch target or mem ea)
}

// opdef is one row of the 64-entry opcode table: which format an opcode
// uses, whether its immediate is sign-extended, and its canonical ID.
type opdef struct {
	format      Format
	signExtend  bool
	id          ID
	isBitString bool // opcode 31: dispatch via the bit-string subopcode table
	isFloatendo bool // opcode 62: dispatch via the FPU/extension subopcode table
}

// opcodeTable has exactly 64 entries, one per 6-bit opcode value.
var opcodeTable = [64]opdef{
	0:  {format: FormatI, id: IDMovReg},
	1:  {format: FormatI, id: IDAddReg},
	2:  {format: FormatI, id: IDSub},
	3:  {format: FormatI, id: IDCmpReg},
	4:  {format: FormatI, id: IDShlReg},
	5:  {format: FormatI, id: IDShrReg},
	6:  {format: FormatI, id: IDJmp},
	7:  {format: FormatI, id: IDSarReg},
	8:  {format: FormatI, id: IDMul},
	9:  {format: FormatI, id: IDDiv},
	10: {format: FormatI, id: IDMulu},
	11: {format: FormatI, id: IDDivu},
	12: {format: FormatI, id: IDOr},
	13: {format: FormatI, id: IDAnd},
	14: {format: FormatI, id: IDXor},
	15: {format: FormatI, id: IDNot},

	16: {format: FormatII, signExtend: true, id: IDMovImm},
	17: {format: FormatII, signExtend: true, id: IDAddImm},
	18: {format: FormatII, id: IDSetf},
	19: {format: FormatII, signExtend: true, id: IDCmpImm},
	20: {format: FormatII, id: IDShlImm},
	21: {format: FormatII, id: IDShrImm},
	22: {format: FormatII, id: IDCli},
	23: {format: FormatII, id: IDSarImm},
	24: {format: FormatII, id: IDTrap},
	25: {format: FormatII, id: IDReti},
	26: {format: FormatII, id: IDHalt},
	27: {format: FormatII, id: IDIllegal},
	28: {format: FormatII, id: IDLdsr},
	29: {format: FormatII, id: IDStsr},
	30: {format: FormatII, id: IDSei},
	31: {format: FormatII, isBitString: true},

	32: {format: FormatIII, id: IDBcond},
	33: {format: FormatIII, id: IDBcond},
	34: {format: FormatIII, id: IDBcond},
	35: {format: FormatIII, id: IDBcond},
	36: {format: FormatIII, id: IDBcond},
	37: {format: FormatIII, id: IDBcond},
	38: {format: FormatIII, id: IDBcond},
	39: {format: FormatIII, id: IDBcond},

	40: {format: FormatV, signExtend: true, id: IDMovea},
	41: {format: FormatV, signExtend: true, id: IDAddI},
	42: {format: FormatIV, id: IDJr},
	43: {format: FormatIV, id: IDJal},
	44: {format: FormatV, id: IDOrI},
	45: {format: FormatV, id: IDAndI},
	46: {format: FormatV, id: IDXorI},
	47: {format: FormatV, id: IDMovhi},

	48: {format: FormatVI, id: IDLdB},
	49: {format: FormatVI, id: IDLdH},
	50: {format: 0, id: IDIllegal},
	51: {format: FormatVI, id: IDLdW},
	52: {format: FormatVI, id: IDStB},
	53: {format: FormatVI, id: IDStH},
	54: {format: 0, id: IDIllegal},
	55: {format: FormatVI, id: IDStW},
	56: {format: FormatVI, id: IDInB},
	57: {format: FormatVI, id: IDInH},
	58: {format: FormatVI, id: IDCaxi},
	59: {format: FormatVI, id: IDInW},
	60: {format: FormatVI, id: IDOutB},
	61: {format: FormatVI, id: IDOutH},
	62: {format: FormatVII, isFloatendo: true},
	63: {format: FormatVI, id: IDOutW},
}

// bitStringTable maps the low 4 bits of the instruction word, for opcode 31,
// to a bit-string sub-operation. Four entries are illegal.
var bitStringTable = [16]ID{
	IDSch0bsu, IDSch0bsd, IDSch1bsu, IDSch1bsd,
	IDIllegal, IDIllegal, IDIllegal, IDIllegal,
	IDOrbsu, IDAndbsu, IDXorbsu, IDMovbsu,
	IDOrnbsu, IDAndnbsu, IDXornbsu, IDNotbsu,
}

// floatendoTable maps a format-VII subopcode (bits 10..15 of the second
// half-word) to an FPU/Nintendo-extension instruction ID.
var floatendoTable = [13]ID{
	IDCmpfS, IDIllegal, IDCvtWs, IDCvtSw,
	IDAddfS, IDSubfS, IDMulfS, IDDivfS,
	IDXb, IDXh, IDRev, IDTrncSw, IDMpyhw,
}

// needsSecondWord reports whether a format requires a 32-bit fetch.
func (f Format) needsSecondWord() bool {
	switch f {
	case FormatIV, FormatV, FormatVI, FormatVII:
		return true
	default:
		return false
	}
}

// signExtend32 sign-extends the low width bits of v to a full 32 bits.
func signExtend32(v uint32, width uint) uint32 {
	shift := 32 - width
	return uint32(int32(v<<shift) >> shift)
}
