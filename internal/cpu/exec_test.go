package cpu

import (
	"testing"

	"github.com/rcornwell/vb810/internal/bus"
)

func TestXbXhInvolution(t *testing.T) {
	ctx := newTestContext(t, 1024)
	const start = int32(0x12345678)

	ctx.SetRegister(5, start)
	inst := &Instruction{ID: IDXb, Reg2: 5, Size: 4}
	ctx.execALU(inst)
	if got := uint32(ctx.Register(5)); got != 0x12347856 {
		t.Errorf("XB = %#x, want 0x12347856", got)
	}
	ctx.execALU(inst)
	if ctx.Register(5) != start {
		t.Errorf("XB(XB(x)) = %#x, want %#x", uint32(ctx.Register(5)), uint32(start))
	}

	ctx.SetRegister(5, start)
	inst = &Instruction{ID: IDXh, Reg2: 5, Size: 4}
	ctx.execALU(inst)
	if got := uint32(ctx.Register(5)); got != 0x56781234 {
		t.Errorf("XH = %#x, want 0x56781234", got)
	}
	ctx.execALU(inst)
	if ctx.Register(5) != start {
		t.Errorf("XH(XH(x)) = %#x, want %#x", uint32(ctx.Register(5)), uint32(start))
	}
}

func TestMulHighWordAndOverflow(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.SetRegister(1, 0x40000000)
	ctx.SetRegister(2, 4)
	ctx.execALU(&Instruction{ID: IDMul, Reg1: 1, Reg2: 2, Size: 2})

	if ctx.Register(2) != 0 {
		t.Errorf("low = %#x, want 0", uint32(ctx.Register(2)))
	}
	if ctx.Register(30) != 1 {
		t.Errorf("r30 = %#x, want 1", uint32(ctx.Register(30)))
	}
	if !ctx.psw.OV {
		t.Error("psw.OV should be set when the product exceeds 32 bits")
	}
	if !ctx.psw.Z {
		t.Error("psw.Z should follow the low word")
	}
}

func TestMulNoOverflow(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.SetRegister(1, -3)
	ctx.SetRegister(2, 7)
	ctx.execALU(&Instruction{ID: IDMul, Reg1: 1, Reg2: 2, Size: 2})

	if ctx.Register(2) != -21 {
		t.Errorf("low = %d, want -21", ctx.Register(2))
	}
	if ctx.Register(30) != -1 {
		t.Errorf("r30 = %d, want -1 (sign extension of the high half)", ctx.Register(30))
	}
	if ctx.psw.OV {
		t.Error("psw.OV should be clear for an in-range product")
	}
}

func TestMuluHighWord(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.SetRegister(1, -1) // 0xFFFFFFFF unsigned
	ctx.SetRegister(2, 2)
	ctx.execALU(&Instruction{ID: IDMulu, Reg1: 1, Reg2: 2, Size: 2})

	if uint32(ctx.Register(2)) != 0xFFFFFFFE {
		t.Errorf("low = %#x, want 0xFFFFFFFE", uint32(ctx.Register(2)))
	}
	if ctx.Register(30) != 1 {
		t.Errorf("r30 = %#x, want 1", uint32(ctx.Register(30)))
	}
	if !ctx.psw.OV {
		t.Error("psw.OV should be set when the high word is non-zero")
	}
}

func TestMpyhwSignExtends17Bits(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.SetRegister(1, 0x1FFFF) // -1 in 17 bits
	ctx.SetRegister(2, 5)
	ctx.execALU(&Instruction{ID: IDMpyhw, Reg1: 1, Reg2: 2, Size: 4})

	if ctx.Register(2) != -5 {
		t.Errorf("result = %d, want -5", ctx.Register(2))
	}
}

func TestSetf(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.psw.Z = true

	ctx.execALU(&Instruction{ID: IDSetf, Immediate: 2, Reg2: 3, Size: 2}) // Z
	if ctx.Register(3) != 1 {
		t.Errorf("SETF Z = %d, want 1", ctx.Register(3))
	}

	ctx.execALU(&Instruction{ID: IDSetf, Immediate: 13, Reg2: 3, Size: 2}) // F
	if ctx.Register(3) != 0 {
		t.Errorf("SETF F = %d, want 0", ctx.Register(3))
	}
}

func TestShiftRightCarry(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.shiftRight(0x5, 1, 1)
	if !ctx.psw.CY {
		t.Error("psw.CY should hold the last bit shifted out")
	}
	if ctx.Register(1) != 2 {
		t.Errorf("result = %d, want 2", ctx.Register(1))
	}
}

func TestShiftArithPreservesSign(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.shiftArith(-8, 2, 1)
	if ctx.Register(1) != -2 {
		t.Errorf("result = %d, want -2", ctx.Register(1))
	}
	if !ctx.psw.S {
		t.Error("psw.S should be set for a negative result")
	}
}

func TestDivuByZeroTraps(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.psw.NP = false
	ctx.SetPC(0x05000000)
	ctx.SetRegister(1, 0)
	ctx.SetRegister(2, 99)

	ctx.execDiv(&Instruction{ID: IDDivu, Reg1: 1, Reg2: 2, Size: 2})

	if ctx.ecr&0xFFFF != 0xFF80 {
		t.Errorf("ecr low = %#x, want 0xFF80", ctx.ecr&0xFFFF)
	}
	if !ctx.psw.EP {
		t.Error("psw.EP should be set")
	}
	if ctx.pc != 0xFFFFFF80 {
		t.Errorf("pc = %#x, want 0xFFFFFF80", ctx.pc)
	}
	if ctx.Register(2) != 99 {
		t.Error("a trapped division must not write the quotient")
	}
}

func TestJmpMasksBitZero(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.SetRegister(4, 0x05000101)
	ctx.execJmp(&Instruction{ID: IDJmp, Reg1: 4, Size: 2})
	if ctx.pc != 0x05000100 {
		t.Errorf("pc = %#x, want 0x05000100", ctx.pc)
	}
}

func TestJalLinksR31(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.SetPC(0x05000010)
	ctx.execJal(&Instruction{ID: IDJal, Size: 4, Address: 0x05000200})
	if uint32(ctx.Register(31)) != 0x05000014 {
		t.Errorf("r31 = %#x, want 0x05000014", uint32(ctx.Register(31)))
	}
	if ctx.pc != 0x05000200 {
		t.Errorf("pc = %#x, want 0x05000200", ctx.pc)
	}
}

func TestCaxiSwapsOnMatch(t *testing.T) {
	ctx := newTestContext(t, 1024)
	const addr = 0x05000200
	ctx.Bus.Write(addr, bus.Width32, 5)
	ctx.SetRegister(2, 5)
	ctx.SetRegister(30, 9)

	ctx.execCaxi(&Instruction{ID: IDCaxi, Reg2: 2, Address: addr, Size: 4})

	if got := ctx.Bus.Read(addr, bus.Width32); got != 9 {
		t.Errorf("memory = %d, want 9", got)
	}
	if ctx.Register(2) != 5 {
		t.Errorf("reg2 = %d, want the original memory value 5", ctx.Register(2))
	}
	if !ctx.psw.Z {
		t.Error("psw.Z should be set by the compare")
	}
}

func TestCaxiWritesBackOnMismatch(t *testing.T) {
	ctx := newTestContext(t, 1024)
	const addr = 0x05000200
	ctx.Bus.Write(addr, bus.Width32, 5)
	ctx.SetRegister(2, 6)
	ctx.SetRegister(30, 9)

	writes := 0
	ctx.Debug.OnWrite = func(*Context, uint32, bus.Format, uint32) int {
		writes++
		return 0
	}
	ctx.execCaxi(&Instruction{ID: IDCaxi, Reg2: 2, Address: addr, Size: 4})

	if got := ctx.Bus.Read(addr, bus.Width32); got != 5 {
		t.Errorf("memory = %d, want the original 5", got)
	}
	if ctx.Register(2) != 5 {
		t.Errorf("reg2 = %d, want 5", ctx.Register(2))
	}
	if writes != 1 {
		t.Errorf("writes = %d, want 1 (both transaction halves always run)", writes)
	}
	if ctx.psw.Z {
		t.Error("psw.Z should be clear after a mismatch")
	}
}

func TestHaltParksAndInterruptWakes(t *testing.T) {
	const romSize = 1024
	rom := make([]byte, romSize)
	putWord16(rom, int(resetVectorPC)&(romSize-1), 26<<10) // HALT

	ctx, err := New(rom, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.psw.NP = false

	ctx.Step() // FETCH16
	ctx.Step() // EXECUTE
	if !ctx.Halted() {
		t.Fatal("CPU should halt")
	}
	if ctx.pc != resetVectorPC {
		t.Errorf("pc = %#x, want %#x (HALT does not advance)", ctx.pc, uint32(resetVectorPC))
	}

	ctx.Step() // INTERRUPT, nothing pending: stays parked
	if ctx.CurrentStage() != StageInterrupt {
		t.Error("a halted CPU should stay in the interrupt stage")
	}

	ctx.RaiseIRQ(1)
	ctx.Step()
	if ctx.Halted() {
		t.Error("a taken interrupt should clear halt")
	}
	if ctx.pc != 0xFFFFFE10 {
		t.Errorf("pc = %#x, want 0xFFFFFE10", ctx.pc)
	}
	if ctx.psw.I != 2 {
		t.Errorf("psw.I = %d, want 2", ctx.psw.I)
	}
}

func TestRetiFromDuplexedLevel(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.psw.NP = true
	ctx.fepc = 0x05000042
	ctx.fepsw = PSW{CY: true, I: 3}.Pack()
	ctx.eipc = 0x05000010

	ctx.execReti(&Instruction{ID: IDReti, Size: 2})

	if ctx.pc != 0x05000042 {
		t.Errorf("pc = %#x, want fepc", ctx.pc)
	}
	if !ctx.psw.CY || ctx.psw.I != 3 || ctx.psw.NP {
		t.Errorf("psw = %+v, want fepsw restored", ctx.psw)
	}
}

// Regular exception entry then RETI restores PC and packed PSW.
func TestExceptionRetiRoundTrip(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.psw = PSW{Z: true, CY: true, I: 2}
	ctx.SetPC(0x05000010)
	pc, packed := ctx.pc, ctx.psw.Pack()

	ctx.raiseException(causeIllegal)

	if !ctx.psw.ID {
		t.Error("psw.ID should be set on entry")
	}
	if ctx.psw.AE {
		t.Error("psw.AE should be cleared on entry")
	}
	if ctx.eipsw != packed {
		t.Errorf("eipsw = %#x, want %#x", ctx.eipsw, packed)
	}

	ctx.execReti(&Instruction{ID: IDReti, Size: 2})

	if ctx.pc != pc {
		t.Errorf("pc = %#x, want %#x", ctx.pc, pc)
	}
	if ctx.psw.Pack() != packed {
		t.Errorf("psw = %#x, want %#x", ctx.psw.Pack(), packed)
	}
}

// An exception while EP is set enters the duplexed level.
func TestDuplexedExceptionEntry(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.psw.NP = false
	ctx.psw.EP = true
	ctx.SetPC(0x05000020)
	packed := ctx.psw.Pack()

	ctx.raiseException(0xFFA3)

	if !ctx.psw.NP {
		t.Error("psw.NP should be set")
	}
	if ctx.pc != 0xFFFFFFD0 {
		t.Errorf("pc = %#x, want 0xFFFFFFD0", ctx.pc)
	}
	if ctx.ecr>>16 != 0xFFA3 {
		t.Errorf("ecr high = %#x, want 0xFFA3", ctx.ecr>>16)
	}
	if ctx.fepc != 0x05000020 || ctx.fepsw != packed {
		t.Errorf("fepc/fepsw = %#x/%#x, want 0x05000020/%#x", ctx.fepc, ctx.fepsw, packed)
	}
}

// A fault on top of NP is fatal: the CPU halts in place and only the
// diagnostic burst to the (unmapped) VIP window happens.
func TestFatalDoubleFaultHalts(t *testing.T) {
	ctx := newTestContext(t, 1024) // reset leaves NP set
	pc, ecr := ctx.pc, ctx.ecr

	ctx.raiseException(causeIllegal)

	if !ctx.Halted() {
		t.Error("a fatal fault should halt the CPU")
	}
	if ctx.pc != pc {
		t.Errorf("pc = %#x, want unchanged %#x", ctx.pc, pc)
	}
	if ctx.ecr != ecr {
		t.Errorf("ecr = %#x, want unchanged %#x", ctx.ecr, ecr)
	}
	if ctx.eipc != 0 || ctx.fepc != 0 {
		t.Error("a fatal fault must not stack into eipc/fepc")
	}
}

func TestVectorRemapFF70(t *testing.T) {
	if got := regularVector(0xFF70); got != 0xFFFFFF60 {
		t.Errorf("vector = %#x, want 0xFFFFFF60", got)
	}
	if got := regularVector(0xFF64); got != 0xFFFFFF60 {
		t.Errorf("vector = %#x, want 0xFFFFFF60", got)
	}
}

func TestOnExceptionHookBreak(t *testing.T) {
	ctx := newTestContext(t, 1024)
	ctx.psw.NP = false
	var seen uint16
	ctx.Debug.OnException = func(c *Context, cause uint16) int {
		seen = cause
		return 9
	}
	if brk := ctx.raiseException(causeZeroDivide); brk != 9 {
		t.Errorf("break = %d, want 9", brk)
	}
	if seen != causeZeroDivide {
		t.Errorf("cause = %#x, want %#x", seen, uint16(causeZeroDivide))
	}
}
