// Package cpu implements the VB810 instruction pipeline: fetch, decode,
// execute, and interrupt check, together with exception entry/exit and the
// system-register file. The whole of the emulated state lives in one owned
// Context; there is no package-level mutable state.
package cpu

import "github.com/rcornwell/vb810/internal/bus"

// Stage names the pipeline's current phase. One stage advances per call to
// (*Context).Step.
type Stage uint8

const (
	StageFetch16 Stage = iota
	StageFetch32
	StageExecute
	StageInterrupt
)

// Number of IRQ priority levels: game-pad, timer, cartridge, link, VIP.
const numIRQLevels = 5

// AccessBreak is the non-zero break code a debug callback returns to request
// that Emulate stop. A break from OnExecute stops before the instruction
// runs; a break from the other hooks stops once their access or exception
// entry has happened. Any non-zero value works;
// this is simply a convenient default for callers that have no opaque code
// of their own.
const AccessBreak = 1

// DebugHooks holds the four optional callback slots a host may install to
// intercept execution. Any slot may be nil. A non-zero return value from
// any of the four aborts the in-flight Emulate call; onread and onwrite are
// notified after the access has already happened against the bus, so they
// observe the value moved rather than supply it.
type DebugHooks struct {
	OnRead      func(c *Context, address uint32, format bus.Format) int
	OnWrite     func(c *Context, address uint32, format bus.Format, value uint32) int
	OnExecute   func(c *Context, pc uint32, inst *Instruction) int
	OnException func(c *Context, cause uint16) int
}

// Context is the entire emulated machine: CPU registers, system registers,
// PSW, pipeline stage, pending IRQs, and the bus. A host owns exactly one
// Context per virtual machine; nothing here is shared across goroutines.
type Context struct {
	Bus *bus.Bus

	registers [32]int32
	pc        uint32

	psw PSW

	eipc  uint32
	eipsw uint32
	fepc  uint32
	fepsw uint32
	ecr   uint32
	chcw  uint32
	adtre uint32
	sr29  uint32
	sr31  uint32

	halt  bool
	stage Stage
	irq   [numIRQLevels]bool

	instruction Instruction
	fetch       fetchState
	cycles      uint64

	cache [128]cacheEntry

	Debug DebugHooks
}

type cacheEntry struct {
	tag   uint32
	words [2]uint32
}

// resetVectorPC is the address the program counter takes immediately after
// reset: the top of the ROM mirror, where the reset vector lives.
const resetVectorPC = 0xFFFFFFF0

// resetECR is the post-reset value of the exception cause register.
const resetECR = 0xFFF0

// New constructs a Context wired to a fresh Bus over the given cartridge ROM
// and optional save-RAM buffers, then resets it.
func New(rom, ram []byte) (*Context, error) {
	b, err := bus.New(rom, ram)
	if err != nil {
		return nil, err
	}
	c := &Context{Bus: b}
	c.Reset()
	return c, nil
}

// Reset zeroes all CPU state (registers, PSW, system registers, pipeline,
// pending IRQs, cycle counter) and re-establishes the post-reset PC, PSW.NP,
// and ECR. The bus and its backing buffers are untouched.
func (c *Context) Reset() {
	c.registers = [32]int32{}
	c.pc = resetVectorPC
	c.psw = PSW{}
	c.psw.NP = true

	c.eipc, c.eipsw = 0, 0
	c.fepc, c.fepsw = 0, 0
	c.ecr = resetECR
	c.chcw = 0
	c.adtre, c.sr29, c.sr31 = 0, 0, 0

	c.halt = false
	c.stage = StageFetch16
	c.irq = [numIRQLevels]bool{}

	c.instruction = Instruction{}
	c.fetch = fetchState{}
	c.cycles = 0
	c.cache = [128]cacheEntry{}
}

// PC returns the current program counter.
func (c *Context) PC() uint32 { return c.pc }

// SetPC sets the program counter, masking bit 0 per the architecture.
func (c *Context) SetPC(pc uint32) { c.pc = pc &^ 1 }

// Register returns the value of a general-purpose register. Register 0
// always reads as 0.
func (c *Context) Register(n int) int32 {
	if n == 0 {
		return 0
	}
	return c.registers[n]
}

// SetRegister writes a general-purpose register. Writes to register 0 are
// discarded, matching the hard-wired-zero register.
func (c *Context) SetRegister(n int, v int32) {
	if n == 0 {
		return
	}
	c.registers[n] = v
}

// PSW returns a copy of the decomposed Program Status Word.
func (c *Context) PSW() PSW { return c.psw }

// Halted reports whether the CPU is halted (via HALT or RESET-only revival
// after a fatal double fault).
func (c *Context) Halted() bool { return c.halt }

// CurrentStage returns the pipeline's current phase.
func (c *Context) CurrentStage() Stage { return c.stage }

// Cycles returns the number of cycles accumulated since the last Reset.
// Emulate and Step only add to it; nothing but Reset clears it.
func (c *Context) Cycles() uint64 { return c.cycles }

// RaiseIRQ latches interrupt-request level as pending. The latch is
// hardware-held: taking the interrupt raises PSW.I past the level but leaves
// the request asserted, and the peripheral drops it with ClearIRQ once its
// condition is serviced.
func (c *Context) RaiseIRQ(level int) {
	if level >= 0 && level < numIRQLevels {
		c.irq[level] = true
	}
}

// ClearIRQ drops a latched interrupt request, the peripheral's half of the
// RaiseIRQ handshake.
func (c *Context) ClearIRQ(level int) {
	if level >= 0 && level < numIRQLevels {
		c.irq[level] = false
	}
}

// IRQPending reports whether level currently has a latched request.
func (c *Context) IRQPending(level int) bool {
	if level < 0 || level >= numIRQLevels {
		return false
	}
	return c.irq[level]
}

// Emulate advances the pipeline until budget cycles have elapsed or a debug
// callback requests a break, returning the break code (0 if the budget was
// simply exhausted). The budget is decremented as cycles are spent; a
// partially spent budget is preserved across a break so the host can resume
// cleanly.
func (c *Context) Emulate(budget *uint64) int {
	for *budget > 0 {
		if c.halt {
			// Still give the INTERRUPT stage a chance to revive the CPU;
			// if it can't, there is nothing further to do until the host
			// raises a new IRQ or resets.
			if brk := c.Step(); brk != 0 {
				return brk
			}
			if c.halt {
				return 0
			}
			continue
		}

		before := c.cycles
		if brk := c.Step(); brk != 0 {
			return brk
		}
		spent := c.cycles - before
		if spent >= *budget {
			*budget = 0
			return 0
		}
		*budget -= spent
	}
	return 0
}

// Step advances the pipeline by exactly one phase and returns a non-zero
// break code if a debug callback requested a stop during this phase.
func (c *Context) Step() int {
	switch c.stage {
	case StageFetch16:
		return c.stepFetch16()
	case StageFetch32:
		return c.stepFetch32()
	case StageExecute:
		return c.stepExecute()
	case StageInterrupt:
		return c.stepInterrupt()
	default:
		c.stage = StageFetch16
		return 0
	}
}
