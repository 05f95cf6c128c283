package cpu

import "github.com/rcornwell/vb810/internal/bus"

// fatalVectorBase is where a fatal (NP-already-set) exception dumps its
// three-word diagnostic burst: cause, PSW, and PC, in that order, each a
// 32-bit write into the VIP's low address window. There is no vector jump
// and no further register state changes; the machine simply halts.
const fatalVectorBase = 0x00000000

// duplexedVectorPC is the fixed entry point for a duplexed exception; unlike
// the regular path there is no cause-dependent vector math.
const duplexedVectorPC = 0xFFFFFFD0

// irqCauseLow and irqCauseHigh bound the cause-code range reserved for
// hardware interrupt requests (as opposed to traps and address/illegal
// exceptions), per interruptCause's 0xFE00|level<<4 encoding.
const (
	irqCauseLow  = 0xFE00
	irqCauseHigh = 0xFEFF
)

// Fixed exception cause codes for conditions the core itself detects,
// distinct from the IRQ range above and from TRAP's caller-supplied vector.
const (
	causeIllegal    = 0xFF90 // reserved/undefined opcode
	causeZeroDivide = 0xFF80 // DIV/DIVU with a zero divisor
)

// raiseException enters the exception handler for cause, choosing the
// fatal, duplexed, or regular path by the current NP/EP bits. It returns a
// non-zero break code if the onexception debug callback asks Emulate to
// stop.
func (c *Context) raiseException(cause uint16) int {
	switch {
	case c.psw.NP:
		c.raiseFatal(cause)
	case c.psw.EP:
		c.raiseDuplexed(cause)
	default:
		c.raiseRegular(cause)
	}

	if c.Debug.OnException != nil {
		if brk := c.Debug.OnException(c, cause); brk != 0 {
			return brk
		}
	}
	return 0
}

// raiseFatal handles an exception taken while NP was already set: a second
// fault on top of an unhandled duplexed one. The core can no longer make
// forward progress, so it dumps cause/PSW/PC as a diagnostic burst to the
// low VIP window and halts; only a Reset revives it.
func (c *Context) raiseFatal(cause uint16) {
	c.Bus.Write(fatalVectorBase, bus.Width32, 0xFFFF0000|uint32(cause))
	c.Bus.Write(fatalVectorBase+4, bus.Width32, c.psw.Pack())
	c.Bus.Write(fatalVectorBase+8, bus.Width32, c.pc)
	c.halt = true
}

// raiseDuplexed handles an exception taken while a regular exception was
// already being handled (EP set): the fepc/fepsw shadow registers capture the
// interrupted state and PSW.NP blocks any further nesting below fatal.
func (c *Context) raiseDuplexed(cause uint16) {
	c.fepc = c.pc
	c.fepsw = c.psw.Pack()
	c.ecr = (c.ecr &^ 0xFFFF0000) | uint32(cause)<<16

	c.psw.NP = true
	c.psw.ID = true
	c.psw.AE = false
	c.pc = duplexedVectorPC

	c.wakeForIRQ(cause)
}

// raiseRegular handles the common case: no exception currently in progress.
// The eipc/eipsw shadow registers capture the interrupted state and PSW.EP
// blocks re-entry below the duplexed path.
func (c *Context) raiseRegular(cause uint16) {
	c.eipc = c.pc
	c.eipsw = c.psw.Pack()
	c.ecr = (c.ecr &^ 0xFFFF) | uint32(cause)

	c.psw.EP = true
	c.psw.ID = true
	c.psw.AE = false
	c.pc = regularVector(cause)

	c.wakeForIRQ(cause)
}

// regularVector computes the entry PC for a regular exception. 0xFF70
// (floating-point invalid operation) is remapped to 0xFF60, so it shares the
// floating-point reserved-operand vector.
func regularVector(cause uint16) uint32 {
	code := cause
	if code == 0xFF70 {
		code = 0xFF60
	}
	return 0xFFFF0000 | uint32(code&0xFFF0)
}

// wakeForIRQ applies the interrupt-specific tail of exception entry: raising
// PSW.I to mask same-and-lower priority levels, and clearing halt so a
// HALTed CPU resumes at the interrupt vector.
func (c *Context) wakeForIRQ(cause uint16) {
	if cause < irqCauseLow || cause > irqCauseHigh {
		return
	}
	c.psw.I = uint8((cause>>4)&0xF) + 1
	c.halt = false
}
