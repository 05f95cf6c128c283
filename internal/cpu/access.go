package cpu

import "github.com/rcornwell/vb810/internal/bus"

// busRead performs a CPU-initiated bus read, routing through the
// onread debug hook if one is installed. The hook's return value, if
// non-zero, is the break code the caller should propagate out of Emulate;
// the bus access happens via the regular Bus.Read path before the hook is
// called, and the loaded value is returned even when the hook breaks. The
// hook runs before the caller stores that value into a register.
func (c *Context) busRead(address uint32, format bus.Format) (uint32, int) {
	value := c.Bus.Read(address, format)
	if c.Debug.OnRead != nil {
		if brk := c.Debug.OnRead(c, address, format); brk != 0 {
			return value, brk
		}
	}
	return value, 0
}

// busWrite performs a CPU-initiated bus write, routing through the onwrite
// debug hook if one is installed.
func (c *Context) busWrite(address uint32, format bus.Format, value uint32) int {
	c.Bus.Write(address, format, value)
	if c.Debug.OnWrite != nil {
		if brk := c.Debug.OnWrite(c, address, format, value); brk != 0 {
			return brk
		}
	}
	return 0
}

// ReadMemory peeks the bus directly, bypassing the onread debug hook. It is
// the host's raw memory-inspection entry point (debugger "mem" command,
// trace dumps) and never affects architectural state.
func (c *Context) ReadMemory(address uint32, format bus.Format) uint32 {
	return c.Bus.Read(address, format)
}

// CheckCondition evaluates a 4-bit condition code against the current PSW.
func (c *Context) CheckCondition(cond uint8) bool {
	return c.psw.Condition(cond)
}
