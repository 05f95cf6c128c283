/*
 * vb810 - Command reader.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package debugger is an interactive console over a running cpu.Context:
// step, breakpoint, register and memory inspection commands read from a
// liner-backed prompt with history and tab completion.
package debugger

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/rcornwell/vb810/internal/bus"
	"github.com/rcornwell/vb810/internal/cpu"
)

var commandNames = []string{"step", "cont", "regs", "mem", "break", "clear", "help", "quit", "exit"}

// Console owns one breakpoint address (active only while hasBreak is set)
// alongside the Context it drives.
type Console struct {
	ctx      *cpu.Context
	breakAt  uint32
	hasBreak bool
}

// New wraps ctx in an interactive console.
func New(ctx *cpu.Context) *Console {
	return &Console{ctx: ctx}
}

// SetBreakpoint installs an initial breakpoint address before the console
// starts reading commands, e.g. from a host's --break flag.
func (d *Console) SetBreakpoint(addr uint32) {
	d.breakAt = addr
	d.hasBreak = true
}

// Run reads commands from stdin until the user quits or aborts the prompt
// (Ctrl-D / Ctrl-C).
func (d *Console) Run() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var matches []string
		for _, name := range commandNames {
			if strings.HasPrefix(name, partial) {
				matches = append(matches, name)
			}
		}
		return matches
	})

	for {
		command, err := line.Prompt("vb810> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("error reading line: " + err.Error())
			return
		}

		line.AppendHistory(command)
		quit, perr := d.dispatch(command)
		if perr != nil {
			fmt.Println("Error: " + perr.Error())
		}
		if quit {
			return
		}
	}
}

func (d *Console) dispatch(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Println("commands: step [n], cont, regs, mem <addr> [count], break <addr>, clear, quit")
		return false, nil
	case "step":
		return false, d.step(fields[1:])
	case "cont":
		return false, d.cont()
	case "regs":
		d.regs()
		return false, nil
	case "mem":
		return false, d.mem(fields[1:])
	case "break":
		return false, d.setBreak(fields[1:])
	case "clear":
		d.hasBreak = false
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
}

func (d *Console) step(args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		count = n
	}

	for i := 0; i < count; i++ {
		fmt.Println(d.ctx.Disassemble(d.ctx.PC()))
		if brk := d.stepOne(); brk != 0 {
			return nil
		}
	}
	return nil
}

// stepOne drives the pipeline through every phase of exactly one
// instruction: starting at FETCH16, it keeps calling Step until the stage
// cycles back around to FETCH16.
func (d *Console) stepOne() int {
	for {
		if brk := d.ctx.Step(); brk != 0 {
			return brk
		}
		if d.ctx.CurrentStage() == cpu.StageFetch16 {
			return 0
		}
	}
}

func (d *Console) cont() error {
	for {
		if d.hasBreak && d.ctx.PC() == d.breakAt && d.ctx.CurrentStage() == cpu.StageFetch16 {
			fmt.Printf("stopped at breakpoint %#x\n", d.breakAt)
			return nil
		}
		if d.ctx.Halted() {
			fmt.Println("halted")
			return nil
		}
		if brk := d.ctx.Step(); brk != 0 {
			return nil
		}
	}
}

func (d *Console) regs() {
	for i := 0; i < 32; i += 4 {
		fmt.Printf("r%-2d=%08x r%-2d=%08x r%-2d=%08x r%-2d=%08x\n",
			i, uint32(d.ctx.Register(i)), i+1, uint32(d.ctx.Register(i+1)),
			i+2, uint32(d.ctx.Register(i+2)), i+3, uint32(d.ctx.Register(i+3)))
	}
	fmt.Printf("pc=%08x psw=%08x\n", d.ctx.PC(), d.ctx.PSW().Pack())
}

func (d *Console) mem(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: mem <addr> [count]")
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		return err
	}
	count := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		count = n
	}

	address := uint32(addr)
	for i := 0; i < count; i++ {
		value := d.ctx.ReadMemory(address, bus.Width32)
		fmt.Printf("%08x: %08x\n", address, value)
		address += 4
	}
	return nil
}

func (d *Console) setBreak(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: break <addr>")
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		return err
	}
	d.breakAt = uint32(addr)
	d.hasBreak = true
	return nil
}
