/*
 * vb810 - Main process.
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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/vb810/internal/cpu"
	"github.com/rcornwell/vb810/internal/debugger"
	"github.com/rcornwell/vb810/internal/vblog"
)

var logger *slog.Logger

const defaultSRAMSize = 8 * 1024

func main() {
	optROM := getopt.StringLong("rom", 'r', "", "Cartridge ROM image")
	optSRAM := getopt.StringLong("sram", 's', "", "Save-RAM image (created if absent)")
	optSRAMSize := getopt.StringLong("sram-size", 0, strconv.Itoa(defaultSRAMSize), "Save-RAM size in bytes when creating a new image")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optCycles := getopt.StringLong("cycles", 'c', "0", "Cycle budget for a single headless batch (0: run in batches until halt)")
	optTrace := getopt.BoolLong("trace", 't', "Echo log records to stderr as they occur")
	optDebug := getopt.BoolLong("debug", 'd', "Start the interactive debugger console instead of running headless")
	optBreak := getopt.StringLong("break", 'b', "", "Initial breakpoint address (hex), debugger mode only")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("creating log file", "error", err)
			os.Exit(1)
		}
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	logger = slog.New(vblog.NewHandler(file, level, *optTrace))
	slog.SetDefault(logger)

	sramSize, err := strconv.Atoi(*optSRAMSize)
	if err != nil {
		logger.Error("parsing --sram-size", "error", err)
		os.Exit(1)
	}
	cycles, err := strconv.ParseUint(*optCycles, 10, 64)
	if err != nil {
		logger.Error("parsing --cycles", "error", err)
		os.Exit(1)
	}

	if *optROM == "" {
		logger.Error("a ROM image is required (--rom)")
		os.Exit(1)
	}
	rom, err := os.ReadFile(*optROM)
	if err != nil {
		logger.Error("reading ROM image", "error", err)
		os.Exit(1)
	}

	ram, sramPath := loadOrCreateSRAM(*optSRAM, sramSize)

	ctx, err := cpu.New(rom, ram)
	if err != nil {
		logger.Error("initializing CPU", "error", err)
		os.Exit(1)
	}

	ctx.Debug.OnException = func(c *cpu.Context, cause uint16) int {
		logger.Debug("exception", "cause", fmt.Sprintf("%#04x", cause), "pc", fmt.Sprintf("%#08x", c.PC()))
		return 0
	}

	logger.Info("vb810 started", "rom", *optROM, "sram", sramPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *optDebug {
		console := debugger.New(ctx)
		if *optBreak != "" {
			addr, err := strconv.ParseUint(stripHexPrefix(*optBreak), 16, 32)
			if err != nil {
				logger.Error("parsing --break address", "error", err)
				os.Exit(1)
			}
			console.SetBreakpoint(uint32(addr))
		}
		console.Run()
	} else {
		runHeadless(ctx, cycles, sigChan)
	}

	if sramPath != "" {
		if err := os.WriteFile(sramPath, ram, 0o644); err != nil {
			logger.Error("writing save-RAM image", "error", err)
		}
	}
	logger.Info("vb810 exiting")
}

// runHeadless drives Emulate in fixed-size batches (so SIGINT/SIGTERM are
// checked between batches). A zero budget means "run until the CPU halts or
// a signal arrives, one batch at a time"; a non-zero budget runs a single
// batch of that many cycles and returns.
func runHeadless(ctx *cpu.Context, cycles uint64, sigChan <-chan os.Signal) {
	batch := cycles
	if batch == 0 {
		batch = 1 << 20
	}

	for {
		select {
		case <-sigChan:
			logger.Info("signal received, stopping")
			return
		default:
		}

		budget := batch
		ctx.Emulate(&budget)
		if ctx.Halted() {
			logger.Info("CPU halted")
			return
		}
		if cycles != 0 {
			return
		}
	}
}

// loadOrCreateSRAM reads an existing save-RAM image or allocates a fresh
// zeroed buffer of size bytes; an empty path disables save-RAM entirely.
func loadOrCreateSRAM(path string, size int) (ram []byte, resolvedPath string) {
	if path == "" {
		return nil, ""
	}
	data, err := os.ReadFile(path)
	if err == nil {
		return data, path
	}
	return make([]byte, size), path
}

func stripHexPrefix(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
