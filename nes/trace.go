package nes

import (
	"fmt"
	"os"
)

// traceEnabled mirrors the environment toggle described in the external
// interfaces: NES_CPU_TRACE is the primary name, DEBUG is kept as a
// deprecated alias for older driver scripts.
func traceEnabled() bool {
	if os.Getenv("NES_CPU_TRACE") != "" {
		return true
	}
	return os.Getenv("DEBUG") != ""
}

// traceLine formats one pre-execution snapshot in the fixed-width layout
// consumed by existing log tooling:
//
//	PPPP  OO AA BB  MNE                          A:aa X:xx Y:yy P:pp SP:ss
func (c *CPU) traceLine(op OpCode, opcodeByte byte) string {
	pc := c.PC
	var b1, b2 string
	if op.Length >= 2 {
		b1 = fmt.Sprintf("%02X", c.bus.Read(pc+1))
	}
	if op.Length >= 3 {
		b2 = fmt.Sprintf("%02X", c.bus.Read(pc+2))
	}
	return fmt.Sprintf(
		"%04X  %02X %-2s %-2s  %-3s                          A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		pc, opcodeByte, b1, b2, op.Mnemonic.String(),
		c.A, c.X, c.Y, c.P.Byte(), c.SP,
	)
}

// Disassemble renders a static disassembly of the address range
// [start, end) without executing anything, walking the opcode table the
// same way Step does. Used by the CLI's disassemble subcommand.
func (c *CPU) Disassemble(start, end uint16) map[uint16]string {
	lines := make(map[uint16]string)
	addr := uint32(start)
	for addr < uint32(end) {
		lineAddr := uint16(addr)
		opcodeByte := c.bus.Read(lineAddr)
		op := opcodeTable[opcodeByte]
		if !op.Valid {
			lines[lineAddr] = fmt.Sprintf("%04X: ??? (%02X)", lineAddr, opcodeByte)
			addr++
			continue
		}
		text := fmt.Sprintf("%04X: %s", lineAddr, op.Mnemonic.String())
		switch op.Mode {
		case IMM:
			text += fmt.Sprintf(" #$%02X {IMM}", c.bus.Read(lineAddr+1))
		case ZP0:
			text += fmt.Sprintf(" $%02X {ZP0}", c.bus.Read(lineAddr+1))
		case ZPX:
			text += fmt.Sprintf(" $%02X,X {ZPX}", c.bus.Read(lineAddr+1))
		case ZPY:
			text += fmt.Sprintf(" $%02X,Y {ZPY}", c.bus.Read(lineAddr+1))
		case IZX:
			text += fmt.Sprintf(" ($%02X,X) {IZX}", c.bus.Read(lineAddr+1))
		case IZY:
			text += fmt.Sprintf(" ($%02X),Y {IZY}", c.bus.Read(lineAddr+1))
		case ABS:
			text += fmt.Sprintf(" $%04X {ABS}", c.bus.Read16(lineAddr+1))
		case ABX:
			text += fmt.Sprintf(" $%04X,X {ABX}", c.bus.Read16(lineAddr+1))
		case ABY:
			text += fmt.Sprintf(" $%04X,Y {ABY}", c.bus.Read16(lineAddr+1))
		case IND:
			text += fmt.Sprintf(" ($%04X) {IND}", c.bus.Read16(lineAddr+1))
		case REL:
			disp := int8(c.bus.Read(lineAddr + 1))
			target := uint16(int32(lineAddr) + 2 + int32(disp))
			text += fmt.Sprintf(" $%04X {REL}", target)
		default:
			text += " {IMP}"
		}
		lines[lineAddr] = text
		addr += uint32(op.Length)
	}
	return lines
}
