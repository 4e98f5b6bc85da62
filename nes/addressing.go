package nes

// resolve computes the effective address for the instruction at the
// current PC under the given addressing mode, advancing PC past the
// operand bytes it consumes. It returns the effective address; callers
// needing the accumulator instead of a memory operand check mode == IMP
// themselves (see opShift).
func (c *CPU) resolve(mode AddressingMode) uint16 {
	switch mode {
	case IMP:
		return 0

	case IMM:
		addr := c.PC
		c.PC++
		return addr

	case ZP0:
		addr := uint16(c.bus.Read(c.PC))
		c.PC++
		return addr

	case ZPX:
		addr := uint16(byte(c.bus.Read(c.PC) + c.X))
		c.PC++
		return addr

	case ZPY:
		addr := uint16(byte(c.bus.Read(c.PC) + c.Y))
		c.PC++
		return addr

	case ABS:
		addr := c.bus.Read16(c.PC)
		c.PC += 2
		return addr

	case ABX:
		base := c.bus.Read16(c.PC)
		c.PC += 2
		return base + uint16(c.X)

	case ABY:
		base := c.bus.Read16(c.PC)
		c.PC += 2
		return base + uint16(c.Y)

	case IND:
		ptr := c.bus.Read16(c.PC)
		c.PC += 2
		return c.readIndirectWithPageBug(ptr)

	case IZX:
		zp := byte(c.bus.Read(c.PC) + c.X)
		c.PC++
		lo := uint16(c.bus.Read(uint16(zp)))
		hi := uint16(c.bus.Read(uint16(byte(zp + 1))))
		return hi<<8 | lo

	case IZY:
		zp := c.bus.Read(c.PC)
		c.PC++
		lo := uint16(c.bus.Read(uint16(zp)))
		hi := uint16(c.bus.Read(uint16(byte(zp + 1))))
		base := hi<<8 | lo
		return base + uint16(c.Y)

	case REL:
		disp := int8(c.bus.Read(c.PC))
		c.PC++
		return uint16(int32(c.PC) + int32(disp))

	default:
		return 0
	}
}

// readIndirectWithPageBug reproduces the documented JMP ($xxFF) bug: the
// high byte of the target is fetched from the same page as the low byte
// instead of crossing into the next page.
func (c *CPU) readIndirectWithPageBug(ptr uint16) uint16 {
	lo := uint16(c.bus.Read(ptr))
	hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
	hi := uint16(c.bus.Read(hiAddr))
	return hi<<8 | lo
}
