package nes

// StubPPU is a minimal, non-rendering PPU collaborator. It does not model
// nametables, palettes, or sprite evaluation; it only implements enough of
// the register file - the Address (0x2006) and Data (0x2007) latch pair -
// to let a program read and write cartridge CHR memory the way a real PPU
// would, which is the one piece of PPU behavior a CPU-side test can
// observe without an actual rendering pipeline. Real rendering is out of
// scope for this module; see the PPU interface in bus.go for the seam a full
// implementation would plug into instead.
type StubPPU struct {
	cart *Cartridge

	lastWrite [8]byte
	addr      uint16
	addrHi    bool // next write to 0x2006 supplies the high byte
}

func NewStubPPU() *StubPPU {
	return &StubPPU{addrHi: true}
}

// ConnectCartridge attaches the CHR storage the Data register reads and
// writes through.
func (p *StubPPU) ConnectCartridge(c *Cartridge) {
	p.cart = c
}

func (p *StubPPU) ReadRegister(reg uint16) byte {
	reg &= 0x0007
	if reg == 0x0007 {
		var v byte
		if p.cart != nil {
			v = p.cart.ppuRead(p.addr & 0x3FFF)
		}
		p.addr++
		return v
	}
	return p.lastWrite[reg]
}

func (p *StubPPU) WriteRegister(reg uint16, value byte) {
	reg &= 0x0007
	p.lastWrite[reg] = value

	switch reg {
	case 0x0006: // Address, written high byte then low byte
		if p.addrHi {
			p.addr = uint16(value)<<8 | (p.addr & 0x00FF)
		} else {
			p.addr = (p.addr & 0xFF00) | uint16(value)
		}
		p.addrHi = !p.addrHi
	case 0x0007: // Data
		if p.cart != nil {
			p.cart.ppuWrite(p.addr&0x3FFF, value)
		}
		p.addr++
	}
}
