package nes

// Address-space boundaries. RAM and the PPU register window both alias
// (mirror) across a much larger span than their backing storage.
const (
	ramMinAddr  uint16 = 0x0000
	ramMaxAddr  uint16 = 0x1FFF
	ramMirror   uint16 = 0x07FF
	ppuMinAddr  uint16 = 0x2000
	ppuMaxAddr  uint16 = 0x3FFF
	ppuMirror   uint16 = 0x0007
	cartMinAddr uint16 = 0x8000
	cartMaxAddr uint16 = 0xFFFF
)

// PPU is the bus-facing surface of the picture processing unit. Rendering
// is out of scope for this module; RegisterStub below implements this as a
// no-op so the CPU can still execute programs that poke PPU registers.
type PPU interface {
	ReadRegister(reg uint16) byte
	WriteRegister(reg uint16, value byte)
}

// RegisterStub is a PPU collaborator that accepts every register access
// without effect. It exists so programs written against real NES memory
// maps run against this CPU core without a full picture unit attached.
type RegisterStub struct{}

func (RegisterStub) ReadRegister(uint16) byte   { return 0 }
func (RegisterStub) WriteRegister(uint16, byte) {}

// Bus ties CPU-visible RAM, a PPU collaborator, and a cartridge together
// behind a single address-decoded Read/Write surface.
type Bus struct {
	ram  [ramMirror + 1]byte
	ppu  PPU
	cart *Cartridge

	// debugOverlay lets tests write directly into the cartridge address
	// window without constructing a full iNES file. Never enabled outside
	// test helpers.
	debugOverlay    bool
	debugOverlayMem map[uint16]byte
}

// NewBus builds a Bus with a no-op PPU stub attached. Call InsertCartridge
// before Reset.
func NewBus() *Bus {
	return &Bus{ppu: RegisterStub{}}
}

// ConnectPPU swaps in a real PPU collaborator in place of the register stub.
func (b *Bus) ConnectPPU(p PPU) {
	b.ppu = p
}

// InsertCartridge attaches PRG/CHR storage and its mapper to the bus.
func (b *Bus) InsertCartridge(c *Cartridge) {
	b.cart = c
}

// EnableDebugOverlay turns on the test-only write-through buffer described
// on Bus.debugOverlay.
func (b *Bus) EnableDebugOverlay() {
	b.debugOverlay = true
	b.debugOverlayMem = make(map[uint16]byte)
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr >= ramMinAddr && addr <= ramMaxAddr:
		return b.ram[addr&ramMirror]
	case addr >= ppuMinAddr && addr <= ppuMaxAddr:
		return b.ppu.ReadRegister(addr & ppuMirror)
	case addr >= cartMinAddr && addr <= cartMaxAddr:
		if b.debugOverlay {
			if v, ok := b.debugOverlayMem[addr]; ok {
				return v
			}
		}
		if b.cart != nil {
			return b.cart.cpuRead(addr)
		}
		return 0
	default:
		return 0
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr >= ramMinAddr && addr <= ramMaxAddr:
		b.ram[addr&ramMirror] = value
	case addr >= ppuMinAddr && addr <= ppuMaxAddr:
		b.ppu.WriteRegister(addr&ppuMirror, value)
	case addr >= cartMinAddr && addr <= cartMaxAddr:
		if b.debugOverlay {
			b.debugOverlayMem[addr] = value
			return
		}
		// Writes to PRG ROM are undefined on real hardware; mapper 0
		// ignores them outside of the debug overlay.
	default:
		// Expansion/APU/IO region: out of scope, writes discarded.
	}
}

// Read16 reads a little-endian word, used for vectors and absolute operands.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return hi<<8 | lo
}

// Write16 writes a little-endian word.
func (b *Bus) Write16(addr uint16, value uint16) {
	b.Write(addr, byte(value&0xFF))
	b.Write(addr+1, byte(value>>8))
}
