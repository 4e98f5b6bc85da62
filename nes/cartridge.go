package nes

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	prgRomChunkSize = 16 * 1024
	chrRomChunkSize = 8 * 1024
	trainerSize     = 512
)

var inesMagic = [4]byte{'N', 'E', 'S', 0x1A}

// Mirroring describes how the PPU's two physical nametables are mapped
// onto the four logical screen quadrants. Recorded for completeness; no
// component in this module currently branches on it.
type Mirroring byte

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorFourScreen
)

// header is the 16-byte iNES file header, decoded with binary.Read; the
// loader validates the magic number and version marker before using the
// size and mapper fields.
type header struct {
	Name         [4]byte
	PrgRomChunks byte
	ChrRomChunks byte
	Flags6       byte
	Flags7       byte
	PrgRamSize   byte
	Flags9       byte
	Flags10      byte
	Unused       [5]byte
}

func (h header) hasTrainer() bool     { return h.Flags6&0x04 != 0 }
func (h header) fourScreen() bool     { return h.Flags6&0x08 != 0 }
func (h header) mirroring() Mirroring {
	if h.fourScreen() {
		return MirrorFourScreen
	}
	if h.Flags6&0x01 != 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}
func (h header) mapperID() byte {
	return (h.Flags7 & 0xF0) | (h.Flags6 >> 4)
}
func (h header) isNESv1() bool {
	return h.Flags7&0x0C == 0
}
func (h header) playChoiceINSTROM() bool { return h.Flags7&0x04 != 0 }

// Cartridge holds a parsed iNES ROM image: its PRG/CHR storage and the
// mapper that translates CPU/PPU addresses into offsets within it.
type Cartridge struct {
	prgMem []byte
	chrMem []byte
	mapper Mapper

	Mirroring Mirroring
}

// LoadCartridge reads and parses an iNES file from path. It returns a
// *CartridgeError for any validation failure and wraps a failure to open
// the file with github.com/pkg/errors, never a fatal process exit - the
// loader's failures are always recoverable by the caller.
func LoadCartridge(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "nes: opening cartridge %q", path)
	}
	defer f.Close()
	return ParseCartridge(f)
}

// ParseCartridge parses an iNES image from an arbitrary reader, primarily
// so tests can build malformed or minimal fixtures in memory.
func ParseCartridge(r io.Reader) (*Cartridge, error) {
	var raw [16]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, &CartridgeError{Reason: "Invalid NES file"}
	}

	var h header
	if err := binary.Read(bytes.NewReader(raw[:]), binary.BigEndian, &h); err != nil {
		return nil, errors.Wrap(err, "nes: parsing iNES header")
	}
	if h.Name != inesMagic {
		return nil, &CartridgeError{Reason: "Invalid NES file"}
	}
	if !h.isNESv1() {
		return nil, &CartridgeError{Reason: "Only iNES version 1 supported"}
	}
	if h.mapperID() != 0 {
		return nil, &CartridgeError{Reason: "Rom's mapper not supported yet"}
	}

	if h.hasTrainer() {
		var trainer [trainerSize]byte
		if _, err := io.ReadFull(r, trainer[:]); err != nil {
			return nil, &CartridgeError{Reason: "Invalid NES file"}
		}
	}

	prgSize := int(h.PrgRomChunks) * prgRomChunkSize
	prgMem := make([]byte, prgSize)
	if _, err := io.ReadFull(r, prgMem); err != nil {
		return nil, &CartridgeError{Reason: "Invalid NES file"}
	}

	chrChunks := h.ChrRomChunks
	var chrMem []byte
	if chrChunks == 0 {
		// CHR-RAM cartridge: allocate one 8KiB writable bank.
		chrMem = make([]byte, chrRomChunkSize)
	} else {
		chrMem = make([]byte, int(chrChunks)*chrRomChunkSize)
		if _, err := io.ReadFull(r, chrMem); err != nil {
			return nil, &CartridgeError{Reason: "Invalid NES file"}
		}
	}

	if h.playChoiceINSTROM() {
		// PlayChoice-10 carries an 8KiB INST-ROM plus 16 bytes of PROM
		// data after CHR; this core never serves arcade hardware, so the
		// bytes are drained and discarded rather than parsed.
		io.CopyN(io.Discard, r, 8*1024+16)
	}

	return &Cartridge{
		prgMem:    prgMem,
		chrMem:    chrMem,
		mapper:    NewMapper000(h.PrgRomChunks, chrChunks),
		Mirroring: h.mirroring(),
	}, nil
}

func (c *Cartridge) cpuRead(addr uint16) byte {
	var mapped uint16
	if c.mapper.cpuMapRead(addr, &mapped) {
		return c.prgMem[mapped]
	}
	return 0
}

func (c *Cartridge) ppuRead(addr uint16) byte {
	var mapped uint16
	if c.mapper.ppuMapRead(addr, &mapped) {
		return c.chrMem[mapped]
	}
	return 0
}

func (c *Cartridge) ppuWrite(addr uint16, value byte) {
	var mapped uint16
	if c.mapper.ppuMapWrite(addr, &mapped) {
		c.chrMem[mapped] = value
	}
}
