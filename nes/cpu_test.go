package nes

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCPU returns a CPU in strict stack mode wired to a bare Bus with its
// debug overlay enabled, so a test can write a tiny program directly into the
// cartridge-mapped address window without building an iNES file.
func newTestCPU(t *testing.T) (*CPU, *Bus) {
	t.Helper()
	bus := NewBus()
	bus.EnableDebugOverlay()
	cpu := NewCPU(bus, WithStackMode(StackStrict))
	return cpu, bus
}

func loadProgram(bus *Bus, at uint16, program ...byte) {
	for i, b := range program {
		bus.Write(at+uint16(i), b)
	}
}

func resetAt(cpu *CPU, bus *Bus, entry uint16) {
	bus.Write16(0xFFFC, entry)
	cpu.Reset()
}

func runToHalt(t *testing.T, cpu *CPU) {
	t.Helper()
	err := cpu.Run()
	require.NoError(t, err, "spew dump of cpu on failure:\n%s", spew.Sdump(cpu))
}

func TestScenario_LoadImmediate(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000, 0xA9, 0x42, 0x00) // LDA #$42; BRK
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0x42), cpu.A)
	assert.False(t, cpu.P.Get(FlagZ))
	assert.False(t, cpu.P.Get(FlagN))
}

func TestScenario_LoadImmediateNegative(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000, 0xA9, 0xFF, 0x00) // LDA #$FF; BRK
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0xFF), cpu.A)
	assert.True(t, cpu.P.Get(FlagN))
}

func TestScenario_LdaTaxInx(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000, 0xA9, 0xC0, 0xAA, 0xE8, 0x00) // LDA #$C0; TAX; INX; BRK
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0xC1), cpu.X)
}

func TestScenario_AdcNoCarryNoOverflow(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000, 0xA9, 0x55, 0x69, 0x10, 0x00) // LDA #$55; ADC #$10; BRK
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0x65), cpu.A)
	assert.False(t, cpu.P.Get(FlagC))
	assert.False(t, cpu.P.Get(FlagV))
}

func TestScenario_PushPullRoundTrip(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000,
		0xA9, 0xFA, // LDA #$FA
		0x48,       // PHA
		0xA9, 0x10, // LDA #$10
		0x68, // PLA
		0x00, // BRK
	)
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0xFA), cpu.A)
}

func TestScenario_JsrRts(t *testing.T) {
	cpu, bus := newTestCPU(t)
	// JSR $CAFD; (returns here at 0x8003); BRK
	loadProgram(bus, 0x8000, 0x20, 0xFD, 0xCA, 0x00)
	// Subroutine at 0xCAFD: RTS
	loadProgram(bus, 0xCAFD, 0x60)
	resetAt(cpu, bus, 0x8000)

	require.NoError(t, cpu.Step()) // JSR
	assert.Equal(t, uint16(0xCAFD), cpu.PC)

	require.NoError(t, cpu.Step()) // RTS
	assert.Equal(t, uint16(0x8003), cpu.PC)
}

func TestAdcBoundary_PositiveOperandsOverflow(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000, 0xA9, 0x50, 0x69, 0x50, 0x00) // LDA #$50; ADC #$50
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0xA0), cpu.A)
	assert.True(t, cpu.P.Get(FlagV))
	assert.False(t, cpu.P.Get(FlagC))
	assert.True(t, cpu.P.Get(FlagN))
}

func TestAdcBoundary_CarryOutNoOverflow(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000, 0xA9, 0xFF, 0x69, 0x10, 0x00) // LDA #$FF; ADC #$10
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0x0F), cpu.A)
	assert.True(t, cpu.P.Get(FlagC))
	assert.False(t, cpu.P.Get(FlagV))
	assert.False(t, cpu.P.Get(FlagZ))
}

func TestSbcBoundary_BorrowProducesNegative(t *testing.T) {
	cpu, bus := newTestCPU(t)
	// LDA #$00; CLC (carry clear = borrow); SBC #$02
	loadProgram(bus, 0x8000, 0xA9, 0x00, 0x18, 0xE9, 0x02, 0x00)
	resetAt(cpu, bus, 0x8000)

	runToHalt(t, cpu)

	assert.Equal(t, byte(0xFD), cpu.A)
	assert.False(t, cpu.P.Get(FlagC))
	assert.True(t, cpu.P.Get(FlagN))
}

func TestJmpIndirect_PageBoundaryBug(t *testing.T) {
	cpu, bus := newTestCPU(t)
	// JMP ($00FF)
	loadProgram(bus, 0x8000, 0x6C, 0xFF, 0x00)
	bus.Write(0x00FF, 0x50)
	bus.Write(0x0000, 0x40) // high byte wraps back to page start, NOT 0x0100
	bus.Write(0x0100, 0x30) // must be ignored
	resetAt(cpu, bus, 0x8000)

	require.NoError(t, cpu.Step())

	assert.Equal(t, uint16(0x4050), cpu.PC)
}

func TestBranch_DisplacementRelativeToByteAfterOperand(t *testing.T) {
	cpu, bus := newTestCPU(t)
	// BCC with displacement $06 (target *+8), carry starts clear so the
	// branch is taken.
	loadProgram(bus, 0x8000, 0x90, 0x06)
	resetAt(cpu, bus, 0x8000)

	require.NoError(t, cpu.Step())

	assert.Equal(t, uint16(0x8008), cpu.PC)
}

func TestInvariant_StatusByteAlwaysHasUnusedBitSet(t *testing.T) {
	cpu, _ := newTestCPU(t)
	cpu.P.LoadFromByte(0x00)
	assert.True(t, cpu.P.Get(FlagU))
	assert.Equal(t, byte(FlagU), cpu.P.Byte())
}

func TestUnknownOpcodeHalts(t *testing.T) {
	cpu, bus := newTestCPU(t)
	loadProgram(bus, 0x8000, 0x02) // not a defined opcode
	resetAt(cpu, bus, 0x8000)

	err := cpu.Step()
	require.Error(t, err)

	var unknown *UnknownOpcodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, byte(0x02), unknown.Opcode)
}

func TestStackFault_StrictModeOnUnderflow(t *testing.T) {
	bus := NewBus()
	bus.EnableDebugOverlay()
	cpu := NewCPU(bus, WithStackMode(StackStrict))
	resetAt(cpu, bus, 0x8000)
	cpu.SP = 0xFF // already at top of stack; one more pull must fault

	_, err := cpu.pop()
	require.Error(t, err)
	var fault *StackFaultError
	require.ErrorAs(t, err, &fault)
}
