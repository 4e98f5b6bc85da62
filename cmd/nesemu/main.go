// Command nesemu runs or disassembles an iNES cartridge image against the
// CPU core in package nes.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"nes6502/nes"

	cli "gopkg.in/urfave/cli.v2"
)

func main() {
	app := &cli.App{
		Name:  "nesemu",
		Usage: "run or inspect NES cartridges against the 6502 CPU core",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "execute a cartridge until it halts",
				ArgsUsage: "<path_to_rom>",
				Action:    runCartridge,
			},
			{
				Name:      "disassemble",
				Usage:     "print a static disassembly of a cartridge's PRG ROM",
				ArgsUsage: "<path_to_rom>",
				Action:    disassembleCartridge,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadCartridge(ctx *cli.Context) (*nes.Bus, *nes.CPU, error) {
	path := ctx.Args().First()
	if path == "" {
		return nil, nil, fmt.Errorf("nesemu: missing %s argument", ctx.Command.ArgsUsage)
	}

	cart, err := nes.LoadCartridge(path)
	if err != nil {
		return nil, nil, err
	}

	bus := nes.NewBus()
	bus.InsertCartridge(cart)

	cpu := nes.NewCPU(bus, nes.WithLogger(log.New(os.Stdout, "", 0)))
	cpu.Reset()

	return bus, cpu, nil
}

func runCartridge(ctx *cli.Context) error {
	_, cpu, err := loadCartridge(ctx)
	if err != nil {
		return err
	}

	if err := cpu.Run(); err != nil {
		return fmt.Errorf("nesemu: %w", err)
	}

	fmt.Printf("halted: PC=%#04x A=%#02x X=%#02x Y=%#02x P=%s SP=%#02x\n",
		cpu.PC, cpu.A, cpu.X, cpu.Y, cpu.P, cpu.SP)
	return nil
}

func disassembleCartridge(ctx *cli.Context) error {
	_, cpu, err := loadCartridge(ctx)
	if err != nil {
		return err
	}

	lines := cpu.Disassemble(0x8000, 0xFFFF)
	addrs := make([]int, 0, len(lines))
	for a := range lines {
		addrs = append(addrs, int(a))
	}
	sort.Ints(addrs)
	for _, a := range addrs {
		fmt.Println(lines[uint16(a)])
	}
	return nil
}
