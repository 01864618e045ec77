package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oisee/cpc-z80/pkg/cpu"
	"github.com/oisee/cpc-z80/pkg/inst"
)

func newDisasmCmd() *cobra.Command {
	var org, from addrValue
	var count int

	cmd := &cobra.Command{
		Use:   "disasm [file]",
		Short: "Disassemble a binary loaded at an origin address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var mem cpu.Memory
			n := mem.Load(uint16(org), code)
			if n < len(code) {
				logger.WithField("dropped", len(code)-n).Warn("binary runs past FFFF")
			}
			start := uint16(org)
			if cmd.Flags().Changed("from") {
				start = uint16(from)
			}
			if count <= 0 {
				count = cpu.MemorySize
			}
			end := int(org) + n
			return listing(cmd.OutOrStdout(), &mem, start, end, count)
		},
	}
	cmd.Flags().Var(&org, "org", "Address the file is loaded at")
	cmd.Flags().Var(&from, "from", "First address to disassemble (default: --org)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of instructions (0 = to the end of the file)")
	return cmd
}

// listing writes up to count instructions starting at addr and stopping at
// end. Bytes that do not decode are listed as DB.
func listing(w io.Writer, r inst.Reader, addr uint16, end, count int) error {
	for i := 0; i < count && int(addr) < end; i++ {
		text, size, err := inst.Disassemble(addr, r)
		if err != nil {
			b := r.Read(addr)
			text, size = fmt.Sprintf("DB %02Xh", b), 1
			if b >= 0xA0 {
				text = fmt.Sprintf("DB 0%02Xh", b)
			}
		}
		var raw strings.Builder
		for j := 0; j < size; j++ {
			if j > 0 {
				raw.WriteByte(' ')
			}
			fmt.Fprintf(&raw, "%02X", r.Read(addr+uint16(j)))
		}
		if _, err := fmt.Fprintf(w, "%04X  %-11s  %s\n", addr, raw.String(), text); err != nil {
			return err
		}
		next := int(addr) + size
		if next > 0xFFFF {
			break
		}
		addr = uint16(next)
	}
	return nil
}
