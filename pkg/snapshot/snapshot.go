// Package snapshot saves and restores machine state with encoding/gob.
package snapshot

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oisee/cpc-z80/pkg/cpu"
	"github.com/oisee/cpc-z80/pkg/engine"
)

// Version is the current snapshot format.
const Version = 1

// ErrVersion is returned when a snapshot was written by another format version.
var ErrVersion = errors.New("snapshot: unsupported version")

// Snapshot holds everything needed to resume a run.
type Snapshot struct {
	Version int
	Regs    cpu.Registers
	Memory  []byte
	Stats   engine.Stats
}

// Capture copies the state of e.
func Capture(e *engine.Engine) *Snapshot {
	m := e.Machine()
	mem := make([]byte, cpu.MemorySize)
	copy(mem, m.Mem.Bytes())
	return &Snapshot{
		Version: Version,
		Regs:    m.Regs,
		Memory:  mem,
		Stats:   e.Stats(),
	}
}

// Apply restores the snapshot into e.
func (s *Snapshot) Apply(e *engine.Engine) {
	m := e.Machine()
	m.Regs = s.Regs
	m.Mem.Load(0, s.Memory)
	e.Restore(s.Stats)
}

// Encode writes s to w.
func Encode(w io.Writer, s *Snapshot) error {
	return gob.NewEncoder(w).Encode(s)
}

// Decode reads a snapshot from r and checks its version and memory size.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w %d (want %d)", ErrVersion, s.Version, Version)
	}
	if len(s.Memory) != cpu.MemorySize {
		return nil, fmt.Errorf("snapshot: memory is %d bytes, want %d", len(s.Memory), cpu.MemorySize)
	}
	return &s, nil
}

// Save writes a snapshot to a file.
func Save(path string, s *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a snapshot from a file.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
