// Package report collects crosscheck findings and writes them as JSON.
package report

import (
	"io"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

// Diff is one register or memory cell that came out differently.
type Diff struct {
	Field string `json:"field"`
	Got   uint16 `json:"got"`
	Want  uint16 `json:"want"`
}

// Mismatch records an instruction whose result disagreed with the reference.
type Mismatch struct {
	Namespace string `json:"namespace"`
	Opcode    uint8  `json:"opcode"`
	Encoding  string `json:"encoding"`
	Mnemonic  string `json:"mnemonic"`
	Operands  string `json:"operands,omitempty"` // hex bytes, e.g. "42 FF"
	Vector    int    `json:"vector"`
	Diffs     []Diff `json:"diffs"`
}

// Summary is the JSON document written by WriteJSON.
type Summary struct {
	Checked    int        `json:"checked"`
	Skipped    int        `json:"skipped"`
	Mismatches []Mismatch `json:"mismatches"`
}

// Table stores crosscheck results. It is safe for concurrent use.
type Table struct {
	mu         sync.Mutex
	checked    int
	skipped    int
	mismatches []Mismatch
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Checked counts one instruction that was compared.
func (t *Table) Checked() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checked++
}

// Skipped counts one instruction that could not be compared.
func (t *Table) Skipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skipped++
}

// Add inserts a mismatch into the table.
func (t *Table) Add(m Mismatch) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mismatches = append(t.mismatches, m)
}

// Mismatches returns a copy of all mismatches, sorted by namespace, opcode and vector.
func (t *Table) Mismatches() []Mismatch {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Mismatch, len(t.mismatches))
	copy(result, t.mismatches)
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		if a.Opcode != b.Opcode {
			return a.Opcode < b.Opcode
		}
		return a.Vector < b.Vector
	})
	return result
}

// Len returns the number of mismatches.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.mismatches)
}

// Summary returns the counters and the sorted mismatches.
func (t *Table) Summary() Summary {
	mm := t.Mismatches()
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{Checked: t.checked, Skipped: t.skipped, Mismatches: mm}
}

// WriteJSON writes the summary as indented JSON.
func (t *Table) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Summary())
}
