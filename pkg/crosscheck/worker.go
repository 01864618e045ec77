package crosscheck

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/oisee/cpc-z80/pkg/cpu"
	"github.com/oisee/cpc-z80/pkg/inst"
	"github.com/oisee/cpc-z80/pkg/report"
)

// WorkerPool runs instructions through the comparison in parallel.
type WorkerPool struct {
	NumWorkers int
	Results    *report.Table
	logger     *logrus.Logger
	log        *logrus.Entry
	cases      atomic.Int64
	mismatched atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers. Zero or
// less means one per CPU; a nil logger means the logrus standard logger.
func NewWorkerPool(numWorkers int, logger *logrus.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Results:    report.NewTable(),
		logger:     logger,
		log:        logger.WithField("component", "crosscheck"),
	}
}

// Stats returns the number of cases run and how many of them mismatched.
func (wp *WorkerPool) Stats() (cases, mismatched int64) {
	return wp.cases.Load(), wp.mismatched.Load()
}

// Run compares every instruction in list. It returns ctx.Err() if cancelled
// before all instructions were processed.
func (wp *WorkerPool) Run(ctx context.Context, list []*inst.Instruction) error {
	ch := make(chan *inst.Instruction, len(list))
	for _, in := range list {
		ch <- in
	}
	close(ch)

	base := make([]byte, cpu.MemorySize)
	pattern(base)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := newChecker(base, wp.logger)
			for in := range ch {
				if ctx.Err() != nil {
					return
				}
				wp.process(k, in)
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (wp *WorkerPool) process(k *checker, in *inst.Instruction) {
	if reason, skip := Skip(in); skip {
		wp.Results.Skipped()
		wp.log.WithFields(logrus.Fields{"ns": in.Namespace.String(), "op": in.Encoding(), "reason": reason}).
			Debug("skipped")
		return
	}
	wp.Results.Checked()
	for _, c := range Cases(in) {
		wp.cases.Add(1)
		diffs, err := k.run(c)
		if err != nil {
			wp.log.WithError(err).WithField("case", c.String()).Error("step failed")
			continue
		}
		if len(diffs) == 0 {
			continue
		}
		wp.mismatched.Add(1)
		wp.Results.Add(report.Mismatch{
			Namespace: in.Namespace.String(),
			Opcode:    in.Opcode,
			Encoding:  in.Encoding(),
			Mnemonic:  in.Mnemonic,
			Operands:  hexBytes(c.Operands),
			Vector:    c.Vector,
			Diffs:     diffs,
		})
		wp.log.WithFields(logrus.Fields{"case": c.String(), "diffs": len(diffs)}).Debug(in.Mnemonic)
	}
}
