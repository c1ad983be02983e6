package sievego

import (
	"bufio"
	"context"
	"io"
	"iter"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/sievego/internal/intmath"
	"github.com/hupe1980/sievego/internal/replicate"
	"github.com/hupe1980/sievego/resource"
	"github.com/hupe1980/sievego/snapshot"
	"github.com/hupe1980/sievego/storage"
)

// Sieve computes the primes in [1, range] with a packed odd-number sieve of
// Eratosthenes. Slot j tracks the odd integer 2j+1; the prime 2 is handled
// implicitly and never stored.
//
// A Sieve is a state machine: it starts unsieved, Run moves it to sieved,
// and Reset moves it back. Query and emit operations require the sieved
// state and fail with ErrNotSieved otherwise.
//
// Sieve is not safe for concurrent use. Distinct instances share no mutable
// state and may be used from different goroutines.
type Sieve struct {
	name    string
	rang    uint64
	slots   *storage.Array
	sieved  bool
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller
}

// NewSieve creates a standalone sieve instance for the interval [1, rang].
// rang must be at least 3; smaller ranges have no tracked odd candidate and
// fail with ErrRangeTooSmall.
//
// Instances that should share a storage budget belong in a Registry instead.
func NewSieve(name string, rang uint64, optFns ...Option) (*Sieve, error) {
	o := applyOptions(optFns...)

	return newSieve(name, rang, o)
}

func newSieve(name string, rang uint64, o *options) (*Sieve, error) {
	if rang < 3 {
		return nil, ErrRangeTooSmall
	}

	return &Sieve{
		name:    name,
		rang:    rang,
		slots:   storage.New(rang),
		logger:  o.logger,
		metrics: o.metricsCollector,
		rc:      o.controller,
	}, nil
}

// Name returns the instance name.
func (s *Sieve) Name() string {
	return s.name
}

// Range returns the upper bound of the sieved interval.
func (s *Sieve) Range() uint64 {
	return s.rang
}

// Sieved reports whether the instance holds valid sieve results.
func (s *Sieve) Sieved() bool {
	return s.sieved
}

// StorageBytes returns the size of the slot array in bytes.
func (s *Sieve) StorageBytes() int64 {
	return int64(s.slots.Len())
}

// Run executes the sieve pass, marking every odd composite in the interval.
// Running an already-sieved instance is a no-op; the results stay valid.
func (s *Sieve) Run() {
	if s.sieved {
		return
	}

	start := time.Now()

	// Factors above sqrt(range) have no unmarked multiples left: the first
	// multiple worth marking is f*f, and f*f > range for all of them.
	limit := intmath.Sqrt(s.rang)

	for f := uint64(3); f <= limit; f += 2 {
		if s.slots.Get(f/2) == storage.Composite {
			continue
		}

		// Mark f*f, f*f+2f, f*f+4f, ... up to range. Smaller odd multiples
		// of f were already marked by smaller factors, and even multiples
		// are never stored.
		count := (s.rang-f*f)/(2*f) + 1

		j := (f*f - 1) / 2
		replicate.Do(count, func() {
			s.slots.Mark(j)
			j += f
		})
	}

	s.sieved = true

	s.logger.LogRun(context.Background(), s.name, s.rang)
	s.metrics.RecordSieve(s.rang, time.Since(start))
}

// Reset discards the sieve results and returns the instance to the unsieved
// state. Storage is retained, so a subsequent Run reuses the same slots.
func (s *Sieve) Reset() {
	s.slots.ClearAll()
	s.sieved = false

	s.logger.LogReset(context.Background(), s.name)
	s.metrics.RecordReset()
}

// Count returns the number of primes in [1, range]. The implicit prime 2 is
// included. Returns ErrNotSieved if the instance has not been run.
func (s *Sieve) Count() (uint64, error) {
	if !s.sieved {
		return 0, ErrNotSieved
	}

	count := uint64(1) // the implicit prime 2

	for _, slot := range s.slots.Slots() {
		if slot == storage.Candidate {
			count++
		}
	}

	return count, nil
}

// Primes returns an iterator over the primes in ascending order, starting
// with 2. Returns ErrNotSieved if the instance has not been run. The
// iterator reads the live slot array; do not Reset while iterating.
func (s *Sieve) Primes() (iter.Seq[uint64], error) {
	if !s.sieved {
		return nil, ErrNotSieved
	}

	return func(yield func(uint64) bool) {
		if !yield(2) {
			return
		}

		for j := uint64(1); j <= s.slots.Len(); j++ {
			if s.slots.Get(j) == storage.Candidate {
				if !yield(2*j + 1) {
					return
				}
			}
		}
	}, nil
}

// Bitmap returns the primes as a compressed roaring bitmap, useful for set
// operations across instances (intersections, diffs) without materializing
// slices. Returns ErrNotSieved if the instance has not been run.
func (s *Sieve) Bitmap() (*roaring64.Bitmap, error) {
	primes, err := s.Primes()
	if err != nil {
		return nil, err
	}

	bm := roaring64.New()
	for p := range primes {
		bm.Add(p)
	}

	return bm, nil
}

// WritePrimes writes the primes to w in ascending order, one per line in
// decimal, starting with 2. It returns the number of primes written.
// Returns ErrNotSieved if the instance has not been run.
//
// Writes are throttled by the resource controller's emit limit when one is
// attached; ctx cancels a throttled emit mid-stream.
func (s *Sieve) WritePrimes(ctx context.Context, w io.Writer) (uint64, error) {
	start := time.Now()

	count, err := s.writePrimes(ctx, w)

	s.logger.LogEmit(ctx, s.name, count, err)
	s.metrics.RecordEmit(count, time.Since(start), err)

	return count, err
}

func (s *Sieve) writePrimes(ctx context.Context, w io.Writer) (uint64, error) {
	if !s.sieved {
		return 0, ErrNotSieved
	}

	bw := bufio.NewWriter(&throttledWriter{ctx: ctx, w: w, rc: s.rc})

	if _, err := bw.WriteString("2\n"); err != nil {
		return 0, err
	}

	count := uint64(1)

	var buf [21]byte // max uint64 digits plus newline

	for j := uint64(1); j <= s.slots.Len(); j++ {
		if s.slots.Get(j) != storage.Candidate {
			continue
		}

		line := strconv.AppendUint(buf[:0], 2*j+1, 10)
		line = append(line, '\n')

		if _, err := bw.Write(line); err != nil {
			return count, err
		}

		count++
	}

	if err := bw.Flush(); err != nil {
		return count, err
	}

	return count, nil
}

// throttledWriter applies the controller's emit rate limit before each
// underlying write. With a nil controller it passes writes straight through.
type throttledWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *resource.Controller
}

func (tw *throttledWriter) Write(p []byte) (int, error) {
	if err := tw.rc.WaitEmit(tw.ctx, len(p)); err != nil {
		return 0, err
	}

	return tw.w.Write(p)
}

// snapshotData captures the instance state for serialization.
func (s *Sieve) snapshotData() *snapshot.Data {
	return &snapshot.Data{
		Name:   s.name,
		Range:  s.rang,
		Sieved: s.sieved,
		Slots:  s.slots.Slots(),
	}
}

// sieveFromSnapshot rebuilds an instance from snapshot data.
func sieveFromSnapshot(d *snapshot.Data, o *options) (*Sieve, error) {
	if d.Range < 3 {
		return nil, ErrRangeTooSmall
	}

	if uint64(len(d.Slots)) != storage.Size(d.Range) {
		return nil, snapshot.ErrCorrupt
	}

	return &Sieve{
		name:    d.Name,
		rang:    d.Range,
		slots:   storage.FromSlots(d.Slots),
		sieved:  d.Sieved,
		logger:  o.logger,
		metrics: o.metricsCollector,
		rc:      o.controller,
	}, nil
}

// SaveTo writes a checksummed snapshot of the instance to w using the given
// compression. The snapshot can be restored with LoadFrom.
func (s *Sieve) SaveTo(w io.Writer, c snapshot.Compression) error {
	return snapshot.Write(w, s.snapshotData(), c)
}

// LoadFrom restores a standalone instance from a snapshot produced by
// SaveTo. Compression is auto-detected from the snapshot header.
func LoadFrom(r io.Reader, optFns ...Option) (*Sieve, error) {
	o := applyOptions(optFns...)

	d, err := snapshot.Read(r)
	if err != nil {
		return nil, err
	}

	return sieveFromSnapshot(d, o)
}
