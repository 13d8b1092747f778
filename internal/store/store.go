// Package store writes a simulation run's durable outputs to disk:
// the raw totals series, the snapshot trajectory, a per-step CSV, and
// a one-line run summary. Every file goes into the directory given to
// NewRun: <id>.chi and <id>.out are named by run ID, while results.dat
// and totals.dat have fixed names, so runs sharing a directory
// overwrite each other's copies of those two. Each file is opened
// once, written header-then-append, and closed once.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/san-kum/dumbbellgas/internal/gas"
	"github.com/san-kum/dumbbellgas/internal/geom"
)

// Run owns every output file for a single simulation run, identified
// by a generated run ID.
type Run struct {
	ID  string
	dir string

	chiFile       *os.File
	chiHeaderDone bool

	resultsFile   *os.File
	resultsHeader ResultsHeader
	headerWritten bool
}

// ResultsHeader carries the five domain parameters written on
// results.dat's header line: particle count, circle radius, circle
// distance, bridge height, bridge length.
type ResultsHeader struct {
	NumParticles   int
	CircleRadius   float64
	CircleDistance float64
	BridgeHeight   float64
	BridgeLength   float64
}

// ResultsHeaderFromDomain builds a ResultsHeader from a simulation's
// computed geometry.
func ResultsHeaderFromDomain(d *geom.Domain) ResultsHeader {
	return ResultsHeader{
		NumParticles:   d.NumParticles,
		CircleRadius:   d.CircleRadius,
		CircleDistance: d.CircleDistance,
		BridgeHeight:   d.BridgeHeight,
		BridgeLength:   d.BridgeLength,
	}
}

// SetResultsHeader records the domain parameters written once at the
// top of results.dat, ahead of the first snapshot. Call it before any
// WriteSnapshot call when write_dt > 0.
func (r *Run) SetResultsHeader(h ResultsHeader) {
	r.resultsHeader = h
}

// ChiRow is one row of <id>.chi: the per-step collision/mass-spread
// trace.
type ChiRow struct {
	NumCollisions int     `csv:"num_collisions"`
	Time          float64 `csv:"time"`
	InLeft        int     `csv:"in_left"`
	MassSpread    float64 `csv:"mass_spread"`
}

// SummaryRow is the single-line <id>.out: a run's final accounting.
type SummaryRow struct {
	SimID      string  `csv:"sim_id"`
	AvgChi     float64 `csv:"avg_chi"`
	Current0   int     `csv:"current_0"`
	Current1   int     `csv:"current_1"`
	Current2   int     `csv:"current_2"`
	Current3   int     `csv:"current_3"`
	ResetCount int     `csv:"reset_count"`
}

// NewRun creates dir (if needed) and opens the .chi file for
// incremental appends for the lifetime of the run. id is generated if
// empty.
func NewRun(dir, id string) (*Run, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	chiPath := filepath.Join(dir, id+".chi")
	chiFile, err := os.Create(chiPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", chiPath, err)
	}

	resultsPath := filepath.Join(dir, "results.dat")
	resultsFile, err := os.Create(resultsPath)
	if err != nil {
		chiFile.Close()
		return nil, fmt.Errorf("creating %s: %w", resultsPath, err)
	}

	return &Run{ID: id, dir: dir, chiFile: chiFile, resultsFile: resultsFile}, nil
}

// WriteChiRow appends one row to <id>.chi, writing the header on the
// first call.
func (r *Run) WriteChiRow(row ChiRow) error {
	rows := []ChiRow{row}
	if !r.chiHeaderDone {
		if err := gocsv.Marshal(rows, r.chiFile); err != nil {
			return fmt.Errorf("writing chi row: %w", err)
		}
		r.chiHeaderDone = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, r.chiFile); err != nil {
		return fmt.Errorf("writing chi row: %w", err)
	}
	return nil
}

// WriteSnapshot implements gas.SnapshotWriter: results.dat carries a
// header line with (N, R, D, h, L) once, then per snapshot a time line
// followed by three whitespace-separated rows of x, y, dir across every
// particle.
func (r *Run) WriteSnapshot(snap gas.Snapshot) error {
	if !r.headerWritten {
		h := r.resultsHeader
		if _, err := fmt.Fprintf(r.resultsFile, "%d %s %s %s %s\n",
			h.NumParticles,
			strconv.FormatFloat(h.CircleRadius, 'g', -1, 64),
			strconv.FormatFloat(h.CircleDistance, 'g', -1, 64),
			strconv.FormatFloat(h.BridgeHeight, 'g', -1, 64),
			strconv.FormatFloat(h.BridgeLength, 'g', -1, 64),
		); err != nil {
			return fmt.Errorf("writing results.dat header: %w", err)
		}
		r.headerWritten = true
	}

	if _, err := fmt.Fprintln(r.resultsFile, strconv.FormatFloat(snap.Time, 'g', -1, 64)); err != nil {
		return fmt.Errorf("writing results.dat time line: %w", err)
	}
	if err := r.writeResultsRow(snap.X); err != nil {
		return err
	}
	if err := r.writeResultsRow(snap.Y); err != nil {
		return err
	}
	return r.writeResultsRow(snap.Dir)
}

// writeResultsRow writes one whitespace-separated row of a results.dat
// snapshot (the x row, the y row, or the dir row).
func (r *Run) writeResultsRow(values []float64) error {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if _, err := fmt.Fprintln(r.resultsFile, strings.Join(parts, " ")); err != nil {
		return fmt.Errorf("writing results.dat row: %w", err)
	}
	return nil
}

var (
	_ gas.SnapshotWriter = (*Run)(nil)
	_ gas.TotalsWriter   = (*Run)(nil)
)

// WriteTotals writes totals.dat: three tab-separated rows holding the
// measuring-time series, the total-left series, and the total-right
// series (N - total_left).
func (r *Run) WriteTotals(measuringTimes []float64, totalLeft []int, numParticles int) error {
	path := filepath.Join(r.dir, "totals.dat")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating totals.dat: %w", err)
	}
	defer f.Close()

	writeRow := func(label string, values []string) error {
		_, err := fmt.Fprintln(f, label+"\t"+strings.Join(values, "\t"))
		return err
	}

	times := make([]string, len(measuringTimes))
	for i, t := range measuringTimes {
		times[i] = strconv.FormatFloat(t, 'g', -1, 64)
	}
	if err := writeRow("measuring_times", times); err != nil {
		return fmt.Errorf("writing totals.dat: %w", err)
	}

	left := make([]string, len(totalLeft))
	right := make([]string, len(totalLeft))
	for i, v := range totalLeft {
		left[i] = strconv.Itoa(v)
		right[i] = strconv.Itoa(numParticles - v)
	}
	if err := writeRow("total_left", left); err != nil {
		return fmt.Errorf("writing totals.dat: %w", err)
	}
	return writeRow("total_right", right)
}

// WriteSummary writes <id>.out: a single-row gocsv summary of the
// run's final accounting.
func (r *Run) WriteSummary(row SummaryRow) error {
	path := filepath.Join(r.dir, r.ID+".out")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal([]SummaryRow{row}, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Close flushes and closes every file the run opened.
func (r *Run) Close() error {
	var firstErr error
	if r.chiFile != nil {
		if err := r.chiFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.resultsFile != nil {
		if err := r.resultsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dir returns the run's output directory.
func (r *Run) Dir() string { return r.dir }
