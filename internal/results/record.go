// Package results owns the propagation output: the append-only record
// sequence, its serialized form consumed by the external visualizer, and the
// on-disk run store.
package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/orbitlab/minorbit/internal/vec"
)

// Record captures one propagation cycle: the cycle epoch, elapsed seconds
// since the start, the massive-body positions resolved for that epoch and
// the particle positions after the macro step. Field order is fixed: bodies
// first, then particles, each in setup order.
type Record struct {
	Epoch     time.Time
	Elapsed   float64
	Bodies    []vec.Vec3
	Particles []vec.Vec3
}

const timestampLayout = "2006-01-02T15:04:05"

// WriteTo serializes records one line each: ISO timestamp, elapsed seconds,
// then a comma-joined "x,y,z" triple per body and per particle, all
// tab-separated.
func WriteTo(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		bw.WriteString(rec.Epoch.UTC().Format(timestampLayout))
		bw.WriteByte('\t')
		bw.WriteString(formatFloat(rec.Elapsed))
		for _, p := range rec.Bodies {
			bw.WriteByte('\t')
			writeTriple(bw, p)
		}
		for _, p := range rec.Particles {
			bw.WriteByte('\t')
			writeTriple(bw, p)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the record sequence to path.
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTo(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFrom parses the serialized form back. The format carries no header, so
// the caller supplies the body count; all remaining triples are particles.
func ReadFrom(r io.Reader, nBodies int) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2+nBodies {
			return nil, fmt.Errorf("results: line %d: %d fields, need at least %d", lineNo, len(fields), 2+nBodies)
		}

		epoch, err := time.Parse(timestampLayout, fields[0])
		if err != nil {
			return nil, fmt.Errorf("results: line %d: %w", lineNo, err)
		}
		elapsed, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("results: line %d: elapsed: %w", lineNo, err)
		}

		rec := Record{Epoch: epoch.UTC(), Elapsed: elapsed}
		for i, f := range fields[2:] {
			v, err := parseTriple(f)
			if err != nil {
				return nil, fmt.Errorf("results: line %d: triple %d: %w", lineNo, i, err)
			}
			if i < nBodies {
				rec.Bodies = append(rec.Bodies, v)
			} else {
				rec.Particles = append(rec.Particles, v)
			}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile parses the record file at path.
func ReadFile(path string, nBodies int) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(f, nBodies)
}

func writeTriple(w *bufio.Writer, v vec.Vec3) {
	w.WriteString(formatFloat(v.X))
	w.WriteByte(',')
	w.WriteString(formatFloat(v.Y))
	w.WriteByte(',')
	w.WriteString(formatFloat(v.Z))
}

func parseTriple(s string) (vec.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vec.Vec3{}, fmt.Errorf("want 3 components, got %d", len(parts))
	}
	var out [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return vec.Vec3{}, err
		}
		out[i] = f
	}
	return vec.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// formatFloat uses the shortest representation that round-trips, keeping the
// output deterministic and exact under re-parsing.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
