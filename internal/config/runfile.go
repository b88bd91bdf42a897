// Package config handles the two inputs of the program: the line-oriented
// run file describing a propagation, and the yaml settings file describing
// the environment (ephemeris data, remote service, worker pool).
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Run is a fully parsed run file.
type Run struct {
	Start        time.Time
	End          time.Time
	Dt           time.Duration
	ResultFile   string
	Designations []string
}

// ConfigError reports every missing required directive at once instead of
// failing on the first.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "config: run file missing required directives: " + strings.Join(e.Missing, ", ")
}

// mpPattern extracts "<year> <designation>" from an MP line.
var mpPattern = regexp.MustCompile(`(\d{4})\s+([A-Za-z0-9]+)`)

const dateLayout = "2006-01-02"

// ParseRunFile reads and parses the run file at path.
func ParseRunFile(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRun(f)
}

// ParseRun parses the directive format: T0/TF (dates), DT (days), RF (output
// file), MP (one minor planet per line). A semicolon starts a comment
// anywhere on a line. T0, TF, DT and RF are required; MP lines are optional.
func ParseRun(r io.Reader) (*Run, error) {
	run := &Run{}
	var haveT0, haveTF, haveDT, haveRF bool

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		directive, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch directive {
		case "T0":
			t, err := parseDate(rest)
			if err != nil {
				return nil, fmt.Errorf("config: line %d: T0: %w", lineNo, err)
			}
			run.Start = t
			haveT0 = true
		case "TF":
			t, err := parseDate(rest)
			if err != nil {
				return nil, fmt.Errorf("config: line %d: TF: %w", lineNo, err)
			}
			run.End = t
			haveTF = true
		case "DT":
			days, err := strconv.ParseFloat(firstField(rest), 64)
			if err != nil {
				return nil, fmt.Errorf("config: line %d: DT: %w", lineNo, err)
			}
			if days <= 0 {
				return nil, fmt.Errorf("config: line %d: DT must be positive, got %g", lineNo, days)
			}
			run.Dt = time.Duration(days * 24 * float64(time.Hour))
			haveDT = true
		case "RF":
			if rest != "" {
				run.ResultFile = rest
				haveRF = true
			}
		case "MP":
			m := mpPattern.FindStringSubmatch(rest)
			if m == nil {
				return nil, fmt.Errorf("config: line %d: MP: cannot parse designation %q", lineNo, rest)
			}
			run.Designations = append(run.Designations, m[1]+" "+m[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var missing []string
	if !haveT0 {
		missing = append(missing, "T0")
	}
	if !haveTF {
		missing = append(missing, "TF")
	}
	if !haveDT {
		missing = append(missing, "DT")
	}
	if !haveRF {
		missing = append(missing, "RF")
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}

	return run, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, firstField(s))
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
