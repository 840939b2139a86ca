package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/model"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	RunID     uuid.UUID
	Source    string
	Rows      int
	Summary   model.Summary
	Error     string // set when the run failed; Summary is then zero
}

// NewEntry starts an entry for a source with a fresh run ID.
func NewEntry(source string, now time.Time) Entry {
	return Entry{Timestamp: now.UTC(), RunID: uuid.New(), Source: source}
}

// Failed reports whether the run ended in an error.
func (e Entry) Failed() bool { return e.Error != "" }

// Header is the CSV header for recon-log.csv.
const Header = "timestamp,run_id,source,rows,initial,final,inflow,outflow,consistent,error"

const (
	numFields     = 10
	logDir        = "logs"
	logFile       = "logs/recon-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colSource     = 2
	colRows       = 3
	colInitial    = 4
	colFinal      = 5
	colInflow     = 6
	colOutflow    = 7
	colConsistent = 8
	colError      = 9
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID.String()
	row[colSource] = e.Source
	row[colRows] = strconv.Itoa(e.Rows)
	if !e.Failed() {
		row[colInitial] = e.Summary.InitialBalance.StringFixed(2)
		row[colFinal] = e.Summary.FinalBalance.StringFixed(2)
		row[colInflow] = e.Summary.TotalInflow.StringFixed(2)
		row[colOutflow] = e.Summary.TotalOutflow.StringFixed(2)
		row[colConsistent] = strconv.FormatBool(e.Summary.IsConsistent)
	}
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	runID, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}
	rows, err := strconv.Atoi(record[colRows])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows %q: %w", record[colRows], err)
	}

	e := Entry{
		Timestamp: ts,
		RunID:     runID,
		Source:    record[colSource],
		Rows:      rows,
		Error:     record[colError],
	}
	if e.Failed() {
		return e, nil
	}

	amounts := []struct {
		name string
		dst  *decimal.Decimal
		col  int
	}{
		{"initial", &e.Summary.InitialBalance, colInitial},
		{"final", &e.Summary.FinalBalance, colFinal},
		{"inflow", &e.Summary.TotalInflow, colInflow},
		{"outflow", &e.Summary.TotalOutflow, colOutflow},
	}
	for _, a := range amounts {
		*a.dst, err = decimal.NewFromString(record[a.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s %q: %w", a.name, record[a.col], err)
		}
	}
	e.Summary.IsConsistent, err = strconv.ParseBool(record[colConsistent])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing consistent %q: %w", record[colConsistent], err)
	}
	return e, nil
}

// Append writes entries to <repoRoot>/logs/recon-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/recon-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
