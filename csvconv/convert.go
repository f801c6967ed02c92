// Package csvconv converts a JSON array of flat records into CSV.
// The header is the key set of the first record, in that record's key order.
// Later records are projected onto that header: missing keys become empty cells
// and keys the first record lacks are dropped.
package csvconv

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
)

// Default file names, relative to the working directory.
const (
	DefaultInput  = "input.json"
	DefaultOutput = "output.csv"
)

var (
	ErrEmptyInput = errors.New("JSON file is empty or not properly formatted")
	ErrNotRecords = errors.New("JSON input must be an array of objects")
)

// Record is one JSON object with its keys in document order.
type Record struct {
	Keys   []string
	Values map[string]string
}

// Get returns the cell text of key, or "" when the record lacks it.
func (r Record) Get(key string) string {
	return r.Values[key]
}

// Convert reads inputPath, parses it and writes the CSV to outputPath.
// The output file is created only once the input has parsed.
func Convert(inputPath, outputPath string) (err error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	records, err := Parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	if err := Write(out, records); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

// Parse decodes a JSON array of objects, keeping each object's key order.
func Parse(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('[') {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrNotRecords)
	}

	var records []Record
	for dec.More() {
		rec, err := parseRecord(dec, len(records))
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		records = append(records, rec)
	}

	// closing ]
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedEOF(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the top-level array")
	}

	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	return records, nil
}

func parseRecord(dec *json.Decoder, index int) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return Record{}, err
	}
	if tok != json.Delim('{') {
		return Record{}, fmt.Errorf("%w: element %d is not an object", ErrNotRecords, index)
	}

	rec := Record{Values: make(map[string]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Record{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Record{}, fmt.Errorf("element %d: unexpected token %v", index, keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Record{}, fmt.Errorf("element %d, key %q: %w", index, key, err)
		}
		cell, err := cellText(raw)
		if err != nil {
			return Record{}, fmt.Errorf("element %d, key %q: %w", index, key, err)
		}

		// A repeated key keeps its first position and its last value.
		if _, seen := rec.Values[key]; !seen {
			rec.Keys = append(rec.Keys, key)
		}
		rec.Values[key] = cell
	}

	// closing }
	if _, err := dec.Token(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// unexpectedEOF reports a truncated document as such rather than as a clean end of input.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// cellText renders one JSON value as CSV cell text.
func cellText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		// numbers keep their literal form; true and false are already text
		return string(raw), nil
	}
}

// Write emits the header and one row per record. Lines end in CRLF on Windows and LF elsewhere.
func Write(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrEmptyInput
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = runtime.GOOS == "windows"

	header := records[0].Keys
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, rec := range records {
		for i, key := range header {
			row[i] = rec.Get(key)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
