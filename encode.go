package perform

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/perform/date"
)

const attrOn = "on"
const marketFilesGlob = "[0-9][0-9][0-9][0-9].jsonl"
const registryFilename = "registry.jsonl"
const holdingsFilename = "holdings.jsonl"
const benchmarksFilename = "benchmarks.jsonl"

// This file contains the code to persist the workspace data as JSONL files,
// human-readable and git-friendly. The intended home of such a workspace is a
// private git repo.
//
// The market price folder follows a two-step strategy:
//   Decode: glob all yearly files into a list of lines (with filename and
//           line number for error messages), then parse each json line and
//           append it to the database.
//   Encode: scan all days across securities, write one line per day into the
//           file of its year, then delete yearly files that no longer hold
//           any data.

// jinstrument is an instrument as registry.jsonl represents it.
type jinstrument struct {
	Symbol  string   `json:"symbol"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// DecodeRegistry parses a JSONL stream of instrument declarations, one per
// line. filename is for error messages only.
func DecodeRegistry(filename string, r io.Reader) (*Registry, error) {
	reg := NewRegistry()
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var js jinstrument
		if err := json.Unmarshal(line, &js); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
		inst, err := NewInstrument(ID(js.ID), js.Name, js.Aliases...)
		if err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
		if err := reg.Add(inst); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return reg, nil
}

// EncodeRegistry writes the registry as a JSONL stream, one instrument per
// line in symbol order so the file diffs cleanly under version control.
func EncodeRegistry(w io.Writer, reg *Registry) error {
	for _, inst := range reg.Instruments() {
		js := jinstrument{
			Symbol:  inst.Symbol(),
			ID:      string(inst.ID()),
			Name:    inst.Name(),
			Aliases: inst.Aliases(),
		}
		data, err := json.Marshal(js)
		if err != nil {
			return fmt.Errorf("cannot marshal instrument %q: %w", inst.Symbol(), err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write registry: %w", err)
		}
	}
	return nil
}

// fileLine structures a line from a collection of files as the persistence
// layer represents them.
type fileLine struct {
	filename string
	i        int
	txt      string
}

// decodeLines reads all lines from a set of files into structured lines.
func decodeLines(filenames ...string) (list []fileLine, err error) {
	for _, filename := range filenames {
		i := 0
		r, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			i++
			list = append(list, fileLine{filename, i, scanner.Text()})
		}
		if err := scanner.Err(); err != nil {
			r.Close()
			return nil, fmt.Errorf("error reading %q: %w", filename, err)
		}
		r.Close()
	}
	return list, nil
}

// decodePriceLine decodes one line of a yearly price file into the market.
//
// A line is a single json object holding the date under the reserved "on"
// property and one price per instrument ID.
func decodePriceLine(m *MarketData, l fileLine) error {
	if strings.TrimSpace(l.txt) == "" {
		return nil
	}

	jobj := make(map[string]any)
	if err := json.Unmarshal([]byte(l.txt), &jobj); err != nil {
		return fmt.Errorf("parse error %s:%d: not a correct json: %w", l.filename, l.i, err)
	}

	jvalue, ok := jobj[attrOn]
	if !ok {
		return fmt.Errorf("parse error %s:%d: missing the property %q with a date", l.filename, l.i, attrOn)
	}
	jstring, ok := jvalue.(string)
	if !ok {
		return fmt.Errorf("parse error %s:%d: property %q must be of type 'string'", l.filename, l.i, attrOn)
	}
	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("parse error %s:%d: property %q must be a valid date: %w", l.filename, l.i, attrOn, err)
	}

	// Every other attribute is an (ID, price) pair.
	for key, value := range jobj {
		if key == attrOn {
			continue
		}
		price, ok := value.(float64)
		if !ok {
			return fmt.Errorf("parse error %s:%d: property %q must be of type 'number'", l.filename, l.i, key)
		}
		id := ID(key)
		if err := id.Validate(); err != nil {
			return fmt.Errorf("parse error %s:%d: property %q is not an instrument ID: %w", l.filename, l.i, key, err)
		}
		if err := m.Add(id, on, price); err != nil {
			return fmt.Errorf("parse error %s:%d: %w", l.filename, l.i, err)
		}
	}
	return nil
}

// DecodeMarketPrices reads a folder of yearly price files into a MarketData
// quoted in the given currency. An empty or missing folder yields an empty
// market; valuations against it only produce price gaps.
func DecodeMarketPrices(folder, currency string) (*MarketData, error) {
	m := NewMarketData(currency)

	filenames, err := filepath.Glob(filepath.Join(folder, marketFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("load error: cannot scan folder %q for market data files: %w", folder, err)
	}
	lines, err := decodeLines(filenames...)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := decodePriceLine(m, line); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// encodePriceLine persists a single day of prices.
// Returns bare io errors.
func encodePriceLine(w io.Writer, day date.Date, ids []ID, prices []float64) error {
	// The json encoder cannot be used as it would require a map, and map
	// order is not guaranteed. Fine grained formatting keeps the key order
	// stable across saves.
	if _, err := fmt.Fprintf(w, "{ %q:%q", attrOn, day.String()); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := fmt.Fprintf(w, ", %q:%v", string(id), prices[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// EncodeMarketPrices encodes the market prices into a folder, one JSONL file
// per year, and deletes yearly files that no longer hold data.
func EncodeMarketPrices(folder string, m *MarketData) error {
	type line struct {
		filename string
		day      date.Date
		ids      []ID
		prices   []float64
	}
	var lines []line

	ids := m.IDs()
	histories := make([]*date.History[float64], 0, len(ids))
	for _, id := range ids {
		histories = append(histories, m.History(id))
	}

	for day := range date.Iterate(histories...) {
		l := line{
			day:      day,
			filename: filepath.Join(folder, fmt.Sprintf("%v.jsonl", day.Year())),
		}
		for i, id := range ids {
			if val, ok := histories[i].Get(day); ok {
				l.ids = append(l.ids, id)
				l.prices = append(l.prices, val)
			}
		}
		lines = append(lines, l)
	}

	var currentFile *os.File
	var currentFilename string
	createdFiles := make(map[string]struct{})
	for _, l := range lines {
		if currentFilename != l.filename {
			currentFilename = l.filename
			var err error
			currentFile, err = os.Create(currentFilename)
			if err != nil {
				return fmt.Errorf("persist error: cannot create file %q: %w", currentFilename, err)
			}
			createdFiles[currentFilename] = struct{}{}
			defer currentFile.Close()
			log.Printf("create-market-data-file name=%q", currentFilename)
		}
		if err := encodePriceLine(currentFile, l.day, l.ids, l.prices); err != nil {
			return fmt.Errorf("persist error: write error on file %q: %w", currentFilename, err)
		}
	}

	// Delete extraneous files.
	filenames, err := filepath.Glob(filepath.Join(folder, marketFilesGlob))
	if err != nil {
		return fmt.Errorf("persist error: cannot scan folder %q for market data files to be deleted: %w", folder, err)
	}
	for _, filename := range filenames {
		if _, ok := createdFiles[filename]; ok {
			continue
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("persist error: cannot delete file %q: %w", filename, err)
		}
		log.Printf("delete-market-data-file name=%q", filename)
	}
	return nil
}

// DecodeHoldings parses a JSONL stream of holding records, one per line, and
// groups them into portfolios sorted by entity. Holdings keep their file
// order within an entity; repeating a security is allowed, valuation sums
// the quantities. filename is for error messages only.
func DecodeHoldings(filename string, r io.Reader) ([]Portfolio, error) {
	var holdings []Holding
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var h Holding
		if err := json.Unmarshal(line, &h); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
		holdings = append(holdings, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return groupByEntity(holdings), nil
}

// EncodeHoldings writes portfolios as a JSONL stream of holding records, one
// per line, in entity order.
func EncodeHoldings(w io.Writer, portfolios []Portfolio) error {
	for _, p := range portfolios {
		for _, h := range p.Holdings {
			data, err := json.Marshal(h)
			if err != nil {
				return fmt.Errorf("cannot marshal holding of %q: %w", p.Entity, err)
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("cannot write holdings: %w", err)
			}
		}
	}
	return nil
}

// DecodeBenchmarks parses a JSONL stream of benchmark declarations, one per
// line. Declarations are returned as read; validation happens when the
// benchmark is converted into a portfolio. filename is for error messages
// only.
func DecodeBenchmarks(filename string, r io.Reader) ([]BenchmarkSpec, error) {
	var specs []BenchmarkSpec
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var spec BenchmarkSpec
		if err := json.Unmarshal(line, &spec); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
		specs = append(specs, spec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return specs, nil
}

// EncodeBenchmarks writes benchmark declarations as a JSONL stream, one per
// line.
func EncodeBenchmarks(w io.Writer, specs []BenchmarkSpec) error {
	for _, spec := range specs {
		data, err := json.Marshal(spec)
		if err != nil {
			return fmt.Errorf("cannot marshal benchmark %q: %w", spec.Name, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write benchmarks: %w", err)
		}
	}
	return nil
}
