package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// delimiters are tried in this order; ties go to the earlier one.
var delimiters = []rune{',', ';', '\t'}

// readCSV decodes r to UTF-8, sniffs its delimiter and returns every record
// with the source line it started on.
func readCSV(r io.Reader) ([][]string, []int, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detect encoding: %w", err)
	}

	text, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, nil, fmt.Errorf("decode csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		records [][]string
		lines   []int
	)

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)

		records = append(records, rec)
		lines = append(lines, line)
	}

	return records, lines, nil
}

// sniffDelimiter picks the delimiter that splits the sampled lines most
// consistently: the one with the highest minimum count per non-empty line.
// It falls back to the most frequent one, then to a comma.
func sniffDelimiter(text []byte) rune {
	const sampleLines = 10

	var sample [][]byte

	for _, line := range bytes.Split(text, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		sample = append(sample, line)
		if len(sample) == sampleLines {
			break
		}
	}

	best, bestMin, bestTotal := ',', 0, 0

	for _, d := range delimiters {
		sep := []byte(string(d))
		lowest, total := -1, 0

		for _, line := range sample {
			n := bytes.Count(line, sep)
			total += n

			if lowest < 0 || n < lowest {
				lowest = n
			}
		}

		if lowest > bestMin || (lowest == bestMin && bestMin == 0 && total > bestTotal) {
			best, bestMin, bestTotal = d, lowest, total
		}
	}

	return best
}
