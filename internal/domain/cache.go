package domain

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedCache is returned when the cache document does not have the
// {year: {cellId: record}} shape.
var ErrMalformedCache = errors.New("malformed weather cache")

// ParseCache decodes a cache document into year partitions. Year order and
// cell order within each year follow the document, which a plain map decode
// would lose. The object key is the authoritative cell id.
func ParseCache(data []byte) ([]YearPartition, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("parse cache: %w", err)
	}

	var partitions []YearPartition
	for dec.More() {
		year, err := readKey(dec)
		if err != nil {
			return nil, fmt.Errorf("parse cache: %w", err)
		}
		cells, err := readYear(dec)
		if err != nil {
			return nil, fmt.Errorf("parse cache year %s: %w", year, err)
		}
		partitions = append(partitions, YearPartition{Year: year, Cells: cells})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("parse cache: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse cache: %w: trailing data after document", ErrMalformedCache)
	}
	return partitions, nil
}

func readYear(dec *json.Decoder) ([]CellYearRecord, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var cells []CellYearRecord
	for dec.More() {
		id, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var rec CellYearRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("cell %s: %w", id, err)
		}
		rec.ID = id
		cells = append(cells, rec)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return cells, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", ErrMalformedCache, tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected end of document", ErrMalformedCache)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformedCache, want, tok)
	}
	return nil
}

// EncodeCache writes partitions as a cache document, keeping the given year
// and cell order.
func EncodeCache(w io.Writer, partitions []YearPartition) error {
	bw := bufio.NewWriter(w)
	bw.WriteByte('{')
	for i, p := range partitions {
		if i > 0 {
			bw.WriteByte(',')
		}
		if err := writeKey(bw, p.Year); err != nil {
			return err
		}
		bw.WriteByte('{')
		for j, rec := range p.Cells {
			if j > 0 {
				bw.WriteByte(',')
			}
			if err := writeKey(bw, rec.ID); err != nil {
				return err
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode cell %s: %w", rec.ID, err)
			}
			bw.Write(data)
		}
		bw.WriteByte('}')
	}
	bw.WriteByte('}')
	return bw.Flush()
}

func writeKey(w *bufio.Writer, key string) error {
	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encode key: %w", err)
	}
	w.Write(data)
	w.WriteByte(':')
	return nil
}

// MergeYears folds year partitions into one Cell per id. The first record of
// an id sets its coordinates and bounds; every record, the first included,
// appends its series. Cells come out in order of first appearance.
func MergeYears(partitions []YearPartition) []Cell {
	index := make(map[string]int)
	var cells []Cell

	for _, p := range partitions {
		for _, rec := range p.Cells {
			i, seen := index[rec.ID]
			if !seen {
				cells = append(cells, Cell{
					ID:     rec.ID,
					Lat:    rec.Lat,
					Lon:    rec.Lon,
					Bounds: rec.Bounds,
				})
				i = len(cells) - 1
				index[rec.ID] = i
			}

			cell := &cells[i]
			if rec.Daily != nil {
				cell.HasDaily = true
				cell.Daily.Append(*rec.Daily)
			}
			if rec.Hourly != nil {
				cell.HasHourly = true
				cell.Hourly.Append(*rec.Hourly)
			}
		}
	}
	return cells
}
