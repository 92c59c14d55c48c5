package bom

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses r as a BOM spreadsheet export: it skips any meta rows
// and leading junk until it finds a header row whose canonicalised
// columns satisfy one of the recognised minimum shapes, then reads data
// rows until the first row where every recognised column is empty. A
// leading UTF-8 byte-order mark is tolerated.
func ReadCSV(r io.Reader) (*BOM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bom: reading input: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	b := &BOM{Meta: make(map[string][]string), Refs: make(map[string]map[ColumnID]string)}

	header, err := b.findHeader(cr)
	if err != nil {
		return nil, fmt.Errorf("bom: %w", err)
	}
	if header == nil {
		return b, nil
	}
	b.Header = excludeHeader(header)

	if err := b.readAllRefs(cr, b.Header); err != nil {
		return nil, fmt.Errorf("bom: %w", err)
	}
	return b, nil
}

func excludeHeader(header map[ColumnID]ColumnRef) map[ColumnID]ColumnRef {
	out := make(map[ColumnID]ColumnRef, len(header))
	for id, ref := range header {
		if excludedColumns[id] {
			continue
		}
		out[id] = ref
	}
	return out
}

// findHeader scans rows until one canonicalises to a recognised header
// shape, recording any "source: ..." meta row it passes along the way.
func (b *BOM) findHeader(cr *csv.Reader) (map[ColumnID]ColumnRef, error) {
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		b.LineCount++

		header := make(map[ColumnID]ColumnRef)
		for colIdx, cell := range row {
			cell = strings.TrimSpace(cell)
			if id, ok := canonicalizeHeader(cell); ok {
				header[id] = ColumnRef{Index: colIdx, Name: cell, Special: true}
				continue
			}
			if cell == "" {
				continue
			}
			key := ColumnID(cell)
			if _, exists := header[key]; !exists {
				header[key] = ColumnRef{Index: colIdx, Name: cell, Special: false}
			}
		}

		if headerSatisfiesMin(header) {
			return header, nil
		}

		for colIdx, cell := range row {
			if metaKey, ok := matchMeta(strings.TrimSpace(cell)); ok {
				rest := append([]string(nil), row[colIdx+1:]...)
				b.Meta[metaKey] = rest
				break
			}
		}
	}
}

// readAllRefs reads data rows per header until truncation or the first
// all-empty row, expanding each row's reference cell into the
// individual references it names and recording the row's values under
// each. Duplicate references across rows keep the first and are noted
// in Diagnostics; the first occurrence wins.
func (b *BOM) readAllRefs(cr *csv.Reader, header map[ColumnID]ColumnRef) error {
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		b.LineCount++

		data := make(map[ColumnID]string, len(header))
		allEmpty := true
		for colID, ref := range header {
			if ref.Index >= len(row) {
				b.Diagnostics = append(b.Diagnostics,
					fmt.Sprintf("line %d: stopped reading, row shorter than header", b.LineCount))
				return nil
			}
			data[colID] = row[ref.Index]
			if row[ref.Index] != "" {
				allEmpty = false
			}
		}
		if allEmpty {
			return nil
		}

		refCell, ok := data[Reference]
		if !ok || refCell == "" {
			b.Diagnostics = append(b.Diagnostics,
				fmt.Sprintf("line %d: ignored, no reference found", b.LineCount))
			continue
		}

		for _, ref := range ExpandReferences(refCell) {
			if _, exists := b.Refs[ref]; exists {
				b.Diagnostics = append(b.Diagnostics,
					fmt.Sprintf("line %d: ignored %s, already seen", b.LineCount, ref))
				continue
			}
			b.Refs[ref] = data
		}
	}
}
