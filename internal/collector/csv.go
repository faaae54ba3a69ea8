package collector

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"DepthScan/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable parses a comma separated snapshot export. A leading UTF-8 BOM is
// ignored and ragged records are accepted.
func ReadTable(name string, r io.Reader) (*model.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read %s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return model.NewTable(name, header, records)
}
