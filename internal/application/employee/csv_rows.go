package employee

import (
	"bufio"
	"io"
	"strings"
)

// RowStream lazily yields the data rows of an uploaded CSV. It is a
// single-pass reader: the header line is consumed up front to detect
// the field delimiter (semicolon if the header contains one, comma
// otherwise) and is never emitted. Read failures end the stream
// silently; the caller treats zero rows as a valid empty import.
type RowStream struct {
	reader    *bufio.Reader
	delimiter byte
	done      bool
}

// NewRowStream wraps r and consumes its header line. A nil reader
// produces an empty stream.
func NewRowStream(r io.Reader) *RowStream {
	if r == nil {
		return &RowStream{done: true}
	}

	s := &RowStream{reader: bufio.NewReader(r), delimiter: ','}

	header, err := s.readRecord()
	if err != nil {
		s.done = true
		return s
	}
	if strings.Contains(strings.Join(header, ","), ";") {
		s.delimiter = ';'
	}
	return s
}

// Next returns the next non-blank row with every field trimmed, or
// false when the stream is exhausted.
func (s *RowStream) Next() ([]string, bool) {
	for !s.done {
		record, err := s.readRecord()
		if err != nil {
			s.done = true
			if record == nil {
				return nil, false
			}
		}

		row := make([]string, len(record))
		blank := true
		for i, field := range record {
			row[i] = strings.TrimSpace(field)
			if row[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		return row, true
	}
	return nil, false
}

// readRecord scans one record honoring quote enclosure and backslash
// escapes. Quoted fields may span multiple lines. The header is
// scanned with the comma delimiter before detection has run; a
// semicolon-delimited header then comes back as a single field whose
// text still carries the semicolons the sniffer looks for.
func (s *RowStream) readRecord() ([]string, error) {
	var (
		fields  []string
		field   strings.Builder
		quoted  bool
		escaped bool
		read    bool
	)

	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			if err == io.EOF && read {
				fields = append(fields, field.String())
				return fields, io.EOF
			}
			return nil, err
		}
		read = true

		if escaped {
			field.WriteByte(b)
			escaped = false
			continue
		}

		switch {
		case b == '\\':
			escaped = true
		case b == '"':
			if quoted {
				// doubled quote inside an enclosure is a literal quote
				next, err := s.reader.Peek(1)
				if err == nil && next[0] == '"' {
					s.reader.ReadByte()
					field.WriteByte('"')
					continue
				}
				quoted = false
			} else if field.Len() == 0 {
				quoted = true
			} else {
				field.WriteByte(b)
			}
		case b == s.delimiter && !quoted:
			fields = append(fields, field.String())
			field.Reset()
		case b == '\n' && !quoted:
			fields = append(fields, strings.TrimSuffix(field.String(), "\r"))
			return fields, nil
		default:
			field.WriteByte(b)
		}
	}
}
