package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/csvhash/internal/model"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Defaults for reading and writing.
const (
	// DefaultDelimiter separates fields in both input and output.
	DefaultDelimiter = ','

	// DefaultEncoding is the input encoding label.
	DefaultEncoding = "utf-8"
)

var (
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("input has no header row")

	// ErrUnsupportedEncoding is returned when an encoding label is unknown.
	ErrUnsupportedEncoding = errors.New("unsupported input encoding")
)

// ReadOptions controls how input is decoded and split.
type ReadOptions struct {
	// Delimiter is the field separator. Zero means DefaultDelimiter.
	Delimiter rune

	// Encoding is a WHATWG encoding label such as "utf-8", "latin1",
	// "windows-1252" or "shift_jis". Empty means DefaultEncoding.
	Encoding string
}

// delimiter returns the configured delimiter or the default.
func (o ReadOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// NewDecodingReader wraps r so that it yields UTF-8 decoded from the
// encoding named by label. Invalid byte sequences become U+FFFD.
func NewDecodingReader(r io.Reader, label string) (io.Reader, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultEncoding
	}

	switch strings.ToLower(label) {
	case "utf-8", "utf8":
		// A leading BOM is consumed here; SanitizeHeader covers the
		// cases where it survives a different decoding.
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}

	enc, _ := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, label)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Read parses delimited text with a header row into a Dataset.
// Header names are sanitized; rows shorter than the header are padded with
// empty strings.
func Read(r io.Reader, opts ReadOptions) (*model.Dataset, error) {
	decoded, err := NewDecodingReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = opts.delimiter()
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return model.NewDataset(SanitizeHeaders(header), records), nil
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts ReadOptions) (*model.Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return Read(f, opts)
}
