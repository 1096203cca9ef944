package model

// Dataset is a table held entirely in memory.
// Rows are addressed by position; every row has exactly len(Header) fields.
type Dataset struct {
	// Header holds the sanitized column names in file order.
	Header []string

	// Rows holds the records. Rows[i][j] is the value of Header[j] in row i.
	Rows [][]string
}

// NewDataset creates a Dataset, padding or cutting every row to the header
// width so column lookups never go out of range.
func NewDataset(header []string, rows [][]string) *Dataset {
	width := len(header)
	for i, row := range rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		case len(row) > width:
			rows[i] = row[:width]
		}
	}
	return &Dataset{Header: header, Rows: rows}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of the column named name, or -1.
// The comparison is exact: case and bytes must match.
func (d *Dataset) ColumnIndex(name string) int {
	for i, h := range d.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column named name exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Column returns a copy of the values of the named column, or nil if the
// column does not exist.
func (d *Dataset) Column(name string) []string {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[idx]
	}
	return values
}

// AddColumn appends a column. values must have one entry per row.
// If a column with the same name already exists its values are replaced
// in place instead.
func (d *Dataset) AddColumn(name string, values []string) {
	if idx := d.ColumnIndex(name); idx >= 0 {
		for i := range d.Rows {
			d.Rows[i][idx] = values[i]
		}
		return
	}
	d.Header = append(d.Header, name)
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], values[i])
	}
}

// Select returns a new Dataset containing only the named columns, in the
// given order, renamed to the matching entry of as. Columns that do not
// exist are reported by name through the second return value.
func (d *Dataset) Select(columns, as []string) (*Dataset, []string) {
	var missing []string
	indexes := make([]int, len(columns))
	for i, c := range columns {
		indexes[i] = d.ColumnIndex(c)
		if indexes[i] < 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}

	rows := make([][]string, len(d.Rows))
	for r, row := range d.Rows {
		out := make([]string, len(indexes))
		for i, idx := range indexes {
			out[i] = row[idx]
		}
		rows[r] = out
	}

	header := make([]string, len(as))
	copy(header, as)
	return &Dataset{Header: header, Rows: rows}, nil
}

// Drop removes the named columns. Names that do not exist are ignored.
func (d *Dataset) Drop(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	keep := make([]int, 0, len(d.Header))
	header := make([]string, 0, len(d.Header))
	for i, h := range d.Header {
		if !drop[h] {
			keep = append(keep, i)
			header = append(header, h)
		}
	}
	if len(keep) == len(d.Header) {
		return
	}

	for r, row := range d.Rows {
		out := make([]string, len(keep))
		for i, idx := range keep {
			out[i] = row[idx]
		}
		d.Rows[r] = out
	}
	d.Header = header
}
