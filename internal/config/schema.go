package config

import "fmt"

// ColumnMapping renames one column of the annotated dataset.
type ColumnMapping struct {
	// From is the column name in the annotated dataset, for example
	// "Email_hash_truncated".
	From string `yaml:"from"`

	// To is the column name written to the output file.
	To string `yaml:"to"`
}

// OutputSchema is a presentation transform applied after hashing and
// collision detection, just before the output file is written.
// It is specific to one downstream consumer and therefore lives in
// configuration rather than code.
type OutputSchema struct {
	// Drop lists columns removed from the output, typically the raw
	// personal-data columns. Names that do not exist are ignored.
	Drop []string `yaml:"drop,omitempty"`

	// Columns, when non-empty, fixes the output to exactly these columns
	// in this order, each renamed from From to To. Every From must exist.
	Columns []ColumnMapping `yaml:"columns,omitempty"`
}

// IsZero reports whether the schema changes nothing.
func (s *OutputSchema) IsZero() bool {
	return s == nil || (len(s.Drop) == 0 && len(s.Columns) == 0)
}

// Sources returns the From names in emission order.
func (s *OutputSchema) Sources() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.From
	}
	return out
}

// Targets returns the To names in emission order.
func (s *OutputSchema) Targets() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.To
	}
	return out
}

// Validate checks that every mapping is complete, that no output name is
// used twice and that no mapped column is also dropped.
func (s *OutputSchema) Validate() error {
	if s == nil {
		return nil
	}

	dropped := make(map[string]bool, len(s.Drop))
	for _, d := range s.Drop {
		dropped[d] = true
	}

	seen := make(map[string]bool, len(s.Columns))
	for i, c := range s.Columns {
		if c.From == "" || c.To == "" {
			return fmt.Errorf("%w: columns[%d] needs both from and to", ErrInvalidSchema, i)
		}
		if seen[c.To] {
			return fmt.Errorf("%w: output column %q is mapped twice", ErrInvalidSchema, c.To)
		}
		seen[c.To] = true
		if dropped[c.From] {
			return fmt.Errorf("%w: column %q is both dropped and mapped", ErrInvalidSchema, c.From)
		}
	}
	return nil
}
