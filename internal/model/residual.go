package model

// ResidualFinding reports that an output column still holds values that
// look like personal identifiers. It carries counts and positions only,
// never the matched values.
type ResidualFinding struct {
	// Column is the output column name.
	Column string `json:"column"`

	// Kind is the identifier kind, one of the Kind* constants.
	Kind string `json:"kind"`

	// Severity ranks how identifying the kind is.
	Severity Severity `json:"severity"`

	// Count is the number of rows with at least one match.
	Count int `json:"count"`

	// FirstRow is the zero-based position of the first matching row.
	FirstRow int `json:"first_row"`
}

// Description returns a human-readable label for the finding's kind.
func (f ResidualFinding) Description() string {
	return GetFindingInfo(f.Kind).Description
}

// Recommendation returns the suggested remediation for the finding's kind.
func (f ResidualFinding) Recommendation() string {
	return GetFindingInfo(f.Kind).Recommendation
}

// MaxResidualSeverity returns the highest severity among findings and
// false when there are none.
func MaxResidualSeverity(findings []ResidualFinding) (Severity, bool) {
	if len(findings) == 0 {
		return SeverityInfo, false
	}
	highest := findings[0].Severity
	for _, f := range findings[1:] {
		if f.Severity > highest {
			highest = f.Severity
		}
	}
	return highest, true
}
