package store

import (
	"fmt"
	"regexp"
	"strings"
)

var entityLabels = map[string]struct{}{
	LabelPerson:       {},
	LabelLocation:     {},
	LabelOrganization: {},
	LabelDate:         {},
	LabelTime:         {},
	LabelEvidence:     {},
	LabelWeapon:       {},
	LabelVehicle:      {},
	LabelCrimeType:    {},
	LabelPattern:      {},
}

// ExtractionLabels lists the labels extraction may assign to an entity, in
// prompt order. The summary labels are excluded; those nodes are written by
// MergeSummary only.
func ExtractionLabels() []string {
	return []string{
		LabelPerson,
		LabelLocation,
		LabelOrganization,
		LabelDate,
		LabelTime,
		LabelEvidence,
		LabelWeapon,
		LabelVehicle,
	}
}

// relTypePattern is the closed shape of a relationship token. Extraction
// output never reaches a query string without passing it.
var relTypePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,63}$`)

// ValidateLabel checks that label is in the closed entity label set. The
// Case label is not a valid entity label.
func ValidateLabel(label string) error {
	if _, ok := entityLabels[label]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return nil
}

// NormalizeRelType uppercases a verb phrase and collapses separators into
// underscores, producing a candidate relationship token.
func NormalizeRelType(relType string) string {
	relType = strings.TrimSpace(strings.ToUpper(relType))
	relType = strings.Join(strings.FieldsFunc(relType, func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t'
	}), "_")
	return relType
}

// ValidateRelType checks a relationship token against the allowed pattern and
// rejects the reserved membership type. Summary types are allowed only where
// MergeSummary writes them, so they are rejected here too.
func ValidateRelType(relType string) error {
	switch relType {
	case RelBelongsTo, RelIsA, RelExhibits:
		return fmt.Errorf("%w: %q", ErrReservedType, relType)
	}
	if !relTypePattern.MatchString(relType) {
		return fmt.Errorf("%w: %q", ErrInvalidRelType, relType)
	}
	return nil
}
