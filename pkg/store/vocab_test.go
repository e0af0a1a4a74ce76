package store

import (
	"errors"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{name: "person_is_valid", label: "Person", wantErr: false},
		{name: "weapon_is_valid", label: "Weapon", wantErr: false},
		{name: "crime_type_is_valid", label: "CrimeType", wantErr: false},
		{name: "case_is_not_an_entity_label", label: "Case", wantErr: true},
		{name: "unknown_label_rejected", label: "Spaceship", wantErr: true},
		{name: "lowercase_rejected", label: "person", wantErr: true},
		{name: "empty_rejected", label: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLabel(tc.label)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.label)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.label, err)
			}
			if tc.wantErr && err != nil && !errors.Is(err, ErrInvalidLabel) {
				t.Fatalf("expected ErrInvalidLabel, got %v", err)
			}
		})
	}
}

func TestNormalizeRelType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase_verb_phrase", in: "fled towards", want: "FLED_TOWARDS"},
		{name: "already_normalized", in: "OCCURRED_AT", want: "OCCURRED_AT"},
		{name: "hyphens_become_underscores", in: "night-time", want: "NIGHT_TIME"},
		{name: "surrounding_whitespace_trimmed", in: "  owns  ", want: "OWNS"},
		{name: "repeated_separators_collapse", in: "was  seen   with", want: "WAS_SEEN_WITH"},
		{name: "empty_stays_empty", in: "", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeRelType(tc.in)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateRelType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		relType string
		wantErr error
	}{
		{name: "verb_phrase_token", relType: "FLED_TOWARDS", wantErr: nil},
		{name: "single_word", relType: "OWNS", wantErr: nil},
		{name: "digits_allowed", relType: "CALLED_911", wantErr: nil},
		{name: "membership_type_reserved", relType: "BELONGS_TO", wantErr: ErrReservedType},
		{name: "summary_types_reserved", relType: "EXHIBITS", wantErr: ErrReservedType},
		{name: "lowercase_rejected", relType: "owns", wantErr: ErrInvalidRelType},
		{name: "leading_digit_rejected", relType: "1OWNS", wantErr: ErrInvalidRelType},
		{name: "spaces_rejected", relType: "FLED TOWARDS", wantErr: ErrInvalidRelType},
		{name: "empty_rejected", relType: "", wantErr: ErrInvalidRelType},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRelType(tc.relType)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error for %q: %v", tc.relType, err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}
