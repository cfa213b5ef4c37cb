package records

import (
	"strings"
	"testing"
)

func TestMissingColumnsAcceptsAliases(t *testing.T) {
	headers := []string{"File Name", "Time", "Pain", "Fatigue", "Symptoms", "Area",
		"Activities", "Good Sleep", "Coffee", "Other", "Medicines", "Note"}
	if missing := MissingColumns(KindPain, headers); len(missing) != 0 {
		t.Errorf("expected no missing columns, got %v", missing)
	}
}

func TestMissingColumnsReportsGaps(t *testing.T) {
	headers := []string{"date", "hour", "pain level"}
	missing := MissingColumns(KindPain, headers)
	if len(missing) == 0 {
		t.Fatal("expected missing columns")
	}
	for _, m := range missing {
		if m == "date" || m == "hour" || m == "pain level" {
			t.Errorf("field %q should not be reported missing", m)
		}
	}
}

func TestValidateHeadersErrorMessage(t *testing.T) {
	err := ValidateHeaders(KindDiary, []string{"date", "hour"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "missing columns for diary:") {
		t.Errorf("unexpected error message: %v", err)
	}
	if !strings.Contains(err.Error(), "mood level") {
		t.Errorf("expected mood level in message, got: %v", err)
	}
}

func TestValidateHeadersPasses(t *testing.T) {
	if err := ValidateHeaders(KindDiary, Schema(KindDiary)); err != nil {
		t.Errorf("canonical headers should validate, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if _, err := ParseKind("pain"); err != nil {
		t.Errorf("pain should parse: %v", err)
	}
	if _, err := ParseKind("mood"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
