package models

import (
	"encoding/json"
	"testing"
)

func TestSeverityJSONRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityHint} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		if string(data) != `"`+s.String()+`"` {
			t.Errorf("marshal %v = %s, want the name", s, data)
		}

		var back Severity
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %v", s, back)
		}
	}
}

func TestParseSeverityUnknown(t *testing.T) {
	if _, err := ParseSeverity("catastrophic"); err == nil {
		t.Error("unknown severity name must error")
	}
}

func TestHasErrors(t *testing.T) {
	findings := []Finding{
		{Code: "a", Severity: SeverityWarning},
		{Code: "b", Severity: SeverityInfo},
	}
	if HasErrors(findings) {
		t.Error("no error-severity findings present")
	}

	findings = append(findings, Finding{Code: "c", Severity: SeverityError})
	if !HasErrors(findings) {
		t.Error("error-severity finding not detected")
	}
}

func TestCountBySeverity(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityError},
		{Severity: SeverityWarning},
		{Severity: SeverityWarning},
	}
	counts := CountBySeverity(findings)
	if counts[SeverityError] != 1 || counts[SeverityWarning] != 2 || counts[SeverityInfo] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestWholeLine(t *testing.T) {
	r := WholeLine(3, 17)
	if r.Start.Line != 3 || r.Start.Column != 0 || r.End.Column != 17 {
		t.Errorf("WholeLine = %+v", r)
	}
}
