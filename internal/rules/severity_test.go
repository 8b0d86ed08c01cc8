package rules

import (
	"encoding/json"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{SeverityStyle, "style"},
		{SeverityOff, "off"},
		{Severity(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.s.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSeverity_JSONRoundTripUsesNames(t *testing.T) {
	data, err := json.Marshal(struct {
		Severity Severity `json:"severity"`
	}{SeverityWarning})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `{"severity":"warning"}` {
		t.Errorf("Marshal = %s", data)
	}

	var decoded struct {
		Severity Severity `json:"severity"`
	}
	if err := json.Unmarshal([]byte(`{"severity":"INFO"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded.Severity != SeverityInfo {
		t.Errorf("Unmarshal = %v, want info", decoded.Severity)
	}

	if err := json.Unmarshal([]byte(`{"severity":"loud"}`), &decoded); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"warning", SeverityWarning, false},
		{"warn", SeverityWarning, false},
		{"info", SeverityInfo, false},
		{"style", SeverityStyle, false},
		{" off ", SeverityOff, false},
		{"ERROR", SeverityError, false},
		{"invalid", SeverityError, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseSeverity(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParseSeverity error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseSeverity = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSeverity_IsAtLeast(t *testing.T) {
	tests := []struct {
		s, threshold Severity
		want         bool
	}{
		{SeverityError, SeverityError, true},
		{SeverityError, SeverityWarning, true},
		{SeverityWarning, SeverityError, false},
		{SeverityInfo, SeverityWarning, false},
		{SeverityStyle, SeverityStyle, true},
	}

	for _, tc := range tests {
		t.Run(tc.s.String()+"_at_least_"+tc.threshold.String(), func(t *testing.T) {
			if got := tc.s.IsAtLeast(tc.threshold); got != tc.want {
				t.Errorf("IsAtLeast = %v, want %v", got, tc.want)
			}
			if got := tc.s.IsMoreSevereThan(tc.threshold); got != (tc.s < tc.threshold) {
				t.Errorf("IsMoreSevereThan = %v", got)
			}
		})
	}
}

func TestSeverityZeroValueIsError(t *testing.T) {
	var v Violation
	if v.Severity != SeverityError {
		t.Errorf("Zero value should be SeverityError, got %v", v.Severity)
	}
}
