package config

import "testing"

func TestRulesConfig_IsEnabled(t *testing.T) {
	rc := &RulesConfig{
		Include: []string{"checkstyle/puzzle-format"},
		Exclude: []string{"checkstyle/*", "xml/canonical-format"},
	}

	tests := []struct {
		code string
		want *bool
	}{
		{"checkstyle/puzzle-format", boolPtr(true)},
		{"checkstyle/brackets-structure", boolPtr(false)},
		{"xml/canonical-format", boolPtr(false)},
		{"pmd/UnusedImports", nil},
	}
	for _, tt := range tests {
		got := rc.IsEnabled(tt.code)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("IsEnabled(%q) = %v, want nil", tt.code, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("IsEnabled(%q) = %v, want %v", tt.code, got, *tt.want)
		}
	}

	var nilRC *RulesConfig
	if nilRC.IsEnabled("checkstyle/puzzle-format") != nil {
		t.Error("nil RulesConfig should not decide")
	}
}

func TestRulesConfig_SetGet(t *testing.T) {
	var rc RulesConfig
	if !rc.Set("xml/canonical-format", RuleConfig{Severity: "warning", Exclude: ExcludeConfig{Paths: []string{"pom.xml"}}}) {
		t.Fatal("Set returned false for known namespace")
	}
	if rc.Set("unknown/rule", RuleConfig{}) {
		t.Error("Set returned true for unknown namespace")
	}
	if got := rc.GetSeverity("xml/canonical-format"); got != "warning" {
		t.Errorf("GetSeverity = %q", got)
	}

	paths := rc.GetExcludePaths("xml/canonical-format")
	paths[0] = "mutated"
	if rc.GetExcludePaths("xml/canonical-format")[0] != "pom.xml" {
		t.Error("GetExcludePaths must return a copy")
	}
	if rc.Get("checkstyle/puzzle-format") != nil {
		t.Error("Get returned config for unset rule")
	}
}

func TestRulesConfig_GetOptions(t *testing.T) {
	rc := RulesConfig{Checkstyle: map[string]RuleConfig{
		"cascade-indentation": {Options: map[string]any{"step": 2}},
	}}
	opts := rc.GetOptions("checkstyle/cascade-indentation")
	opts["step"] = 8
	if rc.GetOptions("checkstyle/cascade-indentation")["step"] != 2 {
		t.Error("GetOptions must return a copy")
	}
	if rc.GetOptions("checkstyle/javadoc-location") != nil {
		t.Error("GetOptions returned options for unset rule")
	}
}
