package ast

import "testing"

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MergeStrategy
		wantErr bool
	}{
		{name: "override", input: "override", want: StrategyOverride},
		{name: "union", input: "union", want: StrategyUnion},
		{name: "intersection", input: "intersection", want: StrategyIntersection},
		{name: "priority", input: "priority", want: StrategyPriority},
		{name: "priority-based alias", input: "priority-based", want: StrategyPriority},
		{name: "mixed case", input: "Union", want: StrategyUnion},
		{name: "surrounding whitespace", input: "  override  ", want: StrategyOverride},
		{name: "empty parses to unset", input: "", want: StrategyUnset},
		{name: "unknown strategy", input: "concat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStrategy(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) error = %v, want nil", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitAnnotation(t *testing.T) {
	tests := []struct {
		name         string
		rawKey       string
		wantName     string
		wantStrategy MergeStrategy
		wantErr      bool
	}{
		{name: "no annotation", rawKey: "scopes", wantName: "scopes", wantStrategy: StrategyUnset},
		{name: "union annotation", rawKey: "scopes@union", wantName: "scopes", wantStrategy: StrategyUnion},
		{name: "priority annotation", rawKey: "rate@priority", wantName: "rate", wantStrategy: StrategyPriority},
		{name: "empty annotation", rawKey: "scopes@", wantErr: true},
		{name: "unknown annotation", rawKey: "scopes@concat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, strategy, err := SplitAnnotation(tt.rawKey)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SplitAnnotation(%q) error = nil, want error", tt.rawKey)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitAnnotation(%q) error = %v, want nil", tt.rawKey, err)
			}
			if name != tt.wantName {
				t.Errorf("SplitAnnotation(%q) name = %q, want %q", tt.rawKey, name, tt.wantName)
			}
			if strategy != tt.wantStrategy {
				t.Errorf("SplitAnnotation(%q) strategy = %q, want %q", tt.rawKey, strategy, tt.wantStrategy)
			}
		})
	}
}
