package memory

import "testing"

func TestIsValidTableName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Valid standard", "research_insights", true},
		{"Valid with underscore", "my_insights", true},
		{"Valid with numbers", "insights123", true},
		{"Valid short", "a", true},
		{"Invalid start with number", "1insights", false},
		{"Invalid special chars", "insights-table", false},
		{"Invalid space", "insights table", false},
		{"Invalid SQL injection", "users; DROP TABLE insights", false},
		{"Invalid empty", "", false},
		{"Invalid too long", "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789__", false}, // 64 chars
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidTableName(tt.input); got != tt.expected {
				t.Errorf("isValidTableName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
