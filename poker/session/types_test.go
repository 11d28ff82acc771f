package session

import "testing"

func TestNumericValue(t *testing.T) {
	tests := []struct {
		card    string
		want    float64
		numeric bool
	}{
		{"0", 0, true},
		{"0.5", 0.5, true},
		{"5", 5, true},
		{"13", 13, true},
		{"100", 100, true},
		{CardInfinity, 0, false},
		{CardUnknown, 0, false},
		{"XL", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := NumericValue(tt.card)
		if ok != tt.numeric {
			t.Errorf("NumericValue(%q) numeric = %v, want %v", tt.card, ok, tt.numeric)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("NumericValue(%q) = %v, want %v", tt.card, got, tt.want)
		}
	}
}
