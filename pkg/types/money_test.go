package types

import "testing"

func TestParseCents(t *testing.T) {
	tests := []struct {
		input   string
		want    Cents
		wantErr bool
	}{
		{input: "249.99", want: 24999},
		{input: "0", want: 0},
		{input: "1500", want: 150000},
		{input: "83.3", want: 8330},
		{input: "0.001", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCents(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseCents(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCents(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCents(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestCentsString(t *testing.T) {
	if got := Cents(24999).String(); got != "249.99" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := Cents(50).String(); got != "0.50" {
		t.Fatalf("unexpected string %q", got)
	}
}
