package sharecode

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantLen int
	}{
		{"default on zero", 0, DefaultLength},
		{"default on negative", -3, DefaultLength},
		{"explicit length", 8, 8},
		{"long", 32, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Generate(tt.length)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(code) != tt.wantLen {
				t.Fatalf("len=%d want=%d", len(code), tt.wantLen)
			}
			for _, r := range code {
				if !strings.ContainsRune(alphabet, r) {
					t.Fatalf("character %q outside alphabet", r)
				}
			}
		})
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := Generate(8)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		seen[code] = true
	}
	// 50 draws from 36^8 colliding down to a handful would mean a broken
	// random source.
	if len(seen) < 45 {
		t.Fatalf("only %d distinct codes out of 50", len(seen))
	}
}
