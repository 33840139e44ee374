package utils

import (
	"regexp"
	"strconv"
	"testing"
)

func TestGenerateVerificationCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatalf("GenerateVerificationCode failed: %v", err)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric", code)
		}
		if n < 100 || n > 999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestSuggestUsername(t *testing.T) {
	got, err := SuggestUsername(" Sam C! ")
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^samc_\d{4}$`).MatchString(got) {
		t.Errorf("unexpected suggestion %q", got)
	}

	got, err = SuggestUsername("")
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^[a-z]+_[a-z]+_\d{4}$`).MatchString(got) {
		t.Errorf("unexpected suggestion %q", got)
	}
}

func TestCountWords(t *testing.T) {
	cases := map[string]int{
		"":                    0,
		"   ":                 0,
		"one":                 1,
		"two  words\nhere\t!": 4,
	}
	for in, want := range cases {
		if got := CountWords(in); got != want {
			t.Errorf("CountWords(%q) = %d, want %d", in, got, want)
		}
	}
}

func BenchmarkGenerateVerificationCode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GenerateVerificationCode()
	}
}
