package puzzle

import (
	"math/rand"
	"strings"
	"testing"
)

func TestMatchTolerance(t *testing.T) {
	p := NewArithmetic(rand.New(rand.NewSource(1)))
	cases := []struct {
		given, expected string
		want            bool
	}{
		{"42", "42", true},
		{"  42  ", "42", true},
		{"Forty", "forty", true},
		{"41", "42", false},
		{"", "42", false},
		{"anything", "", false}, // empty expected marks "no outstanding puzzle"
		{"", "", false},
	}
	for _, c := range cases {
		if got := p.Match(c.given, c.expected); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.given, c.expected, got, c.want)
		}
	}
}

func TestNextProducesAnswerableQuestions(t *testing.T) {
	p := NewArithmetic(rand.New(rand.NewSource(7)))
	for i := 0; i < 100; i++ {
		pz := p.Next()
		if !strings.HasSuffix(pz.Question, "= ?") {
			t.Fatalf("question %q has unexpected shape", pz.Question)
		}
		if pz.Answer == "" {
			t.Fatalf("puzzle %q has empty answer", pz.Question)
		}
		if !p.Match(pz.Answer, pz.Answer) {
			t.Fatalf("answer %q does not match itself", pz.Answer)
		}
	}
}
