package wake

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/iliyamo/smart-alarm/internal/model"
)

func TestGenerateStaysInsideWindow(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	start := model.TimeOfDay(7 * 60)       // 07:00
	end := model.TimeOfDay(7*60 + 30)      // 07:30
	seen := make(map[model.TimeOfDay]bool) // coverage of the inclusive span

	for i := 0; i < 5000; i++ {
		got, err := Generate(r, start, end)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if got < start || got > end {
			t.Fatalf("instant %s outside [%s, %s]", got, start, end)
		}
		seen[got] = true
	}
	// With 5000 draws over 31 minutes every minute, including both
	// endpoints, should have come up.
	if !seen[start] || !seen[end] {
		t.Errorf("bounds not inclusive: start=%v end=%v", seen[start], seen[end])
	}
}

func TestGenerateZeroWidthWindow(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	at := model.TimeOfDay(6 * 60)
	got, err := Generate(r, at, at)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != at {
		t.Errorf("zero-width window: got %s, want %s", got, at)
	}
}

func TestGenerateRejectsInvertedWindow(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	_, err := Generate(r, model.TimeOfDay(8*60), model.TimeOfDay(7*60))
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestGenerateIsDeterministicPerSource(t *testing.T) {
	a, _ := Generate(rand.New(rand.NewSource(99)), 420, 450)
	b, _ := Generate(rand.New(rand.NewSource(99)), 420, 450)
	if a != b {
		t.Errorf("same seed produced %s and %s", a, b)
	}
}
