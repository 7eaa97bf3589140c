package extract

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubEngine scripts OCR outputs per call, in call order.
type stubEngine struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, pass PassConfig) (string, error)
}

func (s *stubEngine) Recognize(ctx context.Context, img image.Image, pass PassConfig) (string, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	return s.fn(n, pass)
}

func (s *stubEngine) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fakeVariants(n int) []Variant {
	v := make([]Variant, n)
	for i := range v {
		v[i] = Variant{Label: "fake"}
	}
	return v
}

func onePass(cfg Config) Config {
	cfg.Passes = []PassConfig{{Label: "full"}}
	return cfg
}

func TestRecognizeJoinsSurvivors(t *testing.T) {
	eng := &stubEngine{fn: func(call int, pass PassConfig) (string, error) {
		switch call {
		case 1:
			return "first pass output text", nil
		case 2:
			return "short", nil // below threshold, dropped
		default:
			return "third pass output text", nil
		}
	}}
	combined, err := Recognize(context.Background(), eng, fakeVariants(3), onePass(DefaultConfig()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "first pass output text\nthird pass output text"
	if combined != want {
		t.Fatalf("combined %q want %q", combined, want)
	}
}

func TestRecognizeAllSubThreshold(t *testing.T) {
	eng := &stubEngine{fn: func(int, PassConfig) (string, error) {
		return "tiny", nil
	}}
	_, err := Recognize(context.Background(), eng, fakeVariants(4), onePass(DefaultConfig()))
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestRecognizePassFailureSkipped(t *testing.T) {
	eng := &stubEngine{fn: func(call int, pass PassConfig) (string, error) {
		if call == 1 {
			return "", errors.New("engine crashed")
		}
		return "surviving pass output text", nil
	}}
	combined, err := Recognize(context.Background(), eng, fakeVariants(2), onePass(DefaultConfig()))
	if err != nil {
		t.Fatalf("one failed pass must not abort the batch: %v", err)
	}
	if combined != "surviving pass output text" {
		t.Fatalf("combined %q", combined)
	}
}

func TestRecognizeAllPassesFail(t *testing.T) {
	eng := &stubEngine{fn: func(int, PassConfig) (string, error) {
		return "", errors.New("engine crashed")
	}}
	_, err := Recognize(context.Background(), eng, fakeVariants(3), onePass(DefaultConfig()))
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestRecognizeBudgetKeepsCollected(t *testing.T) {
	eng := &stubEngine{fn: func(call int, pass PassConfig) (string, error) {
		time.Sleep(40 * time.Millisecond)
		return "output of a slow pass", nil
	}}
	cfg := onePass(DefaultConfig())
	cfg.Budget = 60 * time.Millisecond
	combined, err := Recognize(context.Background(), eng, fakeVariants(10), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.callCount() >= 10 {
		t.Fatalf("budget did not cut the loop, %d calls", eng.callCount())
	}
	if !strings.Contains(combined, "output of a slow pass") {
		t.Fatalf("collected outputs must be kept, got %q", combined)
	}
}

func TestRecognizePassOrder(t *testing.T) {
	var got []string
	var mu sync.Mutex
	eng := &stubEngine{fn: func(call int, pass PassConfig) (string, error) {
		mu.Lock()
		got = append(got, pass.Label)
		mu.Unlock()
		return "some meaningful text", nil
	}}
	cfg := DefaultConfig()
	cfg.Passes = []PassConfig{{Label: "full"}, {Label: "digits"}}
	if _, err := Recognize(context.Background(), eng, fakeVariants(2), cfg); err != nil {
		t.Fatal(err)
	}
	want := []string{"full", "digits", "full", "digits"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("pass order %v want %v", got, want)
	}
}
