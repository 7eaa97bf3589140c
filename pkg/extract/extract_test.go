package extract

import (
	"context"
	"errors"
	"testing"
)

func TestPipelineEndToEnd(t *testing.T) {
	eng := &stubEngine{fn: func(int, PassConfig) (string, error) {
		return "booking confirmed court: 14 date: 09/03/2025 time: 19:00-20:00", nil
	}}
	p := NewPipeline(DefaultConfig(), eng)
	info, combined, err := p.ExtractFromBytes(context.Background(), testImageBytes(t), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := BookingInfo{Date: "09/03/2025", Time: "19:00-20:00", Court: "14"}
	if info != want {
		t.Fatalf("got %+v want %+v", info, want)
	}
	if combined == "" {
		t.Fatal("diagnostic combined text must be returned")
	}
	wantCalls := len(p.Config().Transforms) * len(p.Config().Passes)
	if eng.callCount() != wantCalls {
		t.Fatalf("engine called %d times want %d (variants x configs)", eng.callCount(), wantCalls)
	}
}

func TestPipelineDecodeErrorSkipsOCR(t *testing.T) {
	eng := &stubEngine{fn: func(int, PassConfig) (string, error) {
		return "should never run", nil
	}}
	p := NewPipeline(DefaultConfig(), eng)
	_, _, err := p.ExtractFromBytes(context.Background(), []byte("garbage"), "")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if eng.callCount() != 0 {
		t.Fatalf("no OCR pass may run on an undecodable image, got %d calls", eng.callCount())
	}
}

func TestPipelineNoText(t *testing.T) {
	eng := &stubEngine{fn: func(int, PassConfig) (string, error) {
		return " ", nil
	}}
	p := NewPipeline(DefaultConfig(), eng)
	_, _, err := p.ExtractFromBytes(context.Background(), testImageBytes(t), "")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestPipelineHintFallback(t *testing.T) {
	eng := &stubEngine{fn: func(int, PassConfig) (string, error) {
		return "your reservation has been approved", nil
	}}
	p := NewPipeline(DefaultConfig(), eng)
	info, _, err := p.ExtractFromBytes(context.Background(), testImageBytes(t), "court 7 confirmed")
	if err != nil {
		t.Fatal(err)
	}
	if info.Court != "7" {
		t.Fatalf("court %q want 7 via hint", info.Court)
	}
}

func TestPipelinePartialResult(t *testing.T) {
	eng := &stubEngine{fn: func(int, PassConfig) (string, error) {
		return "court: 14 date: 09/03/2025 and nothing more", nil
	}}
	p := NewPipeline(DefaultConfig(), eng)
	info, _, err := p.ExtractFromBytes(context.Background(), testImageBytes(t), "")
	if err != nil {
		t.Fatalf("partial extraction is a result, not an error: %v", err)
	}
	if info.Complete() {
		t.Fatal("expected partial info")
	}
	if m := info.Missing(); len(m) != 1 || m[0] != "time" {
		t.Fatalf("missing %v want [time]", m)
	}
}
