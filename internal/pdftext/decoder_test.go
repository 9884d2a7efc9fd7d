package pdftext

import (
	"context"
	"errors"
	"testing"
)

type stubRunner struct {
	out   string
	err   error
	calls [][]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if s.err != nil {
		return nil, []byte("boom"), s.err
	}
	return []byte(s.out), nil, nil
}

const poText = "ORDEN DE COMPRA 4517984961\r\nA:\r\nAcme Corp\r\n\f10 Servicio\n01.02.2024 11.000 DIA 5,221.82 57,439.00\n"

func TestDecodeWithPdftotext(t *testing.T) {
	r := &stubRunner{out: poText}
	d, err := NewDecoder(Config{Decoders: []string{MethodPdftotext}, Layout: true, TempDir: t.TempDir()}, nil, WithRunner(r))
	if err != nil {
		t.Fatal(err)
	}
	res, err := d.Decode(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.Method != MethodPdftotext || res.Pages != 2 {
		t.Errorf("Method = %q Pages = %d", res.Method, res.Pages)
	}
	want := "ORDEN DE COMPRA 4517984961\nA:\nAcme Corp\n\n10 Servicio\n01.02.2024 11.000 DIA 5,221.82 57,439.00\n"
	if res.Text != want {
		t.Errorf("Text = %q", res.Text)
	}
	if len(r.calls) != 1 || r.calls[0][0] != "pdftotext" || r.calls[0][1] != "-layout" {
		t.Errorf("calls = %v", r.calls)
	}
}

func TestDecodeAllStrategiesFail(t *testing.T) {
	r := &stubRunner{err: errors.New("exit status 1")}
	d, err := NewDecoder(Config{Decoders: []string{MethodPdftotext}, TempDir: t.TempDir()}, nil, WithRunner(r))
	if err != nil {
		t.Fatal(err)
	}
	res, err := d.Decode(context.Background(), []byte("%PDF-1.4"))
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("Decode() error = %v, want ErrNoText", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected warnings from the failed strategy")
	}
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	d, err := NewDecoder(Config{}, nil, WithRunner(&stubRunner{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Decode(context.Background(), nil); err == nil {
		t.Error("Decode(nil) succeeded")
	}
}

func TestNewDecoderUnknownStrategy(t *testing.T) {
	if _, err := NewDecoder(Config{Decoders: []string{"ocr"}}, nil); err == nil {
		t.Error("unknown decoder accepted")
	}
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("hello")
	high := heuristicConfidence(poText + "\n\n\n\n\n\n\n\nFacturar a: X\n")
	if low >= high {
		t.Errorf("confidence low=%v high=%v", low, high)
	}
	if high < acceptConfidence {
		t.Errorf("purchase order text scored %v, below accept threshold", high)
	}
}
