package printer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDocumentRowAlignsLastColumnRight(t *testing.T) {
	doc := NewDocument(20)
	doc.Row([]int{-1, 4, 6}, "Paracetamol", "3", "336.00")

	out := string(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'}))
	// the open column gets 20-4-6 runes
	want := "Paracetamo3   336.00\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestDocumentTextWraps(t *testing.T) {
	doc := NewDocument(10)
	doc.Text("Sri Lakshmi Medical Stores")
	out := string(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'}))
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if len([]rune(line)) > 10 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
	if !strings.Contains(out, "Lakshmi") {
		t.Fatalf("word split unexpectedly: %q", out)
	}
}

func TestKeyValueFillsWidth(t *testing.T) {
	doc := NewDocument(16)
	doc.KeyValue("TOTAL:", "112.00")
	out := string(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'}))
	if out != "TOTAL:    112.00\n" {
		t.Fatalf("got %q", out)
	}
}

func TestNewPrinterFromConfig(t *testing.T) {
	if _, err := NewPrinterFromConfig(TypeUSB, ""); err == nil {
		t.Error("usb without path should fail")
	}
	if _, err := NewPrinterFromConfig("laser", "x"); err == nil {
		t.Error("unknown type should fail")
	}
	p, err := NewPrinterFromConfig("", "")
	if err != nil || p.IsConnected(context.Background()) {
		t.Errorf("none printer: %v", err)
	}
}

func TestFilePrinterSpoolsJobs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")
	p := NewFilePrinter(dir)
	if err := p.Print(context.Background(), []byte("receipt")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("entries=%v err=%v", entries, err)
	}
	if !p.IsConnected(context.Background()) {
		t.Error("spool dir exists, printer should report connected")
	}
}
