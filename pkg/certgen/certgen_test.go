package certgen

import (
	"bytes"
	"testing"
	"time"
)

func TestRenderProducesPNG(t *testing.T) {
	r, err := NewRenderer("")
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	data, err := r.Render("Ada Lovelace", "Cloud Essentials", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty artifact")
	}

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("artifact must be a png, got leading bytes %v", data[:4])
	}
}

func TestNewRendererMissingFont(t *testing.T) {
	if _, err := NewRenderer("/nonexistent/font.ttf"); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}
