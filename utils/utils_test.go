package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"payment.png", "payment.png"},
		{"UPI Payment.PNG", "UPI-Payment.png"},
		{"Paiement reçu.jpeg", "Paiement-recu.jpeg"},
		{"Straße.png", "Strasse.png"},
		{"../../etc/passwd", "etcpasswd"},
		{"   ", "upload"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := SafeFilename(tt.in); got != tt.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeFilenameIsASCII(t *testing.T) {
	for _, in := range []string{"UPI ₹500 रसीद.png", "スクリーンショット.png", "😀.jpg"} {
		for _, r := range SafeFilename(in) {
			if r > 127 {
				t.Errorf("SafeFilename(%q) kept %q", in, r)
			}
		}
	}
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStorage(root, "/uploads/")

	url, err := s.Put(ctx, "payments/1_abc_pay.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/uploads/payments/1_abc_pay.png" {
		t.Fatalf("url = %s", url)
	}
	if _, err := os.Stat(filepath.Join(root, "payments", "1_abc_pay.png")); err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if _, err := s.Put(ctx, "other/readme.txt", []byte("x"), "text/plain"); err != nil {
		t.Fatal(err)
	}

	objs, err := s.List(ctx, "payments/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 || objs[0].Key != "payments/1_abc_pay.png" || objs[0].Size != 3 {
		t.Fatalf("objects = %+v", objs)
	}

	if err := s.Delete(ctx, "payments/1_abc_pay.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "payments/1_abc_pay.png"); err != nil {
		t.Fatalf("Delete of missing file: %v", err)
	}
	if objs, _ := s.List(ctx, "payments/"); len(objs) != 0 {
		t.Fatalf("objects after delete = %+v", objs)
	}
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/uploads")
	for _, key := range []string{"../escape.png", "/abs.png", "."} {
		if _, err := s.Put(context.Background(), key, []byte("x"), "image/png"); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestLocalStorageListMissingRoot(t *testing.T) {
	s := NewLocalStorage(filepath.Join(t.TempDir(), "missing"), "/uploads")
	objs, err := s.List(context.Background(), "payments/")
	if err != nil || len(objs) != 0 {
		t.Fatalf("List on missing root = %v, %v", objs, err)
	}
}
