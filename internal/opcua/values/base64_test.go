package values

import (
	"bytes"
	"testing"
)

func TestBase64RoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("f"),
		[]byte("fo"),
		[]byte("foo"),
		[]byte("foob"),
		[]byte("fooba"),
		[]byte("foobar"),
		bytes.Repeat([]byte{0xFF, 0x00, 0x7A}, 37),
	}
	for _, in := range cases {
		enc := Base64Encode(in)
		dec, err := Base64Decode(enc)
		if err != nil {
			t.Fatalf("decode(%q) error: %v", enc, err)
		}
		if !bytes.Equal(dec, in) {
			t.Fatalf("round-trip mismatch: in=%v out=%v enc=%q", in, dec, enc)
		}
	}
}

func TestBase64KnownVectors(t *testing.T) {
	vectors := map[string]string{
		"":       "",
		"f":      "Zg==",
		"fo":     "Zm8=",
		"foo":    "Zm9v",
		"foob":   "Zm9vYg==",
		"fooba":  "Zm9vYmE=",
		"foobar": "Zm9vYmFy",
	}
	for plain, want := range vectors {
		if got := Base64Encode([]byte(plain)); got != want {
			t.Errorf("Base64Encode(%q) = %q, want %q", plain, got, want)
		}
	}
}

func TestBase64SkipsWhitespace(t *testing.T) {
	dec, err := Base64Decode("Zm9v\nYmFy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(dec) != "foobar" {
		t.Fatalf("got %q, want foobar", dec)
	}
}

func TestBase64TerminatesAtPadding(t *testing.T) {
	dec, err := Base64Decode("Zm8=garbage")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(dec) != "fo" {
		t.Fatalf("got %q, want fo", dec)
	}
}

func TestBase64InvalidCharacterFails(t *testing.T) {
	if _, err := Base64Decode("Zm9v!"); err == nil {
		t.Fatal("expected error for invalid character, got nil")
	}
}

func TestBase64TruncatedQuantumFails(t *testing.T) {
	if _, err := Base64Decode("Z"); err == nil {
		t.Fatal("expected error for truncated final quantum, got nil")
	}
}
