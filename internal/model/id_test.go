package model

import (
	"errors"
	"testing"
)

func TestNewIDIsParseable(t *testing.T) {
	id := NewID()
	got, err := ParseID(id)
	if err != nil {
		t.Fatalf("ParseID(%q) unexpected error: %v", id, err)
	}
	if got != id {
		t.Errorf("ParseID(%q) = %q, want identity", id, got)
	}
}

func TestNewIDOrdered(t *testing.T) {
	a, b := NewID(), NewID()
	if a >= b {
		t.Errorf("NewID() not increasing: %q then %q", a, b)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "61F1A780D418AB0000C0000F", want: "61f1a780d418ab0000c0000f"},
		{in: "no-such-id", wantErr: true},
		{in: "61f1a780d418xx0000x0000x", wantErr: true},
		{in: "", wantErr: true},
		{in: "61f1a780d418ab0000c0000f0", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedID) {
				t.Errorf("ParseID(%q) error = %v, want ErrMalformedID", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseID(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
