package http

import (
	"strings"
	"testing"
)

type hexProbe struct {
	ID string `validate:"required,hex32"`
}

type modeProbe struct {
	Mode string `validate:"required,closemode"`
}

func TestHex32Tag(t *testing.T) {
	cv := NewValidator()

	if err := cv.Validate(&hexProbe{ID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}

	bad := []string{
		"",
		"short",
		strings.Repeat("A", 32), // uppercase
		strings.Repeat("g", 32), // not hex
		strings.Repeat("a", 33),
	}
	for _, id := range bad {
		if err := cv.Validate(&hexProbe{ID: id}); err == nil {
			t.Fatalf("id %q must be rejected", id)
		}
	}
}

func TestCloseModeTag(t *testing.T) {
	cv := NewValidator()

	for _, mode := range []string{"settlement", "forgiveness"} {
		if err := cv.Validate(&modeProbe{Mode: mode}); err != nil {
			t.Fatalf("mode %q rejected: %v", mode, err)
		}
	}
	for _, mode := range []string{"", "writeoff", "SETTLEMENT"} {
		if err := cv.Validate(&modeProbe{Mode: mode}); err == nil {
			t.Fatalf("mode %q must be rejected", mode)
		}
	}
}

func TestToFieldErrors_MapsMessages(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&hexProbe{ID: ""})
	if err == nil {
		t.Fatal("want validation error")
	}
	details := ToFieldErrors(err)
	if !containsFieldMsg(details, "ID", "required") {
		t.Fatalf("details = %+v", details)
	}
}
