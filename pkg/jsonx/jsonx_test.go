package jsonx

import (
	"errors"
	"testing"
)

func TestExtractObjectPlain(t *testing.T) {
	t.Parallel()

	out, err := ExtractObject(`{"location": "Paris", "guests": 2}`)
	if err != nil {
		t.Fatalf("ExtractObject() error = %v", err)
	}
	if out["location"] != "Paris" {
		t.Fatalf("unexpected location: %v", out["location"])
	}
	if out["guests"] != float64(2) {
		t.Fatalf("unexpected guests: %v", out["guests"])
	}
}

func TestExtractObjectFencedBlock(t *testing.T) {
	t.Parallel()

	raw := "Here are the parameters:\n```json\n{\"hotel_id\": \"hotel_1\"}\n```\nLet me know if that looks right."
	out, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject() error = %v", err)
	}
	if out["hotel_id"] != "hotel_1" {
		t.Fatalf("unexpected hotel_id: %v", out["hotel_id"])
	}
}

func TestExtractObjectBareFence(t *testing.T) {
	t.Parallel()

	raw := "```\n{\"query_type\": \"rewards\"}\n```"
	out, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject() error = %v", err)
	}
	if out["query_type"] != "rewards" {
		t.Fatalf("unexpected query_type: %v", out["query_type"])
	}
}

func TestExtractObjectEmbeddedInProse(t *testing.T) {
	t.Parallel()

	raw := `Sure! The extracted parameters are {"location": "Tokyo"} as requested.`
	out, err := ExtractObject(raw)
	if err != nil {
		t.Fatalf("ExtractObject() error = %v", err)
	}
	if out["location"] != "Tokyo" {
		t.Fatalf("unexpected location: %v", out["location"])
	}
}

func TestExtractObjectNoObject(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "I could not find any parameters.", "just } backwards {"} {
		if _, err := ExtractObject(raw); !errors.Is(err, ErrNoObject) {
			t.Fatalf("ExtractObject(%q) expected ErrNoObject, got %v", raw, err)
		}
	}
}
