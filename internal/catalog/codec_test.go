package catalog_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"catalogpress/internal/catalog"
	"catalogpress/internal/services"
)

func sampleRecord() catalog.Record {
	return catalog.Record{
		"name":    "Kafka",
		"element": "lightning",
		"stats": map[string]any{
			"hp":  float64(1086),
			"atk": float64(679),
		},
		"investment": map[string]any{
			"eidolons": []any{
				map[string]any{"penalty": float64(-5), "note": nil},
				map[string]any{"penalty": float64(0)},
			},
		},
		"limited": true,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleRecord()
	encoded, err := catalog.Encode("kafka", original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := catalog.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", decoded, original)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	first, err := catalog.Encode("kafka", sampleRecord())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := catalog.Encode("kafka", sampleRecord())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical output for identical records")
	}
}

func TestEncodeProducesTypedAssignment(t *testing.T) {
	encoded, err := catalog.Encode("silver-wolf", catalog.Record{"name": "Silver Wolf"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	text := string(encoded)
	if !strings.Contains(text, "export const silverWolf: Character = ") {
		t.Fatalf("missing typed assignment, got:\n%s", text)
	}
	if !strings.HasPrefix(text, "// Code generated") {
		t.Fatalf("missing generated header, got:\n%s", text)
	}
	if !strings.HasSuffix(strings.TrimRight(text, "\n"), ";") {
		t.Fatalf("assignment not terminated, got:\n%s", text)
	}
}

func TestDecodeRejectsMissingAssignment(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose", "this is not a canonical document"},
		{"unterminated", "export const kafka: Character = {\"name\": \"Kafka\"}"},
		{"wrong type annotation", "export const kafka: Weapon = {\"name\": \"Kafka\"};"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.Decode([]byte(tc.text))
			if !errors.Is(err, services.ErrMalformedDocument) {
				t.Fatalf("expected malformed document error, got %v", err)
			}
		})
	}
}

func TestDecodeRejectsInvalidLiteral(t *testing.T) {
	text := "export const kafka: Character = {not json};\n"
	_, err := catalog.Decode([]byte(text))
	if !errors.Is(err, services.ErrMalformedDocument) {
		t.Fatalf("expected malformed document error, got %v", err)
	}
}

func TestDecodeIgnoresLeadingHeader(t *testing.T) {
	text := "// Code generated by catalogpress. DO NOT EDIT.\n\nexport const kafka: Character = {\"name\": \"Kafka\"};\n"
	rec, err := catalog.Decode([]byte(text))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if rec["name"] != "Kafka" {
		t.Fatalf("unexpected record: %#v", rec)
	}
}
