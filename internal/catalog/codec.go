package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"catalogpress/internal/services"
)

const generatedHeader = "// Code generated by catalogpress. DO NOT EDIT.\n"

// recordType is the type annotation carried by every canonical document.
const recordType = "Character"

// assignmentPattern matches the single typed assignment a canonical document
// holds. The captured group is the record literal, which is data-only JSON:
// decoding extracts and parses it structurally instead of evaluating the
// document as code.
var assignmentPattern = regexp.MustCompile(`(?s)export const [A-Za-z_$][A-Za-z0-9_$]*: ` + recordType + ` = (.*);\s*$`)

// Encode renders the canonical textual form of a record: a generated-file
// header followed by one named, typed assignment whose value is a
// stable-field-ordered JSON literal. Quoted-key JSON is valid object-literal
// syntax, so the output is itself a source unit the downstream build consumes
// unchanged.
func Encode(targetID string, rec Record) ([]byte, error) {
	if rec == nil {
		return nil, services.Wrap(services.ErrValidation, "codec", "encode", "record is nil", nil)
	}
	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "codec", "encode", "record is not serializable", err)
	}

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "export const %s: %s = %s;\n", identifierFor(targetID), recordType, body)
	return buf.Bytes(), nil
}

// Decode extracts the assigned record literal from a canonical document and
// materializes it. It fails with a malformed-document error when the expected
// assignment pattern is missing or the literal does not parse.
func Decode(text []byte) (Record, error) {
	match := assignmentPattern.FindSubmatch(text)
	if match == nil {
		return nil, services.Wrap(services.ErrMalformedDocument, "codec", "decode", "canonical assignment statement not found", nil)
	}

	var rec Record
	if err := json.Unmarshal(match[1], &rec); err != nil {
		return nil, services.Wrap(services.ErrMalformedDocument, "codec", "decode", "record literal does not parse", err)
	}
	return rec, nil
}

// identifierFor derives a valid source identifier from a target id:
// hyphen-separated words become camelCase, anything else is stripped.
func identifierFor(targetID string) string {
	words := strings.FieldsFunc(targetID, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "record"
	}
	var b strings.Builder
	for i, word := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(word))
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	ident := b.String()
	if unicode.IsDigit(rune(ident[0])) {
		ident = "_" + ident
	}
	return ident
}
