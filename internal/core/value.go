// Package core contains the value types shared across the migration
// pipeline: raw source rows, the source configuration model, mapped
// component records, and the target relational schema. Every other
// package in this module depends on core; core depends on nothing else
// in this module.
package core

import (
	"fmt"
	"strings"
)

// Kind identifies the concrete variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindText
	KindBlob
)

// Value is the tagged union for a single database column value, exactly
// as returned by a DataSource backend: nulls are preserved, binary columns
// become Blob, everything else normalizes to Int/Real/Text.
type Value struct {
	kind Kind
	i    int64
	r    float64
	s    string
	b    []byte
}

func NullValue() Value          { return Value{kind: KindNull} }
func IntValue(v int64) Value    { return Value{kind: KindInt, i: v} }
func RealValue(v float64) Value { return Value{kind: KindReal, r: v} }
func TextValue(v string) Value  { return Value{kind: KindText, s: v} }
func BlobValue(v []byte) Value  { return Value{kind: KindBlob, b: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// String renders the canonical string conversion described in §9: trim,
// UTF-8, no NULs. It is the only way field resolution ever reads a Value.
func (v Value) String() string {
	var raw string
	switch v.kind {
	case KindNull:
		return ""
	case KindInt:
		raw = fmt.Sprintf("%d", v.i)
	case KindReal:
		raw = fmt.Sprintf("%g", v.r)
	case KindText:
		raw = v.s
	case KindBlob:
		raw = string(v.b)
	}
	return sanitizeString(raw)
}

// sanitizeString strips NULs and trims whitespace, the transformation
// ValidationError recovery (§7) also applies on retry.
func sanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// TruncateString applies the 255-char cap used by the ValidationError
// sanitize-and-retry recovery strategy.
func TruncateString(s string) string {
	s = sanitizeString(s)
	r := []rune(s)
	if len(r) <= 255 {
		return s
	}
	return string(r[:255])
}
