// Package textenc is the Encoding facility binspec treats as an external
// collaborator: conversion between byte slices and text for the `string`
// field's `encoding` option. Wraps golang.org/x/text so named encodings
// beyond UTF-8 (UTF-16, the ISO-8859 family, windows code pages, ...)
// are available by the same name a schema author would write in a
// string field's Encoding option (e.g. "iso-8859-1").
package textenc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultName is used when a string field omits the `encoding` option.
const DefaultName = "utf-8"

// Lookup resolves a named encoding. Empty name and "utf-8" (any casing)
// both resolve to strict UTF-8, which requires no transformation and is
// the hot path for the common case.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultName
	}

	if strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("textenc: unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decode converts raw bytes to text using the named encoding.
func Decode(name string, raw []byte) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		return string(raw), nil
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("textenc: decode with %q: %w", name, err)
	}
	return string(out), nil
}

// Encode converts text to raw bytes using the named encoding.
func Encode(name string, text string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(text), nil
	}

	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("textenc: encode with %q: %w", name, err)
	}
	return out, nil
}
