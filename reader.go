package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const undecodableContent = "ERROR: Could not decode file with any encoding"

// textDecoder is one attempt at turning raw bytes into text.
type textDecoder struct {
	name   string
	decode func([]byte) (string, bool)
}

// decoders are tried in order; the first one that accepts the bytes wins.
var decoders = []textDecoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "latin-1", decode: decodeLatin1},
	{name: "windows-1252", decode: decodeWindows1252},
	{name: "iso-8859-1", decode: decodeISO88591},
}

func decodeUTF8(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// decodeLatin1 refuses C1 control bytes, which in practice mean the file is
// Windows-1252 rather than Latin-1 text.
func decodeLatin1(b []byte) (string, bool) {
	for _, c := range b {
		if c >= 0x80 && c <= 0x9f {
			return "", false
		}
	}
	return decodeISO88591(b)
}

// decodeWindows1252 refuses the five byte values the code page leaves undefined.
func decodeWindows1252(b []byte) (string, bool) {
	for _, c := range b {
		switch c {
		case 0x81, 0x8d, 0x8f, 0x90, 0x9d:
			return "", false
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeISO88591(b []byte) (string, bool) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// decodeText runs the decoder chain over raw file bytes.
func decodeText(b []byte) (string, string, bool) {
	for _, d := range decoders {
		if text, ok := d.decode(b); ok {
			return text, d.name, true
		}
	}
	return "", "", false
}

// newlineReplacer turns CRLF and lone CR line endings into LF. CRLF is listed
// first so it wins over the bare CR.
var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeNewlines gives every line the same LF terminator.
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	return newlineReplacer.Replace(text)
}

// readFileSafely returns the file as text with LF line endings. Failures come
// back as a sentinel string in place of the content so one bad file never
// stops a run.
func readFileSafely(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("ERROR READING FILE: %v", err)
	}
	text, _, ok := decodeText(raw)
	if !ok {
		return undecodableContent
	}
	return normalizeNewlines(text)
}
