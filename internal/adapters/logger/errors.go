package logger

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager is an error that reports its own message without the chain.
// zerr errors and the domain failure types implement it.
type messager interface {
	Message() string
}

type metadataer interface {
	Metadata() map[string]any
}

type multiUnwrapper interface {
	Unwrap() []error
}

type unwrapper interface {
	Unwrap() error
}

// ErrorEntry is one line of a formatted error report.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
	Depth    int
}

// collectErrorEntries flattens err into report entries.
// Single-cause chains stay at one depth; the causes of a multi-cause error
// such as a failed parallel group are nested one level deeper.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	collect(err, 0, nil, &entries)
	return entries
}

func collect(err error, depth int, carry map[string]any, entries *[]ErrorEntry) {
	if err == nil {
		return
	}

	m, ok := err.(messager)
	if !ok {
		if multi, ok := err.(multiUnwrapper); ok {
			for i, child := range multi.Unwrap() {
				if i > 0 {
					carry = nil
				}
				collect(child, depth, carry, entries)
			}
			return
		}
		*entries = append(*entries, ErrorEntry{Message: err.Error(), Metadata: carry, Depth: depth})
		return
	}

	meta := carry
	if md, ok := err.(metadataer); ok {
		meta = mergeMetadata(carry, md.Metadata())
	}

	if m.Message() == "" {
		if u, ok := err.(unwrapper); ok && u.Unwrap() != nil {
			collect(u.Unwrap(), depth, meta, entries)
			return
		}
	}

	*entries = append(*entries, ErrorEntry{Message: m.Message(), Metadata: meta, Depth: depth})

	switch u := err.(type) {
	case multiUnwrapper:
		for _, child := range u.Unwrap() {
			collect(child, depth+1, nil, entries)
		}
	case unwrapper:
		collect(u.Unwrap(), depth, nil, entries)
	}
}

func mergeMetadata(carry, own map[string]any) map[string]any {
	if carry == nil {
		return own
	}
	out := maps.Clone(carry)
	maps.Copy(out, own)
	return out
}

// formatErrorEntries renders entries as:
//
//	Error: first message
//	       key: value
//
//	  Caused by:
//	    → cause
func formatErrorEntries(entries []ErrorEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, formatMetadata(entry.Metadata, "       ")...)
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		indent := "    " + strings.Repeat("  ", entry.Depth)
		lines = append(lines, indent+"→ "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+"  "+line)
		}
		lines = append(lines, formatMetadata(entry.Metadata, indent+"  ")...)
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(meta map[string]any, indent string) []string {
	if len(meta) == 0 {
		return nil
	}
	lines := make([]string, 0, len(meta))
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, meta[key]))
	}
	return lines
}
