package format

import (
	"fmt"
	"strings"
)

// DefaultParsers returns the built-in parsers in detection priority order.
// The fallback parser is always last and accepts anything.
func DefaultParsers(opts ...Option) []Parser {
	return []Parser{
		NewStructuredParser(opts...),
		NewAccessLogParser(opts...),
		NewFallbackParser(opts...),
	}
}

// Detect returns the first parser, in list order, that can parse at least
// one of the sampled entries. With no match it returns the list's fallback
// parser, or a fresh one when the list has none.
func Detect(sample []string, parsers []Parser) Parser {
	for _, p := range parsers {
		for _, entry := range sample {
			if p.CanParse(entry) {
				return p
			}
		}
	}
	return fallbackOf(parsers)
}

// Lookup returns the parser with the given name (case-insensitive).
func Lookup(name string, parsers []Parser) (Parser, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range parsers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown format: %s (available: %s)", name, strings.Join(Names(parsers), ", "))
}

// Names lists parser names in priority order.
func Names(parsers []Parser) []string {
	names := make([]string, len(parsers))
	for i, p := range parsers {
		names[i] = p.Name()
	}
	return names
}

func fallbackOf(parsers []Parser) Parser {
	for _, p := range parsers {
		if p.Name() == NameFallback {
			return p
		}
	}
	return NewFallbackParser()
}
