// Package rules parses bag containment rules such as
//
//	light red bags contain 1 bright white bag, 2 muted yellow bags.
//	faded blue bags contain no other bags.
//
// into Rule values. Parsing is token based: every line must match the
// grammar exactly or a *LineError is returned.
package rules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Sentinel is the reserved bag type produced by "no other bags".
const Sentinel = "other"

// sentinelQuantity is the raw quantity paired with Sentinel.
const sentinelQuantity = "no"

const separator = " contain "

var (
	ErrMalformedRule   = errors.New("malformed rule")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrReservedBag     = errors.New("reserved bag type")
)

// Content is one (bag type, raw quantity) pair of a rule.
// Quantity is kept as written; use Count to convert it.
type Content struct {
	Bag      string `json:"bag"`
	Quantity string `json:"quantity"`
}

// Count returns the quantity as an integer.
func (c Content) Count() (int, error) {
	n, err := strconv.Atoi(c.Quantity)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q for %q", ErrInvalidQuantity, c.Quantity, c.Bag)
	}
	return n, nil
}

// IsSentinel reports whether c is the "no other" marker.
func (c Content) IsSentinel() bool {
	return c.Bag == Sentinel
}

// Rule is the containment declaration for one bag type.
type Rule struct {
	Bag      string    `json:"bag"`
	Contents []Content `json:"contents"`
}

// Empty reports whether the rule says the bag holds nothing.
func (r Rule) Empty() bool {
	return len(r.Contents) == 1 && r.Contents[0].IsSentinel()
}

// String renders the rule back in input form.
func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.Bag)
	sb.WriteString(" bags contain ")
	for i, c := range r.Contents {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Quantity)
		sb.WriteByte(' ')
		sb.WriteString(c.Bag)
		if c.Quantity == "1" {
			sb.WriteString(" bag")
		} else {
			sb.WriteString(" bags")
		}
	}
	sb.WriteByte('.')
	return sb.String()
}

// LineError annotates a parse failure with its 1-based line number.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseLine parses a single rule line.
func ParseLine(line string) (Rule, error) {
	outer, inner, ok := strings.Cut(line, separator)
	if !ok {
		return Rule{}, fmt.Errorf("%w: missing %q", ErrMalformedRule, strings.TrimSpace(separator))
	}

	bag, err := bagName(strings.Fields(outer))
	if err != nil {
		return Rule{}, err
	}
	if bag == Sentinel {
		return Rule{}, fmt.Errorf("%w: %q cannot be defined", ErrReservedBag, bag)
	}

	inner = strings.TrimSpace(inner)
	inner = strings.TrimSuffix(inner, ".")
	items := strings.Split(inner, ",")

	contents := make([]Content, 0, len(items))
	for _, item := range items {
		c, err := parseContent(item)
		if err != nil {
			return Rule{}, err
		}
		contents = append(contents, c)
	}

	for _, c := range contents {
		if c.IsSentinel() && len(contents) > 1 {
			return Rule{}, fmt.Errorf("%w: %q must be the only content", ErrReservedBag, Sentinel)
		}
	}

	return Rule{Bag: bag, Contents: contents}, nil
}

// parseContent handles "<qty> <words...> bag[s]".
func parseContent(item string) (Content, error) {
	tokens := strings.Fields(item)
	if len(tokens) < 3 {
		return Content{}, fmt.Errorf("%w: content %q", ErrMalformedRule, strings.TrimSpace(item))
	}

	qty := tokens[0]
	bag, err := bagName(tokens[1:])
	if err != nil {
		return Content{}, err
	}

	if qty == sentinelQuantity || bag == Sentinel {
		if qty != sentinelQuantity || bag != Sentinel {
			return Content{}, fmt.Errorf("%w: %q", ErrReservedBag, strings.TrimSpace(item))
		}
		return Content{Bag: Sentinel, Quantity: sentinelQuantity}, nil
	}

	c := Content{Bag: bag, Quantity: qty}
	if _, err := c.Count(); err != nil {
		return Content{}, err
	}
	return c, nil
}

// bagName drops the trailing "bag"/"bags" token and joins the rest.
func bagName(tokens []string) (string, error) {
	if len(tokens) < 2 {
		return "", fmt.Errorf("%w: bag type %q", ErrMalformedRule, strings.Join(tokens, " "))
	}
	last := tokens[len(tokens)-1]
	if last != "bag" && last != "bags" {
		return "", fmt.Errorf("%w: expected \"bag\" or \"bags\", got %q", ErrMalformedRule, last)
	}
	return strings.Join(tokens[:len(tokens)-1], " "), nil
}

// Parse parses every non-blank line in order.
func Parse(lines []string) ([]Rule, error) {
	var out []Rule
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseLine(line)
		if err != nil {
			return nil, &LineError{Line: i + 1, Text: line, Err: err}
		}
		out = append(out, r)
	}
	return out, nil
}

// ParseReader reads newline separated rules from r.
func ParseReader(r io.Reader) ([]Rule, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return Parse(lines)
}

// ParseFile reads and parses the rule file at path.
func ParseFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file %s: %w", path, err)
	}
	defer f.Close()
	return ParseReader(f)
}
