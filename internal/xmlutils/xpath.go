// Package xmlutils provides XML-related utility functions used by the XML
// statement extractors.
package xmlutils

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// ParseXML parses an XML document and returns its root node.
// The whole document is read from r; the caller keeps ownership of r.
func ParseXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// Has reports whether xpath matches anything under node.
// It returns an error only when the expression does not compile.
func Has(node *xmlpath.Node, xpath string) (bool, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return false, fmt.Errorf("failed to compile XPath: %w", err)
	}
	return path.Exists(node), nil
}

// Nodes returns every node matched by xpath, in document order.
// Paths without a leading "/" are evaluated relative to node.
func Nodes(node *xmlpath.Node, xpath string) ([]*xmlpath.Node, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}
	var nodes []*xmlpath.Node
	iter := path.Iter(node)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes, nil
}

// ExtractFromXML extracts values from an XML node using an XPath expression.
// Values are the raw text of each match; use CleanText to normalize them.
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	nodes, err := Nodes(root, xpath)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, n.String())
	}
	return values, nil
}

// FirstOf returns the first non-blank value found by trying xpaths in order.
// Values are cleaned with CleanText. Expressions that fail to compile are
// skipped, and an empty string means nothing matched.
func FirstOf(node *xmlpath.Node, xpaths ...string) string {
	for _, xpath := range xpaths {
		values, err := ExtractFromXML(node, xpath)
		if err != nil {
			continue
		}
		for _, v := range values {
			if clean := CleanText(v); clean != "" {
				return clean
			}
		}
	}
	return ""
}

// GetOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func GetOrEmpty(slice []string, index int) string {
	if index >= 0 && index < len(slice) {
		return slice[index]
	}
	return ""
}

// ibanPattern matches an IBAN written without spaces.
var ibanPattern = regexp.MustCompile(`\b[A-Z]{2}[0-9]{2}[A-Z0-9]{4}[0-9]{7}([A-Z0-9]?){0,16}\b`)

// CleanText removes unnecessary whitespace and newlines from XML text content.
// Runs of spaces, tabs and newlines become a single space, and IBANs are
// replaced by the word IBAN so account numbers never reach the outputs.
func CleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return ibanPattern.ReplaceAllString(text, "IBAN")
}
