// Package parsererror defines the typed errors returned while reading bank
// statements and configuration files.
package parsererror

import "fmt"

// ParseError represents a value that could not be parsed
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a file whose content breaks a structural rule.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// UnsupportedSourceError is returned when no extractor is registered for a
// bank and statement format pair.
type UnsupportedSourceError struct {
	Bank   string
	Format string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("no extractor for bank %q with format %q", e.Bank, e.Format)
}

// InvalidFormatError represents an input file that does not conform to the
// layout an extractor expects.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError represents required data that could not be pulled out
// of a file whose format is otherwise valid.
type DataExtractionError struct {
	FilePath       string
	FieldName      string
	RawDataSnippet string
	Reason         string
	Err            error
}

func (e *DataExtractionError) Error() string {
	msg := fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s",
		e.FilePath, e.FieldName, e.Reason)
	if e.RawDataSnippet != "" {
		msg += fmt.Sprintf(". Raw data snippet: '%s'", e.RawDataSnippet)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}

// Snippet shortens s for inclusion in an error message.
func Snippet(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
