package model

// Input is what the formatter accepts: either a raw line of text or a record
// that a caller already decoded.
type Input interface {
	isInput()
}

// RawText is one input line with its terminator removed.
type RawText string

// ParsedRecord wraps a record built programmatically; it skips parsing.
type ParsedRecord struct {
	Record *Record
}

func (RawText) isInput()      {}
func (ParsedRecord) isInput() {}
