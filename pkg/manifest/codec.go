package manifest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Embedded-format markers. These are literal constants; extraction searches
// for the LAST occurrence of each so marker-like substrings earlier in
// legitimate content are tolerated. Content whose genuine tail is itself a
// valid marker pair remains ambiguous — a known limitation of the format.
const (
	StartMarker = "----BEGIN TRACEMARK MANIFEST----"
	EndMarker   = "----END TRACEMARK MANIFEST----"
)

// Codec error taxonomy. Encoding and structural failures are distinct and
// never silently recovered.
var (
	ErrMarkersNotFound   = errors.New("manifest markers not found")
	ErrMarkersOutOfOrder = errors.New("manifest markers out of order")
	ErrInvalidEncoding   = errors.New("invalid manifest encoding")
	ErrInvalidStructure  = errors.New("invalid manifest structure")
)

// Extracted is the result of pulling an embedded manifest out of a file.
type Extracted struct {
	Content      string
	ManifestJSON []byte
	Manifest     *Manifest
}

// Embed appends the manifest to content as a delimited base64 footer:
//
//	<content>\n<start marker>\n<base64 of pretty manifest JSON>\n<end marker>
//
// The content itself is not modified. The manifest JSON is pretty-printed
// deterministically before encoding so the blob is stable for a given
// manifest value.
func Embed(content string, m *Manifest) (string, error) {
	pretty, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("manifest serialization failed: %w", err)
	}
	blob := base64.StdEncoding.EncodeToString(pretty)
	return content + "\n" + StartMarker + "\n" + blob + "\n" + EndMarker, nil
}

// Extract locates and decodes an embedded manifest, returning the clean
// content byte-identical to what was originally embedded.
func Extract(embedded string) (*Extracted, error) {
	start := strings.LastIndex(embedded, StartMarker)
	end := strings.LastIndex(embedded, EndMarker)
	if start < 0 || end < 0 {
		return nil, ErrMarkersNotFound
	}
	if start >= end {
		return nil, ErrMarkersOutOfOrder
	}

	blob := strings.TrimSpace(embedded[start+len(StartMarker) : end])
	manifestJSON, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	m, err := Parse(manifestJSON)
	if err != nil {
		return nil, err
	}

	// Strip exactly the separator newline Embed introduced.
	content := strings.TrimSuffix(embedded[:start], "\n")

	return &Extracted{
		Content:      content,
		ManifestJSON: manifestJSON,
		Manifest:     m,
	}, nil
}

// HasEmbedded is a cheap presence check: both markers must appear.
// Marker order is not checked here; Extract enforces it.
func HasEmbedded(text string) bool {
	return strings.Contains(text, StartMarker) && strings.Contains(text, EndMarker)
}

// Parse decodes manifest JSON, enforcing the envelope schema and context
// version. Structural failures are reported as ErrInvalidStructure.
func Parse(data []byte) (*Manifest, error) {
	if err := ValidateShape(data); err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}
	if err := CheckContext(m.Context); err != nil {
		return nil, err
	}
	return &m, nil
}
