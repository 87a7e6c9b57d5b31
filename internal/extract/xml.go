// internal/extract/xml.go
package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valpere/StatHarvester/internal/pipeline"
	"github.com/valpere/StatHarvester/pkg/types"
)

func (e *Extractor) extractXML(pageURL string, body []byte, out *Result) error {
	tree, err := parseXMLTree(body)
	if err != nil {
		return fmt.Errorf("failed to parse XML: %w", err)
	}
	if len(tree) == 0 {
		return nil
	}

	rec := Flatten(tree, e.limits.MaxListElements)
	rec[types.FieldSourceURL] = pageURL
	rec[types.FieldScrapeDate] = time.Now().Format(types.ScrapeDateFormat)
	rec["data_type"] = "xml"
	out.Records = append(out.Records, rec)
	return nil
}

// parseXMLTree converts the document's root children into a nested mapping.
// Leaf elements become string values, non-leaf elements nested mappings.
// Repeated sibling tags collect into a list.
func parseXMLTree(body []byte) (map[string]interface{}, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	// find the root element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("document has no root element")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			node, err := decodeElement(dec, start)
			if err != nil {
				return nil, err
			}
			if m, ok := node.(map[string]interface{}); ok {
				return m, nil
			}
			// a root holding only text becomes a single-key mapping
			return map[string]interface{}{start.Name.Local: node}, nil
		}
	}
}

// decodeElement reads one element's subtree. It returns either a string (leaf)
// or a map of child tag to value.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (interface{}, error) {
	children := make(map[string]interface{})
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendChild(children, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(children) > 0 {
				return children, nil
			}
			return pipeline.CleanText(text.String()), nil
		}
	}
}

// appendChild stores a child value, promoting repeated tags to a list.
func appendChild(parent map[string]interface{}, tag string, value interface{}) {
	existing, ok := parent[tag]
	if !ok {
		parent[tag] = value
		return
	}
	if list, ok := existing.([]interface{}); ok {
		parent[tag] = append(list, value)
		return
	}
	parent[tag] = []interface{}{existing, value}
}
