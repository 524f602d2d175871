package graph

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// Marshal encodes a document as compact JSON. Node keys are emitted in sorted
// order, so equal documents encode to equal bytes.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a document produced by [Marshal].
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Nodes == nil {
		doc.Nodes = map[string]Node{}
	}
	return &doc, nil
}

// WriteDocument writes a document as indented JSON.
func WriteDocument(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// ReadDocumentFile reads a JSON document file.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

// NodeIDs returns the node IDs of d sorted by size descending, then by ID.
// Viewers use it to list nodes.
func (d *Document) NodeIDs() []string {
	ids := sortedKeys(d.Nodes)
	slices.SortStableFunc(ids, func(a, b string) int {
		return cmp.Compare(d.Nodes[b].Data.Size, d.Nodes[a].Data.Size)
	})
	return ids
}
