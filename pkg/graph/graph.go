package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/netscope/pkg/errors"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalDocument converts a document to indented JSON bytes.
func MarshalDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument writes a document as indented JSON to w.
func WriteDocument(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

// ReadDocument decodes a JSON document from r. It does not close r.
//
// Only the JSON syntax and field types are checked here. Node ids, sizes
// and edge references are validated when the document is resolved into a
// network.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeLoad, err, "decode document")
	}
	return doc, nil
}

// ReadDocumentFile reads a JSON document from the file at path.
func ReadDocumentFile(path string) (Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeLoad, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}
