package learning

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrPersistence wraps every read or write failure of the backing store.
	ErrPersistence = errors.New("learning persistence failed")
	// ErrCorrupt means the stored document could not be parsed or failed validation.
	ErrCorrupt = errors.New("learning document corrupt")
)

//go:embed schema.json
var documentSchema string

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Persister loads and saves the whole learning document. Load returns an empty document
// and no error when nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// Decode validates raw against the document schema and unmarshals it.
func Decode(raw []byte) (Document, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			msgs = append(msgs, field+": "+desc.Description())
		}
		return Document{}, fmt.Errorf("%w: %s", ErrCorrupt, strings.Join(msgs, "; "))
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.Sites == nil {
		doc.Sites = map[string]Profile{}
	}
	return doc, nil
}

// Encode renders doc in the persisted layout.
func Encode(doc Document) ([]byte, error) {
	if doc.Sites == nil {
		doc.Sites = map[string]Profile{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FilePersister stores the document as a single JSON file.
type FilePersister struct {
	Path string
	now  func() time.Time
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path, now: time.Now}
}

// Load reads the file. A missing file yields an empty document. A corrupt file is renamed to
// "<path>.corrupt-<timestamp>" and an empty document is returned with an ErrCorrupt error.
func (p *FilePersister) Load(_ context.Context) (Document, error) {
	raw, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDocument(), nil
	}
	if err != nil {
		return NewDocument(), fmt.Errorf("%w: read %s: %v", ErrPersistence, p.Path, err)
	}

	doc, err := Decode(raw)
	if err == nil {
		return doc, nil
	}
	backup := fmt.Sprintf("%s.corrupt-%s", p.Path, p.now().UTC().Format("20060102T150405Z"))
	if renameErr := os.Rename(p.Path, backup); renameErr != nil {
		return NewDocument(), fmt.Errorf("%w (backup failed: %v)", err, renameErr)
	}
	return NewDocument(), fmt.Errorf("%w (moved to %s)", err, backup)
}

// Save writes doc atomically, creating the parent directory when needed.
func (p *FilePersister) Save(_ context.Context, doc Document) error {
	raw, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}
	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		return fmt.Errorf("%w: rename: %v", ErrPersistence, err)
	}
	return nil
}
