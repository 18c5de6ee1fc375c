package wallet

import (
	"archive/zip"
	"bytes"
	"crypto/sha1" //nolint:gosec // the pkpass manifest format mandates SHA-1
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Reserved entry names of the pkpass container.
const (
	PassEntry      = "pass.json"
	ManifestEntry  = "manifest.json"
	SignatureEntry = "signature"
)

type entry struct {
	name string
	data []byte
}

// Package collects the files of a pass before it is sealed.
type Package struct {
	entries []entry
	names   map[string]struct{}
}

// NewPackage returns an empty package.
func NewPackage() *Package {
	return &Package{names: make(map[string]struct{})}
}

// Add appends a named file. Names must be unique, and manifest.json and
// signature are produced by Seal only.
func (p *Package) Add(name string, data []byte) error {
	if name == ManifestEntry || name == SignatureEntry {
		return fmt.Errorf("%w: %s", ErrReservedEntry, name)
	}
	if _, exists := p.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}
	p.names[name] = struct{}{}
	p.entries = append(p.entries, entry{name: name, data: data})
	return nil
}

// Names lists entries in insertion order.
func (p *Package) Names() []string {
	names := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		names = append(names, e.name)
	}
	return names
}

// Manifest returns manifest.json: the SHA-1 hex digest of every entry keyed
// by name.
func (p *Package) Manifest() ([]byte, error) {
	digests := make(map[string]string, len(p.entries))
	for _, e := range p.entries {
		sum := sha1.Sum(e.data) //nolint:gosec
		digests[e.name] = hex.EncodeToString(sum[:])
	}
	return json.Marshal(digests)
}

// Seal signs the manifest with cred and returns the zipped pkpass. Nothing
// is returned unless every step succeeds.
func (p *Package) Seal(cred *Credential) ([]byte, error) {
	if cred == nil {
		return nil, fmt.Errorf("seal pass: no signing credential")
	}
	manifest, err := p.Manifest()
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	signature, err := cred.Sign(manifest)
	if err != nil {
		return nil, fmt.Errorf("sign manifest: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := append(append([]entry{}, p.entries...),
		entry{name: ManifestEntry, data: manifest},
		entry{name: SignatureEntry, data: signature},
	)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("zip %s: %w", f.name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("zip %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}
