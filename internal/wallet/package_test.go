package wallet

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"go.mozilla.org/pkcs7"
)

func TestPackage_AddRejectsDuplicates(t *testing.T) {
	p := NewPackage()
	if err := p.Add("icon.png", []byte("a")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := p.Add("icon.png", []byte("b")); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
	if got := p.Names(); len(got) != 1 {
		t.Errorf("Names() = %v, want one entry", got)
	}
}

func TestPackage_AddRejectsReservedNames(t *testing.T) {
	p := NewPackage()
	for _, name := range []string{ManifestEntry, SignatureEntry} {
		if err := p.Add(name, nil); !errors.Is(err, ErrReservedEntry) {
			t.Errorf("Add(%q) = %v, want ErrReservedEntry", name, err)
		}
	}
}

func TestPackage_Manifest(t *testing.T) {
	p := NewPackage()
	_ = p.Add("pass.json", []byte(`{}`))
	_ = p.Add("icon.png", []byte("icon"))

	raw, err := p.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	var digests map[string]string
	if err := json.Unmarshal(raw, &digests); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	sum := sha1.Sum([]byte("icon")) //nolint:gosec
	if digests["icon.png"] != hex.EncodeToString(sum[:]) {
		t.Errorf("icon.png digest = %q", digests["icon.png"])
	}
	if len(digests) != 2 {
		t.Errorf("expected 2 digests, got %d", len(digests))
	}
}

func TestPackage_SealProducesVerifiableSignature(t *testing.T) {
	cred := newTestCredential(t)
	p := NewPackage()
	_ = p.Add("pass.json", []byte(`{"formatVersion":1}`))
	_ = p.Add("icon.png", []byte("icon"))

	data, err := p.Seal(cred)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	files := unzipPass(t, data)
	for _, name := range []string{"pass.json", "icon.png", ManifestEntry, SignatureEntry} {
		if _, ok := files[name]; !ok {
			t.Errorf("missing %s in archive", name)
		}
	}

	p7, err := pkcs7.Parse(files[SignatureEntry])
	if err != nil {
		t.Fatalf("parse signature: %v", err)
	}
	p7.Content = files[ManifestEntry]
	if err := p7.Verify(); err != nil {
		t.Fatalf("verify signature: %v", err)
	}
	if signer := p7.GetOnlySigner(); signer == nil || !signer.Equal(cred.Certificate) {
		t.Error("signature was not made by the credential certificate")
	}
}

func TestPackage_SealTamperedManifestFails(t *testing.T) {
	cred := newTestCredential(t)
	p := NewPackage()
	_ = p.Add("pass.json", []byte(`{}`))

	data, err := p.Seal(cred)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	files := unzipPass(t, data)
	p7, err := pkcs7.Parse(files[SignatureEntry])
	if err != nil {
		t.Fatalf("parse signature: %v", err)
	}
	p7.Content = []byte(`{"pass.json":"0000"}`)
	if err := p7.Verify(); err == nil {
		t.Fatal("expected verification failure for a tampered manifest")
	}
}

func TestPackage_SealWithoutCredential(t *testing.T) {
	if _, err := NewPackage().Seal(nil); err == nil {
		t.Fatal("expected error without credential")
	}
}
