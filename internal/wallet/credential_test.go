package wallet

import (
	"crypto/x509"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCredential_PKCS1(t *testing.T) {
	key, cert := newTestKeyPair(t, "signer")
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "hackucf.key")
	certFile := filepath.Join(dir, "hackucf.pem")
	writePEM(t, keyFile, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key))
	writePEM(t, certFile, "CERTIFICATE", cert.Raw)

	cred, err := LoadCredential(CredentialFiles{KeyFile: keyFile, CertFile: certFile})
	if err != nil {
		t.Fatalf("LoadCredential: %v", err)
	}
	if !cred.Certificate.Equal(cert) {
		t.Error("loaded certificate differs")
	}
	if len(cred.Chain) != 0 {
		t.Errorf("expected empty chain, got %d", len(cred.Chain))
	}
}

func TestLoadCredential_PKCS8WithDERIntermediate(t *testing.T) {
	key, cert := newTestKeyPair(t, "signer")
	_, wwdr := newTestKeyPair(t, "Apple Worldwide Developer Relations")
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key.pem")
	certFile := filepath.Join(dir, "cert.pem")
	wwdrFile := filepath.Join(dir, "wwdr.cer")

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	writePEM(t, keyFile, "PRIVATE KEY", der)
	writePEM(t, certFile, "CERTIFICATE", cert.Raw)
	if err := os.WriteFile(wwdrFile, wwdr.Raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cred, err := LoadCredential(CredentialFiles{KeyFile: keyFile, CertFile: certFile, WWDRCertFile: wwdrFile})
	if err != nil {
		t.Fatalf("LoadCredential: %v", err)
	}
	if len(cred.Chain) != 1 || !cred.Chain[0].Equal(wwdr) {
		t.Fatal("expected WWDR intermediate in chain")
	}
}

func TestLoadCredential_Mismatch(t *testing.T) {
	key, _ := newTestKeyPair(t, "a")
	_, other := newTestKeyPair(t, "b")
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "k.pem")
	certFile := filepath.Join(dir, "c.pem")
	writePEM(t, keyFile, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key))
	writePEM(t, certFile, "CERTIFICATE", other.Raw)

	_, err := LoadCredential(CredentialFiles{KeyFile: keyFile, CertFile: certFile})
	if !errors.Is(err, ErrCredentialMismatch) {
		t.Fatalf("expected ErrCredentialMismatch, got %v", err)
	}
}

func TestLoadCredential_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadCredential(CredentialFiles{
		KeyFile:  filepath.Join(dir, "missing.key"),
		CertFile: filepath.Join(dir, "missing.pem"),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	_, err = LoadCredential(CredentialFiles{P12File: filepath.Join(dir, "missing.p12")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error for p12, got %v", err)
	}
}

func TestLoadCredential_GarbageKey(t *testing.T) {
	_, cert := newTestKeyPair(t, "signer")
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "k.pem")
	certFile := filepath.Join(dir, "c.pem")
	if err := os.WriteFile(keyFile, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	writePEM(t, certFile, "CERTIFICATE", cert.Raw)

	if _, err := LoadCredential(CredentialFiles{KeyFile: keyFile, CertFile: certFile}); err == nil {
		t.Fatal("expected error for garbage key")
	}
}
