package wallet

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"go.mozilla.org/pkcs7"
	"golang.org/x/crypto/pkcs12"
)

// Credential is the pass signing identity. It is loaded once and never
// written into a package.
type Credential struct {
	Key         crypto.Signer
	Certificate *x509.Certificate
	// Chain carries intermediates, usually the Apple WWDR certificate.
	Chain []*x509.Certificate
}

// CredentialFiles locates the signing material on disk. Either P12File or
// the KeyFile/CertFile pair must be set.
type CredentialFiles struct {
	KeyFile      string
	CertFile     string
	P12File      string
	Password     string
	WWDRCertFile string
}

// NewCredential checks that key belongs to cert.
func NewCredential(key crypto.Signer, cert *x509.Certificate, chain ...*x509.Certificate) (*Credential, error) {
	if key == nil || cert == nil {
		return nil, errors.New("signing key and certificate are required")
	}
	pub, ok := key.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok || !pub.Equal(cert.PublicKey) {
		return nil, ErrCredentialMismatch
	}
	return &Credential{Key: key, Certificate: cert, Chain: chain}, nil
}

// LoadCredential reads the signing key, certificate and optional WWDR
// intermediate.
func LoadCredential(files CredentialFiles) (*Credential, error) {
	var (
		key  crypto.Signer
		cert *x509.Certificate
		err  error
	)
	if files.P12File != "" {
		key, cert, err = loadPKCS12(files.P12File, files.Password)
	} else {
		key, cert, err = loadPEMPair(files.KeyFile, files.CertFile)
	}
	if err != nil {
		return nil, err
	}

	var chain []*x509.Certificate
	if files.WWDRCertFile != "" {
		raw, err := os.ReadFile(files.WWDRCertFile)
		if err != nil {
			return nil, fmt.Errorf("read wwdr certificate: %w", err)
		}
		chain, err = parseCertificates(raw)
		if err != nil {
			return nil, fmt.Errorf("parse wwdr certificate: %w", err)
		}
	}
	return NewCredential(key, cert, chain...)
}

// Sign returns a detached PKCS#7 signature over content.
func (c *Credential) Sign(content []byte) ([]byte, error) {
	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, fmt.Errorf("init signed data: %w", err)
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	if err := sd.AddSigner(c.Certificate, c.Key, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("add signer: %w", err)
	}
	for _, ic := range c.Chain {
		sd.AddCertificate(ic)
	}
	sd.Detach()
	return sd.Finish()
}

func loadPKCS12(path, password string) (crypto.Signer, *x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read p12 bundle: %w", err)
	}
	priv, cert, err := pkcs12.Decode(raw, password)
	if err != nil {
		return nil, nil, fmt.Errorf("decode p12 bundle: %w", err)
	}
	signer, ok := priv.(crypto.Signer)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported key type %T in p12 bundle", priv)
	}
	return signer, cert, nil
}

func loadPEMPair(keyFile, certFile string) (crypto.Signer, *x509.Certificate, error) {
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read signing key: %w", err)
	}
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read signing certificate: %w", err)
	}
	key, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, nil, err
	}
	certs, err := parseCertificates(certPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse signing certificate: %w", err)
	}
	return key, certs[0], nil
}

func parsePrivateKey(raw []byte) (crypto.Signer, error) {
	for rest := raw; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, errors.New("no private key found in PEM data")
		}
		if _, encrypted := block.Headers["Proc-Type"]; encrypted {
			return nil, errors.New("encrypted PEM keys are not supported, use a p12 bundle")
		}
		switch block.Type {
		case "RSA PRIVATE KEY":
			return x509.ParsePKCS1PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			return x509.ParseECPrivateKey(block.Bytes)
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, err
			}
			switch k := key.(type) {
			case *rsa.PrivateKey:
				return k, nil
			case *ecdsa.PrivateKey:
				return k, nil
			default:
				return nil, fmt.Errorf("unsupported signing key type %T", key)
			}
		}
	}
}

// parseCertificates accepts PEM bundles and single DER certificates.
func parseCertificates(raw []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := raw
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if len(certs) > 0 {
		return certs, nil
	}
	cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, errors.New("no certificate found")
	}
	return []*x509.Certificate{cert}, nil
}
