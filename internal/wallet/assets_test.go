package wallet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAssets(t *testing.T) {
	assets, err := LoadAssets(writeTestAssets(t))
	if err != nil {
		t.Fatalf("LoadAssets: %v", err)
	}
	if !bytes.Equal(assets.Icon.Retina, testImages["icon@2x.png"]) {
		t.Error("unexpected icon@2x bytes")
	}
	if !bytes.Equal(assets.Logo(true).Standard, testImages["logo_ops.png"]) {
		t.Error("operator logo not selected")
	}
	if !bytes.Equal(assets.Logo(false).Retina, testImages["logo_reg@2x.png"]) {
		t.Error("member logo not selected")
	}
}

func TestLoadAssets_MissingFile(t *testing.T) {
	dir := writeTestAssets(t)
	if err := os.Remove(filepath.Join(dir, "logo_ops@2x.png")); err != nil {
		t.Fatal(err)
	}
	_, err := LoadAssets(dir)
	if !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", err)
	}
}
