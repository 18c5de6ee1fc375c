package wallet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ImagePair is one image at the standard and @2x scales.
type ImagePair struct {
	Standard []byte
	Retina   []byte
}

// Assets holds the static branding images. They are read once at startup
// and shared read-only by every build.
type Assets struct {
	Icon         ImagePair
	OperatorLogo ImagePair
	MemberLogo   ImagePair
}

// Logo returns the logo variant for the member's role.
func (a *Assets) Logo(operator bool) ImagePair {
	if operator {
		return a.OperatorLogo
	}
	return a.MemberLogo
}

// LoadAssets reads icon.png, logo_ops.png and logo_reg.png (each with an
// @2x variant) from dir. A missing file is reported as ErrMissingAsset.
func LoadAssets(dir string) (*Assets, error) {
	icon, err := readPair(dir, "icon")
	if err != nil {
		return nil, err
	}
	ops, err := readPair(dir, "logo_ops")
	if err != nil {
		return nil, err
	}
	reg, err := readPair(dir, "logo_reg")
	if err != nil {
		return nil, err
	}
	return &Assets{Icon: icon, OperatorLogo: ops, MemberLogo: reg}, nil
}

func readPair(dir, base string) (ImagePair, error) {
	std, err := readAsset(dir, base+".png")
	if err != nil {
		return ImagePair{}, err
	}
	retina, err := readAsset(dir, base+"@2x.png")
	if err != nil {
		return ImagePair{}, err
	}
	return ImagePair{Standard: std, Retina: retina}, nil
}

func readAsset(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingAsset, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", path, err)
	}
	return data, nil
}
