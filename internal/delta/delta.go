// Package delta computes and applies binary patches between two versions of
// a file and verifies content hashes around them.
package delta

import (
	"bytes"
	"fmt"

	"github.com/gabstv/go-bsdiff/pkg/bsdiff"
	"github.com/gabstv/go-bsdiff/pkg/bspatch"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
)

// Diff produces a patch that turns original into modified. The output is
// deterministic for identical inputs.
func Diff(original, modified []byte) ([]byte, error) {
	patch, err := bsdiff.Bytes(original, modified)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}
	return patch, nil
}

const (
	headerSize = 32
	// maxOutputSize bounds the size a patch header may announce. bspatch
	// allocates it up front.
	maxOutputSize = 1 << 30
)

var magic = []byte("BSDIFF40")

// checkHeader validates the BSDIFF40 header before bspatch trusts its sizes.
func checkHeader(patch []byte) error {
	if len(patch) < headerSize || !bytes.Equal(patch[:8], magic) {
		return fmt.Errorf("%w: bad header", domain.ErrPatch)
	}
	ctrlLen := offtin(patch[8:16])
	diffLen := offtin(patch[16:24])
	newSize := offtin(patch[24:32])
	body := int64(len(patch) - headerSize)
	switch {
	case ctrlLen < 0 || diffLen < 0 || ctrlLen > body || diffLen > body-ctrlLen:
		return fmt.Errorf("%w: block lengths exceed patch size", domain.ErrPatch)
	case newSize < 0 || newSize > maxOutputSize:
		return fmt.Errorf("%w: output size %d out of range", domain.ErrPatch, newSize)
	}
	return nil
}

// offtin decodes bsdiff's sign-magnitude little-endian integer.
func offtin(b []byte) int64 {
	var y int64
	for i := 7; i >= 0; i-- {
		v := b[i]
		if i == 7 {
			v &= 0x7f
		}
		y = y<<8 | int64(v)
	}
	if b[7]&0x80 != 0 {
		y = -y
	}
	return y
}

// Apply reconstructs the modified bytes from original and patch. Malformed or
// truncated patches return an error wrapping domain.ErrPatch.
func Apply(original, patch []byte) (out []byte, err error) {
	// bspatch indexes into the control stream without bounds checks on some
	// malformed inputs
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", domain.ErrPatch, r)
		}
	}()

	if err := checkHeader(patch); err != nil {
		return nil, err
	}
	out, err = bspatch.Bytes(original, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPatch, err)
	}
	return out, nil
}

// ApplyVerified checks that original hashes to wantSource, applies the patch
// and checks the result hashes to wantTarget. what names the artifact in
// verification errors.
func ApplyVerified(what string, original, patch []byte, wantSource, wantTarget string) ([]byte, error) {
	if err := Verify(what, original, wantSource); err != nil {
		return nil, err
	}
	out, err := Apply(original, patch)
	if err != nil {
		return nil, err
	}
	if err := Verify(what+" (patched)", out, wantTarget); err != nil {
		return nil, err
	}
	return out, nil
}
