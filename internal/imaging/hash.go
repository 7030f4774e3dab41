// Package imaging computes the content hash used to deduplicate uploaded
// images. The hash covers the decoded image, not the upload envelope, so
// re-uploading the same picture under a different filename collapses onto
// one stored file.
package imaging

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"image"
	"path/filepath"
	"strings"

	// Decoders for the allowed upload extensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// AllowedExtensions is the closed set of accepted upload extensions,
// lowercase, without the dot.
var AllowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// Extension extracts the lowercase extension of a filename and reports
// whether it is allowed.
func Extension(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext, AllowedExtensions[ext]
}

// StableHash hashes uploaded image bytes for dedup lookup. Decodable
// images are hashed over their pixel data so byte-level differences in
// metadata do not split identical pictures; undecodable content falls back
// to a hash of the raw bytes. Two genuinely different photos with equal
// pixels still collide, which is accepted.
func StableHash(data []byte) string {
	if h, err := pixelHash(data); err == nil {
		return h
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func pixelHash(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	h := md5.New()
	bounds := img.Bounds()
	dims := [2]int64{int64(bounds.Dx()), int64(bounds.Dy())}
	if err := binary.Write(h, binary.LittleEndian, dims); err != nil {
		return "", err
	}
	var px [4]uint32
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			px[0], px[1], px[2], px[3] = r, g, b, a
			if err := binary.Write(h, binary.LittleEndian, px); err != nil {
				return "", err
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
