// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func decodeImage(b []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	return img, err
}

// Image loads the named image.
// The format is detected from the file contents.
func (l *Loader) Image(name string) (image.Image, error) {
	b, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%s: %w", name, err)
	}
	img, err := decodeImage(b)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%s: %w", name, err)
	}
	return img, nil
}
