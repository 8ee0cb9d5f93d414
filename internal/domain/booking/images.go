package booking

import (
	"fmt"
	"strings"
)

// ImageKind identifies which job photo is being captured.
type ImageKind string

const (
	ImageBefore ImageKind = "before"
	ImageAfter  ImageKind = "after"
)

// IsValid returns true if the image kind is recognized.
func (k ImageKind) IsValid() bool {
	return k == ImageBefore || k == ImageAfter
}

// ParseImageKind converts a string to an ImageKind.
func ParseImageKind(s string) (ImageKind, error) {
	k := ImageKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("invalid image kind: %q", s)
	}
	return k, nil
}

// Images holds the before/after photo references of a job. Each is set independently.
type Images struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// with returns a copy of the images with the given kind replaced.
func (i Images) with(kind ImageKind, ref string) Images {
	switch kind {
	case ImageBefore:
		i.Before = ref
	case ImageAfter:
		i.After = ref
	}
	return i
}
