package constants

import "strings"

// AllowedExtensions holds the default image extensions picked up when
// scanning a directory of screenshots.
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
	"heic": {},
	"heif": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsHEICExt reports whether the (normalized) extension is a HEIC/HEIF variant
// that needs conversion before tesseract can read it.
func IsHEICExt(ext string) bool {
	return ext == "heic" || ext == "heif"
}

// IsAllowedExt reports whether the (normalized) extension is scannable.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[ext]
	return ok
}
