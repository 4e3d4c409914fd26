package processing

import "bytes"

// Magic bytes for the allowed image types. Validation is against the
// claimed MIME type, not the filename - a renamed text file claiming
// image/jpeg fails here no matter what headers the client sent.
var magicSignatures = map[string][][]byte{
	"image/jpeg": {
		{0xFF, 0xD8, 0xFF},
	},
	"image/png": {
		{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	},
	"image/webp": {
		{0x52, 0x49, 0x46, 0x46}, // RIFF, plus "WEBP" at offset 8
	},
	"image/tiff": {
		{0x49, 0x49, 0x2A, 0x00}, // Little-endian
		{0x4D, 0x4D, 0x00, 0x2A}, // Big-endian
	},
}

var webpMarker = []byte{0x57, 0x45, 0x42, 0x50} // "WEBP"

// MimeTypeAllowed reports whether the claimed type is one we accept at all.
func MimeTypeAllowed(mimeType string) bool {
	_, ok := magicSignatures[mimeType]
	return ok
}

// ValidMagicBytes checks the leading byte signature of buf against the
// claimed MIME type. Unsupported types, truncated buffers and mismatches
// are all rejects. Pure function, no side effects.
func ValidMagicBytes(buf []byte, claimedMimeType string) bool {
	signatures, ok := magicSignatures[claimedMimeType]
	if !ok {
		return false
	}
	for _, signature := range signatures {
		if len(buf) < len(signature) || !bytes.Equal(buf[:len(signature)], signature) {
			continue
		}
		if claimedMimeType == "image/webp" {
			// The RIFF prefix is generic; the container marker at
			// offset 8-11 is what makes it WebP
			if len(buf) < 12 || !bytes.Equal(buf[8:12], webpMarker) {
				return false
			}
		}
		return true
	}
	return false
}
