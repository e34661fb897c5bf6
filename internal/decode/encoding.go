package decode

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BOM prefixes
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ToUTF8 detects the encoding of data, strips any BOM and returns NFC UTF-8
// along with the detected encoding name. Input that is neither BOM-marked nor
// valid UTF-8 is treated as Windows-1258, the Vietnamese ANSI code page.
func ToUTF8(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return norm.NFC.Bytes(data[len(bomUTF8):]), "utf-8-bom", nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return nil, "", fmt.Errorf("UTF-16 decode failed: %w", err)
		}
		name := "utf-16le"
		if bytes.HasPrefix(data, bomUTF16BE) {
			name = "utf-16be"
		}
		return norm.NFC.Bytes(decoded), name, nil
	case utf8.Valid(data):
		return norm.NFC.Bytes(data), "utf-8", nil
	default:
		decoded, _, err := transform.Bytes(charmap.Windows1258.NewDecoder(), data)
		if err != nil {
			return nil, "", fmt.Errorf("windows-1258 decode failed: %w", err)
		}
		return norm.NFC.Bytes(decoded), "windows-1258", nil
	}
}
