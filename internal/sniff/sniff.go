// Package sniff categorizes file content by magic bytes. It implements the
// filter.Sniffer contract consumed by the `type` filter: given the first few
// kilobytes of a file, report which coarse FileType the content looks like.
package sniff

import (
	"bytes"
	"unicode/utf8"

	"github.com/pfind/pfind/internal/filter"
)

// signature is one magic-byte rule: if the content at offset starts with
// magic, it belongs to category.
type signature struct {
	offset   int
	magic    []byte
	category filter.FileType
}

// signatures is checked in order; first hit wins. More specific signatures
// (longer magics, or formats that embed a generic container magic) must come
// before the generic ones. Zip is not in the table: Detect hands zip content
// to sniffZipContainer after the table, which tells the OOXML/ODF/epub
// formats apart from plain zip.
var signatures = []signature{
	// Applications / executables.
	{0, []byte{0x7F, 'E', 'L', 'F'}, filter.TypeApp},
	{0, []byte{'M', 'Z'}, filter.TypeApp},
	{0, []byte{0xFE, 0xED, 0xFA, 0xCE}, filter.TypeApp},
	{0, []byte{0xFE, 0xED, 0xFA, 0xCF}, filter.TypeApp},
	{0, []byte{0xCF, 0xFA, 0xED, 0xFE}, filter.TypeApp},

	// Documents.
	{0, []byte("%PDF-"), filter.TypeDoc},
	{0, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, filter.TypeDoc},
	{0, []byte("{\\rtf"), filter.TypeDoc},

	// Books.
	{0, []byte("BOOKMOBI"), filter.TypeBook},

	// Archives. Zip archives are recognised by sniffZipContainer, not here.
	{0, []byte{0x1F, 0x8B}, filter.TypeArchive},
	{0, []byte("BZh"), filter.TypeArchive},
	{0, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}, filter.TypeArchive},
	{0, []byte("Rar!\x1a\x07"), filter.TypeArchive},
	{0, []byte{0x28, 0xB5, 0x2F, 0xFD}, filter.TypeArchive},
	{257, []byte("ustar"), filter.TypeArchive},
	{0, []byte("7z\xbc\xaf\x27\x1c"), filter.TypeArchive},

	// Audio.
	{0, []byte("ID3"), filter.TypeAudio},
	{0, []byte{0xFF, 0xFB}, filter.TypeAudio},
	{0, []byte{0xFF, 0xF3}, filter.TypeAudio},
	{0, []byte("fLaC"), filter.TypeAudio},
	{0, []byte("OggS"), filter.TypeAudio},
	{8, []byte("WAVE"), filter.TypeAudio},

	// Video.
	{4, []byte("ftyp"), filter.TypeVideo},
	{0, []byte{0x1A, 0x45, 0xDF, 0xA3}, filter.TypeVideo},
	{8, []byte("AVI "), filter.TypeVideo},

	// Images.
	{0, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, filter.TypeImage},
	{0, []byte{0xFF, 0xD8, 0xFF}, filter.TypeImage},
	{0, []byte("GIF87a"), filter.TypeImage},
	{0, []byte("GIF89a"), filter.TypeImage},
	{0, []byte("BM"), filter.TypeImage},
	{8, []byte("WEBP"), filter.TypeImage},
	{0, []byte{0x49, 0x49, 0x2A, 0x00}, filter.TypeImage},
	{0, []byte{0x4D, 0x4D, 0x00, 0x2A}, filter.TypeImage},

	// Fonts.
	{0, []byte("wOFF"), filter.TypeFont},
	{0, []byte("wOF2"), filter.TypeFont},
	{0, []byte{0x00, 0x01, 0x00, 0x00, 0x00}, filter.TypeFont},
	{0, []byte("OTTO"), filter.TypeFont},
	{0, []byte("ttcf"), filter.TypeFont},
}

// Detect maps a content prefix to its FileType category. It returns false
// when no category applies — the caller treats that as "no match", not as an
// error.
func Detect(content []byte) (filter.FileType, bool) {
	if len(content) == 0 {
		return 0, false
	}

	for _, sig := range signatures {
		if matchesAt(content, sig.offset, sig.magic) {
			return sig.category, true
		}
	}

	if t, ok := sniffZipContainer(content); ok {
		return t, ok
	}

	if looksLikeText(content) {
		return filter.TypeText, true
	}

	return 0, false
}

func matchesAt(content []byte, offset int, magic []byte) bool {
	if len(content) < offset+len(magic) {
		return false
	}

	return bytes.Equal(content[offset:offset+len(magic)], magic)
}

// sniffZipContainer distinguishes zip-based document formats from plain zip
// archives by peeking at the first member's name, which OOXML and ODF
// writers place first by convention.
func sniffZipContainer(content []byte) (filter.FileType, bool) {
	if !matchesAt(content, 0, []byte("PK\x03\x04")) {
		return 0, false
	}

	if bytes.Contains(content, []byte("[Content_Types].xml")) {
		return filter.TypeDoc, true
	}

	if bytes.Contains(content, []byte("mimetypeapplication/epub")) {
		return filter.TypeBook, true
	}

	if bytes.Contains(content, []byte("mimetypeapplication/vnd.oasis.opendocument")) {
		return filter.TypeDoc, true
	}

	return filter.TypeArchive, true
}

// looksLikeText accepts content that is valid UTF-8 (tolerating one
// truncated rune at the window edge) and free of NUL bytes.
func looksLikeText(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return false
	}

	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		if r == utf8.RuneError && size == 1 {
			// A partial rune at the very end of the sniff window is fine;
			// a malformed byte anywhere else is not.
			return len(content) < utf8.UTFMax
		}

		content = content[size:]
	}

	return true
}
