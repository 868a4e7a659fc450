// Package rsrc reads compiler source files from disk, transparently
// stripping a UTF-8/UTF-16 byte-order mark and optionally decoding a
// registered legacy character set before the bytes reach internal/sexpr.
package rsrc

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/gdamore/encoding"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	charsetLk  sync.Mutex
	charsetTab map[string]xencoding.Encoding
)

// RegisterCharset lets a caller teach DecodeCharset about a legacy 8-bit
// character set (e.g. a board descriptor shipped by a vendor tool in
// CP1252) by name, so bytes in that encoding can still be decoded without
// a BOM to detect them automatically. ReadFile and Decode do not consult
// the registered charsets.
//
// Example:
//
//	RegisterCharset("CP1252", encoding.CP1252)
func RegisterCharset(name string, enc xencoding.Encoding) {
	charsetLk.Lock()
	defer charsetLk.Unlock()
	if charsetTab == nil {
		charsetTab = make(map[string]xencoding.Encoding)
	}
	charsetTab[name] = enc
}

func lookupCharset(name string) xencoding.Encoding {
	charsetLk.Lock()
	defer charsetLk.Unlock()
	return charsetTab[name]
}

func init() {
	RegisterCharset("CP1252", encoding.CP1252)
	RegisterCharset("ISO8859-1", encoding.ISO8859_1)
}

// ReadFile loads path and returns its contents as UTF-8 text. A leading
// UTF-8, UTF-16LE, or UTF-16BE byte-order mark is detected and stripped
// (with the UTF-16 variants transcoded); its absence means the file is
// read as-is, already assumed to be UTF-8.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(raw)
}

// Decode applies the same BOM handling as ReadFile to an in-memory byte
// slice, used by tests and by embedded bundled resources.
func Decode(raw []byte) (string, error) {
	reader := transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeCharset decodes raw using the named registered charset instead of
// assuming UTF-8, for sources known in advance to use a legacy encoding.
func DecodeCharset(raw []byte, charset string) (string, error) {
	enc := lookupCharset(charset)
	if enc == nil {
		return Decode(raw)
	}
	reader := transform.NewReader(bytes.NewReader(raw), enc.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
