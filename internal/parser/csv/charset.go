package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// charmaps lists the legacy single-byte encodings accepted by the
// csvOptions "encoding" key. Names are matched case-insensitively with
// '_' treated as '-'.
var charmaps = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"latin1":       charmap.ISO8859_1,
	"latin2":       charmap.ISO8859_2,
}

// decodingReader wraps src so it yields UTF-8 regardless of the source
// charset. An empty name returns src unchanged (input assumed UTF-8). An
// unknown name is a load-time fatal, not a row warning.
func decodingReader(src io.Reader, name string) (io.Reader, error) {
	if name == "" {
		return src, nil
	}
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	enc, ok := charmaps[key]
	if !ok {
		return nil, fmt.Errorf("csv: unsupported encoding %q", name)
	}
	return transform.NewReader(src, enc.NewDecoder()), nil
}
