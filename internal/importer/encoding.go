package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// The dump's encoding is unknown: exports of this vintage are usually
// cp1251, sometimes cp866 or koi8-r, occasionally already utf-8. A bounded
// prefix is decoded under each candidate and probed for known domain words;
// the first candidate where enough of them appear verbatim wins.

const probeLimit = 500000

var probeWords = []string{"Радиотехника", "журнал", "статья", "научн"}

const probeThreshold = 2

type dumpEncoding struct {
	name string
	enc  encoding.Encoding // nil means plain utf-8
}

var encodingsToTry = []dumpEncoding{
	{"utf-8", nil},
	{"cp1251", charmap.Windows1251},
	{"cp866", charmap.CodePage866},
	{"koi8-r", charmap.KOI8R},
	{"latin1", charmap.ISO8859_1},
}

// detectEncoding picks the dump encoding by probe words. The fallback is
// lossy utf-8 rather than a failure: a wrong guess only garbles text, it
// never has to abort the import.
func detectEncoding(path string) (dumpEncoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return dumpEncoding{}, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, probeLimit))
	if err != nil {
		return dumpEncoding{}, fmt.Errorf("read dump prefix: %w", err)
	}

	for _, cand := range encodingsToTry {
		chunk, ok := decodeStrict(raw, cand)
		if !ok {
			continue
		}
		found := 0
		for _, w := range probeWords {
			if strings.Contains(chunk, w) {
				found++
			}
		}
		if found >= probeThreshold {
			return cand, nil
		}
	}

	return dumpEncoding{name: "utf-8"}, nil
}

// decodeStrict decodes raw under the candidate, rejecting any input the
// candidate cannot represent. The charmap decoders substitute undefined
// bytes with U+FFFD instead of erroring, so that substitution is what
// strictness has to check for; an 8-bit source cannot itself contain
// U+FFFD.
func decodeStrict(raw []byte, cand dumpEncoding) (string, bool) {
	if cand.enc == nil {
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	}
	out, _, err := transform.Bytes(cand.enc.NewDecoder(), raw)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// openLines opens the dump decoded under enc and returns a line scanner.
// Bulk INSERT statements are one physical line each and can run to
// megabytes, so the scanner buffer is raised well past the default.
func openLines(path string, enc dumpEncoding) (*bufio.Scanner, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dump: %w", err)
	}

	var r io.Reader = f
	if enc.enc != nil {
		r = transform.NewReader(f, enc.enc.NewDecoder())
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 64<<20)
	return sc, f, nil
}

// extractTable collects every tuple of the bulk INSERT statements for one
// legacy table. Undecodable bytes in the fallback path are substituted,
// not fatal.
func extractTable(path string, enc dumpEncoding, table string) ([]row, error) {
	sc, closer, err := openLines(path, enc)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	marker := "INSERT INTO `" + table + "`"
	var rows []row
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, marker) {
			continue
		}
		if !utf8.ValidString(line) {
			line = strings.ToValidUTF8(line, "�")
		}
		rows = append(rows, parseValues(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan dump: %w", err)
	}
	return rows, nil
}
