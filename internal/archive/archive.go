// Package archive decodes the concert-program archive and flattens it into
// the concert and work tables the trend engine consumes.
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedExt marks archives stored as an LZ4 frame.
const CompressedExt = ".lz4"

// ErrNoPrograms is returned when a document has no "programs" array.
var ErrNoPrograms = errors.New("archive has no programs")

// Archive is the decoded top-level document.
type Archive struct {
	Programs []Program `json:"programs"`
}

// Program is one concert program: a set of concerts sharing the same works.
type Program struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"programID"`
	Orchestra string    `json:"orchestra"`
	Season    string    `json:"season"`
	Concerts  []Concert `json:"concerts"`
	Works     []Work    `json:"works"`
}

// Concert is a single performance of a program.
type Concert struct {
	EventType string `json:"eventType"`
	Location  string `json:"Location"`
	Venue     string `json:"Venue"`
	Date      string `json:"Date"`
	Time      string `json:"Time"`
}

// Work is one item on a program. Intermissions appear as works too.
type Work struct {
	ID            string    `json:"ID"`
	ComposerName  string    `json:"composerName"`
	WorkTitle     Text      `json:"workTitle"`
	Movement      Text      `json:"movement"`
	ConductorName string    `json:"conductorName"`
	Interval      string    `json:"interval"`
	Soloists      []Soloist `json:"soloists"`
}

// Soloist is a featured performer of a work.
type Soloist struct {
	Name       string `json:"soloistName"`
	Instrument string `json:"soloistInstrument"`
	Roles      string `json:"soloistRoles"`
}

// Text is a free-text field that the archive stores either as a plain string
// or as an object of the form {"_": "...", "em": "..."}.
type Text string

// UnmarshalJSON flattens object-encoded text to "em _".
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""

		return nil
	case data[0] == '"':
		var s string

		err := json.Unmarshal(data, &s)
		if err != nil {
			return fmt.Errorf("decode text: %w", err)
		}

		*t = Text(s)

		return nil
	}

	var parts struct {
		Plain    string `json:"_"`
		Emphasis string `json:"em"`
	}

	err := json.Unmarshal(data, &parts)
	if err != nil {
		return fmt.Errorf("decode text object: %w", err)
	}

	*t = Text(strings.TrimSpace(parts.Emphasis + " " + parts.Plain))

	return nil
}

// String returns the flattened text.
func (t Text) String() string {
	return string(t)
}

// Decode parses an archive document.
func Decode(r io.Reader) (*Archive, error) {
	var doc struct {
		Programs *[]Program `json:"programs"`
	}

	err := json.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}

	if doc.Programs == nil {
		return nil, ErrNoPrograms
	}

	return &Archive{Programs: *doc.Programs}, nil
}

// Options controls how an archive file is read.
type Options struct {
	// Validate checks the document against the embedded JSON schema first.
	Validate bool
}

// Open reads an archive from disk. Files ending in ".lz4" are decompressed
// transparently.
func Open(path string, opts Options) (*Archive, error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("open archive: %w", openErr)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), CompressedExt) {
		r = lz4.NewReader(f)
	}

	data, readErr := io.ReadAll(r)
	if readErr != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, readErr)
	}

	if opts.Validate {
		validateErr := ValidateDocument(data)
		if validateErr != nil {
			return nil, fmt.Errorf("%s: %w", path, validateErr)
		}
	}

	a, decodeErr := Decode(bytes.NewReader(data))
	if decodeErr != nil {
		return nil, fmt.Errorf("%s: %w", path, decodeErr)
	}

	return a, nil
}

// Compress writes src to dst as an LZ4 frame.
func Compress(dst io.Writer, src io.Reader) error {
	zw := lz4.NewWriter(dst)

	_, copyErr := io.Copy(zw, src)
	if copyErr != nil {
		return errors.Join(fmt.Errorf("compress archive: %w", copyErr), zw.Close())
	}

	closeErr := zw.Close()
	if closeErr != nil {
		return fmt.Errorf("finish lz4 frame: %w", closeErr)
	}

	return nil
}
