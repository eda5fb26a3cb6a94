// Package apev2 implements whole-file APEv2 tag recovery: a container
// whose entire identity is its trailing APEv2 footer, with no other
// structure to parse. Wraps tagparsers.ParseAPEv2Footer the same way the
// mp3 and tak packages invoke it for their own trailing tag blocks.
package apev2

import (
	"path/filepath"
	"strings"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatAPEv2 }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	// An APEv2 header tag variant starts with the same magic as the more
	// common trailing footer. Bare APEv2 recovery is otherwise identified
	// by extension, since the file otherwise carries no distinguishing
	// leading bytes.
	if len(header) >= 8 && string(header[0:8]) == "APETAGEX" {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(nameHint), "."))
	return ext == "apev2"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	m := types.NewParsedAudioMetadata(types.FormatAPEv2)

	fileLength, known := r.Size()
	if !known {
		return m, types.NewInvalidHeaderError("APEv2 recovery requires a known file length", 0)
	}

	found, err := tagparsers.ParseAPEv2Footer(r, fileLength, m, p.Options)
	if err != nil {
		return m, err
	}
	if !found {
		return m, types.NewInvalidHeaderError("no APEv2 footer found", fileLength-32)
	}

	return m, nil
}
