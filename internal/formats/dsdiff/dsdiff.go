// Package dsdiff implements the DSDIFF (Philips DSD Interchange File
// Format) chunk walker: the top-level FRM8 container, the nested PROP/SND
// property chunk (FS sample rate, CHNL channel count), and an embedded
// ID3v2 block read through a synthetic reader, grounded in shape on the
// wave package's chunk-walking loop generalized to DSDIFF's big-endian
// 64-bit chunk sizes and nested PROP sub-chunks.
package dsdiff

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

const maxChunks = 4096

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatDSDIFF }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 16 && string(header[0:4]) == "FRM8" && string(header[12:16]) == "DSD "
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 16)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "FRM8" || string(hdr[12:16]) != "DSD " {
		return nil, types.NewInvalidHeaderError("missing DSDIFF FRM8/DSD marker", 0)
	}
	frm8Size := int64(binary.BigEndian.Uint64(hdr[4:12]))
	end := 12 + frm8Size // ckDataSize counts from formType onward

	m := types.NewParsedAudioMetadata(types.FormatDSDIFF)

	offset := int64(16)
	for i := 0; i < maxChunks && offset+12 <= end; i++ {
		ckHdr, err := r.Read(offset, 12)
		if err != nil || len(ckHdr) < 12 {
			break
		}
		ckID := string(ckHdr[0:4])
		ckSize := int64(binary.BigEndian.Uint64(ckHdr[4:12]))
		dataStart := offset + 12

		switch ckID {
		case "PROP":
			parseProp(r, dataStart, dataStart+ckSize, m)
		case "ID3 ":
			body, err := r.Read(dataStart, int(ckSize))
			if err == nil && len(body) >= 3 && string(body[0:3]) == "ID3" {
				sub := reader.New(source.NewMemory(body, r.NameHint()), 0, 0)
				if _, err := tagparsers.ParseID3v2(sub, 0, m, p.Options); err != nil {
					m.Diagnostics.AddWarning("malformed DSDIFF ID3v2 chunk: " + err.Error())
				}
			}
		}

		offset = dataStart + ckSize
		if offset%2 == 1 {
			offset++ // chunks are padded to even size
		}
	}

	return m, nil
}

func parseProp(r *reader.WindowedReader, start, end int64, m *types.ParsedAudioMetadata) {
	propType, err := r.Read(start, 4)
	if err != nil || string(propType) != "SND " {
		return
	}

	offset := start + 4
	for i := 0; i < maxChunks && offset+12 <= end; i++ {
		ckHdr, err := r.Read(offset, 12)
		if err != nil || len(ckHdr) < 12 {
			break
		}
		ckID := string(ckHdr[0:4])
		ckSize := int64(binary.BigEndian.Uint64(ckHdr[4:12]))
		dataStart := offset + 12

		switch ckID {
		case "FS  ":
			body, err := r.Read(dataStart, 4)
			if err == nil && len(body) == 4 {
				m.CoreInfo.SetSampleRate(int(binary.BigEndian.Uint32(body)))
			}
		case "CHNL":
			body, err := r.Read(dataStart, 2)
			if err == nil && len(body) == 2 {
				m.CoreInfo.SetChannels(int(binary.BigEndian.Uint16(body)))
			}
		}

		offset = dataStart + ckSize
		if offset%2 == 1 {
			offset++
		}
	}
}
