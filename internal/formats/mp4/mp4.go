// Package mp4 implements the MP4/QuickTime atom tree walker shared by
// both the mp4 and m4a formats: technical metadata from moov/trak/mdia
// and iTunes-style tags from moov/udta/meta/ilst, built against the
// registry.FormatParser interface and the MetadataTagValue tag model.
package mp4

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

const maxAtomsPerLevel = 4096

type atom struct {
	kind         string
	payloadStart int64
	payloadEnd   int64
}

// Parser handles both FormatMP4 and FormatM4A: the atom tree is
// identical between them, only the probed extension differs.
type Parser struct {
	Options tagparsers.Options
	format  types.AudioFormat
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts, format: types.FormatMP4} }

func NewM4A(opts tagparsers.Options) *Parser { return &Parser{Options: opts, format: types.FormatM4A} }

func (p *Parser) Format() types.AudioFormat { return p.format }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 8 && string(header[4:8]) == "ftyp"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	fileLength, known := r.Size()
	if !known {
		fileLength = 1 << 62
	}

	top, err := walkAtoms(r, 0, fileLength)
	if err != nil {
		return nil, err
	}

	ftyp := findAtom(top, "ftyp")
	if ftyp == nil {
		return nil, types.NewInvalidHeaderError("missing ftyp atom", 0)
	}

	m := types.NewParsedAudioMetadata(p.format)

	moov := findAtom(top, "moov")
	if moov == nil {
		return m, nil
	}
	moovAtoms, err := walkAtoms(r, moov.payloadStart, moov.payloadEnd)
	if err != nil {
		return m, nil
	}

	parseAudioTrak(r, moovAtoms, m)
	parseTags(r, moovAtoms, m, p.Options)

	return m, nil
}

// walkAtoms iterates the atom sequence in [start, end), stopping early (and
// without error) if a child's declared end would exceed the parent's.
func walkAtoms(r *reader.WindowedReader, start, end int64) ([]atom, error) {
	var atoms []atom
	offset := start
	for i := 0; i < maxAtomsPerLevel && offset+8 <= end; i++ {
		hdr, err := r.Read(offset, 8)
		if err != nil || len(hdr) < 8 {
			break
		}
		size := int64(binary.BigEndian.Uint32(hdr[0:4]))
		kind := string(hdr[4:8])
		headerSize := int64(8)

		switch size {
		case 1:
			ext, err := r.Read(offset+8, 8)
			if err != nil || len(ext) < 8 {
				return atoms, nil
			}
			size = int64(binary.BigEndian.Uint64(ext))
			headerSize = 16
		case 0:
			size = end - offset
		}

		payloadStart := offset + headerSize
		payloadEnd := offset + size
		if size < headerSize || payloadEnd > end {
			break
		}

		atoms = append(atoms, atom{kind: kind, payloadStart: payloadStart, payloadEnd: payloadEnd})
		offset = payloadEnd
	}
	return atoms, nil
}

func findAtom(atoms []atom, kind string) *atom {
	for i := range atoms {
		if atoms[i].kind == kind {
			return &atoms[i]
		}
	}
	return nil
}

func parseAudioTrak(r *reader.WindowedReader, moovAtoms []atom, m *types.ParsedAudioMetadata) {
	for _, a := range moovAtoms {
		if a.kind != "trak" {
			continue
		}
		trakAtoms, err := walkAtoms(r, a.payloadStart, a.payloadEnd)
		if err != nil {
			continue
		}
		mdia := findAtom(trakAtoms, "mdia")
		if mdia == nil {
			continue
		}
		mdiaAtoms, err := walkAtoms(r, mdia.payloadStart, mdia.payloadEnd)
		if err != nil {
			continue
		}
		hdlr := findAtom(mdiaAtoms, "hdlr")
		if hdlr == nil {
			continue
		}
		hdlrBody, err := r.Read(hdlr.payloadStart, 12)
		if err != nil || len(hdlrBody) < 12 || string(hdlrBody[8:12]) != "soun" {
			continue
		}

		extractMDHD(r, mdiaAtoms, m)
		extractSTSD(r, mdiaAtoms, m)
		return
	}
}

func extractMDHD(r *reader.WindowedReader, mdiaAtoms []atom, m *types.ParsedAudioMetadata) {
	mdhd := findAtom(mdiaAtoms, "mdhd")
	if mdhd == nil {
		return
	}
	version, err := r.ReadUint8(mdhd.payloadStart)
	if err != nil {
		return
	}

	var timescale uint32
	var duration uint64
	if version == 1 {
		body, err := r.Read(mdhd.payloadStart+16, 12)
		if err != nil || len(body) < 12 {
			return
		}
		timescale = binary.BigEndian.Uint32(body[0:4])
		duration = binary.BigEndian.Uint64(body[4:12])
	} else {
		body, err := r.Read(mdhd.payloadStart+8, 8)
		if err != nil || len(body) < 8 {
			return
		}
		timescale = binary.BigEndian.Uint32(body[0:4])
		duration = uint64(binary.BigEndian.Uint32(body[4:8]))
	}
	if timescale > 0 {
		m.CoreInfo.SetLength(float64(duration) / float64(timescale))
	}
}

func extractSTSD(r *reader.WindowedReader, mdiaAtoms []atom, m *types.ParsedAudioMetadata) {
	minf := findAtom(mdiaAtoms, "minf")
	if minf == nil {
		return
	}
	minfAtoms, err := walkAtoms(r, minf.payloadStart, minf.payloadEnd)
	if err != nil {
		return
	}
	stbl := findAtom(minfAtoms, "stbl")
	if stbl == nil {
		return
	}
	stblAtoms, err := walkAtoms(r, stbl.payloadStart, stbl.payloadEnd)
	if err != nil {
		return
	}
	stsd := findAtom(stblAtoms, "stsd")
	if stsd == nil {
		return
	}

	entryStart := stsd.payloadStart + 8 // skip version/flags + entry count
	entryHdr, err := r.Read(entryStart, 8)
	if err != nil || len(entryHdr) < 8 {
		return
	}
	entryPayloadStart := entryStart + 8

	body, err := r.Read(entryPayloadStart, 28)
	if err != nil || len(body) < 28 {
		return
	}
	channels := int(binary.BigEndian.Uint16(body[16:18]))
	bitsPerSample := int(binary.BigEndian.Uint16(body[18:20]))
	sampleRateFixed := binary.BigEndian.Uint32(body[24:28])

	m.CoreInfo.SetChannels(channels)
	m.CoreInfo.SetBitsPerSample(bitsPerSample)
	m.CoreInfo.SetSampleRate(int(sampleRateFixed >> 16))
}

func parseTags(r *reader.WindowedReader, moovAtoms []atom, m *types.ParsedAudioMetadata, opts tagparsers.Options) {
	udta := findAtom(moovAtoms, "udta")
	if udta == nil {
		return
	}
	udtaAtoms, err := walkAtoms(r, udta.payloadStart, udta.payloadEnd)
	if err != nil {
		return
	}
	meta := findAtom(udtaAtoms, "meta")
	if meta == nil {
		return
	}
	// meta is a full box: version/flags occupy its first 4 bytes.
	metaAtoms, err := walkAtoms(r, meta.payloadStart+4, meta.payloadEnd)
	if err != nil {
		return
	}
	ilst := findAtom(metaAtoms, "ilst")
	if ilst == nil {
		return
	}
	items, err := walkAtoms(r, ilst.payloadStart, ilst.payloadEnd)
	if err != nil {
		return
	}

	for _, item := range items {
		children, err := walkAtoms(r, item.payloadStart, item.payloadEnd)
		if err != nil {
			continue
		}
		for _, child := range children {
			if child.kind != "data" {
				continue
			}
			dataBody, err := r.Read(child.payloadStart, int(child.payloadEnd-child.payloadStart))
			if err != nil || len(dataBody) < 8 {
				continue
			}
			typeCode := binary.BigEndian.Uint32(dataBody[0:4])
			value := dataBody[8:]
			tagparsers.ParseMP4Data(item.kind, typeCode, value, m, opts)
		}
	}
}
