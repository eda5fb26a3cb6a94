package types

// ParserDiagnostics carries non-fatal information about how a parse went:
// which parser ran, how many bytes it pulled through the reader, and any
// warnings it chose not to escalate to a fatal error.
type ParserDiagnostics struct {
	ParserName string
	BytesRead  int64
	Warnings   []string
	Context    map[string]string
}

// AddWarning appends a warning, initializing the slice lazily.
func (d *ParserDiagnostics) AddWarning(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

// SetContext records a single context key/value, initializing the map
// lazily.
func (d *ParserDiagnostics) SetContext(key, value string) {
	if d.Context == nil {
		d.Context = make(map[string]string)
	}
	d.Context[key] = value
}

// ParsedAudioMetadata is the normalized result every FormatParser produces.
type ParsedAudioMetadata struct {
	Format      AudioFormat
	CoreInfo    AudioCoreInfo
	Tags        map[string]MetadataTagValue
	Extensions  map[string]MetadataTagValue
	Diagnostics ParserDiagnostics
}

// NewParsedAudioMetadata returns a result with initialized maps, ready for
// a format parser to populate.
func NewParsedAudioMetadata(format AudioFormat) *ParsedAudioMetadata {
	return &ParsedAudioMetadata{
		Format:     format,
		Tags:       make(map[string]MetadataTagValue),
		Extensions: make(map[string]MetadataTagValue),
	}
}

// SetTag stores a tag value verbatim under key (case and punctuation
// preserved as the source format spelled it).
func (m *ParsedAudioMetadata) SetTag(key string, value MetadataTagValue) {
	m.Tags[key] = value
}

// AppendTagText appends to an existing multi-value text tag, or creates
// one if absent. Used by Vorbis/ID3v2.4 repeated-key handling.
func (m *ParsedAudioMetadata) AppendTagText(key, value string) {
	existing, ok := m.Tags[key]
	if ok && existing.Kind == TagText {
		existing.Text = append(existing.Text, value)
		m.Tags[key] = existing
		return
	}
	m.Tags[key] = NewTextValue(value)
}

// SetExtension stores a format-specific supplementary field.
func (m *ParsedAudioMetadata) SetExtension(key string, value MetadataTagValue) {
	m.Extensions[key] = value
}

// HasTag reports whether a tag key is present.
func (m *ParsedAudioMetadata) HasTag(key string) bool {
	_, ok := m.Tags[key]
	return ok
}

// CoverArt returns the first binary tag whose key matches a known
// picture/cover tag name (PICTURE, APIC*, covr, METADATA_BLOCK_PICTURE),
// a convenience accessor layered over the generic Tags map.
func (m *ParsedAudioMetadata) CoverArt() (*BinaryDigest, bool) {
	for _, key := range []string{"PICTURE", "covr", "METADATA_BLOCK_PICTURE"} {
		if v, ok := m.Tags[key]; ok && v.Kind == TagBinary {
			return v.Binary, true
		}
	}
	for key, v := range m.Tags {
		if v.Kind != TagBinary {
			continue
		}
		if len(key) >= 4 && key[:4] == "APIC" {
			return v.Binary, true
		}
	}
	return nil, false
}
