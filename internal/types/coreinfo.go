package types

// AudioCoreInfo holds the core audio parameters a container may expose.
// Every field is independently optional: a parser leaves a pointer nil
// when the container doesn't carry that quantity.
type AudioCoreInfo struct {
	Length        *float64 // seconds
	Bitrate       *int     // bits per second
	SampleRate    *int     // Hz
	Channels      *int
	BitsPerSample *int
}

func f64p(v float64) *float64 { return &v }
func intp(v int) *int         { return &v }

// SetLength sets Length, taking the address of a copy so callers can pass
// a local variable without worrying about aliasing.
func (c *AudioCoreInfo) SetLength(v float64) { c.Length = f64p(v) }

// SetBitrate sets Bitrate.
func (c *AudioCoreInfo) SetBitrate(v int) { c.Bitrate = intp(v) }

// SetSampleRate sets SampleRate.
func (c *AudioCoreInfo) SetSampleRate(v int) { c.SampleRate = intp(v) }

// SetChannels sets Channels.
func (c *AudioCoreInfo) SetChannels(v int) { c.Channels = intp(v) }

// SetBitsPerSample sets BitsPerSample.
func (c *AudioCoreInfo) SetBitsPerSample(v int) { c.BitsPerSample = intp(v) }
