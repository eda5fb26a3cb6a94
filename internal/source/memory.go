package source

// memorySource serves slices of a pre-supplied buffer. It never fails
// except for the universal negative-offset check.
type memorySource struct {
	data     []byte
	nameHint string
}

// NewMemory wraps an in-memory buffer as a ByteSource. The buffer is
// copied so later mutation by the caller cannot affect in-flight parses.
func NewMemory(data []byte, nameHint string) ByteSource {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &memorySource{data: cp, nameHint: nameHint}
}

func (s *memorySource) Length() (int64, bool) { return int64(len(s.data)), true }
func (s *memorySource) NameHint() string      { return s.nameHint }

func (s *memorySource) Read(offset int64, length int) ([]byte, error) {
	if err := checkOffset(offset); err != nil {
		return nil, err
	}
	if length == 0 || offset >= int64(len(s.data)) {
		return nil, nil
	}
	end := offset + int64(length)
	if end > int64(len(s.data)) {
		end = int64(len(s.data))
	}
	out := make([]byte, end-offset)
	copy(out, s.data[offset:end])
	return out, nil
}

func (s *memorySource) Close() error { return nil }
