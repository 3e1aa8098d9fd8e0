package constant

// MemoryKind identifies what media, if any, a memory carries.
type MemoryKind string

const (
	KindText  MemoryKind = "text"
	KindPhoto MemoryKind = "photo"
	KindVideo MemoryKind = "video"
)

func (k MemoryKind) String() string {
	return string(k)
}

// HasMedia reports whether the kind requires an attached file.
func (k MemoryKind) HasMedia() bool {
	return k == KindPhoto || k == KindVideo
}
