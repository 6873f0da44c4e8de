package types

import "fmt"

// TargetKind identifies what an analysis is performed against
type TargetKind string

// TargetKind constants
const (
	TargetDocument TargetKind = "document"
	TargetMemo     TargetKind = "memo"
)

// ParseTargetKind converts a string into a TargetKind
func ParseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(s) {
	case TargetDocument, TargetMemo:
		return TargetKind(s), nil
	default:
		return "", fmt.Errorf("unknown target kind %q (expected %q or %q)", s, TargetDocument, TargetMemo)
	}
}

// Target is the document or memo an analysis run is performed against
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

// Key returns the identity used to serialize runs per target
func (t Target) Key() string {
	return string(t.Kind) + ":" + t.ID
}

func (t Target) String() string {
	return t.Key()
}
