package domain

import (
	"strconv"
	"strings"
)

// PositionHit is a located position returned by a cross-file search.
// FileGeneration changes whenever the file is edited.
type PositionHit struct {
	FileIdentity   string
	FileGeneration int64
	NodeID         NodeID
	Cursor         Cursor
}

// HitKey builds the identity of a hit, used for deduplication and as a
// stable list item key: "{file}:{gen}:{node}:{tesuu}:{forkIndex,...}".
func HitKey(hit PositionHit) string {
	fps := NormalizeForkPointers(hit.Cursor.ForkPointers)
	forks := make([]string, len(fps))
	for i, fp := range fps {
		forks[i] = strconv.Itoa(fp.ForkIndex)
	}

	var sb strings.Builder
	sb.WriteString(hit.FileIdentity)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatInt(hit.FileGeneration, 10))
	sb.WriteByte(':')
	sb.WriteString(string(hit.NodeID))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(hit.Cursor.Tesuu))
	sb.WriteByte(':')
	sb.WriteString(strings.Join(forks, ","))
	return sb.String()
}

// SameHit reports whether two hits locate the same position
func SameHit(a, b PositionHit) bool {
	return HitKey(a) == HitKey(b)
}

// DedupeHits drops repeated hits, keeping the first occurrence
func DedupeHits(hits []PositionHit) []PositionHit {
	seen := make(map[string]struct{}, len(hits))
	out := make([]PositionHit, 0, len(hits))
	for _, h := range hits {
		k := HitKey(h)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, h)
	}
	return out
}
