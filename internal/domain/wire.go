package domain

import "fmt"

// WireForkPointer is a fork pointer as sent by the search backend
type WireForkPointer struct {
	Te        int `json:"te"`
	ForkIndex int `json:"fork_index"`
}

// WireCursor is a cursor as sent by the search backend
type WireCursor struct {
	Tesuu        int               `json:"tesuu"`
	ForkPointers []WireForkPointer `json:"fork_pointers"`
}

// WireHit is a raw search hit
type WireHit struct {
	FileID string     `json:"file_id"`
	Gen    int64      `json:"gen"`
	NodeID string     `json:"node_id"`
	Cursor WireCursor `json:"cursor"`
}

// FromWireFormat maps a backend cursor into a canonical Cursor
func FromWireFormat(wc WireCursor) (Cursor, error) {
	fps := make([]ForkPointer, 0, len(wc.ForkPointers))
	for _, w := range wc.ForkPointers {
		fps = append(fps, ForkPointer{Te: w.Te, ForkIndex: w.ForkIndex})
	}
	return NewCursor(wc.Tesuu, fps)
}

// ToWireCursor renders a cursor in the backend's shape
func ToWireCursor(c Cursor) WireCursor {
	normalized := NormalizeForkPointers(c.ForkPointers)
	wc := WireCursor{
		Tesuu:        c.Tesuu,
		ForkPointers: make([]WireForkPointer, 0, len(normalized)),
	}
	for _, fp := range normalized {
		wc.ForkPointers = append(wc.ForkPointers, WireForkPointer{Te: fp.Te, ForkIndex: fp.ForkIndex})
	}
	return wc
}

// HitFromWire converts a raw search hit
func HitFromWire(w WireHit) (PositionHit, error) {
	c, err := FromWireFormat(w.Cursor)
	if err != nil {
		return PositionHit{}, fmt.Errorf("hit %s/%s: %w", w.FileID, w.NodeID, err)
	}
	return PositionHit{
		FileIdentity:   w.FileID,
		FileGeneration: w.Gen,
		NodeID:         NodeID(w.NodeID),
		Cursor:         c,
	}, nil
}
