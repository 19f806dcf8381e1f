package model

import "github.com/minio/highwayhash"

// hashKey is a fixed 32-byte key so that Hash is deterministic across runs
// and machines, which is required for the byte-identical output property
// (spec §8.1). Grounded on inspector/graph/hash.go.
var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a stable 64-bit content hash, used by FlowTrace.Fingerprint
// (filled in by pkg/flow) to recognise when two Flow Analyzer runs retraced
// the same call chain.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	_, err = h.Write(data)
	return h.Sum64(), err
}
