package prove

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/probeum/lurk-snark/field"
)

// MaxFakeSRSSize bounds the deterministic dummy SRS fallback (spec §4.E).
const MaxFakeSRSSize = (2 << 14) + 1

// SRS is the inner-product argument's structured reference string,
// shared across all chunk sizes (spec §4.E). Its real contents (group
// elements of an inner-product commitment scheme) are the same
// black-box-library territory as Params; SRS instead records the backing
// bytes and whether they came from a real file or the fake fallback, the
// two facts every caller in this module actually needs.
type SRS struct {
	bytes []byte
	mem   mmap.MMap // nil when loaded from the fake fallback
	Fake  bool
}

// Close releases the mmap'd region, if any.
func (s *SRS) Close() error {
	if s.mem != nil {
		return s.mem.Unmap()
	}
	return nil
}

// LoadSRS opens the existing file at path (it never creates one) and
// mmaps it with mmap.Map and read/write protection. When path
// does not exist and allowFake is true, a deterministic dummy SRS is
// synthesized instead (spec §4.E "fall back to a deterministic dummy SRS
// from a fixed seed"); allowFake MUST be false in production
// configuration.
func LoadSRS(path string, allowFake bool) (*SRS, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("prove: open SRS %s: %w", path, err)
		}
		if !allowFake {
			return nil, fmt.Errorf("prove: SRS file %s missing and fake SRS disabled", path)
		}
		return fakeSRS(), nil
	}
	defer f.Close()

	mem, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("prove: mmap SRS %s: %w", path, err)
	}
	return &SRS{bytes: mem, mem: mem}, nil
}

// fakeSRSSeed is the fixed 16-byte constant used to derive the
// development-only dummy SRS (spec §4.E).
var fakeSRSSeed = [16]byte{'L', 'U', 'R', 'K', '-', 'F', 'A', 'K', 'E', '-', 'S', 'R', 'S', 0, 0, 1}

func fakeSRS() *SRS {
	buf := make([]byte, 0, MaxFakeSRSSize)
	acc := field.SetBytes(fakeSRSSeed[:])
	for len(buf) < MaxFakeSRSSize {
		acc = field.HashFields(acc)
		b := acc.Bytes()
		buf = append(buf, b[:]...)
	}
	return &SRS{bytes: buf[:MaxFakeSRSSize], Fake: true}
}

// Specialize derives the sub-SRS used for an aggregation of n proofs
// (spec §4.F "specialize srs_vk for aggregated_proof.proof_count").
func (s *SRS) Specialize(n int) field.Element {
	return field.HashFields(field.SetBytes(s.bytes[:minInt(len(s.bytes), 32)]), field.FromUint64(uint64(n)))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
