// Package frame implements the frame-chunking and padding discipline that
// lifts a raw frame sequence into fixed-arity multi-frames suitable for a
// single circuit instance (spec §4.C).
package frame

import (
	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/store"
)

// MultiFrame batches up to ChunkSize consecutive frames into one circuit
// instance (spec §3 "Multi-Frame"). Frames may be nil at verification
// time; only Input/Output/Initial are required then.
type MultiFrame struct {
	Initial   eval.IO
	Input     eval.IO
	Output    eval.IO
	Frames    []eval.Frame
	ChunkSize int
	Store     *store.Store

	// Dummy multi-frames (spec §4.C step 3) carry no real frames and
	// exist only to pad the multi-frame count to a power of two.
	Dummy bool
}

// Precedes checks the multi-frame chaining invariant (spec §3 invariant
// 2): output of M_k equals input of M_{k+1}.
func (m MultiFrame) Precedes(next MultiFrame) bool {
	return m.Output.Equal(next.Input)
}

// NeedsFramePadding is the chunker's padding predicate (spec §4.C): it
// returns how many stutter frames bring totalFrames up to the next
// multiple of k, i.e. 0 when totalFrames mod k is 0 and k minus that
// remainder otherwise.
func NeedsFramePadding(totalFrames, k int) int {
	r := totalFrames % k
	if r == 0 {
		return 0
	}
	return k - r
}

// Chunk partitions a raw frame sequence into fixed-size multi-frames,
// padding the final group with stutter frames and the multi-frame vector
// itself with dummy multi-frames so that len(result) is a power of two
// >= 2 (spec §4.C).
func Chunk(s *store.Store, initial eval.IO, frames []eval.Frame, k int) []MultiFrame {
	if k <= 0 {
		panic("frame: chunk size must be positive")
	}
	if len(frames) == 0 {
		return nil
	}

	padded := eval.WithPadding(s, frames, func(total int) int {
		return NeedsFramePadding(total, k)
	})

	var multis []MultiFrame
	for i := 0; i < len(padded); i += k {
		group := padded[i : i+k]
		multis = append(multis, MultiFrame{
			Initial:   initial,
			Input:     group[0].Input,
			Output:    group[len(group)-1].Output,
			Frames:    group,
			ChunkSize: k,
			Store:     s,
		})
	}

	return padToPowerOfTwo(multis, k)
}

// padToPowerOfTwo appends dummy multi-frames whose input and output are
// both the final terminal state until the count is a power of two >= 2
// (spec §4.C step 3). It copies no proof: the prover (prove.Aggregate,
// prove.ProveSequential) proves each dummy multi-frame on its own like
// any other multi-frame.
func padToPowerOfTwo(multis []MultiFrame, k int) []MultiFrame {
	target := nextPow2(len(multis))
	if target < 2 {
		target = 2
	}
	if len(multis) == 0 {
		return multis
	}
	terminal := multis[len(multis)-1].Output
	for len(multis) < target {
		multis = append(multis, MultiFrame{
			Initial:   multis[0].Initial,
			Input:     terminal,
			Output:    terminal,
			ChunkSize: k,
			Store:     multis[0].Store,
			Dummy:     true,
		})
	}
	return multis
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
