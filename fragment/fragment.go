// Package fragment implements the TOPAY-Z512 fragmentation engine. It splits
// byte buffers into integrity-checked fixed-size fragments for transport over
// bandwidth-constrained links, and splits one KEM operation into K
// independent component operations that can run on separate cores or devices.
package fragment

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	topayz512 "github.com/TOPAY-FOUNDATION/TOPAY-Z512"
	"github.com/TOPAY-FOUNDATION/TOPAY-Z512/utils"
)

// fragmentHeaderSize is the index‖total‖data_len prefix of the wire format.
const fragmentHeaderSize = 12

// FragmentData splits data into FragmentSize-byte fragments, each carrying
// its index, the total fragment count, and a SHA3-512 digest of its payload.
// The last fragment may be shorter. Empty input and inputs that would exceed
// MaxFragments are rejected.
func FragmentData(p topayz512.Params, data []byte) ([]topayz512.Fragment, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", topayz512.ErrFragmentation)
	}
	count := (len(data) + p.FragmentSize - 1) / p.FragmentSize
	if count > p.MaxFragments {
		return nil, fmt.Errorf("%w: %d bytes need %d fragments, limit is %d",
			topayz512.ErrFragmentation, len(data), count, p.MaxFragments)
	}

	fragments := make([]topayz512.Fragment, count)
	for i := 0; i < count; i++ {
		start := i * p.FragmentSize
		end := start + p.FragmentSize
		if end > len(data) {
			end = len(data)
		}
		payload := make([]byte, end-start)
		copy(payload, data[start:end])

		fragments[i] = topayz512.Fragment{
			Index:  uint32(i),
			Total:  uint32(count),
			Data:   payload,
			Digest: utils.Hash(payload),
		}
	}
	return fragments, nil
}

// VerifyFragment reports whether the fragment's digest matches its payload.
func VerifyFragment(f *topayz512.Fragment) bool {
	return utils.ConstantTimeEqual(f.Digest, utils.Hash(f.Data))
}

// ReconstructData validates a fragment set and reassembles the original
// buffer. All fragments must share the same total, cover exactly 0..total-1
// with no gaps or duplicates, and carry matching digests; fragments may
// arrive in any order but are recombined by index.
func ReconstructData(fragments []topayz512.Fragment) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: empty fragment set", topayz512.ErrFragmentation)
	}

	total := fragments[0].Total
	if uint32(len(fragments)) != total {
		return nil, fmt.Errorf("%w: fragment count mismatch: have %d, total says %d",
			topayz512.ErrFragmentation, len(fragments), total)
	}

	ordered := make([]topayz512.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	for i := range ordered {
		if ordered[i].Total != total {
			return nil, fmt.Errorf("%w: fragment %d carries total %d, expected %d",
				topayz512.ErrFragmentation, ordered[i].Index, ordered[i].Total, total)
		}
		if ordered[i].Index != uint32(i) {
			return nil, fmt.Errorf("%w: missing or duplicate fragment index %d",
				topayz512.ErrFragmentation, i)
		}
	}

	// Digest checks are independent per fragment and run in parallel.
	errs := make([]error, len(ordered))
	var wg sync.WaitGroup
	for i := range ordered {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if !VerifyFragment(&ordered[i]) {
				errs[i] = fmt.Errorf("%w: digest mismatch at fragment %d",
					topayz512.ErrFragmentation, ordered[i].Index)
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var size int
	for i := range ordered {
		size += len(ordered[i].Data)
	}
	data := make([]byte, 0, size)
	for i := range ordered {
		data = append(data, ordered[i].Data...)
	}
	return data, nil
}

// SerializeFragment encodes a fragment for the wire:
// index(u32 LE) ‖ total(u32 LE) ‖ data_len(u32 LE) ‖ data ‖ digest.
func SerializeFragment(f *topayz512.Fragment) []byte {
	out := make([]byte, fragmentHeaderSize+len(f.Data)+len(f.Digest))
	binary.LittleEndian.PutUint32(out[0:], f.Index)
	binary.LittleEndian.PutUint32(out[4:], f.Total)
	binary.LittleEndian.PutUint32(out[8:], uint32(len(f.Data)))
	copy(out[fragmentHeaderSize:], f.Data)
	copy(out[fragmentHeaderSize+len(f.Data):], f.Digest)
	return out
}

// ParseFragment decodes a wire-format fragment and checks its structural
// invariants. The digest itself is verified by VerifyFragment or
// ReconstructData, not here.
func ParseFragment(data []byte) (*topayz512.Fragment, error) {
	if len(data) < fragmentHeaderSize+utils.DigestSize {
		return nil, fmt.Errorf("%w: truncated fragment", topayz512.ErrFragmentation)
	}
	index := binary.LittleEndian.Uint32(data[0:])
	total := binary.LittleEndian.Uint32(data[4:])
	dataLen := binary.LittleEndian.Uint32(data[8:])

	if index >= total {
		return nil, fmt.Errorf("%w: fragment index %d out of range for total %d",
			topayz512.ErrFragmentation, index, total)
	}
	if uint64(fragmentHeaderSize)+uint64(dataLen)+uint64(utils.DigestSize) != uint64(len(data)) {
		return nil, fmt.Errorf("%w: fragment length mismatch", topayz512.ErrFragmentation)
	}

	payload := make([]byte, dataLen)
	copy(payload, data[fragmentHeaderSize:fragmentHeaderSize+dataLen])
	digest := make([]byte, utils.DigestSize)
	copy(digest, data[fragmentHeaderSize+dataLen:])

	return &topayz512.Fragment{Index: index, Total: total, Data: payload, Digest: digest}, nil
}
