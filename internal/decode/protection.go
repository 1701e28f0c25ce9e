package decode

import (
	"github.com/google/uuid"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
)

func init() {
	register("pssh", registry.Entry{Kind: box.KindProtectionSystemHeader, Full: true, Decode: decodeProtectionSystemHeader})
	register("senc", registry.Entry{Kind: box.KindSampleEncryption, Full: true, Decode: decodeSampleEncryption})
}

func readUUID(r *binary.ChainReader, what string) uuid.UUID {
	b := r.Bytes(16, what)
	if r.Error() != nil {
		return uuid.Nil
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		r.Fail(err)
	}
	return id
}

func decodeProtectionSystemHeader(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.ProtectionSystemHeader{SystemID: readUUID(r, "system id")}
	if h.Version > 0 {
		count := binary.ReadChained[uint32](r, "kid count")
		p.KIDs = make([]uuid.UUID, 0, capacity(r, count, 16))
		for i := uint32(0); i < count && r.Error() == nil; i++ {
			p.KIDs = append(p.KIDs, readUUID(r, "kid"))
		}
	}
	p.DataSize = binary.ReadChained[uint32](r, "data size")
	if r.Error() == nil && int64(p.DataSize) > r.Remaining() {
		r.Fail(malformed(r, h, "pssh data size exceeds box"))
	}
	p.Data = r.Bytes(int(p.DataSize), "data")
	return finish(r, p)
}

func decodeSampleEncryption(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.SampleEncryption{SampleCount: binary.ReadChained[uint32](r, "sample count")}
	p.Data = r.Rest("sample encryption records")
	return finish(r, p)
}
