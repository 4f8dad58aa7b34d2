// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapHhShPHao2MEΣSKU89Δ4UtwΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	sliceCnMkStk9wbv5RCch2c8RxQΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var MessageRoleMUS = messageRoleMUS{}

type messageRoleMUS struct{}

func (s messageRoleMUS) Marshal(v MessageRole, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s messageRoleMUS) Unmarshal(bs []byte) (v MessageRole, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = MessageRole(tmp)
	return
}

func (s messageRoleMUS) Size(v MessageRole) (size int) {
	return varint.Int.Size(int(v))
}

func (s messageRoleMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var MemoryRecordMUS = memoryRecordMUS{}

type memoryRecordMUS struct{}

func (s memoryRecordMUS) Marshal(v MemoryRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += MessageRoleMUS.Marshal(v.Role, bs[n:])
	n += ord.String.Marshal(v.Contents, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	n += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Marshal(v.Vector, bs[n:])
	return n + mapHhShPHao2MEΣSKU89Δ4UtwΞΞ.Marshal(v.Metadata, bs[n:])
}

func (s memoryRecordMUS) Unmarshal(bs []byte) (v MemoryRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Role, n1, err = MessageRoleMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Contents, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapHhShPHao2MEΣSKU89Δ4UtwΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s memoryRecordMUS) Size(v MemoryRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += MessageRoleMUS.Size(v.Role)
	size += ord.String.Size(v.Contents)
	size += raw.TimeUnixMicro.Size(v.Timestamp)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	size += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Size(v.Vector)
	return size + mapHhShPHao2MEΣSKU89Δ4UtwΞΞ.Size(v.Metadata)
}

func (s memoryRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = MessageRoleMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapHhShPHao2MEΣSKU89Δ4UtwΞΞ.Skip(bs[n:])
	n += n1
	return
}

var KnowledgeChunkMUS = knowledgeChunkMUS{}

type knowledgeChunkMUS struct{}

func (s knowledgeChunkMUS) Marshal(v KnowledgeChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Contents, bs[n:])
	n += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Marshal(v.Vector, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s knowledgeChunkMUS) Unmarshal(bs []byte) (v KnowledgeChunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Contents, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s knowledgeChunkMUS) Size(v KnowledgeChunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Contents)
	size += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Size(v.Vector)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s knowledgeChunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
