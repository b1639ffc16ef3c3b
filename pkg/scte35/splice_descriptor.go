// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// SpliceDescriptor
//
// splice_descriptor_tag    [8b]  *
// descriptor_length        [8b]  *
// identifier               [32b] ****
// private_byte             [descriptor_length*8 b]
//
// 注意，这里descriptor_length之后除了identifier还有完整descriptor_length个字节，已有的抓包数据都是按这个方式生成的
type SpliceDescriptor struct {
	Tag        uint8
	Length     uint8
	Identifier uint32

	// 长度为0时是空切片，不是nil
	PrivateBytes []byte
}

func readSpliceDescriptor(br *base.BitReader) (d SpliceDescriptor) {
	d.Tag = br.ReadBits8(8)
	d.Length = br.ReadBits8(8)
	d.Identifier = br.ReadBits32(32)
	d.PrivateBytes = br.ReadBytes(uint(d.Length))
	return
}

// Length 由 PrivateBytes 的长度决定
func (d *SpliceDescriptor) write(bw *base.BitWriter) {
	bw.WriteBits(8, uint64(d.Tag))
	bw.WriteBits(8, uint64(len(d.PrivateBytes)))
	bw.WriteBits(32, uint64(d.Identifier))
	bw.WriteBytes(d.PrivateBytes)
}

func (d *SpliceDescriptor) bitLength() uint {
	return 48 + uint(len(d.PrivateBytes))*8
}

func (d *SpliceDescriptor) clone() SpliceDescriptor {
	out := *d
	if d.PrivateBytes != nil {
		out.PrivateBytes = append([]byte{}, d.PrivateBytes...)
	}
	return out
}
