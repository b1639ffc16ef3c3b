// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/tscheck/pkg/base"
)

// Descriptor PSI中的描述符，内容不做解析
type Descriptor struct {
	Tag  uint8
	Data []byte
}

// PackRegistrationDescriptor registration_descriptor，SCTE-35的ES使用"CUEI"
func PackRegistrationDescriptor(formatIdentifier uint32) Descriptor {
	data := make([]byte, 4)
	bele.BePutUint32(data, formatIdentifier)
	return Descriptor{Tag: DescriptorTagRegistration, Data: data}
}

// DescriptorFromBytes b为包含tag和length的完整描述符，比如 ebp.Descriptor.Pack 的结果
func DescriptorFromBytes(b []byte) Descriptor {
	if len(b) < 2 {
		return Descriptor{}
	}
	return Descriptor{Tag: b[0], Data: b[2:]}
}

func descriptorsLength(ds []Descriptor) int {
	n := 0
	for _, d := range ds {
		n += 2 + len(d.Data)
	}
	return n
}

func writeDescriptors(bw *base.BitWriter, ds []Descriptor) {
	for _, d := range ds {
		bw.WriteBits(8, uint64(d.Tag))
		bw.WriteBits(8, uint64(len(d.Data)))
		bw.WriteBytes(d.Data)
	}
}

func readDescriptors(br *base.BitReader, length uint16) (ds []Descriptor) {
	end := br.Consumed() + uint(length)*8
	for br.Consumed() < end && br.Err() == nil {
		var d Descriptor
		d.Tag = br.ReadBits8(8)
		l := br.ReadBits8(8)
		d.Data = br.ReadBytes(uint(l))
		ds = append(ds, d)
	}
	return
}

// packPsiSection 打包带section_syntax_indicator的PSI section，包括末尾的CRC32
//
// table_id                 [8b]  *
// section_syntax_indicator [1b]
// '0'                      [1b]
// reserved                 [2b]
// section_length           [12b] **
// table_id_extension       [16b] **
// reserved                 [2b]
// version_number           [5b]
// current_next_indicator   [1b]  *
// section_number           [8b]  *
// last_section_number      [8b]  *
// ...
// CRC_32                   [32b] ****
func packPsiSection(tableId uint8, tableIdExtension uint16, data []byte) []byte {
	sectionLength := 5 + len(data) + 4
	bw := base.NewBitWriter(3 + sectionLength)
	bw.WriteBits(8, uint64(tableId))
	bw.WriteFlag(true)
	bw.WriteFlag(false)
	bw.WriteReserved(2)
	bw.WriteBits(12, uint64(sectionLength))
	bw.WriteBits(16, uint64(tableIdExtension))
	bw.WriteReserved(2)
	bw.WriteBits(5, 0)
	bw.WriteFlag(true)
	bw.WriteBits(8, 0)
	bw.WriteBits(8, 0)
	bw.WriteBytes(data)
	bw.WriteBits(32, uint64(CalcCrc32(0xFFFFFFFF, bw.Bytes())))
	return bw.Bytes()
}
