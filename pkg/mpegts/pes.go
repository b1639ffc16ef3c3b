// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/tscheck/pkg/base"
)

// -----------------------------------------------------------
// <iso13818-1.pdf>
// <2.4.3.6 PES packet> <page 49/174>
// <Table E.1 - PES packet header example> <page 142/174>
// <F.0.2 PES packet> <page 144/174>
// packet_start_code_prefix  [24b] *** always 0x00, 0x00, 0x01
// stream_id                 [8b]  *
// PES_packet_length         [16b] **
// '10'                      [2b]
// PES_scrambling_control    [2b]
// PES_priority              [1b]
// data_alignment_indicator  [1b]
// copyright                 [1b]
// original_or_copy          [1b]  *
// PTS_DTS_flags             [2b]
// ESCR_flag                 [1b]
// ES_rate_flag              [1b]
// DSM_trick_mode_flag       [1b]
// additional_copy_info_flag [1b]
// PES_CRC_flag              [1b]
// PES_extension_flag        [1b]  *
// PES_header_data_length    [8b]  *
// -----------------------------------------------------------
type Pes struct {
	pscp       uint32
	Sid        uint8
	ppl        uint16
	pad1       uint8
	ptsDtsFlag uint8
	pad2       uint8
	phdl       uint8
	Pts        uint64
	Dts        uint64
}

// ParsePes
//
// @return length: PES头的总长度，b[length:]为ES数据
func ParsePes(b []byte) (pes Pes, length int, err error) {
	br := base.NewBitReader(b)
	pes.pscp = br.ReadBits32(24)
	pes.Sid = br.ReadBits8(8)
	pes.ppl = br.ReadBits16(16)

	pes.pad1 = br.ReadBits8(8)
	pes.ptsDtsFlag = br.ReadBits8(2)
	pes.pad2 = br.ReadBits8(6)
	pes.phdl = br.ReadBits8(8)
	br.SkipBytes(uint(pes.phdl))
	if br.Err() != nil {
		return pes, 0, br.Err()
	}
	if pes.pscp != 1 {
		return pes, 0, base.ErrMpegts
	}
	length = 9 + int(pes.phdl)

	if pes.ptsDtsFlag&0x2 != 0 {
		if pes.phdl < 5 {
			return pes, 0, base.ErrMpegts
		}
		_, pes.Pts = readPts(b[9:])
	}
	if pes.ptsDtsFlag&0x1 != 0 {
		if pes.phdl < 10 {
			return pes, 0, base.ErrMpegts
		}
		_, pes.Dts = readPts(b[14:])
	} else {
		pes.Dts = pes.Pts
	}
	return
}

// read pts or dts
func readPts(b []byte) (fb uint8, pts uint64) {
	fb = b[0] >> 4
	pts |= uint64((b[0]>>1)&0x07) << 30
	pts |= (uint64(b[1])<<8 | uint64(b[2])) >> 1 << 15
	pts |= (uint64(b[3])<<8 | uint64(b[4])) >> 1
	return
}
