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

// ---------------------------------------------------------------------------------------------------
// Program association section
// <iso13818-1.pdf> <2.4.4.3> <page 61/174>
// table_id                 [8b] *
// section_syntax_indicator [1b]
// '0'                      [1b]
// reserved                 [2b]
// section_length           [12b] **
// transport_stream_id      [16b] **
// reserved                 [2b]
// version_number           [5b]
// current_next_indicator   [1b]  *
// section_number           [8b]  *
// last_section_number      [8b]  *
// -----loop-----
// program_number           [16b] **
// reserved                 [3b]
// program_map_PID          [13b] ** if program_number == 0 then network_PID else then program_map_PID
// --------------
// CRC_32                   [32b] ****
// ---------------------------------------------------------------------------------------------------
type Pat struct {
	tid   uint8
	ssi   uint8
	sl    uint16
	tsi   uint16
	vn    uint8
	cni   uint8
	sn    uint8
	lsn   uint8
	ppes  []PatProgramElement
	crc32 uint32
}

type PatProgramElement struct {
	Pn    uint16
	Pmpid uint16
}

// ParsePat b从table_id开始
func ParsePat(b []byte) (pat Pat, err error) {
	br := base.NewBitReader(b)
	pat.tid = br.ReadBits8(8)
	pat.ssi = br.ReadBits8(1)
	br.SkipBits(3)
	pat.sl = br.ReadBits16(12)
	pat.tsi = br.ReadBits16(16)
	br.SkipBits(2)
	pat.vn = br.ReadBits8(5)
	pat.cni = br.ReadBits8(1)
	pat.sn = br.ReadBits8(8)
	pat.lsn = br.ReadBits8(8)
	if br.Err() != nil {
		return pat, br.Err()
	}
	if pat.sl < 9 {
		return pat, base.ErrMpegts
	}

	length := pat.sl - 9
	for i := uint16(0); i+4 <= length && br.Err() == nil; i += 4 {
		var ppe PatProgramElement
		ppe.Pn = br.ReadBits16(16)
		br.SkipBits(3)
		ppe.Pmpid = br.ReadBits16(13)
		pat.ppes = append(pat.ppes, ppe)
	}
	pat.crc32 = br.ReadBits32(32)
	return pat, br.Err()
}

// SearchPid pid是否为某个节目的PMT
func (pat *Pat) SearchPid(pid uint16) bool {
	for _, ppe := range pat.ppes {
		if ppe.Pn != 0 && pid == ppe.Pmpid {
			return true
		}
	}
	return false
}

func (pat *Pat) ProgramElements() []PatProgramElement {
	return pat.ppes
}

// PackPat 单节目的PAT section，从table_id开始，包括CRC
func PackPat(ppes []PatProgramElement) []byte {
	bw := base.NewBitWriter(4 * len(ppes))
	for _, ppe := range ppes {
		bw.WriteBits(16, uint64(ppe.Pn))
		bw.WriteReserved(3)
		bw.WriteBits(13, uint64(ppe.Pmpid))
	}
	return packPsiSection(TableIdPat, 1, bw.Bytes())
}
