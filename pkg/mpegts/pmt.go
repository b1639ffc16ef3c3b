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

// Pmt
//
// ----------------------------------------
// Program Map Table
// <iso13818-1.pdf> <2.4.4.8> <page 64/174>
// table_id                 [8b]  *
// section_syntax_indicator [1b]
// 0                        [1b]
// reserved                 [2b]
// section_length           [12b] **
// program_number           [16b] **
// reserved                 [2b]
// version_number           [5b]
// current_next_indicator   [1b]  *
// section_number           [8b]  *
// last_section_number      [8b]  *
// reserved                 [3b]
// PCR_PID                  [13b] **
// reserved                 [4b]
// program_info_length      [12b] **
// -----loop-----
// stream_type              [8b]  *
// reserved                 [3b]
// elementary_PID           [13b] **
// reserved                 [4b]
// ES_info_length_length    [12b] **
// --------------
// CRC32                    [32b] ****
// ----------------------------------------
type Pmt struct {
	tid uint8
	ssi uint8
	sl  uint16
	pn  uint16
	vn  uint8
	cni uint8
	sn  uint8
	lsn uint8
	pp  uint16
	pil uint16

	ProgramDescriptors []Descriptor
	ProgramElements    []PmtProgramElement
	crc32              uint32
}

type PmtProgramElement struct {
	StreamType  uint8
	Pid         uint16
	Length      uint16
	Descriptors []Descriptor
}

// ParsePmt b从table_id开始
func ParsePmt(b []byte) (pmt Pmt, err error) {
	br := base.NewBitReader(b)
	pmt.tid = br.ReadBits8(8)
	pmt.ssi = br.ReadBits8(1)
	br.SkipBits(3)
	pmt.sl = br.ReadBits16(12)
	pmt.pn = br.ReadBits16(16)
	br.SkipBits(2)
	pmt.vn = br.ReadBits8(5)
	pmt.cni = br.ReadBits8(1)
	pmt.sn = br.ReadBits8(8)
	pmt.lsn = br.ReadBits8(8)
	br.SkipBits(3)
	pmt.pp = br.ReadBits16(13)
	br.SkipBits(4)
	pmt.pil = br.ReadBits16(12)
	if br.Err() != nil {
		return pmt, br.Err()
	}
	if pmt.sl < 13+pmt.pil {
		return pmt, base.ErrMpegts
	}
	pmt.ProgramDescriptors = readDescriptors(br, pmt.pil)

	// 3字节头之后section_length字节，去掉4字节CRC
	end := uint(3+pmt.sl-4) * 8
	for br.Consumed() < end && br.Err() == nil {
		var ppe PmtProgramElement
		ppe.StreamType = br.ReadBits8(8)
		br.SkipBits(3)
		ppe.Pid = br.ReadBits16(13)
		br.SkipBits(4)
		ppe.Length = br.ReadBits16(12)
		ppe.Descriptors = readDescriptors(br, ppe.Length)
		pmt.ProgramElements = append(pmt.ProgramElements, ppe)
	}
	pmt.crc32 = br.ReadBits32(32)
	return pmt, br.Err()
}

func (pmt *Pmt) PcrPid() uint16 {
	return pmt.pp
}

func (pmt *Pmt) SearchPid(pid uint16) *PmtProgramElement {
	for i := range pmt.ProgramElements {
		if pmt.ProgramElements[i].Pid == pid {
			return &pmt.ProgramElements[i]
		}
	}
	return nil
}

// PackPmt PMT section，从table_id开始，包括CRC。PmtProgramElement.Length 由描述符重新计算
func PackPmt(programNumber uint16, pcrPid uint16, programDescriptors []Descriptor, ppes []PmtProgramElement) []byte {
	size := 4 + descriptorsLength(programDescriptors)
	for _, ppe := range ppes {
		size += 5 + descriptorsLength(ppe.Descriptors)
	}

	bw := base.NewBitWriter(size)
	bw.WriteReserved(3)
	bw.WriteBits(13, uint64(pcrPid))
	bw.WriteReserved(4)
	bw.WriteBits(12, uint64(descriptorsLength(programDescriptors)))
	writeDescriptors(bw, programDescriptors)
	for _, ppe := range ppes {
		bw.WriteBits(8, uint64(ppe.StreamType))
		bw.WriteReserved(3)
		bw.WriteBits(13, uint64(ppe.Pid))
		bw.WriteReserved(4)
		bw.WriteBits(12, uint64(descriptorsLength(ppe.Descriptors)))
		writeDescriptors(bw, ppe.Descriptors)
	}
	return packPsiSection(TableIdPmt, programNumber, bw.Bytes())
}
