// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import (
	"github.com/q191201771/tscheck/pkg/base"
	"github.com/q191201771/tscheck/pkg/mpegts"
)

// SpliceInfoSection
//
// ----------------------------------------------------------
// <SCTE 35> <9.6 splice_info_section()>
// table_id                 [8b]  * 0xFC
// section_syntax_indicator [1b]
// private_indicator        [1b]
// reserved                 [2b]
// section_length           [12b] ***
// protocol_version         [8b]  *
// encrypted_packet         [1b]
// encryption_algorithm     [6b]
// pts_adjustment           [33b] *****
// cw_index                 [8b]  *
// tier                     [12b]
// splice_command_length    [12b] ***
// splice_command_type      [8b]  *
// splice_command()
// descriptor_loop_length   [16b] **
// -----loop-----
// splice_descriptor()
// -----
// -----if encrypted_packet == 1-----
// E_CRC_32                 [32b] ****
// -----
// CRC_32                   [32b] ****
// ----------------------------------------------------------
//
// descriptor_loop_length按描述符个数解释。CRC_32只解析不校验
type SpliceInfoSection struct {
	TableId                uint8
	SectionSyntaxIndicator bool
	PrivateIndicator       bool
	SectionLength          uint16

	ProtocolVersion     uint8
	EncryptedPacket     bool
	EncryptionAlgorithm uint8
	PtsAdjustment       uint64
	CwIndex             uint8
	Tier                uint16

	SpliceCommandLength uint16
	SpliceCommandType   uint8

	// splice_command_type未知时为nil
	SpliceCommand SpliceCommand

	SpliceDescriptors []SpliceDescriptor

	// EncryptedPacket 为false时为0
	ECrc32 uint32
	Crc32  uint32
}

// section头table_id到section_length共3字节
const sectionHeaderLength = 3

// 私有section整体不超过4096字节
const maxSectionLength = 4093

const maxDescriptorPrivateLength = 0xFF

// ParseSpliceInfoSection 解析一个完整的section，b从table_id开始
//
// b可以比section长，多余的部分忽略
func ParseSpliceInfoSection(b []byte) (*SpliceInfoSection, error) {
	br := base.NewBitReader(b)
	sis := &SpliceInfoSection{}
	sis.TableId = br.ReadBits8(8)
	if br.Err() != nil {
		return nil, base.NewErrScte35Malformed(br.Err())
	}
	if sis.TableId != TableId {
		return nil, base.NewErrScte35WrongTableId(sis.TableId)
	}
	sis.SectionSyntaxIndicator = br.ReadFlag()
	sis.PrivateIndicator = br.ReadFlag()
	br.SkipBits(2)
	sis.SectionLength = br.ReadBits16(12)

	sis.ProtocolVersion = br.ReadBits8(8)
	sis.EncryptedPacket = br.ReadFlag()
	sis.EncryptionAlgorithm = br.ReadBits8(6)
	sis.PtsAdjustment = br.ReadBits(33)
	sis.CwIndex = br.ReadBits8(8)
	sis.Tier = br.ReadBits16(12)
	sis.SpliceCommandLength = br.ReadBits16(12)
	sis.SpliceCommandType = br.ReadBits8(8)
	if br.Err() != nil {
		return nil, base.NewErrScte35Malformed(br.Err())
	}

	sis.SpliceCommand = readSpliceCommand(br, sis.SpliceCommandType, sis.SpliceCommandLength)

	count := br.ReadBits16(16)
	if count > 0 && br.Err() == nil {
		sis.SpliceDescriptors = make([]SpliceDescriptor, 0, minInt(int(count), int(br.BytesLeft()/6)))
	}
	for i := uint16(0); i < count && br.Err() == nil; i++ {
		sis.SpliceDescriptors = append(sis.SpliceDescriptors, readSpliceDescriptor(br))
	}

	if sis.EncryptedPacket {
		sis.ECrc32 = br.ReadBits32(32)
	}
	sis.Crc32 = br.ReadBits32(32)

	if br.Err() != nil {
		return nil, base.NewErrScte35Malformed(br.Err())
	}
	return sis, nil
}

// Pack 打包成完整的section
//
// section_length、splice_command_length、descriptor个数以及CRC_32根据内容重新计算，并回写到sis中。
// SpliceCommand 为nil时按 SpliceCommandType 写入一个长度为0的命令。
// 内容超出字段能表示的长度时返回 base.ErrScte35TooLong ，sis不被修改
func (sis *SpliceInfoSection) Pack() ([]byte, error) {
	var cmdBits uint
	if sis.SpliceCommand != nil {
		if err := checkLoopCount(sis.SpliceCommand); err != nil {
			return nil, err
		}
		cmdBits = sis.SpliceCommand.bitLength()
	}

	total := uint(sectionHeaderLength*8+88) + cmdBits + 16
	for i := range sis.SpliceDescriptors {
		if l := len(sis.SpliceDescriptors[i].PrivateBytes); l > maxDescriptorPrivateLength {
			return nil, base.NewErrScte35TooLong("descriptor_length", l, maxDescriptorPrivateLength)
		}
		total += sis.SpliceDescriptors[i].bitLength()
	}
	if len(sis.SpliceDescriptors) > 0xFFFF {
		return nil, base.NewErrScte35TooLong("descriptor_loop_length", len(sis.SpliceDescriptors), 0xFFFF)
	}
	if sis.EncryptedPacket {
		total += 32
	}
	total += 32
	// section_length能放下时splice_command_length一定也能放下
	if sectionLength := int(total/8) - sectionHeaderLength; sectionLength > maxSectionLength {
		return nil, base.NewErrScte35TooLong("section_length", sectionLength, maxSectionLength)
	}

	if sis.SpliceCommand != nil {
		sis.SpliceCommandType = sis.SpliceCommand.Type()
	}
	sis.SpliceCommandLength = uint16(cmdBits / 8)
	sis.TableId = TableId
	sis.SectionLength = uint16(total/8 - sectionHeaderLength)

	bw := base.NewBitWriter(int(total / 8))
	bw.WriteBits(8, uint64(sis.TableId))
	bw.WriteFlag(sis.SectionSyntaxIndicator)
	bw.WriteFlag(sis.PrivateIndicator)
	bw.WriteReserved(2)
	bw.WriteBits(12, uint64(sis.SectionLength))
	bw.WriteBits(8, uint64(sis.ProtocolVersion))
	bw.WriteFlag(sis.EncryptedPacket)
	bw.WriteBits(6, uint64(sis.EncryptionAlgorithm))
	bw.WriteBits(33, sis.PtsAdjustment)
	bw.WriteBits(8, uint64(sis.CwIndex))
	bw.WriteBits(12, uint64(sis.Tier))
	bw.WriteBits(12, uint64(sis.SpliceCommandLength))
	bw.WriteBits(8, uint64(sis.SpliceCommandType))
	if sis.SpliceCommand != nil {
		sis.SpliceCommand.write(bw)
	}
	bw.WriteBits(16, uint64(len(sis.SpliceDescriptors)))
	for i := range sis.SpliceDescriptors {
		sis.SpliceDescriptors[i].Length = uint8(len(sis.SpliceDescriptors[i].PrivateBytes))
		sis.SpliceDescriptors[i].write(bw)
	}
	if sis.EncryptedPacket {
		bw.WriteBits(32, uint64(sis.ECrc32))
	}

	sis.Crc32 = mpegts.CalcCrc32(0xFFFFFFFF, bw.Bytes())
	bw.WriteBits(32, uint64(sis.Crc32))
	if err := bw.Err(); err != nil {
		// 长度是按内容计算的，不应该走到这里
		Log.Errorf("pack splice info section failed. err=%+v", err)
		return nil, err
	}
	return bw.Bytes(), nil
}

// Clone 深拷贝，命令和描述符都不与原对象共享内存
func (sis *SpliceInfoSection) Clone() *SpliceInfoSection {
	out := *sis
	if sis.SpliceCommand != nil {
		out.SpliceCommand = sis.SpliceCommand.clone()
	}
	if sis.SpliceDescriptors != nil {
		out.SpliceDescriptors = make([]SpliceDescriptor, len(sis.SpliceDescriptors))
		for i := range sis.SpliceDescriptors {
			out.SpliceDescriptors[i] = sis.SpliceDescriptors[i].clone()
		}
	}
	return &out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
