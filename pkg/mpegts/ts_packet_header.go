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

// ------------------------------------------------
// <iso13818-1.pdf> <2.4.3.2> <page 36/174>
// sync_byte                    [8b]  * always 0x47
// transport_error_indicator    [1b]
// payload_unit_start_indicator [1b]
// transport_priority           [1b]
// PID                          [13b] **
// transport_scrambling_control [2b]
// adaptation_field_control     [2b]
// continuity_counter           [4b]  *
// ------------------------------------------------
type TsPacketHeader struct {
	Sync             uint8
	Err              uint8
	PayloadUnitStart uint8
	Prio             uint8
	Pid              uint16
	Scra             uint8
	Adaptation       uint8
	Cc               uint8
}

// ----------------------------------------------------------
// <iso13818-1.pdf> <Table 2-6> <page 40/174>
// adaptation_field_length              [8b] * 不包括自己这1字节
// discontinuity_indicator              [1b]
// random_access_indicator              [1b]
// elementary_stream_priority_indicator [1b]
// PCR_flag                             [1b]
// OPCR_flag                            [1b]
// splicing_point_flag                  [1b]
// transport_private_data_flag          [1b]
// adaptation_field_extension_flag      [1b] *
// -----if PCR_flag == 1-----
// program_clock_reference_base         [33b]
// reserved                             [6b]
// program_clock_reference_extension    [9b] ******
// -----if OPCR_flag == 1-----
// original_program_clock_reference     [48b] ******
// -----if splicing_point_flag == 1-----
// splice_countdown                     [8b] *
// -----if transport_private_data_flag == 1-----
// transport_private_data_length        [8b] *
// private_data_byte                    [transport_private_data_length*8 b]
// ----------------------------------------------------------
type TsPacketAdaptation struct {
	Length uint8

	RandomAccess bool
	PcrFlag      bool
	Pcr          uint64 // 只有base部分

	TransportPrivateDataFlag bool
	TransportPrivateData     []byte
}

// ParseTsPacketHeader 解析4字节TS Packet header
func ParseTsPacketHeader(b []byte) (h TsPacketHeader, err error) {
	if len(b) < 4 {
		return h, base.NewErrMpegtsShortPacket(len(b))
	}
	br := base.NewBitReader(b[:4])
	h.Sync = br.ReadBits8(8)
	h.Err = br.ReadBits8(1)
	h.PayloadUnitStart = br.ReadBits8(1)
	h.Prio = br.ReadBits8(1)
	h.Pid = br.ReadBits16(13)
	h.Scra = br.ReadBits8(2)
	h.Adaptation = br.ReadBits8(2)
	h.Cc = br.ReadBits8(4)
	return h, br.Err()
}

// ParseTsPacketAdaptation b从adaptation_field_length开始
func ParseTsPacketAdaptation(b []byte) (f TsPacketAdaptation, err error) {
	if len(b) < 1 {
		return f, base.NewErrMpegtsShortPacket(len(b))
	}
	f.Length = b[0]
	if f.Length == 0 {
		return
	}
	if int(f.Length) > len(b)-1 {
		return f, base.NewErrMpegtsShortPacket(len(b))
	}
	br := base.NewBitReader(b[1 : 1+int(f.Length)])
	br.SkipBits(1)
	f.RandomAccess = br.ReadFlag()
	br.SkipBits(1)
	f.PcrFlag = br.ReadFlag()
	opcrFlag := br.ReadFlag()
	splicingPointFlag := br.ReadFlag()
	f.TransportPrivateDataFlag = br.ReadFlag()
	br.SkipBits(1)
	if f.PcrFlag {
		f.Pcr = br.ReadBits(33)
		br.SkipBits(15)
	}
	if opcrFlag {
		br.SkipBits(48)
	}
	if splicingPointFlag {
		br.SkipBits(8)
	}
	if f.TransportPrivateDataFlag {
		l := br.ReadBits8(8)
		f.TransportPrivateData = br.ReadBytes(uint(l))
	}
	return f, br.Err()
}

// ParseTsPacket 拆分一个188字节的TS包
//
// @return payload: 没有payload时为nil
func ParseTsPacket(packet []byte) (h TsPacketHeader, af *TsPacketAdaptation, payload []byte, err error) {
	if len(packet) < PacketSize {
		return h, nil, nil, base.NewErrMpegtsShortPacket(len(packet))
	}
	if h, err = ParseTsPacketHeader(packet); err != nil {
		return
	}
	index := 4
	switch h.Adaptation {
	case AdaptationFieldControlOnly, AdaptationFieldControlFollowed:
		var f TsPacketAdaptation
		if f, err = ParseTsPacketAdaptation(packet[4:PacketSize]); err != nil {
			return
		}
		af = &f
		index += 1 + int(f.Length)
	}
	switch h.Adaptation {
	case AdaptationFieldControlNo, AdaptationFieldControlFollowed:
		payload = packet[index:PacketSize]
	}
	return
}
