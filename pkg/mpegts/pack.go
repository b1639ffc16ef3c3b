// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// Frame 帧数据，用于打包成mpegts格式的数据
type Frame struct {
	Pts uint64 // =(毫秒 * 90)
	Dts uint64
	Cc  uint8 // continuity_counter of TS Header

	// PID of PES Header
	// 视频 mpegts.PidVideo
	Pid uint16

	// stream_id of PES Header
	// 音频 mpegts.StreamIdAudio
	// 视频 mpegts.StreamIdVideo
	Sid uint8

	// 视频 关键帧为true，非关键帧为false
	Key bool

	// 放入首个packet的adaptation field的transport_private_data，比如EBP
	// 和PES Header一起需要放得进首个packet，一般不超过150字节
	PrivateData []byte

	// 视频AVC 格式为Annexb
	Raw []byte
}

// Pack 帧打包成mpegts流
//
// 注意，内部会增加 Frame.Cc 的值.
//
// @return: 内存块为独立申请，调度结束后，内部不再持有
func (frame *Frame) Pack() []byte {
	var out []byte

	lpos := 0              // 当前输入帧的处理位置
	rpos := len(frame.Raw) // 当前输入帧大小
	first := true          // 是否为帧的首个packet的标准

	for first || lpos != rpos {
		frame.Cc++

		var af []byte  // adaptation field, 不包括adaptation_field_length
		var pes []byte // PES Header
		if first {
			af = frame.packFirstAdaptation()
			pes = frame.packPesHeader()
		}

		afSize := 0
		if af != nil {
			afSize = 1 + len(af)
		}
		bodySize := PacketSize - 4 - afSize - len(pes) // 当前TS packet，可写入大小
		inSize := rpos - lpos                          // 整个帧剩余待打包大小

		if bodySize > inSize {
			// 当前packet可以写完这个帧，并且还有空闲空间，用adaptation field填充
			stuffSize := bodySize - inSize
			if af != nil {
				af = appendStuffing(af, stuffSize)
			} else if stuffSize == 1 {
				af = []byte{}
			} else {
				af = appendStuffing([]byte{0}, stuffSize-2)
			}
			bodySize = inSize
		}

		out = packTsHeader(out, frame.Pid, first, af != nil, frame.Cc)
		if af != nil {
			out = append(out, uint8(len(af)))
			out = append(out, af...)
		}
		out = append(out, pes...)
		out = append(out, frame.Raw[lpos:lpos+bodySize]...)
		lpos += bodySize

		first = false
	}

	return out
}

// Packetizer 维护每个PID的continuity_counter
type Packetizer struct {
	ccs map[uint16]uint8
}

func NewPacketizer() *Packetizer {
	return &Packetizer{
		ccs: make(map[uint16]uint8),
	}
}

// PackSection PSI或SCTE-35 section打包成TS packet，首个packet带pointer_field，尾部用0xFF填充
func (p *Packetizer) PackSection(pid uint16, section []byte) []byte {
	payload := make([]byte, 0, len(section)+1)
	payload = append(payload, 0) // pointer_field
	payload = append(payload, section...)

	var out []byte
	first := true
	for len(payload) > 0 {
		cc := p.ccs[pid] + 1
		p.ccs[pid] = cc

		out = packTsHeader(out, pid, first, false, cc)
		n := PacketSize - 4
		if n > len(payload) {
			n = len(payload)
		}
		out = append(out, payload[:n]...)
		for i := n; i < PacketSize-4; i++ {
			out = append(out, 0xFF)
		}
		payload = payload[n:]
		first = false
	}
	return out
}

// PackFrame 使用Packetizer维护的cc打包帧
func (p *Packetizer) PackFrame(frame *Frame) []byte {
	frame.Cc = p.ccs[frame.Pid]
	out := frame.Pack()
	p.ccs[frame.Pid] = frame.Cc
	return out
}

// ----- private -------------------------------------------------------------------------------------------------------

// -----TS Header----------------
// sync_byte
// transport_error_indicator    0
// payload_unit_start_indicator
// transport_priority           0
// PID
// transport_scrambling_control 0
// adaptation_field_control
// continuity_counter
// ------------------------------
func packTsHeader(out []byte, pid uint16, pusi bool, hasAdaptation bool, cc uint8) []byte {
	b1 := uint8((pid >> 8) & 0x1F) // PID高5位
	if pusi {
		b1 |= 0x40 // payload_unit_start_indicator
	}
	b3 := uint8(AdaptationFieldControlNo<<4) | (cc & 0x0F)
	if hasAdaptation {
		b3 = uint8(AdaptationFieldControlFollowed<<4) | (cc & 0x0F)
	}
	return append(out, syncByte, b1, uint8(pid&0xFF), b3)
}

// -----Adaptation-----------------------
// adaptation_field_length
// discontinuity_indicator              0
// random_access_indicator              关键帧为1
// elementary_stream_priority_indicator 0
// PCR_flag                             关键帧为1
// OPCR_flag                            0
// splicing_point_flag                  0
// transport_private_data_flag          有PrivateData时为1
// adaptation_field_extension_flag      0
// --------------------------------------
func (frame *Frame) packFirstAdaptation() []byte {
	if !frame.Key && frame.PrivateData == nil {
		return nil
	}

	af := []byte{0}
	if frame.Key {
		af[0] |= 0x50 // random_access_indicator + PCR_flag
		pcr := make([]byte, 6)
		packPcr(pcr, frame.Dts-delay)
		af = append(af, pcr...)
	}
	if frame.PrivateData != nil {
		af[0] |= 0x02
		af = append(af, uint8(len(frame.PrivateData)))
		af = append(af, frame.PrivateData...)
	}
	return af
}

// -----PES Header------------
// packet_start_code_prefix
// stream_id
// PES_packet_length
// '10'
// PES_scrambling_control    0
// PES_priority              0
// data_alignment_indicator  0
// copyright                 0
// original_or_copy          0
// PTS_DTS_flags
// ESCR_flag                 0
// ES_rate_flag              0
// DSM_trick_mode_flag       0
// additional_copy_info_flag 0
// PES_CRC_flag              0
// PES_extension_flag        0
// PES_header_data_length
// ---------------------------
func (frame *Frame) packPesHeader() []byte {
	// PTS相关
	headerSize := uint8(5)
	flags := uint8(0x80)
	// DTS相关
	if frame.Dts != frame.Pts {
		headerSize += 5
		flags |= 0x40
	}

	pesSize := len(frame.Raw) + int(headerSize) + 3 // PES Header剩余3字节 + PTS/PTS长度 + 整个帧的长度
	if pesSize > 0xFFFF {
		pesSize = 0
	}

	out := make([]byte, 9+int(headerSize))
	out[0] = 0x00 // packet_start_code_prefix 24-bits
	out[1] = 0x00
	out[2] = 0x01
	out[3] = frame.Sid
	out[4] = uint8(pesSize >> 8) // PES_packet_length
	out[5] = uint8(pesSize & 0xFF)
	out[6] = 0x80       // 除了reserve的'10'，其他字段都是0
	out[7] = flags      // PTS/DTS flag
	out[8] = headerSize // PES_header_data_length: PTS+DTS数据长度

	packPts(out[9:], flags>>6, frame.Pts+delay)
	if frame.Pts != frame.Dts {
		packPts(out[14:], 1, frame.Dts+delay)
	}
	return out
}

func appendStuffing(b []byte, n int) []byte {
	for i := 0; i < n; i++ {
		b = append(b, 0xFF)
	}
	return b
}

func packPcr(out []byte, pcr uint64) {
	out[0] = uint8(pcr >> 25)
	out[1] = uint8(pcr >> 17)
	out[2] = uint8(pcr >> 9)
	out[3] = uint8(pcr >> 1)
	out[4] = uint8(pcr<<7) | 0x7e
	out[5] = 0
}

// 注意，除PTS外，DTS也使用这个函数打包
func packPts(out []byte, fb uint8, pts uint64) {
	var val uint64
	out[0] = (fb << 4) | (uint8(pts>>30) & 0x07) | 1

	val = (((pts >> 15) & 0x7FFF) << 1) | 1
	out[1] = uint8(val >> 8)
	out[2] = uint8(val)

	val = ((pts & 0x7FFF) << 1) | 1
	out[3] = uint8(val >> 8)
	out[4] = uint8(val)
}
