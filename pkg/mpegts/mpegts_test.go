// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tscheck/pkg/base"
	"github.com/q191201771/tscheck/pkg/mpegts"
)

func TestCrc32(t *testing.T) {
	assert.Equal(t, uint32(0x0376E6E7), mpegts.CalcCrc32(0xFFFFFFFF, []byte("123456789")))
	assert.Equal(t, uint32(0xFFFFFFFF), mpegts.CalcCrc32(0xFFFFFFFF, nil))

	pat := mpegts.PackPat([]mpegts.PatProgramElement{{Pn: 1, Pmpid: mpegts.PidPmt}})
	assert.Equal(t, true, mpegts.VerifyCrc32(pat))
	pat[len(pat)-1] ^= 0x01
	assert.Equal(t, false, mpegts.VerifyCrc32(pat))
	assert.Equal(t, false, mpegts.VerifyCrc32([]byte{0x00}))
}

func TestPackParsePat(t *testing.T) {
	b := mpegts.PackPat([]mpegts.PatProgramElement{{Pn: 1, Pmpid: mpegts.PidPmt}})
	// 3 + section_length(5 + 4 + 4)
	assert.Equal(t, 16, len(b))
	assert.Equal(t, []byte{0x00, 0xB0, 0x0D, 0x00, 0x01, 0xC1, 0x00, 0x00, 0x00, 0x01, 0xF0, 0x00}, b[:12])

	pat, err := mpegts.ParsePat(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, []mpegts.PatProgramElement{{Pn: 1, Pmpid: mpegts.PidPmt}}, pat.ProgramElements())
	assert.Equal(t, true, pat.SearchPid(mpegts.PidPmt))
	assert.Equal(t, false, pat.SearchPid(mpegts.PidVideo))

	_, err = mpegts.ParsePat(b[:5])
	assert.IsNotNil(t, err)
}

func TestPackParsePmt(t *testing.T) {
	ebpDescriptor := mpegts.DescriptorFromBytes([]byte{0xE9, 0x02, 0x00, 0x00})
	b := mpegts.PackPmt(1, mpegts.PidVideo, nil, []mpegts.PmtProgramElement{
		{StreamType: mpegts.StreamTypeAvc, Pid: mpegts.PidVideo, Descriptors: []mpegts.Descriptor{ebpDescriptor}},
		{StreamType: mpegts.StreamTypeScte35, Pid: mpegts.PidScte35, Descriptors: []mpegts.Descriptor{mpegts.PackRegistrationDescriptor(0x43554549)}},
	})
	assert.Equal(t, true, mpegts.VerifyCrc32(b))
	assert.Equal(t, mpegts.TableIdPmt, b[0])

	pmt, err := mpegts.ParsePmt(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, mpegts.PidVideo, pmt.PcrPid())
	assert.Equal(t, 0, len(pmt.ProgramDescriptors))
	assert.Equal(t, 2, len(pmt.ProgramElements))

	video := pmt.SearchPid(mpegts.PidVideo)
	assert.IsNotNil(t, video)
	assert.Equal(t, mpegts.StreamTypeAvc, video.StreamType)
	assert.Equal(t, uint16(4), video.Length)
	assert.Equal(t, []mpegts.Descriptor{{Tag: 0xE9, Data: []byte{0x00, 0x00}}}, video.Descriptors)

	scte := pmt.SearchPid(mpegts.PidScte35)
	assert.IsNotNil(t, scte)
	assert.Equal(t, mpegts.StreamTypeScte35, scte.StreamType)
	assert.Equal(t, mpegts.DescriptorTagRegistration, scte.Descriptors[0].Tag)
	assert.Equal(t, []byte("CUEI"), scte.Descriptors[0].Data)

	assert.Equal(t, true, pmt.SearchPid(0x1234) == nil)
}

func TestPackSection(t *testing.T) {
	section := make([]byte, 300)
	for i := range section {
		section[i] = uint8(i)
	}

	p := mpegts.NewPacketizer()
	out := p.PackSection(mpegts.PidScte35, section)
	assert.Equal(t, 2*mpegts.PacketSize, len(out))

	h, af, payload, err := mpegts.ParseTsPacket(out[:mpegts.PacketSize])
	assert.Equal(t, nil, err)
	assert.Equal(t, uint8(0x47), h.Sync)
	assert.Equal(t, mpegts.PidScte35, h.Pid)
	assert.Equal(t, uint8(1), h.PayloadUnitStart)
	assert.Equal(t, uint8(1), h.Cc)
	assert.Equal(t, true, af == nil)
	assert.Equal(t, uint8(0), payload[0])
	assert.Equal(t, section[:183], payload[1:])

	h, _, payload, err = mpegts.ParseTsPacket(out[mpegts.PacketSize:])
	assert.Equal(t, nil, err)
	assert.Equal(t, uint8(0), h.PayloadUnitStart)
	assert.Equal(t, uint8(2), h.Cc)
	assert.Equal(t, section[183:], payload[:117])
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 184-117), payload[117:])

	// cc按PID连续
	out = p.PackSection(mpegts.PidScte35, section[:10])
	h, _, _, _ = mpegts.ParseTsPacket(out)
	assert.Equal(t, uint8(3), h.Cc)
	out = p.PackSection(mpegts.PidPat, section[:10])
	h, _, _, _ = mpegts.ParseTsPacket(out)
	assert.Equal(t, uint8(1), h.Cc)
}

func TestFramePack(t *testing.T) {
	raw := make([]byte, 400)
	for i := range raw {
		raw[i] = uint8(i * 7)
	}
	privateData := []byte{0xDF, 0x04, 0x45, 0x42, 0x50, 0x30}
	frame := &mpegts.Frame{
		Pts:         90000,
		Dts:         90000,
		Pid:         mpegts.PidVideo,
		Sid:         mpegts.StreamIdVideo,
		Key:         true,
		PrivateData: privateData,
		Raw:         raw,
	}
	p := mpegts.NewPacketizer()
	out := p.PackFrame(frame)
	assert.Equal(t, 0, len(out)%mpegts.PacketSize)
	assert.Equal(t, 3, len(out)/mpegts.PacketSize)

	var es []byte
	for i := 0; i < len(out); i += mpegts.PacketSize {
		h, af, payload, err := mpegts.ParseTsPacket(out[i : i+mpegts.PacketSize])
		assert.Equal(t, nil, err)
		assert.Equal(t, mpegts.PidVideo, h.Pid)
		assert.Equal(t, uint8(i/mpegts.PacketSize+1), h.Cc)
		if i == 0 {
			assert.Equal(t, uint8(1), h.PayloadUnitStart)
			assert.IsNotNil(t, af)
			assert.Equal(t, true, af.RandomAccess)
			assert.Equal(t, true, af.PcrFlag)
			assert.Equal(t, true, af.TransportPrivateDataFlag)
			assert.Equal(t, privateData, af.TransportPrivateData)

			pes, length, err := mpegts.ParsePes(payload)
			assert.Equal(t, nil, err)
			assert.Equal(t, mpegts.StreamIdVideo, pes.Sid)
			assert.Equal(t, uint64(90000+63000), pes.Pts)
			assert.Equal(t, pes.Pts, pes.Dts)
			payload = payload[length:]
		}
		es = append(es, payload...)
	}
	assert.Equal(t, raw, es)
	assert.Equal(t, uint8(3), frame.Cc)
}

func TestFramePackStuffing(t *testing.T) {
	// 首个packet 4字节TS头 + 14字节PES头，剩170字节，169字节的帧需要1字节填充
	for _, size := range []int{0, 1, 168, 169, 170, 171} {
		raw := bytes.Repeat([]byte{0xAB}, size)
		frame := &mpegts.Frame{Pts: 3000, Dts: 3000, Pid: mpegts.PidVideo, Sid: mpegts.StreamIdVideo, Raw: raw}
		out := frame.Pack()
		assert.Equal(t, 0, len(out)%mpegts.PacketSize)

		var es []byte
		for i := 0; i < len(out); i += mpegts.PacketSize {
			_, _, payload, err := mpegts.ParseTsPacket(out[i : i+mpegts.PacketSize])
			assert.Equal(t, nil, err)
			if i == 0 {
				_, length, err := mpegts.ParsePes(payload)
				assert.Equal(t, nil, err)
				payload = payload[length:]
			}
			es = append(es, payload...)
		}
		assert.Equal(t, raw, es)
	}
}

func TestParseTsPacketShort(t *testing.T) {
	_, _, _, err := mpegts.ParseTsPacket(make([]byte, 100))
	assert.IsNotNil(t, err)

	_, err = mpegts.ParseTsPacketHeader([]byte{0x47})
	assert.IsNotNil(t, err)
}

func TestParsePesError(t *testing.T) {
	_, _, err := mpegts.ParsePes([]byte{0x00, 0x00, 0x02, 0xE0, 0x00, 0x00, 0x80, 0x00, 0x00})
	assert.IsNotNil(t, err)
	_, _, err = mpegts.ParsePes([]byte{0x00, 0x00})
	assert.IsNotNil(t, err)
}

func TestFileWriter(t *testing.T) {
	var fw mpegts.FileWriter
	assert.Equal(t, base.ErrMpegts, fw.Write(make([]byte, mpegts.PacketSize)))
	assert.Equal(t, "", fw.Name())

	filename := filepath.Join(t.TempDir(), "out.ts")
	assert.Equal(t, nil, fw.Create(filename))

	packets := mpegts.NewPacketizer().PackSection(mpegts.PidPat, mpegts.PackPat([]mpegts.PatProgramElement{{Pn: 1, Pmpid: mpegts.PidPmt}}))
	assert.Equal(t, nil, fw.Write(packets))
	assert.Equal(t, nil, fw.Write(packets))
	err := fw.Write(packets[:100])
	assert.Equal(t, true, errors.Is(err, base.ErrMpegts))
	assert.Equal(t, 2, fw.PacketCount())
	assert.Equal(t, filename, fw.Name())
	assert.Equal(t, nil, fw.Dispose())

	content, err := os.ReadFile(filename)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2*mpegts.PacketSize, len(content))
	assert.Equal(t, packets, content[:mpegts.PacketSize])
}
