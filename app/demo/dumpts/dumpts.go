// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tscheck/pkg/ebp"
	"github.com/q191201771/tscheck/pkg/mpegts"
	"github.com/q191201771/tscheck/pkg/scte35"
)

// 逐个TS包打印PAT、PMT、PES头、adaptation中的EBP，以及SCTE-35 section。
// 不依赖astits，直接使用pkg/mpegts解析，用于对照tscheck的结果

var (
	pat        mpegts.Pat
	pid2stream map[uint16]*Stream
	pool       *scte35.SectionReassemblerPool
)

type Stream struct {
	StreamType uint8
}

func handlePacket(packet []byte) {
	h, af, payload, err := mpegts.ParseTsPacket(packet)
	if err != nil {
		nazalog.Warnf("parse ts packet failed. err=%+v", err)
		return
	}
	nazalog.Tracef("%+v", h)

	if af != nil && af.TransportPrivateDataFlag {
		markers, err := ebp.ParseMarkersFromPrivateData(af.TransportPrivateData)
		for _, m := range markers {
			nazalog.Debugf("[%d] ebp marker. %+v", h.Pid, m)
		}
		if err != nil {
			nazalog.Warnf("[%d] parse private data failed. err=%+v", h.Pid, err)
		}
	}
	if payload == nil {
		return
	}

	if h.Pid == mpegts.PidPat {
		if h.PayloadUnitStart == 1 {
			payload = payload[1:]
		}
		pat, err = mpegts.ParsePat(payload)
		nazalog.Debugf("pat. %+v, err=%+v", pat, err)
		return
	}

	if pat.SearchPid(h.Pid) {
		if h.PayloadUnitStart == 1 {
			payload = payload[1:]
		}
		pmt, err := mpegts.ParsePmt(payload)
		if err != nil {
			nazalog.Warnf("[%d] parse pmt failed. err=%+v", h.Pid, err)
			return
		}
		nazalog.Debugf("pmt. %+v", pmt)

		for _, ele := range pmt.ProgramElements {
			pid2stream[ele.Pid] = &Stream{StreamType: ele.StreamType}
			for _, d := range ele.Descriptors {
				if d.Tag != ebp.DescriptorTag {
					continue
				}
				desc, err := ebp.ParseDescriptor(append([]byte{d.Tag, uint8(len(d.Data))}, d.Data...))
				nazalog.Debugf("[%d] ebp descriptor. %+v, err=%+v", ele.Pid, desc, err)
			}
		}
		return
	}

	stream, ok := pid2stream[h.Pid]
	if !ok {
		nazalog.Warnf("unknown pid. pid=%d", h.Pid)
		return
	}

	if stream.StreamType == scte35.StreamType {
		sis, complete, err := pool.Feed(h.Pid, payload, h.PayloadUnitStart == 1)
		if err != nil {
			nazalog.Warnf("[%d] feed scte35 failed. err=%+v", h.Pid, err)
			return
		}
		if complete {
			nazalog.Infof("[%d] splice info section. %+v, command=%+v", h.Pid, sis, sis.SpliceCommand)
		}
		return
	}

	// 判断是否有PES
	if h.PayloadUnitStart == 1 {
		pes, length, err := mpegts.ParsePes(payload)
		nazalog.Debugf("[%d] pes. %+v, header length=%d, err=%+v", h.Pid, pes, length, err)
	}
}

func main() {
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.AssertBehavior = nazalog.AssertFatal
	})
	defer nazalog.Sync()

	filename := parseFlag()

	pid2stream = make(map[uint16]*Stream)
	pool = scte35.NewSectionReassemblerPool()

	content, err := os.ReadFile(filename)
	nazalog.Assert(nil, err)

	for i := 0; i+mpegts.PacketSize <= len(content); i += mpegts.PacketSize {
		handlePacket(content[i : i+mpegts.PacketSize])
	}
}

func parseFlag() string {
	i := flag.String("i", "", "specify ts file")
	flag.Parse()
	if *i == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  %s -i test.ts
`, os.Args[0])
		os.Exit(1)
	}
	return *i
}
