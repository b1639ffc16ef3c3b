// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"os"

	"github.com/q191201771/tscheck/pkg/base"
)

// FileWriter 写TS文件，每次写入的数据必须是整数个TS包
type FileWriter struct {
	fp *os.File

	packetCount int
}

func (fw *FileWriter) Create(filename string) (err error) {
	fw.fp, err = os.Create(filename)
	fw.packetCount = 0
	return
}

func (fw *FileWriter) Write(b []byte) (err error) {
	if fw.fp == nil {
		return base.ErrMpegts
	}
	if len(b)%PacketSize != 0 {
		return base.NewErrMpegtsUnalignedWrite(len(b))
	}
	if _, err = fw.fp.Write(b); err != nil {
		return
	}
	fw.packetCount += len(b) / PacketSize
	return
}

func (fw *FileWriter) Dispose() error {
	if fw.fp == nil {
		return base.ErrMpegts
	}
	return fw.fp.Close()
}

func (fw *FileWriter) Name() string {
	if fw.fp == nil {
		return ""
	}
	return fw.fp.Name()
}

// PacketCount 已写入的TS包个数
func (fw *FileWriter) PacketCount() int {
	return fw.packetCount
}
