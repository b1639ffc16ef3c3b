// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

// MPEG-2 CRC32，多项式0x04C11DB7，高位在前，不做反转，也不做最终异或
var crc32Table [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ 0x04C11DB7
			} else {
				crc <<= 1
			}
		}
		crc32Table[i] = crc
	}
}

// CalcCrc32
//
// @param crc: 初始值，PSI和SCTE-35 section都使用0xFFFFFFFF
func CalcCrc32(crc uint32, buffer []byte) uint32 {
	for _, b := range buffer {
		crc = (crc << 8) ^ crc32Table[byte(crc>>24)^b]
	}
	return crc
}

// VerifyCrc32 b为包含末尾4字节CRC_32的完整section
func VerifyCrc32(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	return CalcCrc32(0xFFFFFFFF, b) == 0
}
