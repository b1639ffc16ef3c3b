// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import "github.com/q191201771/tscheck/pkg/base"

var Log = base.Log

const (
	PacketSize = 188

	syncByte uint8 = 0x47
)

// PID
const (
	PidPat uint16 = 0

	// 以下为生成测试流时使用的默认值
	PidPmt    uint16 = 0x1000
	PidVideo  uint16 = 0x100
	PidScte35 uint16 = 0x1F0
)

// adaptation_field_control
const (
	AdaptationFieldControlReserved = uint8(0) // Reserved for future use by ISO/IEC
	AdaptationFieldControlNo       = uint8(1) // No adaptation_field, payload only
	AdaptationFieldControlOnly     = uint8(2) // Adaptation_field only, no payload
	AdaptationFieldControlFollowed = uint8(3) // Adaptation_field followed by payload
)

// table_id
const (
	TableIdPat uint8 = 0x00
	TableIdPmt uint8 = 0x02
)

// stream_type
const (
	StreamTypeAac    uint8 = 0x0F
	StreamTypeAvc    uint8 = 0x1B
	StreamTypeHevc   uint8 = 0x24
	StreamTypeScte35 uint8 = 0x86
)

// stream_id
const (
	StreamIdAudio uint8 = 0xC0
	StreamIdVideo uint8 = 0xE0
)

const (
	DescriptorTagRegistration uint8 = 0x05
)

// 每个TS包的pts基于此增加一个固定延时，与常见muxer保持一致
const delay uint64 = 63000
