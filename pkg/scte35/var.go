// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

var Log = base.Log

const TableId uint8 = 0xFC

// StreamType PMT中承载SCTE-35的ES的stream_type
const StreamType uint8 = 0x86

// splice_command_type
const (
	SpliceCommandTypeNull                 uint8 = 0x00
	SpliceCommandTypeSchedule             uint8 = 0x04
	SpliceCommandTypeInsert               uint8 = 0x05
	SpliceCommandTypeTimeSignal           uint8 = 0x06
	SpliceCommandTypeBandwidthReservation uint8 = 0x07
	SpliceCommandTypePrivate              uint8 = 0xFF
)

// legacySpliceCommandLength 老版本标准中splice_command_length固定填0xFFF，不代表真实长度
const legacySpliceCommandLength uint16 = 0xFFF

// RegistrationIdentifier PMT registration descriptor中的format_identifier "CUEI"
const RegistrationIdentifier uint32 = 0x43554549
