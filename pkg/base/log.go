// Copyright 2022, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"encoding/hex"
	"fmt"

	"github.com/q191201771/naza/pkg/nazalog"
)

// LogDump 限制解析失败时hex dump的次数，避免异常流刷屏
type LogDump struct {
	log         nazalog.Logger
	debugMaxNum int

	debugCount int
}

// NewLogDump
//
// @param debugMaxNum: 日志最小级别为debug时，使用debug打印日志次数的阈值
func NewLogDump(log nazalog.Logger, debugMaxNum int) LogDump {
	return LogDump{
		log:         log,
		debugMaxNum: debugMaxNum,
	}
}

func (ld *LogDump) ShouldDump() bool {
	switch ld.log.GetOption().Level {
	case nazalog.LevelTrace:
		return true
	case nazalog.LevelDebug:
		if ld.debugCount >= ld.debugMaxNum {
			return false
		}
		ld.debugCount++
		return true
	}
	return false
}

// DumpPayload
//
// 内部会先调用 ShouldDump ，不需要打印时不构造hex字符串
func (ld *LogDump) DumpPayload(pid uint16, cause error, payload []byte) {
	if !ld.ShouldDump() {
		return
	}
	ld.log.Out(ld.log.GetOption().Level, 3,
		fmt.Sprintf("dump payload. pid=%d, err=%+v, len=%d, hex=\n%s", pid, cause, len(payload), hex.Dump(payload)))
}
