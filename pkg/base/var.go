// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "github.com/q191201771/naza/pkg/nazalog"

var Log = nazalog.GetGlobalLogger()

// ----- tsanalyze --------------------
var (
	// TsAnalyzeDumpMaxNum 日志级别为debug时，解析失败的payload最多hex dump多少次
	TsAnalyzeDumpMaxNum = 16
)
