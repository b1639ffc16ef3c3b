// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package tsanalyze

import "github.com/q191201771/tscheck/pkg/base"

var Log = base.Log

// 连续多少次解复用错误后放弃，比如输入源本身读取失败
const maxConsecutiveErrors = 16
