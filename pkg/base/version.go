// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "strings"

// 版本信息相关
// tscheck的一部分版本信息使用了naza.bininfo
// 另外，我们也在本文件提供另外一些信息，打入可执行文件和日志中

// 版本，该变量由外部脚本修改维护
const TscheckVersion = "v0.3.0"

var (
	TscheckLibraryName = "tscheck"
	TscheckGithubRepo  = "github.com/q191201771/tscheck"
	TscheckGithubSite  = "https://github.com/q191201771/tscheck"

	// e.g. tscheck v0.3.0 (github.com/q191201771/tscheck)
	TscheckFullInfo = TscheckLibraryName + " " + TscheckVersion + " (" + TscheckGithubRepo + ")"

	// e.g. 0.3.0
	TscheckVersionDot string
)

func init() {
	TscheckVersionDot = strings.TrimPrefix(TscheckVersion, "v")
}
