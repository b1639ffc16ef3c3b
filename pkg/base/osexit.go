// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	"github.com/q191201771/naza/pkg/nazalog"
)

// OsExit 退出前先刷新日志，os.Exit不会执行defer
//
// windows下等待按键，双击运行时可以看到输出
func OsExit(code int) {
	nazalog.Sync()
	if runtime.GOOS == "windows" {
		_, _ = fmt.Fprintf(os.Stderr, "Press Enter to exit...")
		r := bufio.NewReader(os.Stdin)
		_, _ = r.ReadByte()
	}
	os.Exit(code)
}
