// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// RunSignalHandler 监听SIGINT和SIGTERM信号并回调，ctx结束时直接返回
func RunSignalHandler(ctx context.Context, cb func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case s := <-c:
		Log.Infof("recv signal. s=%+v", s)
		cb()
	case <-ctx.Done():
	}
}
