// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package base 提供被其他多个package依赖的基础内容，不依赖本工程的其他package
package base

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/q191201771/naza/pkg/bininfo"
)

var startTime string

var readableTimeLayout = "2006-01-02 15:04:05.999 Z0700 MST"

// ReadableNowTime 当前时间，可读字符串形式
func ReadableNowTime() string {
	return time.Now().Format(readableTimeLayout)
}

func GetWd() string {
	dir, _ := os.Getwd()
	return dir
}

func LogoutStartInfo() {
	Log.Infof("     start: %s", startTime)
	Log.Infof("        wd: %s", GetWd())
	Log.Infof("      args: %s", strings.Join(os.Args, " "))
	Log.Infof("   bininfo: %s", bininfo.StringifySingleLine())
	Log.Infof("   version: %s", TscheckFullInfo)
	Log.Infof("    github: %s", TscheckGithubSite)
}

// WrapReadConfigFile 读取配置文件内容，失败时直接退出进程
//
// @param theConfigFile:      命令行指定的配置文件，为空时依次尝试defaultConfigFiles
// @param hookBeforeExit:     退出前的回调，可以为nil
func WrapReadConfigFile(theConfigFile string, defaultConfigFiles []string, hookBeforeExit func()) []byte {
	// 如果没有指定配置文件，则尝试从默认路径找配置文件
	if theConfigFile == "" {
		_, _ = fmt.Fprintf(os.Stderr, "config file did not specify in the command line, try to load it in the usual path.\n")
		for _, dcf := range defaultConfigFiles {
			fi, err := os.Stat(dcf)
			if err == nil && fi.Size() > 0 && !fi.IsDir() {
				_, _ = fmt.Fprintf(os.Stderr, "%s exist. using it as config file.\n", dcf)
				theConfigFile = dcf
				break
			}
			_, _ = fmt.Fprintf(os.Stderr, "%s not exist.\n", dcf)
		}

		// 如果默认路径也没有配置文件，则退出
		if theConfigFile == "" {
			flag.Usage()
			if hookBeforeExit != nil {
				hookBeforeExit()
			}
			OsExit(1)
		}
	}

	rawContent, err := os.ReadFile(theConfigFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "read conf file failed. file=%s err=%+v\n", theConfigFile, err)
		OsExit(1)
	}
	return rawContent
}

func init() {
	startTime = ReadableNowTime()
}
