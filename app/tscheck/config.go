// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"encoding/json"
	"runtime"

	"github.com/q191201771/naza/pkg/nazajson"
	"github.com/q191201771/naza/pkg/nazalog"
)

type Config struct {
	Log nazalog.Option `json:"log"`

	// 同时分析的文件数
	MaxConcurrency int `json:"max_concurrency"`

	ValidateGrouping bool `json:"validate_grouping"`

	// 为true时打印每个解析出的splice_info_section
	DumpSections bool `json:"dump_sections"`
}

var defaultConfigFiles = []string{
	"./tscheck.conf.json",
	"./conf/tscheck.conf.json",
	"../conf/tscheck.conf.json",
}

// LoadConf 不存在的配置项使用默认值
func LoadConf(rawContent []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(rawContent, &config); err != nil {
		return nil, err
	}

	j, err := nazajson.New(rawContent)
	if err != nil {
		return nil, err
	}
	if !j.Exist("max_concurrency") || config.MaxConcurrency <= 0 {
		config.MaxConcurrency = runtime.NumCPU()
	}
	if !j.Exist("validate_grouping") {
		config.ValidateGrouping = true
	}
	if !j.Exist("log.level") {
		config.Log.Level = nazalog.LevelInfo
	}
	if !j.Exist("log.filename") {
		config.Log.Filename = "./logs/tscheck.log"
	}
	if !j.Exist("log.is_to_stdout") {
		config.Log.IsToStdout = true
	}
	if !j.Exist("log.is_rotate_daily") {
		config.Log.IsRotateDaily = true
	}
	if !j.Exist("log.short_file_flag") {
		config.Log.ShortFileFlag = true
	}
	if !j.Exist("log.assert_behavior") {
		config.Log.AssertBehavior = nazalog.AssertError
	}
	return &config, nil
}
