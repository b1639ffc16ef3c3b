// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tscheck/pkg/base"
	"golang.org/x/sync/errgroup"
)

// 分析一个或多个TS文件中的SCTE-35和EBP，每个文件一个analyzer，互不共享状态
//
// Example:
//   ./bin/tscheck -c ./conf/tscheck.conf.json a.ts b.ts

func main() {
	defer nazalog.Sync()

	confFile, filenames := parseFlag()
	config := loadConf(confFile)
	initLog(config.Log)
	base.LogoutStartInfo()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go base.RunSignalHandler(ctx, cancel)

	var (
		mu      sync.Mutex
		results = make([]*FileResult, len(filenames))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.MaxConcurrency)
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			result, err := analyseFile(ctx, filename, config)
			if err != nil {
				nazalog.Errorf("analyse file failed. file=%s, err=%+v", filename, err)
				return err
			}
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	for _, result := range results {
		if result != nil {
			_, _ = fmt.Fprintln(os.Stdout, result.Summary())
		}
	}
	if err != nil {
		base.OsExit(1)
	}
}

func parseFlag() (string, []string) {
	binInfoFlag := flag.Bool("v", false, "show bin info")
	cf := flag.String("c", "", "specify conf file")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		_, _ = fmt.Fprintln(os.Stderr, base.TscheckFullInfo)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  ./bin/tscheck -c ./conf/tscheck.conf.json a.ts b.ts
`)
		os.Exit(1)
	}
	return *cf, flag.Args()
}

func loadConf(confFile string) *Config {
	rawContent := base.WrapReadConfigFile(confFile, defaultConfigFiles, nil)
	config, err := LoadConf(rawContent)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load conf failed. file=%s err=%+v\n", confFile, err)
		os.Exit(1)
	}
	return config
}

func initLog(opt nazalog.Option) {
	if err := nazalog.Init(func(option *nazalog.Option) {
		*option = opt
	}); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "initial log failed. err=%+v\n", err)
		os.Exit(1)
	}
	nazalog.Info("initial log succ.")
}
