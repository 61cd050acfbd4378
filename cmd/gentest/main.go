package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"idl-testgen-sol/internal/analyzer"
	"idl-testgen-sol/internal/config"
	"idl-testgen-sol/internal/idl"
	"idl-testgen-sol/internal/metadata"
	"idl-testgen-sol/internal/svc"
	"idl-testgen-sol/pkg/logger"
	"idl-testgen-sol/pkg/utils"
)

var configFile = flag.String("f", "etc/gentest.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	var c config.GentestConfig
	conf.MustLoad(*configFile, &c)

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}

	if len(c.Programs) == 0 {
		logger.Errorf("no programs configured, nothing to do")
		os.Exit(1)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		panic(err)
	}

	logger.Infof("generating test suites for %d program(s), workers=%d",
		len(c.Programs), serviceContext.Workers)

	// 各程序相互独立，一个 worker 处理一份 IDL，worker 之间零协调
	results := utils.ParallelMap(c.Programs, serviceContext.Workers, func(p config.ProgramConfig) error {
		return generate(p, c.OutputDir)
	})

	failed := 0
	for i, err := range results {
		if err != nil {
			failed++
			logger.Errorf("program %q: %v", c.Programs[i].IdlPath, err)
		}
	}
	if failed > 0 {
		logger.Errorf("done with %d failure(s)", failed)
		os.Exit(1)
	}
	logger.Infof("done, artifacts written to %s", c.OutputDir)
}

// generate 处理单个程序：解析 IDL → 装配套件 → 落盘 JSON 与 borsh 两种形态。
func generate(p config.ProgramConfig, outputDir string) error {
	model, err := idl.ParseFile(p.IdlPath)
	if err != nil {
		return err
	}

	suite, err := analyzer.Assemble(model, p.ExecutionOrder, p.Label)
	if err != nil {
		return err
	}

	stem := suite.ProgramName
	if p.Label != "" {
		stem = fmt.Sprintf("%s-%s", stem, p.Label)
	}

	// JSON 形态给渲染器
	data, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(outputDir, stem+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return err
	}

	// borsh 形态给链上持久化；超过账户上限时退化为按指令分片
	if raw, err := metadata.EncodeSuite(suite); err == nil {
		if err := os.WriteFile(filepath.Join(outputDir, stem+".borsh"), raw, 0o644); err != nil {
			return err
		}
	} else if errors.Is(err, metadata.ErrSizeExceeded) {
		logger.Warnf("suite %q exceeds on-chain ceiling, writing per-instruction chunks", stem)
		for i := range suite.PerInstruction {
			plan := &suite.PerInstruction[i]
			raw, err := metadata.EncodeInstruction(plan)
			if err != nil {
				return err
			}
			chunkPath := filepath.Join(outputDir, fmt.Sprintf("%s-%s.borsh", stem, plan.Name))
			if err := os.WriteFile(chunkPath, raw, 0o644); err != nil {
				return err
			}
		}
	} else {
		return err
	}

	logger.Infof("program %q: %d instruction(s), suite written to %s",
		suite.ProgramName, len(suite.PerInstruction), jsonPath)
	return nil
}
