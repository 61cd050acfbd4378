package svc

import (
	"idl-testgen-sol/internal/config"
	"idl-testgen-sol/internal/consts"
	"idl-testgen-sol/pkg/logger"
)

// ServiceContext 包含生成流程的共享资源
type ServiceContext struct {
	Config  config.GentestConfig
	Workers int
}

// NewServiceContext 创建一个新的生成流程上下文
func NewServiceContext(c config.GentestConfig) (*ServiceContext, error) {
	// 1. 初始化日志
	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		return nil, err
	}

	// 2. 计算并发 worker 数（每个程序一个独立 worker，上限取 CPU 核数）
	workers := c.Workers
	if workers <= 0 {
		workers = consts.CpuCount
	}

	return &ServiceContext{
		Config:  c,
		Workers: workers,
	}, nil
}
