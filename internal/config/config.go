package config

import (
	"idl-testgen-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// ProgramConfig 表示一个待分析程序（一份 IDL 对应一个独立 worker）。
type ProgramConfig struct {
	IdlPath        string   `yaml:"idl_path"`        // IDL JSON 文件路径
	ExecutionOrder []string `yaml:"execution_order"` // 指令执行顺序；为空时取 IDL 自然顺序
	Label          string   `yaml:"label"`           // 消歧标签，同一程序可生成多份互不覆盖的套件
}

// GentestConfig 是主配置结构体，驱动测试套件生成流程。
type GentestConfig struct {
	LogConf LogConfig `yaml:"logger"` // 日志配置

	Programs []ProgramConfig `yaml:"programs"` // 待分析的程序列表

	OutputDir string `yaml:"output_dir"` // 产物输出目录（JSON + borsh 两种编码）
	Workers   int    `yaml:"workers"`    // 并发 worker 数；<=0 时取 CPU 核数
}
