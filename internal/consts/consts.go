package consts

import "runtime"

const (
	// StringProbeLength 表示字符串参数未声明最大长度时使用的超长探测长度。
	StringProbeLength = 1000

	// MaxNonce 表示派生地址消歧 nonce 的搜索起点（从高往低）。
	MaxNonce = 255

	// SampleString / SampleUint / SampleInt 为正向用例的固定采样值。
	SampleString = "test_value"
	SampleUint   = 1000
	SampleInt    = 500
)

// CpuCount 表示逻辑 CPU 核心数，用于控制并发任务调度上限
var CpuCount = runtime.NumCPU()
