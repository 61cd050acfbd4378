package analyzer

import (
	"fmt"
	"strings"
)

// 分析阶段的错误都是终态：携带出错实体名直接上抛，核心不做重试。

// DependencyCycleError 表示账户依赖图存在环，不存在合法的初始化顺序。
type DependencyCycleError struct {
	Names []string // 仍处于环中的账户名
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle among accounts: %s", strings.Join(e.Names, ", "))
}

// AmbiguousSeedError 表示派生种子引用了绑定环境中不存在的名字。
type AmbiguousSeedError struct {
	Account string // 派生账户名
	Seed    string // 未绑定的引用名
}

func (e *AmbiguousSeedError) Error() string {
	return fmt.Sprintf("ambiguous seed: account %q references unbound name %q", e.Account, e.Seed)
}

// ExhaustedNonceSearchError 表示 0..255 的 nonce 空间内找不到曲线外地址。
type ExhaustedNonceSearchError struct {
	Account string
}

func (e *ExhaustedNonceSearchError) Error() string {
	return fmt.Sprintf("exhausted nonce search for account %q", e.Account)
}

// UnknownInstructionError 表示执行顺序中出现接口模型未声明的指令。
type UnknownInstructionError struct {
	Name string
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown instruction %q in execution order", e.Name)
}

// MissingAccountBindingError 表示派生种子引用了所在指令未声明的参数。
type MissingAccountBindingError struct {
	Instruction string
	Account     string
	Argument    string
}

func (e *MissingAccountBindingError) Error() string {
	return fmt.Sprintf("instruction %q account %q: seed references undeclared argument %q",
		e.Instruction, e.Account, e.Argument)
}

// UnsupportedTypeError 表示合成器没有对应类型的用例策略。
type UnsupportedTypeError struct {
	Instruction string
	Argument    string
	Type        string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("instruction %q argument %q: unsupported data type %q",
		e.Instruction, e.Argument, e.Type)
}
