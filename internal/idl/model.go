package idl

import (
	"idl-testgen-sol/internal/types"
)

// Interface 是解析后的接口模型（Interface Model），解析完成后只读。
type Interface struct {
	Name         string
	Version      string
	ProgramID    types.Pubkey
	Instructions []InstructionSpec
	Errors       []ErrorDef
}

// Instruction 按名称查找指令。
func (i *Interface) Instruction(name string) (*InstructionSpec, bool) {
	for idx := range i.Instructions {
		if i.Instructions[idx].Name == name {
			return &i.Instructions[idx], true
		}
	}
	return nil, false
}

// InstructionNames 返回 IDL 自然顺序下的指令名列表。
func (i *Interface) InstructionNames() []string {
	names := make([]string, 0, len(i.Instructions))
	for idx := range i.Instructions {
		names = append(names, i.Instructions[idx].Name)
	}
	return names
}

// ErrorMessage 按错误名查找声明的错误文案，供负向用例的预期失败文本使用。
func (i *Interface) ErrorMessage(name string) (string, bool) {
	for _, e := range i.Errors {
		if e.Name == name {
			return e.Message, true
		}
	}
	return "", false
}

// InstructionSpec 表示一条可调用指令：参数与账户均保持 IDL 声明顺序。
type InstructionSpec struct {
	Name     string
	Accounts []AccountUsage
	Args     []ArgumentSpec
	Docs     []string
}

// Argument 按名称查找参数。
func (s *InstructionSpec) Argument(name string) (*ArgumentSpec, bool) {
	for idx := range s.Args {
		if s.Args[idx].Name == name {
			return &s.Args[idx], true
		}
	}
	return nil, false
}

// Account 按名称查找账户声明。
func (s *InstructionSpec) Account(name string) (*AccountUsage, bool) {
	for idx := range s.Accounts {
		if s.Accounts[idx].Name == name {
			return &s.Accounts[idx], true
		}
	}
	return nil, false
}

// DataKind 表示参数的类型大类。
type DataKind uint8

const (
	KindString DataKind = iota
	KindUint
	KindInt
	KindBool
	KindPubkey
	KindComposite
)

// DataType 表示参数类型。Width 仅对整数有效（8/16/32/64/128），
// MaxLen 为字符串声明的最大长度（0 表示未声明）。
type DataType struct {
	Kind   DataKind
	Width  int
	Name   string // Composite 类型名
	MaxLen uint32
}

func (t DataType) IsInteger() bool {
	return t.Kind == KindUint || t.Kind == KindInt
}

// ConstraintKind 表示参数约束的种类。
type ConstraintKind uint8

const (
	ConstraintMin ConstraintKind = iota
	ConstraintMax
	ConstraintNonZero
	ConstraintMaxLength
	ConstraintMinLength
)

// Constraint 表示解析阶段显式化的单条参数约束。
// Message 为 IDL 声明的错误文案，为空时由合成器取类型默认。
type Constraint struct {
	Kind    ConstraintKind
	Value   int64
	Message string
}

// ArgumentSpec 表示一个指令参数及其显式约束集合。
type ArgumentSpec struct {
	Name        string
	Type        DataType
	Constraints []Constraint
}

// Constraint 按种类查找约束。
func (a *ArgumentSpec) Constraint(kind ConstraintKind) (*Constraint, bool) {
	for idx := range a.Constraints {
		if a.Constraints[idx].Kind == kind {
			return &a.Constraints[idx], true
		}
	}
	return nil, false
}

// AccountUsage 表示指令对一个账户的使用声明。
type AccountUsage struct {
	Name       string
	IsMut      bool
	IsSigner   bool
	IsOptional bool
	Derived    *DerivedAddressSpec // 非 nil 时该账户为派生地址（PDA）
	Docs       []string
}

// SeedKind 表示派生种子的来源。
type SeedKind uint8

const (
	SeedLiteral SeedKind = iota
	SeedArgument
	SeedAccount
)

// SeedSource 表示派生地址的一个种子：字面量字节、指令参数引用或账户公钥引用。
type SeedSource struct {
	Kind  SeedKind
	Path  string // 参数名 / 账户名（SeedArgument、SeedAccount）
	Value []byte // 字面量字节（SeedLiteral）
}

// DerivedAddressSpec 表示派生地址声明：有序种子列表 + 所属程序。
// Program 为零值时回退为被测程序本身。
type DerivedAddressSpec struct {
	Seeds   []SeedSource
	Program types.Pubkey
}

// ErrorDef 表示 IDL 声明的错误（code/name/message 三元组）。
type ErrorDef struct {
	Code    uint32
	Name    string
	Message string
}
