package analyzer

import (
	"idl-testgen-sol/internal/types"
)

// TestContext 是按 label 区分的显式绑定登记表：
// 账户公钥与已解析的派生地址都挂在这里，通过引用在图构建 / 解析 / 合成
// 之间传递，避免任何全局可变状态。
type TestContext struct {
	Label    string
	Args     map[string]any
	Accounts map[string]types.Pubkey
	Derived  map[string]Derived
}

func NewTestContext(label string) *TestContext {
	return &TestContext{
		Label:    label,
		Args:     make(map[string]any),
		Accounts: make(map[string]types.Pubkey),
		Derived:  make(map[string]Derived),
	}
}

// BindArg 登记参数运行时值（派生种子可能引用）。
func (c *TestContext) BindArg(name string, v any) {
	c.Args[name] = v
}

// BindAccount 登记账户公钥。
func (c *TestContext) BindAccount(name string, pk types.Pubkey) {
	c.Accounts[name] = pk
}

// BindDerived 登记一个已解析的派生地址，其公钥同时进入账户表，
// 供后续派生账户以 AccountRef 种子引用。
func (c *TestContext) BindDerived(name string, d Derived) {
	c.Derived[name] = d
	c.Accounts[name] = d.Address
}

// Binding 返回解析器视角的绑定环境。
func (c *TestContext) Binding() *Binding {
	return &Binding{Args: c.Args, Accounts: c.Accounts}
}
