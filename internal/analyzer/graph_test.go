package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idl-testgen-sol/internal/idl"
)

// journalModel 构造两条指令共享派生账户的接口模型：
// entry 由 (字面量, 参数 title, 账户 owner) 派生，owner 为签名者。
func journalModel() *idl.Interface {
	entrySeeds := &idl.DerivedAddressSpec{
		Seeds: []idl.SeedSource{
			{Kind: idl.SeedLiteral, Value: []byte("entry")},
			{Kind: idl.SeedArgument, Path: "title"},
			{Kind: idl.SeedAccount, Path: "owner"},
		},
	}
	return &idl.Interface{
		Name: "journal",
		Instructions: []idl.InstructionSpec{
			{
				Name: "create_entry",
				Accounts: []idl.AccountUsage{
					{Name: "entry", IsMut: true, Derived: entrySeeds},
					{Name: "owner", IsMut: true, IsSigner: true},
					{Name: "system_program"},
				},
				Args: []idl.ArgumentSpec{
					{Name: "title", Type: idl.DataType{Kind: idl.KindString}},
					{Name: "message", Type: idl.DataType{Kind: idl.KindString}},
				},
			},
			{
				Name: "update_entry",
				Accounts: []idl.AccountUsage{
					{Name: "entry", IsMut: true, Derived: entrySeeds},
					{Name: "owner", IsSigner: true},
				},
				Args: []idl.ArgumentSpec{
					{Name: "title", Type: idl.DataType{Kind: idl.KindString}},
					{Name: "message", Type: idl.DataType{Kind: idl.KindString}},
				},
			},
		},
	}
}

func TestGraph_InitOrder(t *testing.T) {
	g := BuildGraph(journalModel())
	order, err := g.InitOrder()
	require.NoError(t, err)

	// owner 必须先于其种子所派生的 entry
	assert.Less(t, indexOf(order, "owner"), indexOf(order, "entry"))
	// 全部节点恰好出现一次
	assert.ElementsMatch(t, []string{"entry", "owner", "system_program"}, order)
}

func TestGraph_InitOrderDeterministic(t *testing.T) {
	// 相同输入重复构建，输出必须逐元素一致
	first, err := BuildGraph(journalModel()).InitOrder()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildGraph(journalModel()).InitOrder()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGraph_SharedDerivedAccount(t *testing.T) {
	// 两条指令声明同一派生账户：归并为一个节点，依赖边一致
	g := BuildGraph(journalModel())
	deps, err := g.Dependencies()
	require.NoError(t, err)

	byName := make(map[string]AccountDependency)
	for _, d := range deps {
		byName[d.Name] = d
	}

	entry := byName["entry"]
	assert.True(t, entry.IsPda)
	assert.Contains(t, entry.DependsOn, "owner")
	assert.True(t, entry.MustInit) // create_entry 推断为初始化指令

	owner := byName["owner"]
	assert.True(t, owner.IsSigner)
	assert.Empty(t, owner.DependsOn)
	assert.Less(t, owner.Order, entry.Order)
}

func TestGraph_CycleDetected(t *testing.T) {
	// 两个派生地址互为种子：无合法初始化顺序，必须是致命结构错误
	model := &idl.Interface{
		Name: "cyclic",
		Instructions: []idl.InstructionSpec{
			{
				Name: "init_pair",
				Accounts: []idl.AccountUsage{
					{Name: "alpha", IsMut: true, Derived: &idl.DerivedAddressSpec{
						Seeds: []idl.SeedSource{{Kind: idl.SeedAccount, Path: "beta"}},
					}},
					{Name: "beta", IsMut: true, Derived: &idl.DerivedAddressSpec{
						Seeds: []idl.SeedSource{{Kind: idl.SeedAccount, Path: "alpha"}},
					}},
				},
			},
		},
	}

	_, err := BuildGraph(model).InitOrder()
	var cerr *DependencyCycleError
	require.ErrorAs(t, err, &cerr)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, cerr.Names)
}

func TestGraph_FirstSeenTieBreak(t *testing.T) {
	// 无任何依赖边时，顺序即跨指令首见顺序，而非字典序
	model := &idl.Interface{
		Name: "flat",
		Instructions: []idl.InstructionSpec{
			{Name: "one", Accounts: []idl.AccountUsage{{Name: "zulu"}, {Name: "mike"}}},
			{Name: "two", Accounts: []idl.AccountUsage{{Name: "alpha"}, {Name: "mike"}}},
		},
	}
	order, err := BuildGraph(model).InitOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"zulu", "mike", "alpha"}, order)
}

func indexOf(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}
