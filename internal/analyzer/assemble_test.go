package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idl-testgen-sol/internal/idl"
	"idl-testgen-sol/internal/metadata"
)

func TestAssemble(t *testing.T) {
	model := journalModel()

	suite, err := Assemble(model, nil, "default")
	require.NoError(t, err)

	assert.Equal(t, "journal", suite.ProgramName)
	assert.Equal(t, "default", suite.Label)
	// 未给定执行顺序时取 IDL 自然顺序
	assert.Equal(t, []string{"create_entry", "update_entry"}, suite.ExecutionOrder)
	require.Len(t, suite.PerInstruction, 2)

	create := suite.PerInstruction[0]
	assert.Equal(t, "create_entry", create.Name)
	// 账户顺序继承全局拓扑序：owner 先于其派生的 entry
	assert.Less(t, indexOf(create.AccountOrder, "owner"), indexOf(create.AccountOrder, "entry"))

	// 准备步骤：owner 建密钥对并注资，entry 按依赖初始化
	var kinds []metadata.SetupKind
	for _, s := range create.SetupSteps {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []metadata.SetupKind{
		metadata.SetupCreateKeypair,
		metadata.SetupFundAccount,
		metadata.SetupInitializeDerived,
	}, kinds)
	assert.Equal(t, "owner", create.SetupSteps[0].Account)
	assert.Equal(t, "entry", create.SetupSteps[2].Account)
	assert.Contains(t, create.SetupSteps[2].DependsOn, "owner")

	// 每条指令都带用例：正向在首位
	require.NotEmpty(t, create.TestCases)
	assert.Equal(t, metadata.Positive, create.TestCases[0].Kind)
}

func TestAssemble_Idempotent(t *testing.T) {
	// 相同输入必须产出结构一致的产物
	first, err := Assemble(journalModel(), nil, "default")
	require.NoError(t, err)
	again, err := Assemble(journalModel(), nil, "default")
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestAssemble_ExplicitOrder(t *testing.T) {
	suite, err := Assemble(journalModel(), []string{"update_entry"}, "partial")
	require.NoError(t, err)

	assert.Equal(t, []string{"update_entry"}, suite.ExecutionOrder)
	require.Len(t, suite.PerInstruction, 1)
	assert.Equal(t, "update_entry", suite.PerInstruction[0].Name)
}

func TestAssemble_UnknownInstruction(t *testing.T) {
	_, err := Assemble(journalModel(), []string{"create_entry", "delete_entry"}, "default")
	var uerr *UnknownInstructionError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "delete_entry", uerr.Name)
}

func TestAssemble_MissingSeedBinding(t *testing.T) {
	// 派生种子引用了指令上不存在的参数
	model := &idl.Interface{
		Name: "broken",
		Instructions: []idl.InstructionSpec{
			{
				Name: "make",
				Accounts: []idl.AccountUsage{
					{Name: "thing", IsMut: true, Derived: &idl.DerivedAddressSpec{
						Seeds: []idl.SeedSource{{Kind: idl.SeedArgument, Path: "missing"}},
					}},
					{Name: "payer", IsMut: true, IsSigner: true},
				},
			},
		},
	}

	_, err := Assemble(model, nil, "default")
	var merr *MissingAccountBindingError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "make", merr.Instruction)
	assert.Equal(t, "thing", merr.Account)
	assert.Equal(t, "missing", merr.Argument)
}

func TestAssemble_CyclePropagates(t *testing.T) {
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

	_, err := Assemble(model, nil, "default")
	var cerr *DependencyCycleError
	require.ErrorAs(t, err, &cerr)
}

func TestAssembleInstruction_MatchesFullSuite(t *testing.T) {
	// 按指令分片的计划与整套装配中的对应条目一致
	suite, err := Assemble(journalModel(), nil, "default")
	require.NoError(t, err)

	plan, err := AssembleInstruction(journalModel(), nil, "create_entry", "default")
	require.NoError(t, err)
	assert.Equal(t, suite.PerInstruction[0], *plan)

	_, err = AssembleInstruction(journalModel(), nil, "nope", "default")
	var uerr *UnknownInstructionError
	require.ErrorAs(t, err, &uerr)
}
