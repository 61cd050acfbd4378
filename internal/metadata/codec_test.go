package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSuite() *TestSuite {
	return &TestSuite{
		ProgramID:      "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		ProgramName:    "journal",
		Label:          "default",
		ExecutionOrder: []string{"create_entry"},
		PerInstruction: []InstructionPlan{
			{
				Name:         "create_entry",
				AccountOrder: []string{"owner", "entry"},
				SetupSteps: []SetupStep{
					{Kind: SetupCreateKeypair, Account: "owner", Description: "create keypair for owner"},
					{Kind: SetupInitializeDerived, Account: "entry", Description: "initialize entry", DependsOn: []string{"owner"}},
				},
				TestCases: []TestCase{
					{
						Kind:        Positive,
						Description: "create_entry - valid inputs",
						Arguments:   []ArgumentValue{{Name: "title", Value: "test_value", Valid: true}},
						Expected:    Outcome{Success: true},
					},
					{
						Kind:        NegativeEmpty,
						Description: "create_entry - title empty string",
						Arguments:   []ArgumentValue{{Name: "title", Value: "", Reason: "string cannot be empty"}},
						Expected:    Outcome{FailureContains: "EmptyString"},
					},
				},
			},
		},
	}
}

func TestSuiteCodecRoundTrip(t *testing.T) {
	suite := sampleSuite()

	data, err := EncodeSuite(suite)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.LessOrEqual(t, len(data), MaxEncodedSize)

	got, err := DecodeSuite(data)
	require.NoError(t, err)

	// 逐字段比对关键内容，避免 nil/空切片歧义影响断言
	assert.Equal(t, suite.ProgramID, got.ProgramID)
	assert.Equal(t, suite.ProgramName, got.ProgramName)
	assert.Equal(t, suite.Label, got.Label)
	assert.Equal(t, suite.ExecutionOrder, got.ExecutionOrder)
	require.Len(t, got.PerInstruction, 1)

	plan := got.PerInstruction[0]
	assert.Equal(t, "create_entry", plan.Name)
	assert.Equal(t, []string{"owner", "entry"}, plan.AccountOrder)
	require.Len(t, plan.SetupSteps, 2)
	assert.Equal(t, SetupInitializeDerived, plan.SetupSteps[1].Kind)
	assert.Equal(t, []string{"owner"}, plan.SetupSteps[1].DependsOn)
	require.Len(t, plan.TestCases, 2)
	assert.Equal(t, Positive, plan.TestCases[0].Kind)
	assert.True(t, plan.TestCases[0].Expected.Success)
	assert.Equal(t, "EmptyString", plan.TestCases[1].Expected.FailureContains)
}

func TestEncodeSuite_Deterministic(t *testing.T) {
	first, err := EncodeSuite(sampleSuite())
	require.NoError(t, err)
	again, err := EncodeSuite(sampleSuite())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestEncodeSuite_SizeCeiling(t *testing.T) {
	suite := sampleSuite()
	// 撑大到超过单账户写入上限
	suite.PerInstruction[0].TestCases[0].Description = strings.Repeat("x", MaxEncodedSize+1)

	_, err := EncodeSuite(suite)
	require.ErrorIs(t, err, ErrSizeExceeded)
}

func TestInstructionCodecRoundTrip(t *testing.T) {
	// 超限套件可按指令分片：单片独立编解码
	plan := &sampleSuite().PerInstruction[0]

	data, err := EncodeInstruction(plan)
	require.NoError(t, err)

	got, err := DecodeInstruction(data)
	require.NoError(t, err)
	assert.Equal(t, plan.Name, got.Name)
	assert.Equal(t, plan.AccountOrder, got.AccountOrder)
	require.Len(t, got.TestCases, len(plan.TestCases))
	assert.Equal(t, plan.TestCases[1].Arguments[0].Reason, got.TestCases[1].Arguments[0].Reason)

	t.Run("oversized plan", func(t *testing.T) {
		big := *plan
		big.Name = strings.Repeat("y", MaxEncodedSize)
		_, err := EncodeInstruction(&big)
		require.ErrorIs(t, err, ErrSizeExceeded)
	})
}

func TestDecodeSuite_Garbage(t *testing.T) {
	_, err := DecodeSuite([]byte{0xff})
	require.Error(t, err)
}

func TestCaseKindString(t *testing.T) {
	assert.Equal(t, "positive", Positive.String())
	assert.Equal(t, "negative_constraint", NegativeConstraint.String())
	assert.Equal(t, "unknown", CaseKind(200).String())
}
