package metadata

import (
	"errors"
	"fmt"

	"github.com/near/borsh-go"
)

// MaxEncodedSize 是链上持久化协作方单账户可写入的编码字节上限。
// 超限属于持久化边界的资源耗尽错误，调用方应改用按指令分片的编码。
const MaxEncodedSize = 10 * 1024

// ErrSizeExceeded 表示编码结果超过链上账户存储上限。
var ErrSizeExceeded = errors.New("encoded metadata exceeds on-chain size ceiling")

// EncodeSuite 将整个套件编码为 borsh 字节流（链上持久化形态）。
func EncodeSuite(s *TestSuite) ([]byte, error) {
	data, err := borsh.Serialize(*s)
	if err != nil {
		return nil, fmt.Errorf("encode suite %q: %w", s.ProgramName, err)
	}
	if len(data) > MaxEncodedSize {
		return nil, fmt.Errorf("suite %q: %d bytes: %w", s.ProgramName, len(data), ErrSizeExceeded)
	}
	return data, nil
}

// DecodeSuite 从 borsh 字节流还原套件。
func DecodeSuite(data []byte) (*TestSuite, error) {
	var s TestSuite
	if err := borsh.Deserialize(&s, data); err != nil {
		return nil, fmt.Errorf("decode suite: %w", err)
	}
	return &s, nil
}

// EncodeInstruction 编码单条指令的测试计划，供大套件按指令分片写入。
func EncodeInstruction(p *InstructionPlan) ([]byte, error) {
	data, err := borsh.Serialize(*p)
	if err != nil {
		return nil, fmt.Errorf("encode instruction plan %q: %w", p.Name, err)
	}
	if len(data) > MaxEncodedSize {
		return nil, fmt.Errorf("instruction plan %q: %d bytes: %w", p.Name, len(data), ErrSizeExceeded)
	}
	return data, nil
}

// DecodeInstruction 从 borsh 字节流还原单条指令计划。
func DecodeInstruction(data []byte) (*InstructionPlan, error) {
	var p InstructionPlan
	if err := borsh.Deserialize(&p, data); err != nil {
		return nil, fmt.Errorf("decode instruction plan: %w", err)
	}
	return &p, nil
}
