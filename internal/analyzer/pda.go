package analyzer

import (
	"encoding/binary"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"idl-testgen-sol/internal/consts"
	"idl-testgen-sol/internal/idl"
	"idl-testgen-sol/internal/types"
)

// Binding 是派生地址解析的绑定环境：参数名 → 运行时值，账户名 → 公钥。
type Binding struct {
	Args     map[string]any
	Accounts map[string]types.Pubkey
}

func (b *Binding) arg(name string) (any, bool) {
	if b == nil || b.Args == nil {
		return nil, false
	}
	v, ok := b.Args[name]
	return v, ok
}

func (b *Binding) account(name string) (types.Pubkey, bool) {
	if b == nil || b.Accounts == nil {
		return types.Pubkey{}, false
	}
	pk, ok := b.Accounts[name]
	return pk, ok
}

// Derived 是派生结果：具体地址 + 消歧 nonce。
type Derived struct {
	Address types.Pubkey
	Nonce   uint8
}

// UnboundSeeds 报告声明中未绑定的种子引用名（seeds-only 模式）。
// 传入空绑定即可得到全部引用，图构建阶段借此在任何测试值存在前计算初始化顺序。
func UnboundSeeds(spec *idl.DerivedAddressSpec, b *Binding) []string {
	var unbound []string
	for _, seed := range spec.Seeds {
		switch seed.Kind {
		case idl.SeedArgument:
			if _, ok := b.arg(seed.Path); !ok {
				unbound = append(unbound, seed.Path)
			}
		case idl.SeedAccount:
			if _, ok := b.account(seed.Path); !ok {
				unbound = append(unbound, seed.Path)
			}
		}
	}
	return unbound
}

// ResolveDerived 解析一个派生地址账户：按声明顺序编码种子字节，
// 自 255 向下搜索单字节 nonce，直到得到曲线外地址。
// 派生是字节级精确的：任何布局偏差都会无声地得到另一个地址，所以编码必须
// 与目标程序完全一致（字符串取 UTF-8，整数按声明位宽小端编码）。
func ResolveDerived(accName string, spec *idl.DerivedAddressSpec, inst *idl.InstructionSpec,
	programID types.Pubkey, b *Binding) (Derived, error) {

	seeds := make([][]byte, 0, len(spec.Seeds))
	for _, seed := range spec.Seeds {
		raw, err := encodeSeed(accName, seed, inst, b)
		if err != nil {
			return Derived{}, err
		}
		seeds = append(seeds, raw)
	}

	owner := spec.Program
	if owner.IsZero() {
		owner = programID
	}

	for nonce := consts.MaxNonce; nonce >= 0; nonce-- {
		addr, err := common.CreateProgramAddress(append(seeds, []byte{byte(nonce)}), owner.ToSDK())
		if err == nil {
			return Derived{Address: types.PubkeyFromSDK(addr), Nonce: uint8(nonce)}, nil
		}
	}
	return Derived{}, &ExhaustedNonceSearchError{Account: accName}
}

func encodeSeed(accName string, seed idl.SeedSource, inst *idl.InstructionSpec, b *Binding) ([]byte, error) {
	switch seed.Kind {
	case idl.SeedLiteral:
		return seed.Value, nil

	case idl.SeedArgument:
		v, ok := b.arg(seed.Path)
		if !ok {
			return nil, &AmbiguousSeedError{Account: accName, Seed: seed.Path}
		}
		arg, ok := inst.Argument(seed.Path)
		if !ok {
			return nil, &AmbiguousSeedError{Account: accName, Seed: seed.Path}
		}
		return encodeArgValue(arg.Type, v)

	case idl.SeedAccount:
		pk, ok := b.account(seed.Path)
		if !ok {
			return nil, &AmbiguousSeedError{Account: accName, Seed: seed.Path}
		}
		return pk.Bytes(), nil

	default:
		return nil, fmt.Errorf("account %q: unknown seed kind %d", accName, seed.Kind)
	}
}

// encodeArgValue 按声明类型编码参数值。整数统一小端，与 borsh 布局一致。
func encodeArgValue(t idl.DataType, v any) ([]byte, error) {
	switch t.Kind {
	case idl.KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("seed value %v is not a string", v)
		}
		return []byte(s), nil

	case idl.KindUint:
		u, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		return encodeUintLE(u, t.Width), nil

	case idl.KindInt:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		b := encodeUintLE(uint64(i), t.Width)
		if t.Width == 128 && i < 0 {
			// 128 位负数需要符号扩展高 8 字节
			for k := 8; k < 16; k++ {
				b[k] = 0xFF
			}
		}
		return b, nil

	case idl.KindBool:
		bv, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("seed value %v is not a bool", v)
		}
		if bv {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case idl.KindPubkey:
		pk, ok := v.(types.Pubkey)
		if !ok {
			return nil, fmt.Errorf("seed value %v is not a pubkey", v)
		}
		return pk.Bytes(), nil

	default:
		return nil, fmt.Errorf("data type %q cannot be used as seed material", t.Name)
	}
}

func encodeUintLE(u uint64, width int) []byte {
	switch width {
	case 8:
		return []byte{byte(u)}
	case 16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(u))
		return b
	case 32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(u))
		return b
	case 128:
		// 低 8 字节有效，高 8 字节补零（无符号扩展）
		b := make([]byte, 16)
		binary.LittleEndian.PutUint64(b, u)
		return b
	default:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, u)
		return b
	}
}

func toUint64(v any) (uint64, error) {
	switch x := v.(type) {
	case uint64:
		return x, nil
	case uint32:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint:
		return uint64(x), nil
	case int:
		if x < 0 {
			return 0, fmt.Errorf("negative value %d for unsigned seed", x)
		}
		return uint64(x), nil
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("negative value %d for unsigned seed", x)
		}
		return uint64(x), nil
	default:
		return 0, fmt.Errorf("seed value %v (%T) is not an unsigned integer", v, v)
	}
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int:
		return int64(x), nil
	default:
		return 0, fmt.Errorf("seed value %v (%T) is not a signed integer", v, v)
	}
}
