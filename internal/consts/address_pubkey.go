package consts

import "idl-testgen-sol/internal/types"

// 预解析为 Pubkey 的地址常量（热路径使用，避免重复 base58 解码）
var (
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
)
