package config

import (
	_ "embed"
)

// DefaultConfigYAML 内置默认配置，外部 config.yaml 可覆盖其中任意项
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
// release 模式返回 fallback，其余情况返回原始错误信息
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// IsProduction 是否运行在 release 模式
func IsProduction() bool {
	return GlobalConfig != nil && GlobalConfig.Server.Mode == "release"
}
