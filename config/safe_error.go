package config

// SafeErrorMessage 根据运行模式决定返回给客户端的错误信息
// release 模式只返回 fallback，避免内部错误细节（SQL、路径等）泄露给客户端
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	// 开发环境返回原始错误，便于排查
	return err.Error()
}
