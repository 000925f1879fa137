package token

import "support_chat_service/pkg/config"

// 這個變數會在測試時被覆蓋
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper issue a token in the name of this service
func GenerateJWTWrapper(accountID, role string) (string, error) {
	return GenerateJWTFunc(accountID, role, config.EnvConfig.SupportService)
}

// ParseJWTWrapper 讓 middleware test mock 使用這個包裝函數
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
