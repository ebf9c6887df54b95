// redact — помощники для безопасного логирования: учётные данные и
// токены не должны попадать в логи в открытом виде.
package redact

// Username маскирует username, оставляя первые две руны для диагностики.
func Username(s string) string {
	runes := []rune(s)
	if len(runes) <= 2 {
		return "***"
	}

	return string(runes[:2]) + "***"
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
