package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Параметры argon2id по рекомендации OWASP.
// Memory-hard хэширование — осознанная фиксированная цена за signup/signin/refresh
// для устойчивости к GPU-перебору; не кэшируется и не «ускоряется».
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonSaltLen = 16
	argonKeyLen  = 32
)

// hashSecret хэширует секрет (пароль или refresh-токен) argon2id и
// возвращает строку в PHC-формате:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// Соль генерируется на каждый вызов и встроена в результат, поэтому
// проверка самодостаточна.
func hashSecret(plain string) (string, error) {
	const op = "service.hasher.hashSecret"

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// verifySecret сравнивает секрет с PHC-строкой.
//
// Возвращает строго bool: false и для несовпадения, и для пустого/битого
// encoded. Различать «нет учётных данных» и «неверные учётные данные»
// обязан вызывающий — до вызова verifySecret.
func verifySecret(encoded, plain string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(plain), salt, time, memory, threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1
}
