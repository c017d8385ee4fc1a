// Package version хранит сведения о сборке ассистента заказов.
// Значения подставляются через -ldflags, например:
//
//	go build -ldflags "-X .../internal/version.version=v1.2.0"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки. Версия отдаётся MCP-клиентам
// при инициализации сервера и в ответе /healthz.
func Info() (v, c, d string) { return version, commit, date }

// String — однострочное представление для стартового лога.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
