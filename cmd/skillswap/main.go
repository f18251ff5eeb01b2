// Package main - точка входа SkillSwap Hub.
//
// Команды:
//   - serve   - HTTP API поиска партнёров, матчей и переписки
//   - migrate - схема PostgreSQL и демо-данные
//   - rank    - подбор партнёров для профиля прямо в терминале
package main

import (
	"fmt"
	"os"
)

// Выставляются линкером при сборке релиза.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}
