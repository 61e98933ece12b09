package app

import (
	"fmt"
	"strings"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーを起動する。引数なしの場合もこれになる。
	CommandServe Command = "serve"
	// CommandMigrate は未適用のマイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中のサーバーの /health を叩いて終了する。
	// distrolessイメージにはcurlがないため、DockerのHEALTHCHECKから使う。
	CommandHealthcheck Command = "healthcheck"
)

// commands は受け付けるサブコマンドの一覧。エラーメッセージの表示順を兼ねる。
var commands = []Command{CommandServe, CommandMigrate, CommandHealthcheck}

// ParseCommand は先頭の引数をサブコマンドとして解釈する。
// 2番目以降の引数は無視する。未知のサブコマンドはエラーにする。
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return CommandServe, nil
	}

	for _, c := range commands {
		if args[0] == string(c) {
			return c, nil
		}
	}

	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = string(c)
	}
	return "", fmt.Errorf("unknown command %q (available: %s)", args[0], strings.Join(names, ", "))
}
