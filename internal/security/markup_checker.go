// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MarkupChecker は食事記録の名前・説明などのユーザー入力にHTMLマークアップが
// 含まれるかを判定する。入力は書き換えず、マークアップを含む入力は呼び出し側で拒否する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MarkupChecker はプレーンテキスト判定のインターフェース。
type MarkupChecker interface {
	// ContainsMarkup はテキストにタグ・コメントなどHTMLとして解釈される構造が
	// 含まれる場合にtrueを返す。"calories < 500" のような単独の不等号や
	// "&lt;b&gt;" のようなエスケープ済みテキストはマークアップとみなさない。
	ContainsMarkup(s string) bool
}

// markupChecker はMarkupCheckerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type markupChecker struct {
	policy *bluemonday.Policy
}

// newlineNormalizer はHTMLトークナイザーと同じ規則で改行を正規化する。
var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// carriageReturnEscaper はbluemondayのテキスト出力に合わせて文字参照由来のCRをエスケープする。
var carriageReturnEscaper = strings.NewReplacer("\r", "&#13;")

// NewMarkupChecker はタグを一切許可しないポリシーでMarkupCheckerを生成する。
func NewMarkupChecker() MarkupChecker {
	return &markupChecker{
		policy: bluemonday.StrictPolicy(),
	}
}

// ContainsMarkup はStrictPolicyの出力と、入力をテキストとしてエスケープした結果を比較する。
// 両者が一致しなければポリシーが何かを除去したことになる。
func (c *markupChecker) ContainsMarkup(in string) bool {
	if in == "" {
		return false
	}
	asText := carriageReturnEscaper.Replace(
		html.EscapeString(html.UnescapeString(newlineNormalizer.Replace(in))),
	)
	return c.policy.Sanitize(in) != asText
}
