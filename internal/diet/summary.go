package diet

import "github.com/hitoshi/diety/internal/model"

// Summarize は食事記録のステータス列から集計結果を計算する。
//
// statusesは記録の作成順に並んでいる必要がある。BestSequenceは
// DietStatusWithinが途切れずに続いた最長の長さで、並び順に依存する。
// 入力を1回だけ走査し、追加のメモリ確保は行わない。
func Summarize(statuses []model.DietStatus) model.Summary {
	var inDiet, current, best int
	for _, s := range statuses {
		if s.IsWithin() {
			inDiet++
			current++
			if current > best {
				best = current
			}
			continue
		}
		current = 0
	}

	return model.Summary{
		Total:        len(statuses),
		InDiet:       inDiet,
		OffDiet:      len(statuses) - inDiet,
		BestSequence: best,
	}
}
