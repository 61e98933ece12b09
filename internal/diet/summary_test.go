package diet

import (
	"testing"

	"github.com/hitoshi/diety/internal/model"
)

const (
	in  = model.DietStatusWithin
	off = model.DietStatusOff
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		statuses []model.DietStatus
		want     model.Summary
	}{
		{
			name:     "空の入力はすべて0",
			statuses: nil,
			want:     model.Summary{},
		},
		{
			name:     "途中で途切れた連続記録",
			statuses: []model.DietStatus{in, in, off, in},
			want:     model.Summary{Total: 4, InDiet: 3, OffDiet: 1, BestSequence: 2},
		},
		{
			name:     "すべて範囲内なら最長記録は総数と一致",
			statuses: []model.DietStatus{in, in, in},
			want:     model.Summary{Total: 3, InDiet: 3, OffDiet: 0, BestSequence: 3},
		},
		{
			name:     "すべて範囲外なら最長記録は0",
			statuses: []model.DietStatus{off, off},
			want:     model.Summary{Total: 2, InDiet: 0, OffDiet: 2, BestSequence: 0},
		},
		{
			name:     "最長記録が末尾にある",
			statuses: []model.DietStatus{in, off, in, in, in},
			want:     model.Summary{Total: 5, InDiet: 4, OffDiet: 1, BestSequence: 3},
		},
		{
			name:     "最長記録が先頭にある",
			statuses: []model.DietStatus{in, in, in, off, in, off},
			want:     model.Summary{Total: 6, InDiet: 4, OffDiet: 2, BestSequence: 3},
		},
		{
			name:     "1件のみ",
			statuses: []model.DietStatus{in},
			want:     model.Summary{Total: 1, InDiet: 1, OffDiet: 0, BestSequence: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.statuses)
			if got != tt.want {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.statuses, got, tt.want)
			}
		})
	}
}

// TestSummarize_CountsAlwaysAddUp は任意の並びでinDiet+offDiet=totalかつ
// bestSequence<=inDietであることを全組み合わせで検証する。
func TestSummarize_CountsAlwaysAddUp(t *testing.T) {
	const maxLen = 8
	for n := 0; n <= maxLen; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			statuses := make([]model.DietStatus, n)
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					statuses[i] = in
				} else {
					statuses[i] = off
				}
			}

			got := Summarize(statuses)
			if got.Total != n {
				t.Fatalf("%v: Total = %d, want %d", statuses, got.Total, n)
			}
			if got.InDiet+got.OffDiet != got.Total {
				t.Fatalf("%v: InDiet(%d)+OffDiet(%d) != Total(%d)", statuses, got.InDiet, got.OffDiet, got.Total)
			}
			if got.BestSequence > got.InDiet {
				t.Fatalf("%v: BestSequence(%d) > InDiet(%d)", statuses, got.BestSequence, got.InDiet)
			}
		}
	}
}

// TestSummarize_UnknownStatusBreaksRun は未知のステータスが範囲外として扱われることを検証する。
func TestSummarize_UnknownStatusBreaksRun(t *testing.T) {
	got := Summarize([]model.DietStatus{in, "true", in})
	want := model.Summary{Total: 3, InDiet: 2, OffDiet: 1, BestSequence: 1}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}
