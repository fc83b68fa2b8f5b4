package chart

// Percentage 将每个季度的值换算为该季度全部序列总和中的占比。
// 输入序列应已对齐到相同长度；某个季度总和为 0 时，该季度所有值记为 0。
func Percentage(series []Series) []Series {
	histSize := 0
	for _, s := range series {
		histSize = max(histSize, len(s.Data))
	}

	total := make([]float64, histSize)
	for _, s := range series {
		for i, v := range s.Data {
			total[i] += v
		}
	}

	out := make([]Series, len(series))
	for i, s := range series {
		data := make([]float64, len(s.Data))
		for j, v := range s.Data {
			if total[j] == 0 {
				continue
			}
			data[j] = v / total[j]
		}
		s.Data = data
		out[i] = s
	}
	return out
}
