package chart

// FillZeros 在较短序列的前面补零，使所有序列长度等于最长序列的长度。
// 补零表示该语言在那段时间还不存在，因此只在前面补，从不在后面追加。
// 返回新的切片，不修改输入。
func FillZeros(series []Series) []Series {
	histSize := 0
	for _, s := range series {
		histSize = max(histSize, len(s.Data))
	}

	out := make([]Series, len(series))
	for i, s := range series {
		data := make([]float64, histSize)
		copy(data[histSize-len(s.Data):], s.Data)
		s.Data = data
		out[i] = s
	}
	return out
}
