package utils

// Label 记录一条推荐结果的可解释元信息：候选从哪一路召回、被哪个
// 节点改写过。Value 承载业务语义，Source 标记写入方。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall.collaborative / recall.content / hybrid / rerank / filter ...
}

// MergeLabel 合并同名 Label，保留两侧的历史，便于回溯一条候选
// 在整个链路中的流转轨迹。
//   - Value: 以 '|' 累积
//   - Source: 以 ',' 累积
//
// 需要覆盖式写入的场景直接操作 Item.Labels 即可。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
