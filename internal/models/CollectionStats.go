package models

type CollectionStats struct {
	UniqueCards     int `json:"uniqueCards"`
	TotalCards      int `json:"totalCards"`
	PlaysetComplete int `json:"playsetComplete"`
	MasterComplete  int `json:"masterComplete"`
	TotalInSet      int `json:"totalInSet"`
}

func ratio(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func (cs CollectionStats) UniqueRatio() float64 {
	return ratio(cs.UniqueCards, cs.TotalInSet)
}

func (cs CollectionStats) PlaysetRatio() float64 {
	return ratio(cs.PlaysetComplete, cs.TotalInSet)
}

func (cs CollectionStats) MasterRatio() float64 {
	return ratio(cs.MasterComplete, cs.TotalInSet)
}
