package standings

import "sort"

// buchholzContributions — вклад каждой партии игрока в Бухгольц: итоговый
// счёт реального соперника либо вклад виртуального соперника за bye.
func buchholzContributions(playerID int, l *Ledger, scores Scores, opts Options) []float64 {
	real := tiebreakEncounters(playerID, l, opts)
	virtual := virtualEncounters(playerID, l, opts)

	out := make([]float64, 0, len(real)+len(virtual))
	for _, e := range real {
		out = append(out, scores[e.OpponentID].Points)
	}
	if len(virtual) > 0 {
		v := byeContribution(playerID, l, scores, opts)
		for range virtual {
			out = append(out, v)
		}
	}
	return out
}

func buchholzFull(playerID int, l *Ledger, scores Scores, opts Options) Value {
	var sum float64
	for _, c := range buchholzContributions(playerID, l, scores, opts) {
		sum += c
	}
	return defined(sum)
}

// buchholzCut строит вариант с отбрасыванием: cut-k убирает k наименьших
// вкладов, median убирает по одному с каждого края.
func buchholzCut(k int, median bool) calculator {
	return func(playerID int, l *Ledger, scores Scores, opts Options) Value {
		contributions := buchholzContributions(playerID, l, scores, opts)
		sort.Float64s(contributions)

		low, high := k, len(contributions)
		if median {
			low, high = k, len(contributions)-k
		}
		if low > len(contributions) {
			low = len(contributions)
		}
		if high < low {
			high = low
		}

		var sum float64
		for _, c := range contributions[low:high] {
			sum += c
		}
		return defined(sum)
	}
}
