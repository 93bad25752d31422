package standings

// sonnebornBerger — сумма по партиям: итоговый счёт соперника, взвешенный
// очками, заработанными против него в этой партии. Победа приносит полный
// счёт соперника, ничья — половину, поражение — ничего. За bye засчитывается
// вклад виртуального соперника с тем же взвешиванием.
func sonnebornBerger(playerID int, l *Ledger, scores Scores, opts Options) Value {
	var sum float64
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		sum += scores[e.OpponentID].Points * e.Points
	}
	if virtual := virtualEncounters(playerID, l, opts); len(virtual) > 0 {
		v := byeContribution(playerID, l, scores, opts)
		for _, e := range virtual {
			sum += v * e.Points
		}
	}
	return defined(sum)
}

// directEncounterScalar — очки, набранные против соперников с тем же итоговым
// счётом. Скаляр нужен только для отображения в векторе тайбрейков; при
// сортировке Compute применяет метод попарно между двумя конкретными
// игроками.
func directEncounterScalar(playerID int, l *Ledger, scores Scores, opts Options) Value {
	own := scores[playerID].Points
	var sum float64
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		if scores[e.OpponentID].Points == own {
			sum += e.Points
		}
	}
	return defined(sum)
}

// koya — очки, набранные против соперников, взявших не менее половины
// возможных очков.
func koya(playerID int, l *Ledger, scores Scores, opts Options) Value {
	threshold := float64(l.Rounds()) / 2
	var sum float64
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		if scores[e.OpponentID].Points >= threshold {
			sum += e.Points
		}
	}
	return defined(sum)
}
