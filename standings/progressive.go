package standings

// progressive — сумма текущего счёта после каждого тура. Тур без партии
// оставляет текущий счёт неизменным, но всё равно прибавляет его к сумме.
func progressive(playerID int, l *Ledger, scores Scores, opts Options) Value {
	pointsByRound := make(map[int]float64)
	for _, e := range l.Encounters(playerID) {
		if e.Forfeited() && !opts.CountForfeitsForScore {
			continue
		}
		pointsByRound[e.Round] += e.Points
	}

	var running, total float64
	for round := 1; round <= l.Rounds(); round++ {
		running += pointsByRound[round]
		total += running
	}
	return defined(total)
}

// cumulative — прогрессивный счёт с поправкой на несыгранные партии: очки,
// полученные без игры за доской (bye, форфейтные победы), вычитаются из
// суммы по одному разу за каждую такую партию.
func cumulative(playerID int, l *Ledger, scores Scores, opts Options) Value {
	base := progressive(playerID, l, scores, opts)

	var unplayed float64
	for _, e := range l.Encounters(playerID) {
		if e.Unplayed() && e.Points > 0 {
			unplayed += e.Points
		}
	}
	return defined(base.Score - unplayed)
}
