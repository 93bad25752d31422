package standings

// winCount — количество побед, включая bye и форфейтные (если те учитываются
// в очках).
func winCount(playerID int, l *Ledger, scores Scores, opts Options) Value {
	return defined(float64(scores[playerID].Wins))
}

// gamesWithBlack — количество сыгранных партий чёрными.
func gamesWithBlack(playerID int, l *Ledger, scores Scores, opts Options) Value {
	var n int
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		if e.Color == ColorBlack {
			n++
		}
	}
	return defined(float64(n))
}

// winsWithBlack — количество побед чёрными.
func winsWithBlack(playerID int, l *Ledger, scores Scores, opts Options) Value {
	var n int
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		if e.Color == ColorBlack && e.Points == 1 {
			n++
		}
	}
	return defined(float64(n))
}

// matchPoints — матчевые очки: 2 за победу, 1 за ничью.
func matchPoints(playerID int, l *Ledger, scores Scores, opts Options) Value {
	s := scores[playerID]
	return defined(float64(2*s.Wins + s.Draws))
}

// gamePoints — очки, набранные за доской (без bye).
func gamePoints(playerID int, l *Ledger, scores Scores, opts Options) Value {
	var sum float64
	for _, e := range l.Encounters(playerID) {
		if e.Bye {
			continue
		}
		if e.Forfeited() && !opts.CountForfeitsForScore {
			continue
		}
		sum += e.Points
	}
	return defined(sum)
}

// boardPoints — очки по доскам: всё заработанное, включая bye.
func boardPoints(playerID int, l *Ledger, scores Scores, opts Options) Value {
	return defined(scores[playerID].Points)
}
