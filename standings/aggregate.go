package standings

// Score — сырой счёт игрока по леджеру. Инвариант: Points == Wins + 0.5*Draws.
type Score struct {
	Wins        int
	Draws       int
	Losses      int
	GamesPlayed int
	Points      float64
}

// Scores — счёт каждого игрока турнира.
type Scores map[int]Score

// Aggregate считает сырые очки по завершённым партиям. Незавершённые партии
// в леджер не попадают и ни в один счётчик не входят. Bye с результатом
// учитывается как обычная партия (победа или ничья). Форфейты и просрочки
// считаются как обычные результаты, если конфигурация не говорит обратного.
func Aggregate(l *Ledger, opts Options) Scores {
	scores := make(Scores, len(l.players))
	for _, id := range l.order {
		var s Score
		for _, e := range l.Encounters(id) {
			if e.Forfeited() && !opts.CountForfeitsForScore {
				continue
			}
			s.GamesPlayed++
			s.Points += e.Points
			switch e.Points {
			case 1:
				s.Wins++
			case 0.5:
				s.Draws++
			default:
				s.Losses++
			}
		}
		scores[id] = s
	}
	return scores
}
