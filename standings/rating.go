package standings

import (
	"math"
	"sort"
)

// ratedGame — партия против соперника с известным рейтингом.
type ratedGame struct {
	opponentRating int
	points         float64
}

func ratedGames(playerID int, l *Ledger, opts Options) []ratedGame {
	encs := tiebreakEncounters(playerID, l, opts)
	out := make([]ratedGame, 0, len(encs))
	for _, e := range encs {
		opp := l.Player(e.OpponentID)
		if opp == nil || opp.Rating == nil {
			continue
		}
		out = append(out, ratedGame{opponentRating: *opp.Rating, points: e.Points})
	}
	return out
}

// averageRatingOfOpponents — средний рейтинг рейтинговых соперников.
// Не определено, если таких соперников нет.
func averageRatingOfOpponents(playerID int, l *Ledger, scores Scores, opts Options) Value {
	games := ratedGames(playerID, l, opts)
	if len(games) == 0 {
		return Value{}
	}
	var sum float64
	for _, g := range games {
		sum += float64(g.opponentRating)
	}
	return defined(sum / float64(len(games)))
}

// arocCut — средний рейтинг соперников с отбрасыванием k самых слабых.
func arocCut(k int) calculator {
	return func(playerID int, l *Ledger, scores Scores, opts Options) Value {
		games := ratedGames(playerID, l, opts)
		if len(games) == 0 {
			return Value{}
		}
		ratings := make([]int, len(games))
		for i, g := range games {
			ratings[i] = g.opponentRating
		}
		sort.Ints(ratings)
		if k >= len(ratings) {
			return Value{}
		}
		ratings = ratings[k:]
		var sum float64
		for _, r := range ratings {
			sum += float64(r)
		}
		return defined(sum / float64(len(ratings)))
	}
}

// performanceRating — перформанс по правилу 400: средний рейтинг соперников
// плюс 400 * (победы - поражения) / партии, по рейтинговым партиям.
// Не определено, если рейтинговых соперников не было; такое значение
// сортируется последним.
func performanceRating(playerID int, l *Ledger, scores Scores, opts Options) Value {
	games := ratedGames(playerID, l, opts)
	if len(games) == 0 {
		return Value{}
	}
	var ratingSum float64
	var wins, losses int
	for _, g := range games {
		ratingSum += float64(g.opponentRating)
		switch g.points {
		case 1:
			wins++
		case 0:
			losses++
		}
	}
	avg := ratingSum / float64(len(games))
	return defined(avg + 400*float64(wins-losses)/float64(len(games)))
}

// ExpectedScore — ожидаемый результат по кривой Эло.
func ExpectedScore(ownRating, opponentRating int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponentRating-ownRating)/400))
}

const ratingChangeK = 20

// RatingChange оценивает изменение рейтинга игрока за турнир: K * (счёт -
// ожидание) по рейтинговым партиям. Nil для игроков без рейтинга и без
// рейтинговых партий.
func RatingChange(playerID int, l *Ledger, opts Options) *float64 {
	p := l.Player(playerID)
	if p == nil || p.Rating == nil {
		return nil
	}
	games := ratedGames(playerID, l, opts)
	if len(games) == 0 {
		return nil
	}
	var change float64
	for _, g := range games {
		change += ratingChangeK * (g.points - ExpectedScore(*p.Rating, g.opponentRating))
	}
	change = math.Round(change*10) / 10
	return &change
}
