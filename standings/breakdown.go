package standings

import (
	"fmt"
	"sort"

	"github.com/Dosada05/chess-standings/models"
)

// explanations — человекочитаемое описание каждого метода для UI.
var explanations = map[models.TiebreakMethod]string{
	models.TiebreakBuchholz:        "Sum of the final scores of all opponents faced.",
	models.TiebreakBuchholzCut1:    "Sum of opponents' final scores, excluding the lowest one.",
	models.TiebreakBuchholzCut2:    "Sum of opponents' final scores, excluding the two lowest.",
	models.TiebreakBuchholzMedian:  "Sum of opponents' final scores, excluding the highest and the lowest.",
	models.TiebreakSonnebornBerger: "Sum of opponents' final scores weighted by the result achieved against each one.",
	models.TiebreakProgressive:     "Sum of the running score after each round.",
	models.TiebreakCumulative:      "Progressive score adjusted for points received without play.",
	models.TiebreakDirectEncounter: "Points scored in games against players on the same final score.",
	models.TiebreakAverageRating:   "Average rating of rated opponents.",
	models.TiebreakAROCut1:         "Average rating of rated opponents, excluding the lowest-rated one.",
	models.TiebreakAROCut2:         "Average rating of rated opponents, excluding the two lowest-rated.",
	models.TiebreakPerformance:     "Estimated rating of this performance: average opponent rating plus 400 times the win-loss balance per game.",
	models.TiebreakWins:            "Number of games won.",
	models.TiebreakGamesWithBlack:  "Number of games played with the black pieces.",
	models.TiebreakWinsWithBlack:   "Number of games won with the black pieces.",
	models.TiebreakKoya:            "Points scored against opponents who achieved at least fifty percent.",
	models.TiebreakMatchPoints:     "Two points per win and one per draw.",
	models.TiebreakGamePoints:      "Points earned over the board, byes excluded.",
	models.TiebreakBoardPoints:     "Points earned per board, byes included.",
}

func resultLabel(points float64) string {
	switch points {
	case 1:
		return "win"
	case 0.5:
		return "draw"
	default:
		return "loss"
	}
}

func opponentName(l *Ledger, id int) string {
	if p := l.Player(id); p != nil {
		return p.Name
	}
	return fmt.Sprintf("player %d", id)
}

func contribution(l *Ledger, e Encounter, value float64) models.OpponentContribution {
	c := models.OpponentContribution{
		OpponentID:   e.OpponentID,
		OpponentName: opponentName(l, e.OpponentID),
		Round:        e.Round,
		Result:       resultLabel(e.Points),
		Contribution: value,
	}
	if p := l.Player(e.OpponentID); p != nil {
		c.Rating = p.Rating
	}
	return c
}

// Explain восстанавливает пошаговый вывод значения тайбрейка для игрока.
// Значение последнего шага всегда совпадает с прямым результатом Calculate
// для той же пары (игрок, метод).
func Explain(l *Ledger, cfg models.TiebreakConfig, playerID int, method models.TiebreakMethod) (*models.TiebreakBreakdown, error) {
	if !KnownMethod(method) {
		return nil, &ConfigurationError{Method: method, Reason: "unknown tiebreak method"}
	}
	if !l.HasPlayer(playerID) {
		return nil, &NotFoundError{Resource: "player", ID: playerID}
	}

	opts := OptionsFromConfig(cfg)
	scores := Aggregate(l, opts)

	value, err := Calculate(method, playerID, l, scores, opts)
	if err != nil {
		return nil, err
	}

	b := &models.TiebreakBreakdown{
		Method:      method,
		PlayerID:    playerID,
		Value:       value.Score,
		Display:     FormatValue(method, value),
		Explanation: explanations[method],
	}

	switch method {
	case models.TiebreakBuchholz:
		explainBuchholz(b, playerID, l, scores, opts, 0, false)
	case models.TiebreakBuchholzCut1:
		explainBuchholz(b, playerID, l, scores, opts, 1, false)
	case models.TiebreakBuchholzCut2:
		explainBuchholz(b, playerID, l, scores, opts, 2, false)
	case models.TiebreakBuchholzMedian:
		explainBuchholz(b, playerID, l, scores, opts, 1, true)
	case models.TiebreakSonnebornBerger:
		explainSonnebornBerger(b, playerID, l, scores, opts)
	case models.TiebreakProgressive, models.TiebreakCumulative:
		explainProgressive(b, playerID, l, scores, opts, method == models.TiebreakCumulative)
	case models.TiebreakDirectEncounter:
		explainDirectEncounter(b, playerID, l, scores, opts)
	case models.TiebreakKoya:
		explainKoya(b, playerID, l, scores, opts)
	case models.TiebreakAverageRating:
		explainAverageRating(b, playerID, l, opts, 0)
	case models.TiebreakAROCut1:
		explainAverageRating(b, playerID, l, opts, 1)
	case models.TiebreakAROCut2:
		explainAverageRating(b, playerID, l, opts, 2)
	case models.TiebreakPerformance:
		explainPerformance(b, playerID, l, opts)
	default:
		explainCounting(b, playerID, l, scores, opts, method)
	}

	b.Steps = append(b.Steps, models.BreakdownStep{
		Description: "Final value",
		Formula:     fmt.Sprintf("%s = %s", string(method), b.Display),
		Value:       value.Score,
	})
	return b, nil
}

func explainBuchholz(b *models.TiebreakBreakdown, playerID int, l *Ledger, scores Scores, opts Options, cut int, median bool) {
	type item struct {
		enc     Encounter
		virtual bool
		value   float64
	}

	items := make([]item, 0)
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		items = append(items, item{enc: e, value: scores[e.OpponentID].Points})
	}
	byeValue := byeContribution(playerID, l, scores, opts)
	for _, e := range virtualEncounters(playerID, l, opts) {
		items = append(items, item{enc: e, virtual: true, value: byeValue})
	}

	// Отбрасываемые вклады: k наименьших, для median ещё и k наибольших.
	dropped := make(map[int]bool)
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return items[idx[i]].value < items[idx[j]].value })
	for i := 0; i < cut && i < len(idx); i++ {
		dropped[idx[i]] = true
	}
	if median {
		for i := 0; i < cut && len(idx)-1-i >= 0; i++ {
			dropped[idx[len(idx)-1-i]] = true
		}
	}

	var sum float64
	for i, it := range items {
		if it.virtual {
			desc := fmt.Sprintf("Round %d: bye, virtual opponent contributes %.1f", it.enc.Round, it.value)
			if dropped[i] {
				desc += " (cut)"
			}
			b.Steps = append(b.Steps, models.BreakdownStep{
				Description: desc,
				Formula:     fmt.Sprintf("virtual = %.1f", it.value),
				Value:       it.value,
			})
			continue
		}

		c := contribution(l, it.enc, it.value)
		desc := fmt.Sprintf("Round %d: %s vs %s, opponent finished on %.1f", it.enc.Round, c.Result, c.OpponentName, it.value)
		if dropped[i] {
			desc += " (cut)"
			c.Contribution = 0
		} else {
			sum += it.value
		}
		b.Opponents = append(b.Opponents, c)
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: desc,
			Formula:     fmt.Sprintf("opponent score = %.1f", it.value),
			Value:       it.value,
		})
	}

	if cut > 0 {
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("Sum of remaining contributions after cutting %d", len(dropped)),
			Formula:     fmt.Sprintf("sum = %.1f", sum),
			Value:       sum,
		})
	}
}

func explainSonnebornBerger(b *models.TiebreakBreakdown, playerID int, l *Ledger, scores Scores, opts Options) {
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		oppScore := scores[e.OpponentID].Points
		value := oppScore * e.Points
		c := contribution(l, e, value)
		b.Opponents = append(b.Opponents, c)
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("Round %d: %s vs %s", e.Round, c.Result, c.OpponentName),
			Formula:     fmt.Sprintf("%.1f × %.1f = %.2f", oppScore, e.Points, value),
			Value:       value,
		})
	}
	byeValue := byeContribution(playerID, l, scores, opts)
	for _, e := range virtualEncounters(playerID, l, opts) {
		value := byeValue * e.Points
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("Round %d: bye", e.Round),
			Formula:     fmt.Sprintf("%.1f × %.1f = %.2f", byeValue, e.Points, value),
			Value:       value,
		})
	}
}

func explainProgressive(b *models.TiebreakBreakdown, playerID int, l *Ledger, scores Scores, opts Options, adjusted bool) {
	pointsByRound := make(map[int]float64)
	for _, e := range l.Encounters(playerID) {
		if e.Forfeited() && !opts.CountForfeitsForScore {
			continue
		}
		pointsByRound[e.Round] += e.Points
	}

	var running float64
	for round := 1; round <= l.Rounds(); round++ {
		running += pointsByRound[round]
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("After round %d: running score %.1f", round, running),
			Formula:     fmt.Sprintf("+%.1f", running),
			Value:       running,
		})
	}

	if adjusted {
		for _, e := range l.Encounters(playerID) {
			if e.Unplayed() && e.Points > 0 {
				b.Steps = append(b.Steps, models.BreakdownStep{
					Description: fmt.Sprintf("Round %d: unplayed points adjustment", e.Round),
					Formula:     fmt.Sprintf("-%.1f", e.Points),
					Value:       -e.Points,
				})
			}
		}
	}
}

func explainDirectEncounter(b *models.TiebreakBreakdown, playerID int, l *Ledger, scores Scores, opts Options) {
	own := scores[playerID].Points
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		if scores[e.OpponentID].Points != own {
			continue
		}
		c := contribution(l, e, e.Points)
		b.Opponents = append(b.Opponents, c)
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("Round %d: %s vs %s (also on %.1f)", e.Round, c.Result, c.OpponentName, own),
			Formula:     fmt.Sprintf("+%.1f", e.Points),
			Value:       e.Points,
		})
	}
}

func explainKoya(b *models.TiebreakBreakdown, playerID int, l *Ledger, scores Scores, opts Options) {
	threshold := float64(l.Rounds()) / 2
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		oppScore := scores[e.OpponentID].Points
		if oppScore < threshold {
			continue
		}
		c := contribution(l, e, e.Points)
		b.Opponents = append(b.Opponents, c)
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("Round %d: %s vs %s (opponent on %.1f, threshold %.1f)", e.Round, c.Result, c.OpponentName, oppScore, threshold),
			Formula:     fmt.Sprintf("+%.1f", e.Points),
			Value:       e.Points,
		})
	}
}

func explainAverageRating(b *models.TiebreakBreakdown, playerID int, l *Ledger, opts Options, cut int) {
	encs := tiebreakEncounters(playerID, l, opts)
	type rated struct {
		enc    Encounter
		rating int
	}
	games := make([]rated, 0, len(encs))
	for _, e := range encs {
		opp := l.Player(e.OpponentID)
		if opp == nil || opp.Rating == nil {
			continue
		}
		games = append(games, rated{enc: e, rating: *opp.Rating})
	}
	if len(games) == 0 {
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: "No rated opponents",
			Formula:     "undefined",
		})
		return
	}

	dropped := make(map[int]bool)
	idx := make([]int, len(games))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return games[idx[i]].rating < games[idx[j]].rating })
	for i := 0; i < cut && i < len(idx); i++ {
		dropped[idx[i]] = true
	}

	var sum float64
	kept := 0
	for i, g := range games {
		c := contribution(l, g.enc, float64(g.rating))
		desc := fmt.Sprintf("Round %d: %s rated %d", g.enc.Round, c.OpponentName, g.rating)
		if dropped[i] {
			desc += " (cut)"
			c.Contribution = 0
		} else {
			sum += float64(g.rating)
			kept++
		}
		b.Opponents = append(b.Opponents, c)
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: desc,
			Formula:     fmt.Sprintf("rating = %d", g.rating),
			Value:       float64(g.rating),
		})
	}
	if kept > 0 {
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("Average over %d rated opponents", kept),
			Formula:     fmt.Sprintf("%.0f / %d = %.1f", sum, kept, sum/float64(kept)),
			Value:       sum / float64(kept),
		})
	}
}

func explainPerformance(b *models.TiebreakBreakdown, playerID int, l *Ledger, opts Options) {
	games := ratedGames(playerID, l, opts)
	if len(games) == 0 {
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: "No rated opponents",
			Formula:     "undefined",
		})
		return
	}

	var ratingSum float64
	var wins, losses int
	for _, e := range tiebreakEncounters(playerID, l, opts) {
		opp := l.Player(e.OpponentID)
		if opp == nil || opp.Rating == nil {
			continue
		}
		c := contribution(l, e, float64(*opp.Rating))
		b.Opponents = append(b.Opponents, c)
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("Round %d: %s vs %s rated %d", e.Round, c.Result, c.OpponentName, *opp.Rating),
			Formula:     fmt.Sprintf("rating = %d", *opp.Rating),
			Value:       float64(*opp.Rating),
		})
		ratingSum += float64(*opp.Rating)
		switch e.Points {
		case 1:
			wins++
		case 0:
			losses++
		}
	}

	avg := ratingSum / float64(len(games))
	b.Steps = append(b.Steps, models.BreakdownStep{
		Description: fmt.Sprintf("Average opponent rating over %d games", len(games)),
		Formula:     fmt.Sprintf("%.0f / %d = %.1f", ratingSum, len(games), avg),
		Value:       avg,
	})
	adjustment := 400 * float64(wins-losses) / float64(len(games))
	b.Steps = append(b.Steps, models.BreakdownStep{
		Description: fmt.Sprintf("Win-loss adjustment: %d wins, %d losses", wins, losses),
		Formula:     fmt.Sprintf("400 × (%d - %d) / %d = %.1f", wins, losses, len(games), adjustment),
		Value:       adjustment,
	})
}

func explainCounting(b *models.TiebreakBreakdown, playerID int, l *Ledger, scores Scores, opts Options, method models.TiebreakMethod) {
	add := func(e Encounter, desc string, value float64) {
		if e.OpponentID != 0 {
			b.Opponents = append(b.Opponents, contribution(l, e, value))
		}
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: desc,
			Formula:     fmt.Sprintf("+%.1f", value),
			Value:       value,
		})
	}

	switch method {
	case models.TiebreakWins:
		for _, e := range l.Encounters(playerID) {
			if e.Forfeited() && !opts.CountForfeitsForScore {
				continue
			}
			if e.Points == 1 {
				add(e, fmt.Sprintf("Round %d: win", e.Round), 1)
			}
		}
	case models.TiebreakGamesWithBlack:
		for _, e := range tiebreakEncounters(playerID, l, opts) {
			if e.Color == ColorBlack {
				add(e, fmt.Sprintf("Round %d: played with black vs %s", e.Round, opponentName(l, e.OpponentID)), 1)
			}
		}
	case models.TiebreakWinsWithBlack:
		for _, e := range tiebreakEncounters(playerID, l, opts) {
			if e.Color == ColorBlack && e.Points == 1 {
				add(e, fmt.Sprintf("Round %d: won with black vs %s", e.Round, opponentName(l, e.OpponentID)), 1)
			}
		}
	case models.TiebreakMatchPoints:
		s := scores[playerID]
		b.Steps = append(b.Steps, models.BreakdownStep{
			Description: fmt.Sprintf("%d wins and %d draws", s.Wins, s.Draws),
			Formula:     fmt.Sprintf("2 × %d + %d = %d", s.Wins, s.Draws, 2*s.Wins+s.Draws),
			Value:       float64(2*s.Wins + s.Draws),
		})
	case models.TiebreakGamePoints:
		for _, e := range l.Encounters(playerID) {
			if e.Bye || (e.Forfeited() && !opts.CountForfeitsForScore) {
				continue
			}
			add(e, fmt.Sprintf("Round %d: %s vs %s", e.Round, resultLabel(e.Points), opponentName(l, e.OpponentID)), e.Points)
		}
	case models.TiebreakBoardPoints:
		for _, e := range l.Encounters(playerID) {
			if e.Forfeited() && !opts.CountForfeitsForScore {
				continue
			}
			desc := fmt.Sprintf("Round %d: %s", e.Round, resultLabel(e.Points))
			if e.Bye {
				desc = fmt.Sprintf("Round %d: bye", e.Round)
			}
			add(e, desc, e.Points)
		}
	}
}
