package standings

import (
	"math"
	"sort"
	"strconv"

	"github.com/Dosada05/chess-standings/models"
)

// Options — политики расчёта, извлечённые из конфигурации турнира.
type Options struct {
	ByePolicy                models.ByePolicy
	CountForfeitsForScore    bool
	CountForfeitsInTiebreaks bool
}

// OptionsFromConfig переводит конфигурацию турнира в политики движка.
func OptionsFromConfig(cfg models.TiebreakConfig) Options {
	opts := Options{
		ByePolicy:                cfg.ByePolicy,
		CountForfeitsForScore:    cfg.CountForfeitsForScore,
		CountForfeitsInTiebreaks: cfg.CountForfeitsInTiebreaks,
	}
	if opts.ByePolicy == "" {
		opts.ByePolicy = models.ByePolicyOwnScore
	}
	return opts
}

// Value — результат одного метода тайбрейка для одного игрока.
// Defined == false означает "не определено" (перформанс без рейтинговых
// соперников); такие значения сортируются последними.
type Value struct {
	Score   float64
	Defined bool
}

func defined(v float64) Value { return Value{Score: v, Defined: true} }

type calculator func(playerID int, l *Ledger, scores Scores, opts Options) Value

// Каждый метод — чистая функция от (игрок, леджер, счёт). direct_encounter
// здесь считается скаляром для отображения; попарное сравнение делает Compute.
var calculators = map[models.TiebreakMethod]calculator{
	models.TiebreakBuchholz:        buchholzFull,
	models.TiebreakBuchholzCut1:    buchholzCut(1, false),
	models.TiebreakBuchholzCut2:    buchholzCut(2, false),
	models.TiebreakBuchholzMedian:  buchholzCut(1, true),
	models.TiebreakSonnebornBerger: sonnebornBerger,
	models.TiebreakProgressive:     progressive,
	models.TiebreakCumulative:      cumulative,
	models.TiebreakDirectEncounter: directEncounterScalar,
	models.TiebreakAverageRating:   averageRatingOfOpponents,
	models.TiebreakAROCut1:         arocCut(1),
	models.TiebreakAROCut2:         arocCut(2),
	models.TiebreakPerformance:     performanceRating,
	models.TiebreakWins:            winCount,
	models.TiebreakGamesWithBlack:  gamesWithBlack,
	models.TiebreakWinsWithBlack:   winsWithBlack,
	models.TiebreakKoya:            koya,
	models.TiebreakMatchPoints:     matchPoints,
	models.TiebreakGamePoints:      gamePoints,
	models.TiebreakBoardPoints:     boardPoints,
}

// KnownMethod сообщает, поддерживается ли идентификатор тайбрейка.
func KnownMethod(m models.TiebreakMethod) bool {
	_, ok := calculators[m]
	return ok
}

// Methods возвращает все поддерживаемые идентификаторы в стабильном порядке.
func Methods() []models.TiebreakMethod {
	out := make([]models.TiebreakMethod, 0, len(calculators))
	for m := range calculators {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Calculate вычисляет значение одного метода для одного игрока.
func Calculate(m models.TiebreakMethod, playerID int, l *Ledger, scores Scores, opts Options) (Value, error) {
	calc, ok := calculators[m]
	if !ok {
		return Value{}, &ConfigurationError{Method: m, Reason: "unknown tiebreak method"}
	}
	if !l.HasPlayer(playerID) {
		return Value{}, &NotFoundError{Resource: "player", ID: playerID}
	}
	return calc(playerID, l, scores, opts), nil
}

// FormatValue форматирует значение для отображения.
func FormatValue(m models.TiebreakMethod, v Value) string {
	if !v.Defined {
		return "-"
	}
	switch m {
	case models.TiebreakAverageRating, models.TiebreakAROCut1, models.TiebreakAROCut2,
		models.TiebreakPerformance:
		return strconv.Itoa(int(math.Round(v.Score)))
	case models.TiebreakWins, models.TiebreakGamesWithBlack, models.TiebreakWinsWithBlack,
		models.TiebreakMatchPoints:
		return strconv.Itoa(int(v.Score))
	default:
		return strconv.FormatFloat(v.Score, 'f', 1, 64)
	}
}

// tiebreakEncounters — партии против реальных соперников, учитываемые в
// формулах, чувствительных к соперникам. Форфейты исключаются, если так
// настроен турнир.
func tiebreakEncounters(playerID int, l *Ledger, opts Options) []Encounter {
	all := l.Encounters(playerID)
	out := make([]Encounter, 0, len(all))
	for _, e := range all {
		if e.Bye {
			continue
		}
		if e.Forfeited() && !opts.CountForfeitsInTiebreaks {
			continue
		}
		out = append(out, e)
	}
	return out
}

// virtualEncounters — bye и исключённые форфейты, за которые в формулах
// семейства Бухгольца начисляется вклад виртуального соперника.
func virtualEncounters(playerID int, l *Ledger, opts Options) []Encounter {
	all := l.Encounters(playerID)
	out := make([]Encounter, 0, 2)
	for _, e := range all {
		if e.Bye || (e.Forfeited() && !opts.CountForfeitsInTiebreaks) {
			out = append(out, e)
		}
	}
	return out
}

// byeContribution — вклад виртуального соперника согласно политике турнира.
func byeContribution(playerID int, l *Ledger, scores Scores, opts Options) float64 {
	switch opts.ByePolicy {
	case models.ByePolicyZero:
		return 0
	case models.ByePolicyHalfPerRound:
		return float64(l.Rounds()) / 2
	default: // models.ByePolicyOwnScore
		return scores[playerID].Points
	}
}
