package standings

import (
	"math"
	"sort"

	"github.com/Dosada05/chess-standings/models"
)

const valueEpsilon = 1e-9

// Compute строит полностью упорядоченную таблицу: очки по убыванию, затем
// вектор тайбрейков поэлементно в порядке конфигурации. Неизвестный метод в
// конфигурации валит весь расчёт до начала вычислений.
//
// Политика ничьих: если все настроенные тайбрейки исчерпаны и игроки всё ещё
// равны, они получают одинаковый ранг, а ранг следующего отличающегося игрока
// пропускает размер группы (1-2-2-4). Порядок вывода внутри группы
// детерминирован: по возрастанию id игрока.
func Compute(l *Ledger, cfg models.TiebreakConfig) ([]models.PlayerStanding, error) {
	order := cfg.Order
	if cfg.UseFederationDefault || len(order) == 0 {
		order = models.FederationDefaultOrder
	}
	for _, m := range order {
		if !KnownMethod(m) {
			return nil, &ConfigurationError{Method: m, Reason: "unknown tiebreak method"}
		}
	}

	opts := OptionsFromConfig(cfg)
	scores := Aggregate(l, opts)

	ids := l.PlayerIDs()
	vectors := make(map[int][]models.TiebreakScore, len(ids))
	for _, id := range ids {
		vector := make([]models.TiebreakScore, 0, len(order))
		for _, m := range order {
			v, err := Calculate(m, id, l, scores, opts)
			if err != nil {
				return nil, err
			}
			vector = append(vector, models.TiebreakScore{
				Method:  m,
				Value:   v.Score,
				Defined: v.Defined,
				Display: FormatValue(m, v),
			})
		}
		vectors[id] = vector
	}

	compare := func(a, b int) int {
		if d := scores[a].Points - scores[b].Points; math.Abs(d) > valueEpsilon {
			if d > 0 {
				return -1
			}
			return 1
		}
		va, vb := vectors[a], vectors[b]
		for i, m := range order {
			if m == models.TiebreakDirectEncounter {
				// Попарный тайбрейк: решает только личная встреча этих двух
				// игроков. Если они не играли или набрали поровну, проваливаемся
				// к следующему методу.
				pa, ga := l.HeadToHead(a, b)
				pb, gb := l.HeadToHead(b, a)
				if ga > 0 || gb > 0 {
					if d := pa - pb; math.Abs(d) > valueEpsilon {
						if d > 0 {
							return -1
						}
						return 1
					}
				}
				continue
			}
			sa, sb := va[i], vb[i]
			if sa.Defined != sb.Defined {
				// Неопределённое значение сортируется последним.
				if sa.Defined {
					return -1
				}
				return 1
			}
			if !sa.Defined {
				continue
			}
			if d := sa.Value - sb.Value; math.Abs(d) > valueEpsilon {
				if d > 0 {
					return -1
				}
				return 1
			}
		}
		return 0
	}

	sort.SliceStable(ids, func(i, j int) bool {
		if c := compare(ids[i], ids[j]); c != 0 {
			return c < 0
		}
		return ids[i] < ids[j]
	})

	out := make([]models.PlayerStanding, 0, len(ids))
	for i, id := range ids {
		rank := i + 1
		if i > 0 && compare(ids[i-1], id) == 0 {
			rank = out[i-1].Rank
		}

		s := scores[id]
		standing := models.PlayerStanding{
			Rank:           rank,
			PlayerID:       id,
			Points:         s.Points,
			GamesPlayed:    s.GamesPlayed,
			Wins:           s.Wins,
			Draws:          s.Draws,
			Losses:         s.Losses,
			TiebreakScores: vectors[id],
			RatingChange:   RatingChange(id, l, opts),
			Player:         l.Player(id),
		}
		if perf := performanceRating(id, l, scores, opts); perf.Defined {
			rounded := int(math.Round(perf.Score))
			standing.PerformanceRating = &rounded
		}
		out = append(out, standing)
	}
	return out, nil
}
