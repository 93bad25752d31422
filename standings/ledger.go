package standings

import (
	"sort"

	"github.com/Dosada05/chess-standings/models"
)

type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// Encounter — одна завершённая партия глазами одного из её участников.
type Encounter struct {
	GameID     int
	Round      int
	OpponentID int // 0 для bye
	Color      Color
	Points     float64 // очки субъекта в этой партии
	Result     models.GameResult
	ResultType models.GameResultType
	Bye        bool
}

// Unplayed — партия, в которой не было игры за доской (bye либо форфейт).
func (e Encounter) Unplayed() bool {
	return e.Bye || e.Forfeited()
}

func (e Encounter) Forfeited() bool {
	return e.ResultType == models.ResultTypeForfeit || e.ResultType == models.ResultTypeTimeout
}

// Ledger — неизменяемый снимок партий турнира, источник истины для всей
// производной статистики. Строится один раз на расчёт; незавершённые партии
// валидируются, но в статистику не попадают.
type Ledger struct {
	tournamentID int
	rounds       int
	players      map[int]*models.Player
	order        []int
	encounters   map[int][]Encounter
}

// NewLedger валидирует партии против списка игроков и строит снимок.
// Партия со ссылкой на неизвестного игрока отвергается целиком —
// никакого молчаливого пропуска.
func NewLedger(tournamentID int, players []models.Player, games []models.Game) (*Ledger, error) {
	l := &Ledger{
		tournamentID: tournamentID,
		players:      make(map[int]*models.Player, len(players)),
		encounters:   make(map[int][]Encounter, len(players)),
	}

	for i := range players {
		p := players[i]
		if _, ok := l.players[p.ID]; ok {
			return nil, &DataIntegrityError{PlayerID: p.ID, Reason: "duplicate player id"}
		}
		l.players[p.ID] = &p
		l.order = append(l.order, p.ID)
	}
	sort.Ints(l.order)

	for i := range games {
		g := &games[i]
		if g.TournamentID != tournamentID {
			return nil, &DataIntegrityError{GameID: g.ID, Reason: "game belongs to another tournament"}
		}
		if _, ok := l.players[g.WhiteID]; !ok {
			return nil, &DataIntegrityError{GameID: g.ID, PlayerID: g.WhiteID, Reason: "white references unknown player"}
		}
		if g.BlackID != nil {
			if _, ok := l.players[*g.BlackID]; !ok {
				return nil, &DataIntegrityError{GameID: g.ID, PlayerID: *g.BlackID, Reason: "black references unknown player"}
			}
			if *g.BlackID == g.WhiteID {
				return nil, &DataIntegrityError{GameID: g.ID, PlayerID: g.WhiteID, Reason: "white and black are the same player"}
			}
		}
		if g.Round > l.rounds {
			l.rounds = g.Round
		}
		if !g.Finished() {
			continue
		}

		bye := g.Bye()
		whiteEnc := Encounter{
			GameID:     g.ID,
			Round:      g.Round,
			Color:      ColorWhite,
			Points:     g.PointsFor(g.WhiteID),
			Result:     *g.Result,
			ResultType: g.ResultType,
			Bye:        bye,
		}
		if g.BlackID != nil && !bye {
			whiteEnc.OpponentID = *g.BlackID
		}
		l.encounters[g.WhiteID] = append(l.encounters[g.WhiteID], whiteEnc)

		if g.BlackID != nil && !bye {
			l.encounters[*g.BlackID] = append(l.encounters[*g.BlackID], Encounter{
				GameID:     g.ID,
				Round:      g.Round,
				OpponentID: g.WhiteID,
				Color:      ColorBlack,
				Points:     g.PointsFor(*g.BlackID),
				Result:     *g.Result,
				ResultType: g.ResultType,
			})
		}
	}

	for id := range l.encounters {
		encs := l.encounters[id]
		sort.Slice(encs, func(i, j int) bool { return encs[i].Round < encs[j].Round })
	}

	return l, nil
}

func (l *Ledger) TournamentID() int { return l.tournamentID }

// Rounds — номер последнего тура, известного леджеру.
func (l *Ledger) Rounds() int { return l.rounds }

func (l *Ledger) HasPlayer(id int) bool {
	_, ok := l.players[id]
	return ok
}

func (l *Ledger) Player(id int) *models.Player {
	return l.players[id]
}

// PlayerIDs возвращает идентификаторы игроков в стабильном порядке.
func (l *Ledger) PlayerIDs() []int {
	out := make([]int, len(l.order))
	copy(out, l.order)
	return out
}

// Encounters возвращает завершённые партии игрока, отсортированные по туру.
func (l *Ledger) Encounters(playerID int) []Encounter {
	return l.encounters[playerID]
}

// HeadToHead возвращает очки, набранные игроком a против игрока b в их
// личных встречах, и количество таких встреч.
func (l *Ledger) HeadToHead(a, b int) (points float64, games int) {
	for _, e := range l.encounters[a] {
		if e.OpponentID == b {
			points += e.Points
			games++
		}
	}
	return points, games
}
