package standings

import (
	"errors"
	"testing"

	"github.com/Dosada05/chess-standings/models"
)

func intPtr(v int) *int { return &v }

func resultPtr(r models.GameResult) *models.GameResult { return &r }

func testPlayers(ids ...int) []models.Player {
	players := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, models.Player{
			ID:           id,
			TournamentID: 1,
			Name:         "Player " + string(rune('A'+id-1)),
			Status:       models.PlayerStatusActive,
		})
	}
	return players
}

func finishedGame(id, round, whiteID int, blackID *int, result models.GameResult, resultType models.GameResultType) models.Game {
	return models.Game{
		ID:           id,
		TournamentID: 1,
		Round:        round,
		WhiteID:      whiteID,
		BlackID:      blackID,
		Result:       resultPtr(result),
		ResultType:   resultType,
	}
}

func normalGame(id, round, whiteID, blackID int, result models.GameResult) models.Game {
	return finishedGame(id, round, whiteID, intPtr(blackID), result, models.ResultTypeNormal)
}

func byeGame(id, round, whiteID int) models.Game {
	return finishedGame(id, round, whiteID, nil, models.ResultWhiteWins, models.ResultTypeBye)
}

func mustLedger(t *testing.T, players []models.Player, games []models.Game) *Ledger {
	t.Helper()
	l, err := NewLedger(1, players, games)
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	return l
}

func TestNewLedgerRejectsBadData(t *testing.T) {
	tests := []struct {
		name    string
		players []models.Player
		games   []models.Game
	}{
		{
			name: "duplicate player id",
			players: []models.Player{
				{ID: 1, TournamentID: 1, Name: "A"},
				{ID: 1, TournamentID: 1, Name: "B"},
			},
		},
		{
			name:    "game from another tournament",
			players: testPlayers(1, 2),
			games: []models.Game{{
				ID: 10, TournamentID: 2, Round: 1, WhiteID: 1, BlackID: intPtr(2),
			}},
		},
		{
			name:    "white references unknown player",
			players: testPlayers(1, 2),
			games:   []models.Game{normalGame(10, 1, 9, 2, models.ResultWhiteWins)},
		},
		{
			name:    "black references unknown player",
			players: testPlayers(1, 2),
			games:   []models.Game{normalGame(10, 1, 1, 9, models.ResultWhiteWins)},
		},
		{
			name:    "white and black are the same player",
			players: testPlayers(1, 2),
			games:   []models.Game{normalGame(10, 1, 1, 1, models.ResultWhiteWins)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLedger(1, tt.players, tt.games)
			if err == nil {
				t.Fatal("NewLedger() expected error, got nil")
			}
			var integrityErr *DataIntegrityError
			if !errors.As(err, &integrityErr) {
				t.Fatalf("NewLedger() error = %v, want *DataIntegrityError", err)
			}
		})
	}
}

func TestNewLedgerSkipsUnfinishedGames(t *testing.T) {
	ongoing := models.Game{ID: 10, TournamentID: 1, Round: 2, WhiteID: 1, BlackID: intPtr(2)}
	l := mustLedger(t, testPlayers(1, 2), []models.Game{
		normalGame(11, 1, 1, 2, models.ResultWhiteWins),
		ongoing,
	})

	if got := len(l.Encounters(1)); got != 1 {
		t.Fatalf("Encounters(1) = %d games, want 1", got)
	}
	// Незавершённая партия всё равно двигает счётчик туров.
	if got := l.Rounds(); got != 2 {
		t.Fatalf("Rounds() = %d, want 2", got)
	}
}

func TestLedgerEncountersSortedByRound(t *testing.T) {
	l := mustLedger(t, testPlayers(1, 2, 3), []models.Game{
		normalGame(12, 3, 1, 3, models.ResultDraw),
		normalGame(10, 1, 1, 2, models.ResultWhiteWins),
		normalGame(11, 2, 2, 3, models.ResultBlackWins),
	})

	encs := l.Encounters(1)
	if len(encs) != 2 {
		t.Fatalf("Encounters(1) = %d games, want 2", len(encs))
	}
	if encs[0].Round != 1 || encs[1].Round != 3 {
		t.Fatalf("encounters not sorted by round: %+v", encs)
	}
}

func TestLedgerByeHasNoOpponent(t *testing.T) {
	l := mustLedger(t, testPlayers(1), []models.Game{byeGame(10, 1, 1)})

	encs := l.Encounters(1)
	if len(encs) != 1 {
		t.Fatalf("Encounters(1) = %d games, want 1", len(encs))
	}
	e := encs[0]
	if !e.Bye || e.OpponentID != 0 || e.Points != 1 {
		t.Fatalf("bye encounter = %+v, want Bye with no opponent and 1 point", e)
	}
}

func TestLedgerHeadToHead(t *testing.T) {
	l := mustLedger(t, testPlayers(1, 2), []models.Game{
		normalGame(10, 1, 1, 2, models.ResultWhiteWins),
		normalGame(11, 2, 2, 1, models.ResultDraw),
	})

	points, games := l.HeadToHead(1, 2)
	if games != 2 || points != 1.5 {
		t.Fatalf("HeadToHead(1, 2) = %.1f points over %d games, want 1.5 over 2", points, games)
	}
	points, games = l.HeadToHead(2, 1)
	if games != 2 || points != 0.5 {
		t.Fatalf("HeadToHead(2, 1) = %.1f points over %d games, want 0.5 over 2", points, games)
	}
	if _, games := l.HeadToHead(1, 9); games != 0 {
		t.Fatalf("HeadToHead(1, 9) games = %d, want 0", games)
	}
}

func TestAggregateScores(t *testing.T) {
	l := mustLedger(t, testPlayers(1, 2, 3), []models.Game{
		normalGame(10, 1, 1, 2, models.ResultWhiteWins),
		normalGame(11, 2, 1, 3, models.ResultDraw),
		normalGame(12, 3, 2, 3, models.ResultWhiteWins),
	})
	scores := Aggregate(l, Options{ByePolicy: models.ByePolicyOwnScore, CountForfeitsForScore: true})

	want := map[int]Score{
		1: {Wins: 1, Draws: 1, Losses: 0, GamesPlayed: 2, Points: 1.5},
		2: {Wins: 1, Draws: 0, Losses: 1, GamesPlayed: 2, Points: 1.0},
		3: {Wins: 0, Draws: 1, Losses: 1, GamesPlayed: 2, Points: 0.5},
	}
	for id, w := range want {
		if got := scores[id]; got != w {
			t.Errorf("scores[%d] = %+v, want %+v", id, got, w)
		}
	}
}

func TestAggregateForfeitSwitch(t *testing.T) {
	games := []models.Game{
		finishedGame(10, 1, 1, intPtr(2), models.ResultWhiteWins, models.ResultTypeForfeit),
	}
	l := mustLedger(t, testPlayers(1, 2), games)

	counted := Aggregate(l, Options{CountForfeitsForScore: true})
	if counted[1].Points != 1 || counted[1].Wins != 1 {
		t.Fatalf("forfeit counted: scores[1] = %+v, want 1 win", counted[1])
	}

	ignored := Aggregate(l, Options{CountForfeitsForScore: false})
	if ignored[1].Points != 0 || ignored[1].GamesPlayed != 0 {
		t.Fatalf("forfeit ignored: scores[1] = %+v, want empty score", ignored[1])
	}
}
