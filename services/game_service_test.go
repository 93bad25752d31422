package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/chess-standings/models"
)

func newTestGameService() (GameService, *fakeGameRepo, *fakeStandingsService) {
	tournamentRepo := newFakeTournamentRepo(models.Tournament{
		ID: 1, Name: "Open", Rounds: 5, Status: models.StatusActive, ArbiterID: 7,
	})
	playerRepo := newFakePlayerRepo(
		models.Player{ID: 1, TournamentID: 1, Name: "Adams", Status: models.PlayerStatusActive},
		models.Player{ID: 2, TournamentID: 1, Name: "Baker", Status: models.PlayerStatusActive},
	)
	gameRepo := newFakeGameRepo(
		// Партия без результата.
		models.Game{ID: 10, TournamentID: 1, Round: 1, WhiteID: 1, BlackID: intPtr(2), ResultType: models.ResultTypeNormal},
		// Партия с зафиксированным результатом.
		models.Game{ID: 11, TournamentID: 1, Round: 2, WhiteID: 2, BlackID: intPtr(1), Result: resultPtr(models.ResultDraw), ResultType: models.ResultTypeNormal},
		// Bye.
		models.Game{ID: 12, TournamentID: 1, Round: 3, WhiteID: 1, Result: resultPtr(models.ResultWhiteWins), ResultType: models.ResultTypeBye},
	)
	standings := &fakeStandingsService{}
	svc := NewGameService(nil, gameRepo, playerRepo, tournamentRepo, standings, testLogger())
	return svc, gameRepo, standings
}

func TestSubmitResult(t *testing.T) {
	svc, gameRepo, standings := newTestGameService()
	ctx := context.Background()

	game, err := svc.SubmitResult(ctx, 10, SubmitResultInput{
		Result:     models.ResultBlackWins,
		ResultType: models.ResultTypeNormal,
	})
	if err != nil {
		t.Fatalf("SubmitResult() error = %v", err)
	}
	if game.Result == nil || *game.Result != models.ResultBlackWins {
		t.Errorf("game result = %v, want black_wins", game.Result)
	}

	stored, err := gameRepo.GetByID(ctx, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Result == nil || *stored.Result != models.ResultBlackWins {
		t.Errorf("stored result = %v, want black_wins", stored.Result)
	}

	// Зафиксированный результат обязан инвалидировать таблицу.
	if got := standings.invalidations(); len(got) != 1 || got[0] != 1 {
		t.Errorf("invalidations = %v, want [1]", got)
	}
}

func TestSubmitResultRefusesFinishedGame(t *testing.T) {
	svc, _, standings := newTestGameService()

	_, err := svc.SubmitResult(context.Background(), 11, SubmitResultInput{
		Result:     models.ResultWhiteWins,
		ResultType: models.ResultTypeNormal,
	})
	if !errors.Is(err, ErrResultAlreadySubmitted) {
		t.Fatalf("SubmitResult(finished) error = %v, want ErrResultAlreadySubmitted", err)
	}
	if got := standings.invalidations(); len(got) != 0 {
		t.Errorf("refused submit must not invalidate, got %v", got)
	}
}

func TestCorrectResultOverwritesFinishedGame(t *testing.T) {
	svc, gameRepo, standings := newTestGameService()
	ctx := context.Background()

	game, err := svc.CorrectResult(ctx, 11, SubmitResultInput{
		Result:     models.ResultWhiteWins,
		ResultType: models.ResultTypeNormal,
	})
	if err != nil {
		t.Fatalf("CorrectResult() error = %v", err)
	}
	if *game.Result != models.ResultWhiteWins {
		t.Errorf("corrected result = %v, want white_wins", *game.Result)
	}

	stored, err := gameRepo.GetByID(ctx, nil, 11)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Result == nil || *stored.Result != models.ResultWhiteWins {
		t.Errorf("stored result = %v, want white_wins", stored.Result)
	}
	if got := standings.invalidations(); len(got) != 1 {
		t.Errorf("correction must invalidate once, got %v", got)
	}
}

func TestCorrectResultRequiresExistingResult(t *testing.T) {
	svc, _, _ := newTestGameService()

	_, err := svc.CorrectResult(context.Background(), 10, SubmitResultInput{
		Result:     models.ResultWhiteWins,
		ResultType: models.ResultTypeNormal,
	})
	if !errors.Is(err, ErrCorrectionRequiresResult) {
		t.Fatalf("CorrectResult(unfinished) error = %v, want ErrCorrectionRequiresResult", err)
	}
}

func TestSubmitResultValidation(t *testing.T) {
	svc, _, _ := newTestGameService()
	ctx := context.Background()

	tests := []struct {
		name    string
		gameID  int
		input   SubmitResultInput
		wantErr error
	}{
		{
			name:    "unknown result",
			gameID:  10,
			input:   SubmitResultInput{Result: "checkmate", ResultType: models.ResultTypeNormal},
			wantErr: ErrInvalidGameResult,
		},
		{
			name:    "unknown result type",
			gameID:  10,
			input:   SubmitResultInput{Result: models.ResultDraw, ResultType: "adjourned"},
			wantErr: ErrInvalidGameResult,
		},
		{
			name:    "black cannot win a bye",
			gameID:  12,
			input:   SubmitResultInput{Result: models.ResultBlackWins, ResultType: models.ResultTypeBye},
			wantErr: ErrInvalidGameResult,
		},
		{
			name:    "unknown game",
			gameID:  99,
			input:   SubmitResultInput{Result: models.ResultDraw, ResultType: models.ResultTypeNormal},
			wantErr: ErrGameNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.gameID == 12 {
				// Bye уже закрыт результатом, корректируем.
				_, err = svc.CorrectResult(ctx, tt.gameID, tt.input)
			} else {
				_, err = svc.SubmitResult(ctx, tt.gameID, tt.input)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateRoundGamesValidation(t *testing.T) {
	svc, _, _ := newTestGameService()
	ctx := context.Background()
	pair := []PairingInput{{WhiteID: 1, BlackID: intPtr(2)}}

	tests := []struct {
		name         string
		tournamentID int
		round        int
		pairings     []PairingInput
		wantErr      error
	}{
		{"unknown tournament", 99, 1, pair, ErrTournamentNotFound},
		{"round below range", 1, 0, pair, ErrInvalidRoundNumber},
		{"round above range", 1, 6, pair, ErrInvalidRoundNumber},
		{"no pairings", 1, 1, nil, ErrValidationFailed},
		{"unknown white", 1, 1, []PairingInput{{WhiteID: 9, BlackID: intPtr(2)}}, ErrPlayerNotFound},
		{"unknown black", 1, 1, []PairingInput{{WhiteID: 1, BlackID: intPtr(9)}}, ErrPlayerNotFound},
		{"player paired with themselves", 1, 1, []PairingInput{{WhiteID: 1, BlackID: intPtr(1)}}, ErrPlayersIdentical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRoundGames(ctx, tt.tournamentID, tt.round, tt.pairings)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
