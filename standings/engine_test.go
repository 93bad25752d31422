package standings

import (
	"errors"
	"math"
	"testing"

	"github.com/Dosada05/chess-standings/models"
)

const eps = 1e-9

func defaultOpts() Options {
	return Options{
		ByePolicy:                models.ByePolicyOwnScore,
		CountForfeitsForScore:    true,
		CountForfeitsInTiebreaks: true,
	}
}

// Круговик на троих: 1 обыграл 2, сыграл вничью с 3; 2 обыграл 3.
// Итог: 1 — 1.5, 2 — 1.0, 3 — 0.5. Рейтинги: 1 — 2000, 2 — 1800, 3 — без.
func roundRobinLedger(t *testing.T) *Ledger {
	t.Helper()
	players := []models.Player{
		{ID: 1, TournamentID: 1, Name: "Adams", Rating: intPtr(2000)},
		{ID: 2, TournamentID: 1, Name: "Baker", Rating: intPtr(1800)},
		{ID: 3, TournamentID: 1, Name: "Clark"},
	}
	games := []models.Game{
		normalGame(10, 1, 1, 2, models.ResultWhiteWins),
		normalGame(11, 2, 1, 3, models.ResultDraw),
		normalGame(12, 3, 2, 3, models.ResultWhiteWins),
	}
	return mustLedger(t, players, games)
}

func TestCalculateRoundRobinValues(t *testing.T) {
	l := roundRobinLedger(t)
	opts := defaultOpts()
	scores := Aggregate(l, opts)

	tests := []struct {
		method   models.TiebreakMethod
		playerID int
		want     float64
	}{
		// Бухгольц: сумма итоговых очков соперников.
		{models.TiebreakBuchholz, 1, 1.5},
		{models.TiebreakBuchholz, 2, 2.0},
		{models.TiebreakBuchholz, 3, 2.5},
		// Cut-1 отбрасывает наименьший вклад.
		{models.TiebreakBuchholzCut1, 1, 1.0},
		{models.TiebreakBuchholzCut1, 2, 1.5},
		{models.TiebreakBuchholzCut1, 3, 1.5},
		// Зоннеборн-Бергер: счёт соперника, взвешенный результатом.
		{models.TiebreakSonnebornBerger, 1, 1.25},
		{models.TiebreakSonnebornBerger, 2, 0.5},
		{models.TiebreakSonnebornBerger, 3, 0.75},
		// Прогрессивный: сумма текущего счёта после каждого из 3 туров.
		{models.TiebreakProgressive, 1, 4.0},
		{models.TiebreakProgressive, 2, 1.0},
		{models.TiebreakProgressive, 3, 1.0},
		// Без несыгранных партий cumulative совпадает с progressive.
		{models.TiebreakCumulative, 1, 4.0},
		{models.TiebreakWins, 1, 1},
		{models.TiebreakWins, 2, 1},
		{models.TiebreakWins, 3, 0},
		{models.TiebreakGamesWithBlack, 1, 0},
		{models.TiebreakGamesWithBlack, 2, 1},
		{models.TiebreakGamesWithBlack, 3, 2},
		{models.TiebreakWinsWithBlack, 2, 0},
		{models.TiebreakMatchPoints, 1, 3},
		{models.TiebreakMatchPoints, 2, 2},
		{models.TiebreakMatchPoints, 3, 1},
		{models.TiebreakGamePoints, 1, 1.5},
		{models.TiebreakBoardPoints, 1, 1.5},
		// Коя: очки против соперников с ≥50% (порог 1.5). Выше порога только
		// игрок 1.
		{models.TiebreakKoya, 1, 0},
		{models.TiebreakKoya, 2, 0},
		{models.TiebreakKoya, 3, 0.5},
		// Средний рейтинг: безрейтинговые соперники не входят.
		{models.TiebreakAverageRating, 1, 1800},
		{models.TiebreakAverageRating, 2, 2000},
		{models.TiebreakAverageRating, 3, 1900},
		{models.TiebreakAROCut1, 3, 2000},
		// Перформанс по правилу 400.
		{models.TiebreakPerformance, 1, 2200},
		{models.TiebreakPerformance, 3, 1700},
	}

	for _, tt := range tests {
		v, err := Calculate(tt.method, tt.playerID, l, scores, opts)
		if err != nil {
			t.Errorf("Calculate(%s, %d) error = %v", tt.method, tt.playerID, err)
			continue
		}
		if !v.Defined {
			t.Errorf("Calculate(%s, %d) undefined, want %.2f", tt.method, tt.playerID, tt.want)
			continue
		}
		if math.Abs(v.Score-tt.want) > eps {
			t.Errorf("Calculate(%s, %d) = %.4f, want %.4f", tt.method, tt.playerID, v.Score, tt.want)
		}
	}
}

func TestCalculateUndefinedValues(t *testing.T) {
	l := roundRobinLedger(t)
	opts := defaultOpts()
	scores := Aggregate(l, opts)

	// У игрока 1 единственный рейтинговый соперник; после отбрасывания никого
	// не остаётся.
	v, err := Calculate(models.TiebreakAROCut1, 1, l, scores, opts)
	if err != nil {
		t.Fatalf("Calculate(aroc_cut_1, 1) error = %v", err)
	}
	if v.Defined {
		t.Fatalf("Calculate(aroc_cut_1, 1) = %+v, want undefined", v)
	}

	// У игрока без рейтинговых соперников перформанс не определён.
	solo := mustLedger(t, testPlayers(1, 2), []models.Game{
		normalGame(10, 1, 1, 2, models.ResultWhiteWins),
	})
	soloScores := Aggregate(solo, opts)
	v, err = Calculate(models.TiebreakPerformance, 1, solo, soloScores, opts)
	if err != nil {
		t.Fatalf("Calculate(performance_rating, 1) error = %v", err)
	}
	if v.Defined {
		t.Fatalf("performance with no rated opponents = %+v, want undefined", v)
	}
}

func TestCalculateErrors(t *testing.T) {
	l := roundRobinLedger(t)
	scores := Aggregate(l, defaultOpts())

	_, err := Calculate("made_up_method", 1, l, scores, defaultOpts())
	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("Calculate(unknown method) error = %v, want *ConfigurationError", err)
	}

	_, err = Calculate(models.TiebreakBuchholz, 99, l, scores, defaultOpts())
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("Calculate(unknown player) error = %v, want *NotFoundError", err)
	}
}

func TestByePolicies(t *testing.T) {
	// Тур 1: у игрока 1 bye (полный пункт), 2 обыграл 3. Тур 2: 1 обыграл 2.
	// Итог: 1 — 2.0, 2 — 1.0, 3 — 0.
	players := testPlayers(1, 2, 3)
	games := []models.Game{
		byeGame(10, 1, 1),
		normalGame(11, 1, 2, 3, models.ResultWhiteWins),
		normalGame(12, 2, 1, 2, models.ResultWhiteWins),
	}
	l := mustLedger(t, players, games)

	tests := []struct {
		policy       models.ByePolicy
		wantBuchholz float64
		wantSB       float64
	}{
		// Реальный соперник (игрок 2, 1.0) + виртуальный.
		{models.ByePolicyOwnScore, 3.0, 3.0},
		{models.ByePolicyZero, 1.0, 1.0},
		{models.ByePolicyHalfPerRound, 2.0, 2.0},
	}

	for _, tt := range tests {
		opts := Options{ByePolicy: tt.policy, CountForfeitsForScore: true, CountForfeitsInTiebreaks: true}
		scores := Aggregate(l, opts)

		v, err := Calculate(models.TiebreakBuchholz, 1, l, scores, opts)
		if err != nil {
			t.Fatalf("buchholz with policy %s: %v", tt.policy, err)
		}
		if math.Abs(v.Score-tt.wantBuchholz) > eps {
			t.Errorf("buchholz with policy %s = %.2f, want %.2f", tt.policy, v.Score, tt.wantBuchholz)
		}

		v, err = Calculate(models.TiebreakSonnebornBerger, 1, l, scores, opts)
		if err != nil {
			t.Fatalf("sonneborn_berger with policy %s: %v", tt.policy, err)
		}
		if math.Abs(v.Score-tt.wantSB) > eps {
			t.Errorf("sonneborn_berger with policy %s = %.2f, want %.2f", tt.policy, v.Score, tt.wantSB)
		}
	}
}

func TestCumulativeAdjustsUnplayedPoints(t *testing.T) {
	players := testPlayers(1, 2, 3)
	games := []models.Game{
		byeGame(10, 1, 1),
		normalGame(11, 1, 2, 3, models.ResultWhiteWins),
		normalGame(12, 2, 1, 2, models.ResultWhiteWins),
	}
	l := mustLedger(t, players, games)
	opts := defaultOpts()
	scores := Aggregate(l, opts)

	prog, err := Calculate(models.TiebreakProgressive, 1, l, scores, opts)
	if err != nil {
		t.Fatal(err)
	}
	// Текущий счёт по турам: 1.0, затем 2.0.
	if math.Abs(prog.Score-3.0) > eps {
		t.Fatalf("progressive = %.2f, want 3.0", prog.Score)
	}

	cum, err := Calculate(models.TiebreakCumulative, 1, l, scores, opts)
	if err != nil {
		t.Fatal(err)
	}
	// Очко за bye вычитается один раз.
	if math.Abs(cum.Score-2.0) > eps {
		t.Fatalf("cumulative = %.2f, want 2.0", cum.Score)
	}
}

func TestForfeitsExcludedFromTiebreaks(t *testing.T) {
	players := testPlayers(1, 2, 3)
	games := []models.Game{
		finishedGame(10, 1, 1, intPtr(2), models.ResultWhiteWins, models.ResultTypeForfeit),
		normalGame(11, 2, 1, 3, models.ResultDraw),
		normalGame(12, 2, 2, 3, models.ResultWhiteWins),
	}
	l := mustLedger(t, players, games)

	opts := Options{
		ByePolicy:                models.ByePolicyZero,
		CountForfeitsForScore:    true,
		CountForfeitsInTiebreaks: false,
	}
	scores := Aggregate(l, opts)

	// Очки форфейт приносит, но из Бухгольца партия выпадает: остаётся
	// реальный соперник 3 (0.5) плюс нулевой виртуальный вклад.
	v, err := Calculate(models.TiebreakBuchholz, 1, l, scores, opts)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v.Score-0.5) > eps {
		t.Fatalf("buchholz excluding forfeits = %.2f, want 0.5", v.Score)
	}

	inclusive := Options{ByePolicy: models.ByePolicyZero, CountForfeitsForScore: true, CountForfeitsInTiebreaks: true}
	v, err = Calculate(models.TiebreakBuchholz, 1, l, Aggregate(l, inclusive), inclusive)
	if err != nil {
		t.Fatal(err)
	}
	// Соперники: 2 (1.0 за победу над 3) и 3 (0.5).
	if math.Abs(v.Score-1.5) > eps {
		t.Fatalf("buchholz including forfeits = %.2f, want 1.5", v.Score)
	}
}

func TestRatingChange(t *testing.T) {
	l := roundRobinLedger(t)
	opts := defaultOpts()

	change := RatingChange(1, l, opts)
	if change == nil {
		t.Fatal("RatingChange(1) = nil, want value")
	}
	// Единственная рейтинговая партия: победа над 1800 при собственном 2000.
	if math.Abs(*change-4.8) > eps {
		t.Fatalf("RatingChange(1) = %.1f, want 4.8", *change)
	}

	// Игрок без рейтинга изменения не получает.
	if change := RatingChange(3, l, opts); change != nil {
		t.Fatalf("RatingChange(3) = %v, want nil", *change)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		method models.TiebreakMethod
		value  Value
		want   string
	}{
		{models.TiebreakBuchholz, defined(2.5), "2.5"},
		{models.TiebreakBuchholz, defined(3), "3.0"},
		{models.TiebreakWins, defined(4), "4"},
		{models.TiebreakPerformance, defined(2216.7), "2217"},
		{models.TiebreakAverageRating, defined(1899.5), "1900"},
		{models.TiebreakPerformance, Value{}, "-"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.method, tt.value); got != tt.want {
			t.Errorf("FormatValue(%s, %+v) = %q, want %q", tt.method, tt.value, got, tt.want)
		}
	}
}

func TestMethodsListsEveryCalculator(t *testing.T) {
	methods := Methods()
	if len(methods) != 19 {
		t.Fatalf("Methods() returned %d methods, want 19", len(methods))
	}
	for _, m := range methods {
		if !KnownMethod(m) {
			t.Errorf("KnownMethod(%s) = false for listed method", m)
		}
	}
	if KnownMethod("made_up_method") {
		t.Error("KnownMethod accepted an unknown identifier")
	}
}
