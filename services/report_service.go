package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/chess-standings/storage"
)

// PublishedReport — ссылка на опубликованный снимок таблицы.
type PublishedReport struct {
	TournamentID int       `json:"tournament_id"`
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Version      uint64    `json:"version"`
	PublishedAt  time.Time `json:"published_at"`
}

type ReportService interface {
	// PublishStandings выгружает текущую таблицу (JSON-снимок) в объектное
	// хранилище и возвращает публичную ссылку.
	PublishStandings(ctx context.Context, tournamentID int) (*PublishedReport, error)
}

type reportService struct {
	standings StandingsService
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewReportService(standings StandingsService, uploader storage.FileUploader, logger *slog.Logger) ReportService {
	return &reportService{
		standings: standings,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *reportService) PublishStandings(ctx context.Context, tournamentID int) (*PublishedReport, error) {
	result, err := s.standings.GetStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal standings for tournament %d: %w", tournamentID, err)
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("reports/tournaments/%d/standings-%s-v%d.json",
		tournamentID, now.Format("20060102T150405Z"), result.Version)

	uploaded, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to publish standings report for tournament %d: %w", tournamentID, err)
	}

	s.logger.Info("standings report published",
		slog.Int("tournament_id", tournamentID),
		slog.String("key", uploaded.Key),
		slog.Uint64("version", result.Version),
	)

	return &PublishedReport{
		TournamentID: tournamentID,
		Key:          uploaded.Key,
		URL:          uploaded.Location,
		Version:      result.Version,
		PublishedAt:  now,
	}, nil
}
