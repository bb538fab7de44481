package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"marketbrief/internal/model"
)

var ErrNotFound = errors.New("repository: not found")

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, rec *model.AnalysisRecord) error {
	sentiments, err := json.Marshal(nonNil(rec.Sentiments))
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO analyses(ticker, result, failed, model_used, item_count, sentiments, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, rec.Ticker, rec.Result, rec.Failed, rec.ModelUsed, rec.ItemCount, sentiments, rec.CreatedAt).Scan(&rec.ID)
}

// GetLatestAnalysis returns the newest record, optionally for one ticker.
func (r *AnalysisRepository) GetLatestAnalysis(ctx context.Context, ticker string) (*model.AnalysisRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, ticker, result, failed, model_used, item_count, sentiments, created_at
		FROM analyses
		WHERE $1 = '' OR ticker = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, ticker)

	rec, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *AnalysisRepository) GetAnalyses(ctx context.Context, limit, offset int) ([]model.AnalysisRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ticker, result, failed, model_used, item_count, sentiments, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *AnalysisRepository) GetAnalysisTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total)
	return total, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	var sentimentsJSON []byte
	err := s.Scan(&rec.ID, &rec.Ticker, &rec.Result, &rec.Failed, &rec.ModelUsed, &rec.ItemCount, &sentimentsJSON, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(sentimentsJSON) > 0 {
		if err := json.Unmarshal(sentimentsJSON, &rec.Sentiments); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func nonNil(scores []model.SentimentScore) []model.SentimentScore {
	if scores == nil {
		return []model.SentimentScore{}
	}
	return scores
}
