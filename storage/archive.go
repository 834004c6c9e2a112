package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"business-scraper/config"
	"business-scraper/models"
)

// Archive persists scraped records to Postgres. It is optional: the
// service runs without it when no database is configured.
type Archive struct {
	pool *pgxpool.Pool
}

func NewArchive(ctx context.Context, cfg *config.Config) (*Archive, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}
	return &Archive{pool: pool}, nil
}

func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Archive) EnsureSchema(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		business_name TEXT NOT NULL,
		author TEXT NOT NULL,
		rating TEXT NOT NULL,
		review_text TEXT NOT NULL,
		review_date TEXT NOT NULL,
		owner_response_text TEXT,
		owner_response_date TEXT,
		scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (business_name, author, review_text)
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_business ON reviews(business_name);

	CREATE TABLE IF NOT EXISTS profiles (
		id BIGSERIAL PRIMARY KEY,
		company_name TEXT NOT NULL,
		full_name TEXT NOT NULL,
		subtitle TEXT,
		profile_url TEXT NOT NULL,
		location TEXT,
		about TEXT,
		latest_job_title TEXT,
		latest_job_company TEXT,
		scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (company_name, profile_url)
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_company ON profiles(company_name);
	`

	if _, err := a.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// WriteReviews archives one business's reviews. Rows already present
// are skipped via the unique constraint.
func (a *Archive) WriteReviews(ctx context.Context, business string, reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO reviews (business_name, author, rating, review_text, review_date, owner_response_text, owner_response_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT DO NOTHING;
	`

	enqueued := 0
	for _, r := range reviews {
		author := strings.TrimSpace(r.Author)
		text := strings.TrimSpace(r.Text)
		if author == "" || text == "" {
			continue
		}

		var respText, respDate *string
		if r.OwnerResponse != nil {
			respText = &r.OwnerResponse.Text
			respDate = &r.OwnerResponse.Date
		}

		batch.Queue(
			insertSQL,
			strings.TrimSpace(business),
			author,
			strings.TrimSpace(r.Rating),
			text,
			strings.TrimSpace(r.Date),
			respText,
			respDate,
		)
		enqueued++
	}

	return a.send(ctx, batch, enqueued)
}

// WriteProfiles archives one company's employee profiles.
func (a *Archive) WriteProfiles(ctx context.Context, company string, profiles []models.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO profiles (company_name, full_name, subtitle, profile_url, location, about, latest_job_title, latest_job_company)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT DO NOTHING;
	`

	enqueued := 0
	for _, p := range profiles {
		name := strings.TrimSpace(p.Name)
		url := strings.TrimSpace(p.ProfileURL)
		if name == "" || url == "" {
			continue
		}

		batch.Queue(
			insertSQL,
			strings.TrimSpace(company),
			name,
			strings.TrimSpace(p.Subtitle),
			url,
			strings.TrimSpace(p.Location),
			strings.TrimSpace(p.About),
			strings.TrimSpace(p.LatestJobTitle),
			strings.TrimSpace(p.LatestJobCompany),
		)
		enqueued++
	}

	return a.send(ctx, batch, enqueued)
}

func (a *Archive) send(ctx context.Context, batch *pgx.Batch, enqueued int) error {
	if enqueued == 0 {
		return nil
	}

	results := a.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}
	return nil
}
