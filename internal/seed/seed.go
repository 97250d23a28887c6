package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/dkoval/postium/internal/app/models"
	appRepos "github.com/dkoval/postium/internal/app/repositories"
	"github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/pkg/apperrors"
	"github.com/dkoval/postium/internal/pkg/auth"
)

// CreateDefaultData creates the demo groups and a demo author if they don't
// exist. Existing rows are left untouched, so re-running on an already
// seeded database is a no-op.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	groupRepo := appRepos.NewGroupRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (groups, demo author)...")
	var finalErr error

	defaultGroups := []appModels.Group{
		{Title: "Travel notes", Description: "Trips, routes and places worth writing home about."},
		{Title: "Tech talk", Description: "Software, hardware and everything in between."},
		{Title: "Kitchen stories", Description: "Recipes and the disasters behind them."},
	}
	for i := range defaultGroups {
		g := defaultGroups[i]
		g.Slug = services.DeriveSlug(g.Title)
		if _, err := groupRepo.Create(ctx, &g); err != nil && !errors.Is(err, apperrors.ErrSlugTaken) {
			lgr.Error().Err(err).Str("slug", g.Slug).Msg("Error creating default group")
			finalErr = errors.Join(finalErr, err)
		}
	}

	hashed, err := auth.HashPassword("demo-password")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing demo author password")
		return errors.Join(finalErr, err)
	}
	demoAuthor := &appModels.User{
		Username: "demo",
		Email:    "demo@postium.local",
		Password: hashed,
	}
	if _, err := userRepo.Create(ctx, demoAuthor); err != nil &&
		!errors.Is(err, apperrors.ErrUsernameTaken) && !errors.Is(err, apperrors.ErrEmailTaken) {
		lgr.Error().Err(err).Msg("Error creating demo author")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete.")
	}
	return finalErr
}
