package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"airbrb/internal/app/commands"
	listingapp "airbrb/internal/app/handlers/listings"
	"airbrb/internal/domain/shared/daterange"
)

type listingFixture struct {
	Owner        string          `json:"owner"`
	Title        string          `json:"title"`
	Address      string          `json:"address"`
	Price        float64         `json:"price"`
	Availability []daterange.Raw `json:"availability"`
}

// loadListingFixtures seeds listings through the command bus, so fixtures obey the same
// rules as API callers. An empty availability leaves the listing unpublished.
func loadListingFixtures(ctx context.Context, bus commands.Bus, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, fx := range fixtures {
		created, err := commands.Dispatch[listingapp.CreateListingCommand, *listingapp.CreateListingResult](ctx, bus, listingapp.CreateListingCommand{
			HostID:  fx.Owner,
			Details: listingapp.ListingDetails{Title: fx.Title, Address: fx.Address, Price: fx.Price},
		})
		if err != nil {
			logger.Error("fixture invalid", "title", fx.Title, "error", err)
			continue
		}
		if len(fx.Availability) > 0 {
			_, err = commands.Dispatch[listingapp.PublishListingCommand, *struct{}](ctx, bus, listingapp.PublishListingCommand{
				HostID:       fx.Owner,
				ListingID:    created.ListingID,
				Availability: fx.Availability,
			})
			if err != nil {
				logger.Error("fixture publish failed", "listing_id", created.ListingID, "error", err)
				continue
			}
		}
		logger.Info("listing fixture imported", "listing_id", created.ListingID)
	}
	return nil
}

func fixturesPath() string {
	if p := os.Getenv("LISTINGS_FIXTURES"); p != "" {
		return p
	}
	return filepath.Join("data", "listings.json")
}
