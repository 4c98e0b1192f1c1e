package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"elitestay/internal/config"
	"elitestay/internal/database"
	"elitestay/internal/logger"
	"elitestay/internal/models"
	"elitestay/internal/repository"
	"elitestay/internal/search"

	"github.com/shopspring/decimal"
)

var (
	dryRun       = flag.Bool("dry-run", false, "Show what would be inserted without making changes")
	force        = flag.Bool("force", false, "Seed even if hotels already exist")
	roomsPerType = flag.Int("rooms", 5, "Rooms to create per room type in each hotel")
	operator     = flag.String("operator", "", "Account id to register as operator of the first hotel")
)

type hotelSeed struct {
	hotel models.Hotel
	types []models.RoomType
}

func demoData() []hotelSeed {
	price := decimal.RequireFromString
	return []hotelSeed{
		{
			hotel: models.Hotel{Name: "Azure Bay Resort", Address: "1 Coastal Road", Stars: 5,
				Tags: "beach spa family pool seafront", Phone: "+7 700 000 0001", Email: "azure@elitestay.example"},
			types: []models.RoomType{
				{Name: "Ocean Deluxe", PricePerNight: price("180.00"), Capacity: 2,
					Description: "ocean view balcony king bed rain shower"},
				{Name: "Family Suite", PricePerNight: price("260.00"), Capacity: 4,
					Description: "two bedrooms garden view kitchenette family"},
			},
		},
		{
			hotel: models.Hotel{Name: "Steppe Tower", Address: "12 Abay Avenue", Stars: 4,
				Tags: "business downtown wifi conference", Phone: "+7 700 000 0002", Email: "tower@elitestay.example"},
			types: []models.RoomType{
				{Name: "Business Single", PricePerNight: price("95.00"), Capacity: 1,
					Description: "city view desk fast wifi queen bed"},
				{Name: "Executive Corner", PricePerNight: price("150.00"), Capacity: 2,
					Description: "panoramic city view lounge access king bed"},
			},
		},
		{
			hotel: models.Hotel{Name: "Pine Lodge", Address: "Medeu Gorge", Stars: 3,
				Tags: "mountain ski hiking fireplace", Phone: "+7 700 000 0003", Email: "lodge@elitestay.example"},
			types: []models.RoomType{
				{Name: "Cabin", PricePerNight: price("70.00"), Capacity: 3,
					Description: "wooden cabin fireplace mountain view bunk bed"},
			},
		},
	}
}

type Seeder struct {
	repos   *repository.Repositories
	indexer *search.ElasticsearchClient
}

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Starting demo data seed...", "dry_run", *dryRun)

	if *dryRun {
		printPlan(demoData())
		return
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	seeder := &Seeder{repos: repository.NewRepositories(db)}
	if cfg.Elasticsearch.Enabled {
		es, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			slog.Warn("Elasticsearch unavailable, room types will not be indexed", "error", err)
		} else {
			seeder.indexer = es
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seeder.Seed(ctx, demoData()); err != nil {
		slog.Error("Failed to seed demo data", "error", err)
		os.Exit(1)
	}

	slog.Info("Demo data seeded successfully!")
}

func printPlan(seeds []hotelSeed) {
	for _, s := range seeds {
		slog.Info("[DRY RUN] Would create hotel", "name", s.hotel.Name, "tags", s.hotel.Tags)
		for _, rt := range s.types {
			slog.Info("[DRY RUN] Would create room type",
				"hotel", s.hotel.Name, "name", rt.Name, "price", rt.PricePerNight.StringFixed(2), "rooms", *roomsPerType)
		}
	}
}

func (s *Seeder) Seed(ctx context.Context, seeds []hotelSeed) error {
	existing, err := s.repos.Hotels.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list hotels: %w", err)
	}
	if len(existing) > 0 && !*force {
		slog.Info("Hotels already exist, skipping (use -force to override)", "existing_count", len(existing))
		return nil
	}

	for i, seed := range seeds {
		hotel := seed.hotel
		if err := s.repos.Hotels.Create(ctx, &hotel); err != nil {
			return fmt.Errorf("failed to create hotel %s: %w", hotel.Name, err)
		}

		if i == 0 && *operator != "" {
			link := &models.AdminHotel{AccountID: *operator, UserName: *operator, HotelID: hotel.ID}
			if err := s.repos.AdminHotels.Create(ctx, link); err != nil {
				return fmt.Errorf("failed to register operator: %w", err)
			}
		}

		for j, rt := range seed.types {
			if err := s.repos.RoomTypes.Create(ctx, &rt); err != nil {
				return fmt.Errorf("failed to create room type %s: %w", rt.Name, err)
			}
			if s.indexer != nil {
				if err := s.indexer.IndexRoomType(ctx, &rt); err != nil {
					slog.Warn("Failed to index room type", "room_type_id", rt.ID, "error", err)
				}
			}

			for n := 1; n <= *roomsPerType; n++ {
				room := &models.Room{
					HotelID:    hotel.ID,
					RoomTypeID: rt.ID,
					RoomNumber: fmt.Sprintf("%d%02d", j+1, n),
					Status:     models.RoomAvailable,
				}
				if err := s.repos.Rooms.Create(ctx, room); err != nil {
					return fmt.Errorf("failed to create room %s in %s: %w", room.RoomNumber, hotel.Name, err)
				}
			}
		}

		slog.Info("Seeded hotel", "hotel_id", hotel.ID, "name", hotel.Name, "room_types", len(seed.types))
	}
	return nil
}
