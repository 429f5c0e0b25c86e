package flights

import (
	"context"
	"strings"
	"time"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

const featuredLimit = 6

type FlightUseCase interface {
	Search(ctx context.Context, departure, arrival, date string) ([]domain.FlightOffer, error)
	Featured(ctx context.Context) ([]domain.FlightOffer, error)
	Airports(ctx context.Context) ([]domain.Airport, error)
}

type SearchCache interface {
	GetSearch(ctx context.Context, departure, arrival, date string) ([]domain.FlightOffer, error)
	SetSearch(ctx context.Context, departure, arrival, date string, offers []domain.FlightOffer) error
}

type FlightService struct {
	repo   repository.SearchRepository
	cache  SearchCache
	logger logrus.FieldLogger
}

// NewFlightService accepts a nil cache.
func NewFlightService(repo repository.SearchRepository, cache SearchCache, logger logrus.FieldLogger) *FlightService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FlightService{repo: repo, cache: cache, logger: logger}
}

func (s *FlightService) Search(ctx context.Context, departure, arrival, date string) ([]domain.FlightOffer, error) {
	departure = strings.ToUpper(strings.TrimSpace(departure))
	arrival = strings.ToUpper(strings.TrimSpace(arrival))
	date = strings.TrimSpace(date)
	if departure == "" || arrival == "" || date == "" {
		return nil, domain.Validation("departure, arrival and date are required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.Validation("date must be YYYY-MM-DD")
	}

	log := s.logger.WithFields(logrus.Fields{"departure": departure, "arrival": arrival, "date": date})

	if s.cache != nil {
		cached, err := s.cache.GetSearch(ctx, departure, arrival, date)
		if err != nil {
			log.WithError(err).Warn("search cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	offers, err := s.repo.Search(ctx, departure, arrival, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, departure, arrival, date, offers); err != nil {
			log.WithError(err).Warn("search cache write failed")
		}
	}
	return offers, nil
}

func (s *FlightService) Featured(ctx context.Context) ([]domain.FlightOffer, error) {
	return s.repo.Featured(ctx, featuredLimit)
}

func (s *FlightService) Airports(ctx context.Context) ([]domain.Airport, error) {
	return s.repo.Airports(ctx)
}

var _ FlightUseCase = (*FlightService)(nil)
