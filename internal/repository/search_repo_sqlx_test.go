package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offerColumns = []string{
	"schedule_id", "flight_id", "airline", "departure_airport", "arrival_airport",
	"departure_name", "arrival_name", "departure_time", "arrival_time", "duration",
	"aircraft", "flight_date", "original_price", "available_seats", "discount_percentage",
}

func newSearchRepo(t *testing.T) (*SQLXSearchRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSearchRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestSearch(t *testing.T) {
	repo, mock := newSearchRepo(t)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`LEFT JOIN flight_discounts d`).
			WithArgs("GMP", "CJU", "2026-11-01").
			WillReturnRows(sqlmock.NewRows(offerColumns).
				AddRow(7, "CJ101", "CloudJet", "GMP", "CJU", "김포", "제주", "08:00", "09:10", "01:10", "A321", "2026-11-01", 100000, 12, 10.0).
				AddRow(8, "CJ103", "CloudJet", "GMP", "CJU", "김포", "제주", "10:00", "11:10", "01:10", "A321", "2026-11-01", 95000, 3, nil))

		offers, err := repo.Search(context.Background(), "GMP", "CJU", "2026-11-01")
		require.NoError(t, err)
		require.Len(t, offers, 2)

		assert.True(t, offers[0].HasDiscount)
		assert.Equal(t, int64(100000), offers[0].OriginalPrice)
		assert.Equal(t, int64(90000), offers[0].Price)

		assert.False(t, offers[1].HasDiscount)
		assert.Nil(t, offers[1].DiscountPercentage)
		assert.Equal(t, int64(95000), offers[1].Price)
		assert.Equal(t, "2026-11-01", offers[1].Date)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(`LEFT JOIN flight_discounts d`).
			WithArgs("GMP", "PUS", "2026-11-01").
			WillReturnRows(sqlmock.NewRows(offerColumns))

		offers, err := repo.Search(context.Background(), "GMP", "PUS", "2026-11-01")
		require.NoError(t, err)
		assert.Empty(t, offers)
		assert.NotNil(t, offers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`LEFT JOIN flight_discounts d`).
			WillReturnError(errors.New("connection refused"))

		offers, err := repo.Search(context.Background(), "GMP", "CJU", "2026-11-01")
		assert.Nil(t, offers)
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFeatured(t *testing.T) {
	repo, mock := newSearchRepo(t)

	mock.ExpectQuery(`ORDER BY d.discount_percentage DESC`).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows(offerColumns).
			AddRow(9, "CJ201", "CloudJet", "ICN", "NRT", "인천", "나리타", "09:00", "11:20", "02:20", "B737", "2026-12-24", 300000, 40, 25.0))

	offers, err := repo.Featured(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, int64(225000), offers[0].Price)
	assert.True(t, offers[0].HasDiscount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAirports(t *testing.T) {
	repo, mock := newSearchRepo(t)

	mock.ExpectQuery(`FROM airports`).
		WillReturnRows(sqlmock.NewRows([]string{"airport_code", "airport_name", "city", "country"}).
			AddRow("CJU", "제주국제공항", "제주", "KR").
			AddRow("GMP", "김포국제공항", "서울", "KR"))

	airports, err := repo.Airports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Airport{
		{Code: "CJU", Name: "제주국제공항", City: "제주", Country: "KR"},
		{Code: "GMP", Name: "김포국제공항", City: "서울", Country: "KR"},
	}, airports)
	assert.NoError(t, mock.ExpectationsWereMet())
}
