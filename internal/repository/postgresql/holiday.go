package postgresql

import (
	"context"
	"fmt"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/attendance"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

// GetByYear implements attendance.HolidayRepository.
func (h *holidayRepository) GetByYear(ctx context.Context, year int) (map[string]bool, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT date
		FROM public_holidays
		WHERE EXTRACT(YEAR FROM date::date) = $1
	`

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query public holidays: %w", err)
	}
	defer rows.Close()

	holidays := make(map[string]bool)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan public holiday: %w", err)
		}
		holidays[date] = true
	}

	return holidays, nil
}

func NewHolidayRepository(db *database.DB) attendance.HolidayRepository {
	return &holidayRepository{db: db}
}
