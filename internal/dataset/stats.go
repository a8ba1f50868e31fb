package dataset

import (
	"context"
	"fmt"
	"io"

	"clinic-directory/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentListings = 3

// Statistics summarises the stored directory.
type Statistics struct {
	Subjects        int64           `json:"subjects"`
	Doctors         int64           `json:"doctors"`
	Listings        int64           `json:"listings"`
	Tags            int64           `json:"tags"`
	Professionals   int64           `json:"professionals"`
	AvgService      decimal.Decimal `json:"avg_service"`
	AvgScreen       decimal.Decimal `json:"avg_screen"`
	AvgProfessional decimal.Decimal `json:"avg_professional"`
	Recent          []RecentListing `json:"recent"`
}

type RecentListing struct {
	Title  string `json:"title"`
	Doctor string `json:"doctor"`
}

// CollectStatistics counts rows and averages listing scores through tx.
func CollectStatistics(ctx context.Context, tx *gorm.DB, repos Repositories) (*Statistics, error) {
	stats := &Statistics{}
	var err error

	if stats.Subjects, err = repos.Subject.Count(tx); err != nil {
		return nil, fmt.Errorf("count subjects: %w", err)
	}
	if stats.Doctors, err = repos.Doctor.Count(tx); err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	if stats.Listings, err = repos.Listing.Count(tx); err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	if stats.Tags, err = repos.Tag.Count(tx); err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}
	if stats.Professionals, err = repos.Listing.CountProfessionals(tx); err != nil {
		return nil, fmt.Errorf("count professionals: %w", err)
	}

	sums, err := repos.Listing.ScoreSums(tx)
	if err != nil {
		return nil, fmt.Errorf("sum scores: %w", err)
	}
	stats.AvgService = average(sums.Service, sums.Count)
	stats.AvgScreen = average(sums.Screen, sums.Count)
	stats.AvgProfessional = average(sums.Professional, sums.Count)

	recent, err := repos.Listing.FindAll(tx, &entity.ListingFilter{Limit: recentListings})
	if err != nil {
		return nil, fmt.Errorf("load recent listings: %w", err)
	}
	for _, l := range recent {
		stats.Recent = append(stats.Recent, RecentListing{Title: l.Title, Doctor: l.Doctor.Name})
	}

	return stats, nil
}

func average(sum, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(count)).Round(2)
}

// Render prints the statistics block shown by the console.
func (s *Statistics) Render(w io.Writer) {
	fmt.Fprintln(w, "=== 數據統計 ===")
	fmt.Fprintf(w, "科目數量: %d\n", s.Subjects)
	fmt.Fprintf(w, "醫生數量: %d\n", s.Doctors)
	fmt.Fprintf(w, "診所列表數量: %d\n", s.Listings)
	fmt.Fprintf(w, "服務標籤數量: %d\n", s.Tags)
	fmt.Fprintf(w, "診所-科目關係: %d\n", s.Professionals)
	fmt.Fprintf(w, "平均評分 (service/screen/professional): %s / %s / %s\n",
		s.AvgService.StringFixed(2), s.AvgScreen.StringFixed(2), s.AvgProfessional.StringFixed(2))
	fmt.Fprintf(w, "=== 最近創建的%d個診所 ===\n", recentListings)
	for _, l := range s.Recent {
		fmt.Fprintf(w, "- %s (醫生: %s)\n", l.Title, l.Doctor)
	}
}
