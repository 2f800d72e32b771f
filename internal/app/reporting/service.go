// Package reporting aggregates sales figures over the archived order
// history: summary counts, daily and hourly revenue series and the
// best-selling items for a period. Only completed orders count as revenue.
package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/domain"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

type Service struct {
	history interfaces.HistoryRepository
	logger  logger.Logger
}

func NewService(history interfaces.HistoryRepository, logger logger.Logger) *Service {
	return &Service{history: history, logger: logger}
}

func (s *Service) Summary(ctx context.Context, from, to time.Time) (*interfaces.SalesSummary, error) {
	orders, err := s.history.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &interfaces.SalesSummary{Orders: len(orders)}
	for _, order := range orders {
		switch order.Status {
		case domain.StatusCompleted:
			summary.Completed++
			summary.Revenue += order.TotalAmount
		case domain.StatusCancelled, domain.StatusRejected:
			summary.Cancelled++
		}
	}
	return summary, nil
}

func (s *Service) DailySales(ctx context.Context, from, to time.Time) ([]interfaces.DailySales, error) {
	orders, err := s.history.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*interfaces.DailySales)
	for _, order := range orders {
		if order.Status != domain.StatusCompleted {
			continue
		}
		date := order.CreatedAt.Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &interfaces.DailySales{Date: date}
			byDate[date] = day
		}
		day.Orders++
		day.Revenue += order.TotalAmount
	}

	result := make([]interfaces.DailySales, 0, len(byDate))
	for _, day := range byDate {
		result = append(result, *day)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (s *Service) HourlySales(ctx context.Context, from, to time.Time) ([]interfaces.HourlySales, error) {
	orders, err := s.history.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var hourly [24]interfaces.HourlySales
	for h := range hourly {
		hourly[h].Hour = h
	}
	for _, order := range orders {
		if order.Status != domain.StatusCompleted {
			continue
		}
		h := order.CreatedAt.Hour()
		hourly[h].Orders++
		hourly[h].Revenue += order.TotalAmount
	}
	return hourly[:], nil
}

func (s *Service) BestItems(ctx context.Context, from, to time.Time, limit int) ([]interfaces.ItemSales, error) {
	orders, err := s.history.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*interfaces.ItemSales)
	for _, order := range orders {
		if order.Status != domain.StatusCompleted {
			continue
		}
		for _, item := range order.Items {
			entry, ok := byName[item.Name]
			if !ok {
				entry = &interfaces.ItemSales{Name: item.Name}
				byName[item.Name] = entry
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.UnitPrice * item.Quantity
		}
	}

	result := make([]interfaces.ItemSales, 0, len(byName))
	for _, entry := range byName {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity > result[j].Quantity
		}
		return result[i].Name < result[j].Name
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
