package services

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/models"
)

type rebalanceServiceImpl struct {
	prices PriceResolver
}

// NewRebalanceService returns a RebalanceService that resolves prices
// through the given resolver.
func NewRebalanceService(prices PriceResolver) RebalanceService {
	return &rebalanceServiceImpl{prices: prices}
}

// ComputePlan builds the rebalance table for the given positions and target
// ratios. A position whose price cannot be resolved stays in the output
// flagged PriceUnavailable, but contributes nothing to the total value and
// gets no target figures. Target lots are truncated toward zero, never
// rounded up, so the plan under-buys rather than overshoots.
func (s *rebalanceServiceImpl) ComputePlan(ctx context.Context, positions []models.Position, ratios map[string]float64) *models.RebalancePlan {
	plan := &models.RebalancePlan{Rows: make([]models.RebalanceRow, 0, len(positions))}

	for _, p := range positions {
		row := models.RebalanceRow{
			Stock:       p.Stock,
			CurrentLots: p.Lots,
			TargetRatio: ratios[p.Stock],
		}

		price, err := s.prices.LatestPrice(ctx, p.Stock)
		if err != nil || price <= 0 {
			if err != nil && !errors.Is(err, models.ErrPriceUnavailable) {
				logger.FromContext(ctx).Error("Price lookup failed during rebalance", "stock", p.Stock, "error", err)
			}
			row.PriceUnavailable = true
			plan.Rows = append(plan.Rows, row)
			continue
		}

		row.Price = price
		row.CurrentValue = p.Lots * models.SharesPerLot * price
		plan.TotalValue += row.CurrentValue
		plan.Rows = append(plan.Rows, row)
	}

	for i := range plan.Rows {
		row := &plan.Rows[i]
		if row.PriceUnavailable {
			continue
		}
		row.TargetValue = row.TargetRatio * plan.TotalValue
		row.TargetLots = math.Trunc(row.TargetValue / (models.SharesPerLot * row.Price))
		row.LotsToTrade = row.TargetLots - row.CurrentLots
	}

	sort.Slice(plan.Rows, func(i, j int) bool {
		return plan.Rows[i].Stock < plan.Rows[j].Stock
	})
	return plan
}
