package models

// SharesPerLot is the fixed market convention: one lot is 100 shares.
const SharesPerLot = 100

// Position is a tracked stock together with its held lot count.
type Position struct {
	Stock string  `json:"stock"`
	Lots  float64 `json:"lots"`
}

// BuyResult describes an executed purchase.
type BuyResult struct {
	Stock      string  `json:"stock"`
	Lots       float64 `json:"lots"`
	Shares     float64 `json:"shares"`
	PriceShare float64 `json:"price_per_share"`
	TotalCost  float64 `json:"total_cost"`
	NewBalance float64 `json:"new_balance"`
}

// RebalanceRow is one line of a computed rebalance plan. When the latest
// price for a stock cannot be resolved the row is flagged and carries no
// value or target figures.
type RebalanceRow struct {
	Stock            string  `json:"stock"`
	CurrentLots      float64 `json:"current_lots"`
	Price            float64 `json:"price"`
	CurrentValue     float64 `json:"current_value"`
	TargetRatio      float64 `json:"target_ratio"`
	TargetValue      float64 `json:"target_value"`
	TargetLots       float64 `json:"target_lots"`
	LotsToTrade      float64 `json:"lots_to_trade"`
	PriceUnavailable bool    `json:"price_unavailable"`
}

// RebalancePlan is the full output of a rebalance computation. It is a
// recommendation table only; nothing in it has been executed.
type RebalancePlan struct {
	Rows       []RebalanceRow `json:"rows"`
	TotalValue float64        `json:"total_value"`
}
