package contracts

import "context"

// ContractorSource supplies scoring signals for a contractor
// ⭐ SSOT: 계약자 시그널 조회 인터페이스 (db | remote directory)
type ContractorSource interface {
	Signals(ctx context.Context, contractorID int64) (*ContractorSignals, error)
}

// BidRanker turns a budget anchor and candidates into a Ranking
// ⭐ SSOT: 입찰 랭킹 인터페이스
type BidRanker interface {
	Rank(budgetReference float64, candidates []BidSignal) Ranking
}
