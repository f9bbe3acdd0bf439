package handler

import "github.com/commercekit/category-merchandising/internal/domain"

type RankingMeta struct {
	Ranked         bool   `json:"ranked"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	TotalCount     int    `json:"total_count,omitempty"`
}

type ListingResponse struct {
	Store      string           `json:"store"`
	CategoryID int64            `json:"category_id"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Sort       string           `json:"sort"`
	Products   []domain.Product `json:"products"`
	Ranking    RankingMeta      `json:"ranking"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
