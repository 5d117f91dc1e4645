package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/distillr/internal/common"
)

// PageSummarizer is implemented by *Summarizer.
type PageSummarizer interface {
	Summarize(ctx context.Context, url string) (*Summary, error)
}

// DistillResult is the reply to a Distill call.
type DistillResult struct {
	Text      string
	Percent   string
	Remaining int
}

// DistillService runs a summary and charges the device for it. A use is
// consumed only after the summary succeeded.
type DistillService struct {
	accounts   *AccountService
	summarizer PageSummarizer
}

func NewDistillService(accounts *AccountService, summarizer PageSummarizer) *DistillService {
	return &DistillService{accounts: accounts, summarizer: summarizer}
}

func (s *DistillService) Distill(ctx context.Context, deviceID, rawURL string) (*DistillResult, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidArgument, err)
	}

	st, err := s.accounts.Status(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if !st.IsPro && st.Remaining <= 0 {
		return nil, common.ErrQuotaExhausted
	}

	summary, err := s.summarizer.Summarize(ctx, target)
	if err != nil {
		return nil, err
	}

	after, err := s.accounts.Consume(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	return &DistillResult{Text: summary.Text, Percent: summary.Percent, Remaining: after.Remaining}, nil
}
