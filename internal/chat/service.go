package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/config"
	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/kvstore"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
	"gorm.io/gorm"
)

const (
	topSellingLimit = 5

	unknownAnswer = "I can answer questions about top sellers, prices, stock, categories, product counts and revenue."
)

// Service answers catalog questions and keeps per-user conversation history.
type Service interface {
	Ask(ctx context.Context, userID, question string) (*Answer, error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
	ClearHistory(ctx context.Context, userID string) error
}

type repository interface {
	TopSelling(ctx context.Context, limit int) ([]SoldProduct, error)
	LowestPrice(ctx context.Context) (*models.Product, error)
	HighestStock(ctx context.Context) (*models.Product, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	ProductCount(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (int64, int64, error)
}

type service struct {
	repo  repository
	store kvstore.Store
	cfg   config.ChatConfig
	logg  *logger.Logger

	now func() time.Time
}

// NewService builds the chatbot service.
func NewService(repo repository, store kvstore.Store, cfg config.ChatConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("chat repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &service{repo: repo, store: store, cfg: cfg, logg: logg, now: time.Now}, nil
}

func historyKey(userID string) string {
	return "chat_history:" + userID
}

func (s *service) Ask(ctx context.Context, userID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}

	answer, err := s.answer(ctx, classify(question))
	if err != nil {
		return nil, err
	}

	s.appendHistory(ctx, userID,
		HistoryEntry{Role: "user", Content: question, At: s.now().UTC()},
		HistoryEntry{Role: "assistant", Content: answer.Text, QueryType: answer.QueryType, At: s.now().UTC()},
	)
	return answer, nil
}

func (s *service) answer(ctx context.Context, queryType enums.ChatQueryType) (*Answer, error) {
	switch queryType {
	case enums.ChatQueryTopSelling:
		rows, err := s.repo.TopSelling(ctx, topSellingLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ranking products")
		}
		stats := make([]ProductStat, 0, len(rows))
		for _, row := range rows {
			stats = append(stats, ProductStat{ProductID: row.ProductID, Title: row.Title, UnitsSold: row.UnitsSold})
		}
		text := "No sales yet."
		if len(stats) > 0 {
			text = fmt.Sprintf("Our best seller is %s with %d units sold.", stats[0].Title, stats[0].UnitsSold)
		}
		return &Answer{QueryType: queryType, Text: text, TopSelling: stats}, nil

	case enums.ChatQueryLowestPrice:
		product, err := s.repo.LowestPrice(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &Answer{QueryType: queryType, Text: "Nothing is in stock right now."}, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding cheapest product")
		}
		stat := productStat(product)
		return &Answer{
			QueryType:   queryType,
			Text:        fmt.Sprintf("Our most affordable product is %s at %s.", product.Title, stat.Price),
			LowestPrice: &stat,
		}, nil

	case enums.ChatQueryHighestStock:
		product, err := s.repo.HighestStock(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &Answer{QueryType: queryType, Text: "The catalog is empty."}, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding stocked product")
		}
		stat := productStat(product)
		return &Answer{
			QueryType:    queryType,
			Text:         fmt.Sprintf("%s has the most stock with %d units available.", product.Title, product.Stock),
			HighestStock: &stat,
		}, nil

	case enums.ChatQueryCategoryStatistics:
		rows, err := s.repo.CategoryCounts(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting categories")
		}
		stats := make([]CategoryStat, 0, len(rows))
		for _, row := range rows {
			stats = append(stats, CategoryStat{CategoryID: row.CategoryID, Name: row.Name, ProductCount: row.ProductCount})
		}
		return &Answer{
			QueryType:  queryType,
			Text:       fmt.Sprintf("We carry %d categories.", len(stats)),
			Categories: stats,
		}, nil

	case enums.ChatQueryProductCount:
		total, err := s.repo.ProductCount(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
		}
		return &Answer{
			QueryType:    queryType,
			Text:         fmt.Sprintf("We currently have %d products in the catalog.", total),
			ProductCount: &total,
		}, nil

	case enums.ChatQueryTotalRevenue:
		cents, count, err := s.repo.Revenue(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing revenue")
		}
		stat := RevenueStat{Total: types.Cents(cents).String(), TotalCents: cents, OrderCount: count}
		return &Answer{
			QueryType: queryType,
			Text:      fmt.Sprintf("Total revenue is %s across %d orders.", stat.Total, count),
			Revenue:   &stat,
		}, nil

	default:
		return &Answer{QueryType: enums.ChatQueryUnknown, Text: unknownAnswer}, nil
	}
}

// History returns the stored conversation, oldest first. A malformed stored
// transcript is discarded rather than surfaced.
func (s *service) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	raw, err := s.store.Get(ctx, historyKey(userID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return []HistoryEntry{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading chat history")
	}
	var entries []HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding malformed chat history")
		}
		_ = s.store.Delete(ctx, historyKey(userID))
		return []HistoryEntry{}, nil
	}
	return entries, nil
}

func (s *service) ClearHistory(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, historyKey(userID)); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing chat history")
	}
	return nil
}

// appendHistory persists the new turns best effort; a failed write never
// fails the answer.
func (s *service) appendHistory(ctx context.Context, userID string, turns ...HistoryEntry) {
	entries, err := s.History(ctx, userID)
	if err != nil {
		entries = []HistoryEntry{}
	}
	entries = append(entries, turns...)

	limit := s.cfg.HistoryLimit
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, historyKey(userID), string(payload), s.cfg.HistoryTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to persist chat history")
	}
}

func productStat(product *models.Product) ProductStat {
	return ProductStat{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     types.Cents(product.PriceCents).String(),
		Stock:     product.Stock,
	}
}
