package rank

import (
	"context"
	"math"
	"sort"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/config"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/logger"
	"github.com/iWorld-y/search_upp/app/search_upp/pkg/model"
)

// Ranker 按查询与描述之间的向量距离排序
type Ranker struct {
	embedder   embedding.Embedder
	descending bool
}

// New 创建排序器，order 为 ascending（距离近的在前）或 descending
func New(embedder embedding.Embedder, order string) *Ranker {
	descending := order == config.OrderDescending
	if descending {
		logger.Log.Warn("rank.order=descending: 与查询距离最远的结果会排在最前面")
	}
	return &Ranker{embedder: embedder, descending: descending}
}

type scored struct {
	result   model.SearchResult
	distance float64
}

// Rank 对结果排序。没有描述的结果不参与打分，按原顺序排在后面；
// 向量服务失败时原样返回。
func (r *Ranker) Rank(ctx context.Context, query string, results []model.SearchResult) []model.SearchResult {
	var candidates []model.SearchResult
	var rest []model.SearchResult
	for _, res := range results {
		if res.Description != "" {
			candidates = append(candidates, res)
		} else {
			rest = append(rest, res)
		}
	}
	if len(candidates) == 0 {
		return results
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, query)
	for _, c := range candidates {
		texts = append(texts, c.Description)
	}

	vectors, err := r.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		logger.Log.Warnf("计算向量失败，保持原始顺序: %v", err)
		return results
	}
	if len(vectors) != len(texts) {
		logger.Log.Warnf("向量数量不匹配 (%d != %d)，保持原始顺序", len(vectors), len(texts))
		return results
	}

	queryVec := vectors[0]
	items := make([]scored, len(candidates))
	for i, c := range candidates {
		d, ok := Distance(queryVec, vectors[i+1])
		if !ok {
			logger.Log.Warnf("向量维度不一致，保持原始顺序")
			return results
		}
		items[i] = scored{result: c, distance: d}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if r.descending {
			return items[i].distance > items[j].distance
		}
		return items[i].distance < items[j].distance
	})

	ranked := make([]model.SearchResult, 0, len(results))
	for _, it := range items {
		ranked = append(ranked, it.result)
	}
	return append(ranked, rest...)
}

// Distance 欧氏距离，维度不一致时 ok 为 false
func Distance(a, b []float64) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), true
}
