package es

import (
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 1000

type OperationRepo interface {
	SearchOperations(ctx context.Context, keyword, mapName string, from, size int) ([]*OperationES, int64, error)
	IndexOperation(ctx context.Context, op *OperationES, version int64) error
	UpdateCounters(ctx context.Context, id uint64, likes, dislikes, views uint64, hotScore int64) error
	DeleteOperation(ctx context.Context, id uint64) error
}

type OperationRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewOperationRepo(client *elasticsearch.TypedClient, index string) OperationRepo {
	return &OperationRepoImpl{client: client, index: index}
}

// SearchOperations 关键词匹配标题与描述，同分时按热度分排序
func (s *OperationRepoImpl) SearchOperations(ctx context.Context, keyword, mapName string, from, size int) ([]*OperationES, int64, error) {
	if from >= MaxSearchDepth {
		return []*OperationES{}, 0, nil
	}

	boolQuery := &types.BoolQuery{}
	if keyword != "" {
		boolQuery.Must = append(boolQuery.Must, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"title^3", "description", "map^2"},
			},
		})
	}
	if mapName != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{
				"map.keyword": {Value: mapName},
			},
		})
	}

	req := s.client.Search().
		Index(s.index).
		Query(&types.Query{Bool: boolQuery}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"_score": {Order: &sortorder.Desc},
			}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"hot_score": {Order: &sortorder.Desc},
			}},
		).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

// IndexOperation 以外部版本号写入，旧版本的 binlog 乱序到达时直接忽略
func (s *OperationRepoImpl) IndexOperation(ctx context.Context, op *OperationES, version int64) error {
	_, err := s.client.Index(s.index).
		Id(strconv.FormatUint(op.ID, 10)).
		Document(op).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

// UpdateCounters 只更新计数字段，文档不存在时忽略
func (s *OperationRepoImpl) UpdateCounters(ctx context.Context, id uint64, likes, dislikes, views uint64, hotScore int64) error {
	doc := map[string]any{
		"likes":     likes,
		"dislikes":  dislikes,
		"views":     views,
		"hot_score": hotScore,
	}

	_, err := s.client.Update(s.index, strconv.FormatUint(id, 10)).
		Doc(doc).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *OperationRepoImpl) DeleteOperation(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(s.index, strconv.FormatUint(id, 10)).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *OperationRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*OperationES, int64, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}

	results := make([]*OperationES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var op OperationES
		if err = json.Unmarshal(hit.Source_, &op); err != nil {
			continue
		}
		results = append(results, &op)
	}
	return results, total, nil
}
