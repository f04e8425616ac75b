package service

import (
	"Opsboard/internal/api/config"
	"Opsboard/internal/engine"
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/idcodec"
	"Opsboard/internal/repository"
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testAlphabet = "k3G7QAe51FCsPW92uEOyq4Bg6Sp8YzVTmnU0liwDdHXLajZrfxNhobJIRcMvKt"

// memStore 内存版 Store，仓库方法返回副本，只有显式写回才会生效
type memStore struct {
	ops     map[uint64]*model.Operation
	ratings map[[2]uint64]*model.Rating
	lists   map[uint64]*model.FavoriteList
	members map[engine.MembershipKey]model.FavoriteMembership
	users   map[uint64]*model.User
	nextID  uint64

	// 首次评价插入时返回唯一索引冲突的剩余次数
	ratingConflicts int
	// 被插入的冲突评价，模拟另一个请求抢先提交
	conflictRating model.RatingType
}

func newMemStore() *memStore {
	return &memStore{
		ops:     make(map[uint64]*model.Operation),
		ratings: make(map[[2]uint64]*model.Rating),
		lists:   make(map[uint64]*model.FavoriteList),
		members: make(map[engine.MembershipKey]model.FavoriteMembership),
		users:   make(map[uint64]*model.User),
		nextID:  100,
	}
}

func (s *memStore) Operations() repository.OperationRepo { return memOperations{s} }
func (s *memStore) Ratings() repository.RatingRepo       { return memRatings{s} }
func (s *memStore) Favorites() repository.FavoriteRepo   { return memFavorites{s} }
func (s *memStore) Users() repository.UserRepo           { return memUsers{s} }

func (s *memStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	return fn(s)
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(id uint64, nickname string) {
	s.users[id] = &model.User{ID: id, Nickname: nickname}
}

func (s *memStore) addOperation(ownerID uint64) *model.Operation {
	op := &model.Operation{ID: s.id(), UserID: ownerID, Title: "op", CreatedAt: time.Now()}
	s.ops[op.ID] = op
	return op
}

func (s *memStore) addList(ownerID uint64) *model.FavoriteList {
	list := &model.FavoriteList{ID: s.id(), UserID: ownerID, Name: "list", CreatedAt: time.Now()}
	s.lists[list.ID] = list
	return list
}

func (s *memStore) link(listID, opID uint64) {
	k := engine.MembershipKey{ListID: listID, OperationID: opID}
	s.members[k] = model.FavoriteMembership{ListID: listID, OperationID: opID, CreatedAt: time.Now()}
}

type memOperations struct{ s *memStore }

func (r memOperations) Create(_ context.Context, op *model.Operation) error {
	op.ID = r.s.id()
	op.CreatedAt = time.Now()
	cp := *op
	r.s.ops[op.ID] = &cp
	return nil
}

func (r memOperations) GetActive(_ context.Context, id uint64) (*model.Operation, error) {
	op, ok := r.s.ops[id]
	if !ok || op.IsDeleted {
		return nil, nil
	}
	cp := *op
	return &cp, nil
}

func (r memOperations) GetActiveByIDs(ctx context.Context, ids []uint64) ([]*model.Operation, error) {
	out := make([]*model.Operation, 0, len(ids))
	for _, id := range ids {
		if op, _ := r.GetActive(ctx, id); op != nil {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r memOperations) LockActive(ctx context.Context, id uint64) (*model.Operation, error) {
	return r.GetActive(ctx, id)
}

func (r memOperations) SaveCounters(_ context.Context, op *model.Operation) error {
	stored, ok := r.s.ops[op.ID]
	if !ok {
		return errors.New("operation missing")
	}
	stored.Likes, stored.Dislikes, stored.Views, stored.HotScore = op.Likes, op.Dislikes, op.Views, op.HotScore
	return nil
}

func (r memOperations) SoftDelete(_ context.Context, id uint64) error {
	if op, ok := r.s.ops[id]; ok {
		op.IsDeleted = true
	}
	return nil
}

func (r memOperations) active() []*model.Operation {
	out := make([]*model.Operation, 0, len(r.s.ops))
	for _, op := range r.s.ops {
		if !op.IsDeleted {
			cp := *op
			out = append(out, &cp)
		}
	}
	return out
}

func (r memOperations) ListHot(_ context.Context, limit, offset int) ([]*model.Operation, error) {
	ops := r.active()
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].HotScore != ops[j].HotScore {
			return ops[i].HotScore > ops[j].HotScore
		}
		return ops[i].ID > ops[j].ID
	})
	if offset >= len(ops) {
		return []*model.Operation{}, nil
	}
	return ops[offset:min(offset+limit, len(ops))], nil
}

func (r memOperations) ListActiveBatch(_ context.Context, afterID uint64, limit int) ([]*model.Operation, error) {
	ops := r.active()
	sort.Slice(ops, func(i, j int) bool { return ops[i].ID < ops[j].ID })
	out := make([]*model.Operation, 0, limit)
	for _, op := range ops {
		if op.ID > afterID && len(out) < limit {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r memOperations) CountActive(context.Context) (int64, error) {
	return int64(len(r.active())), nil
}

type memRatings struct{ s *memStore }

func (r memRatings) Get(_ context.Context, operationID, userID uint64) (*model.Rating, error) {
	rating, ok := r.s.ratings[[2]uint64{operationID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *rating
	return &cp, nil
}

func (r memRatings) Save(_ context.Context, rating *model.Rating) error {
	key := [2]uint64{rating.OperationID, rating.UserID}
	if rating.ID == 0 {
		if r.s.ratingConflicts > 0 {
			r.s.ratingConflicts--
			// 并发请求抢先插入，计数也一并写入
			r.s.ratings[key] = &model.Rating{ID: r.s.id(), OperationID: rating.OperationID, UserID: rating.UserID, Type: r.s.conflictRating}
			op := r.s.ops[rating.OperationID]
			switch r.s.conflictRating {
			case model.RatingLike:
				op.Likes++
			case model.RatingDislike:
				op.Dislikes++
			}
			return repository.ErrDuplicateKey
		}
		if _, exists := r.s.ratings[key]; exists {
			return repository.ErrDuplicateKey
		}
		rating.ID = r.s.id()
	}
	cp := *rating
	r.s.ratings[key] = &cp
	return nil
}

func (r memRatings) CountByType(_ context.Context, operationID uint64) (repository.RatingCounts, error) {
	var counts repository.RatingCounts
	for key, rating := range r.s.ratings {
		if key[0] != operationID {
			continue
		}
		switch rating.Type {
		case model.RatingLike:
			counts.Likes++
		case model.RatingDislike:
			counts.Dislikes++
		}
	}
	return counts, nil
}

type memFavorites struct{ s *memStore }

func (r memFavorites) CreateList(_ context.Context, list *model.FavoriteList) error {
	list.ID = r.s.id()
	list.CreatedAt = time.Now()
	cp := *list
	r.s.lists[list.ID] = &cp
	return nil
}

func (r memFavorites) GetActiveList(_ context.Context, id uint64) (*model.FavoriteList, error) {
	list, ok := r.s.lists[id]
	if !ok || list.IsDeleted {
		return nil, nil
	}
	cp := *list
	return &cp, nil
}

func (r memFavorites) LockActiveList(ctx context.Context, id uint64) (*model.FavoriteList, error) {
	return r.GetActiveList(ctx, id)
}

func (r memFavorites) GetActiveListsByIDs(ctx context.Context, ids []uint64) ([]*model.FavoriteList, error) {
	out := make([]*model.FavoriteList, 0, len(ids))
	for _, id := range ids {
		if list, _ := r.GetActiveList(ctx, id); list != nil {
			out = append(out, list)
		}
	}
	return out, nil
}

func (r memFavorites) ListByOwner(_ context.Context, userID uint64) ([]*model.FavoriteList, error) {
	out := make([]*model.FavoriteList, 0)
	for _, list := range r.s.lists {
		if list.UserID == userID && !list.IsDeleted {
			cp := *list
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memFavorites) MarkListDeleted(_ context.Context, id uint64) error {
	if list, ok := r.s.lists[id]; ok {
		list.IsDeleted = true
	}
	return nil
}

func (r memFavorites) Membership(_ context.Context, listID, operationID uint64) ([]model.FavoriteMembership, error) {
	out := make([]model.FavoriteMembership, 0, 1)
	if m, ok := r.s.members[engine.MembershipKey{ListID: listID, OperationID: operationID}]; ok {
		out = append(out, m)
	}
	return out, nil
}

func (r memFavorites) filter(keep func(engine.MembershipKey) bool) []model.FavoriteMembership {
	out := make([]model.FavoriteMembership, 0)
	for k, m := range r.s.members {
		if keep(k) {
			out = append(out, m)
		}
	}
	return out
}

func (r memFavorites) MembershipsOfList(_ context.Context, listID uint64) ([]model.FavoriteMembership, error) {
	return r.filter(func(k engine.MembershipKey) bool { return k.ListID == listID }), nil
}

func (r memFavorites) MembershipsOfOperation(_ context.Context, operationID uint64) ([]model.FavoriteMembership, error) {
	return r.filter(func(k engine.MembershipKey) bool { return k.OperationID == operationID }), nil
}

func (r memFavorites) ApplyMembershipChanges(_ context.Context, added, removed []model.FavoriteMembership) error {
	for _, m := range removed {
		delete(r.s.members, engine.MembershipKey{ListID: m.ListID, OperationID: m.OperationID})
	}
	for _, m := range added {
		k := engine.MembershipKey{ListID: m.ListID, OperationID: m.OperationID}
		if _, ok := r.s.members[k]; !ok {
			r.s.members[k] = m
		}
	}
	return nil
}

type memUsers struct{ s *memStore }

func (r memUsers) GetActiveUser(_ context.Context, id uint64) (*model.User, error) {
	user, ok := r.s.users[id]
	if !ok || user.IsDelete {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r memUsers) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*model.User, error) {
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if user, _ := r.GetActiveUser(ctx, id); user != nil {
			out = append(out, user)
		}
	}
	return out, nil
}

// memRank 内存版排行榜，只记录最新分数
type memRank struct {
	scores map[uint64]int64
	err    error
}

func newMemRank() *memRank {
	return &memRank{scores: make(map[uint64]int64)}
}

func (r *memRank) Sync(_ context.Context, operationID uint64, hotScore int64) error {
	if r.err != nil {
		return r.err
	}
	r.scores[operationID] = hotScore
	return nil
}

func (r *memRank) Remove(_ context.Context, operationID uint64) error {
	delete(r.scores, operationID)
	return r.err
}

func (r *memRank) Top(_ context.Context, offset, limit int64) ([]uint64, error) {
	if r.err != nil {
		return nil, r.err
	}
	ids := make([]uint64, 0, len(r.scores))
	for id := range r.scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return r.scores[ids[i]] > r.scores[ids[j]] })
	if offset >= int64(len(ids)) {
		return []uint64{}, nil
	}
	return ids[offset:min(offset+limit, int64(len(ids)))], nil
}

func (r *memRank) Size(context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.scores)), nil
}

func (r *memRank) Rebuild(_ context.Context, entries []RankEntry) error {
	r.scores = make(map[uint64]int64, len(entries))
	for _, e := range entries {
		r.scores[e.OperationID] = e.HotScore
	}
	return r.err
}

func newTestCodec(t *testing.T) *idcodec.Codec {
	t.Helper()
	codec, err := idcodec.New(config.IDCodecConfig{Alphabet: testAlphabet, MinLength: 8})
	require.NoError(t, err)
	return codec
}

func newTestCalculator() *engine.HotScoreCalculator {
	return engine.NewHotScoreCalculator(engine.StaticScoreConfig{
		InitialScore:      100,
		LikeMultiplier:    10,
		DislikeMultiplier: 2,
		ViewMultiplier:    1,
	})
}

func ratingOf(operationID, userID uint64, t model.RatingType) *model.Rating {
	return &model.Rating{ID: operationID*1000 + userID, OperationID: operationID, UserID: userID, Type: t}
}
