package engine

import (
	"Opsboard/internal/model"
	"sort"
	"time"
)

// MembershipKey 收藏关系的唯一键
type MembershipKey struct {
	ListID      uint64
	OperationID uint64
}

// Memberships 收藏夹 <-> 作战计划 的单一关系集合。
// 两侧视图 (OperationsOf / ListsOf) 都从同一份边集合派生，不存在各自维护的副本。
// 集合只覆盖调用方加载进来的范围，Changes 给出相对加载时的净增删，供持久层一次性提交。
type Memberships struct {
	original map[MembershipKey]struct{}
	edges    map[MembershipKey]time.Time
	now      func() time.Time
}

func NewMemberships(loaded []model.FavoriteMembership) *Memberships {
	m := &Memberships{
		original: make(map[MembershipKey]struct{}, len(loaded)),
		edges:    make(map[MembershipKey]time.Time, len(loaded)),
		now:      time.Now,
	}
	for _, e := range loaded {
		k := MembershipKey{ListID: e.ListID, OperationID: e.OperationID}
		m.original[k] = struct{}{}
		m.edges[k] = e.CreatedAt
	}
	return m
}

func (m *Memberships) Has(listID, operationID uint64) bool {
	_, ok := m.edges[MembershipKey{ListID: listID, OperationID: operationID}]
	return ok
}

func (m *Memberships) Len() int {
	return len(m.edges)
}

// OperationsOf 收藏夹中的作战计划 ID（升序）
func (m *Memberships) OperationsOf(listID uint64) []uint64 {
	ids := make([]uint64, 0)
	for k := range m.edges {
		if k.ListID == listID {
			ids = append(ids, k.OperationID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ListsOf 收藏了该作战计划的收藏夹 ID（升序）
func (m *Memberships) ListsOf(operationID uint64) []uint64 {
	ids := make([]uint64, 0)
	for k := range m.edges {
		if k.OperationID == operationID {
			ids = append(ids, k.ListID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Changes 相对加载时的净新增与净删除
func (m *Memberships) Changes() (added, removed []model.FavoriteMembership) {
	for k, createdAt := range m.edges {
		if _, ok := m.original[k]; !ok {
			added = append(added, model.FavoriteMembership{ListID: k.ListID, OperationID: k.OperationID, CreatedAt: createdAt})
		}
	}
	for k := range m.original {
		if _, ok := m.edges[k]; !ok {
			removed = append(removed, model.FavoriteMembership{ListID: k.ListID, OperationID: k.OperationID})
		}
	}
	sortMemberships(added)
	sortMemberships(removed)
	return added, removed
}

func (m *Memberships) add(k MembershipKey) bool {
	if _, ok := m.edges[k]; ok {
		return false
	}
	m.edges[k] = m.now()
	return true
}

func (m *Memberships) remove(k MembershipKey) bool {
	if _, ok := m.edges[k]; !ok {
		return false
	}
	delete(m.edges, k)
	return true
}

// CreateList 新建空收藏夹
func CreateList(ownerID uint64, name string) *model.FavoriteList {
	return &model.FavoriteList{UserID: ownerID, Name: name}
}

// AddFavorite 将 op 加入 list，已存在时为空操作。返回是否产生了新边。
// 调用方负责权限校验。
func AddFavorite(rel *Memberships, list *model.FavoriteList, op *model.Operation) bool {
	mustMembershipArgs(rel, list, op)
	return rel.add(MembershipKey{ListID: list.ID, OperationID: op.ID})
}

// RemoveFavorite 将 op 移出 list，不存在时为空操作。返回是否删除了边。
func RemoveFavorite(rel *Memberships, list *model.FavoriteList, op *model.Operation) bool {
	mustMembershipArgs(rel, list, op)
	return rel.remove(MembershipKey{ListID: list.ID, OperationID: op.ID})
}

// DeleteList 删除 list 涉及的所有边并标记 list 为已删除，返回删除的边数。
// 被引用的作战计划本身不受影响。
func DeleteList(rel *Memberships, list *model.FavoriteList) int {
	if rel == nil || list == nil {
		panic("engine: DeleteList with nil argument")
	}
	n := 0
	for _, opID := range rel.OperationsOf(list.ID) {
		if rel.remove(MembershipKey{ListID: list.ID, OperationID: opID}) {
			n++
		}
	}
	list.IsDeleted = true
	return n
}

// DetachOperation 作战计划被删除时，从所有收藏夹中移除，返回删除的边数
func DetachOperation(rel *Memberships, op *model.Operation) int {
	if rel == nil || op == nil {
		panic("engine: DetachOperation with nil argument")
	}
	n := 0
	for _, listID := range rel.ListsOf(op.ID) {
		if rel.remove(MembershipKey{ListID: listID, OperationID: op.ID}) {
			n++
		}
	}
	return n
}

func mustMembershipArgs(rel *Memberships, list *model.FavoriteList, op *model.Operation) {
	if rel == nil || list == nil || op == nil {
		panic("engine: membership change with nil argument")
	}
}

func sortMemberships(ms []model.FavoriteMembership) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].ListID != ms[j].ListID {
			return ms[i].ListID < ms[j].ListID
		}
		return ms[i].OperationID < ms[j].OperationID
	})
}
