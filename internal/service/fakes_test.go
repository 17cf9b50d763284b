package service

import (
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/llm"
	mongorepo "CookingSecret/internal/pkg/mongo"
	"CookingSecret/internal/repository"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errFake = errors.New("fake failure")

type pair [2]uint64

// memDB 内存版关系存储，计数只在 Recount 时变化，便于校验计数与关系一致
type memDB struct {
	mu sync.Mutex

	users    map[uint64]*model.User
	follows  map[pair]time.Time
	recipes  map[uint64]*model.Recipe
	likes    map[pair]int64
	saves    map[pair]int64
	comments map[uint64]*model.Comment
	purchase map[pair]*model.Purchase
	outbox   []*model.NotificationOutbox

	nextID      uint64
	clock       int64
	failRecount  bool
	failMarkSent bool

	// afterFollowingLoad 在关注列表快照取出后执行一次，用于模拟并发写入
	afterFollowingLoad func()
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[uint64]*model.User),
		follows:  make(map[pair]time.Time),
		recipes:  make(map[uint64]*model.Recipe),
		likes:    make(map[pair]int64),
		saves:    make(map[pair]int64),
		comments: make(map[uint64]*model.Comment),
		purchase: make(map[pair]*model.Purchase),
	}
}

func (m *memDB) id() uint64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) tick() time.Time {
	m.clock++
	return time.Unix(1_700_000_000+m.clock, 0)
}

func (m *memDB) addUser(username, role string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &model.User{
		ID: m.id(), Email: username + "@example.com", Username: username,
		Role: role, IsActive: true, CreatedAt: m.tick(),
	}
	m.users[u.ID] = u
	return u
}

func (m *memDB) addRecipe(authorID uint64, title string) *model.Recipe {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &model.Recipe{
		ID: m.id(), AuthorID: authorID, Title: title, IsApproved: true,
		Difficulty: model.DifficultyEasy, Category: "Dinner", CreatedAt: m.tick(),
	}
	m.recipes[r.ID] = r
	return r
}

func (m *memDB) user(id uint64) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

func (m *memDB) recipe(id uint64) model.Recipe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.recipes[id]
}

// ---- UserRepo ----

func (m *memDB) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (m *memDB) GetUserByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			c := *u
			res = append(res, &c)
		}
	}
	return res, nil
}

func (m *memDB) findUser(match func(u *model.User) bool) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			c := *u
			return &c
		}
	}
	return nil
}

func (m *memDB) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return m.findUser(func(u *model.User) bool { return u.Email == email }), nil
}

func (m *memDB) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	return m.findUser(func(u *model.User) bool { return u.Username == username }), nil
}

func (m *memDB) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return &repository.DuplicateKeyError{Index: repository.IdxEmail}
		}
		if u.Username == user.Username {
			return &repository.DuplicateKeyError{Index: repository.IdxUsername}
		}
	}
	if len(m.users) == 0 {
		user.Role = model.RoleAdmin
	}
	user.ID = m.id()
	user.CreatedAt = m.tick()
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *memDB) UpdateProfile(_ context.Context, id uint64, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	for k, v := range fields {
		switch k {
		case "full_name":
			u.FullName = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "profile_image":
			u.ProfileImage = v.(string)
		}
	}
	return nil
}

func (m *memDB) UpdateRole(_ context.Context, id uint64, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Role = role
		return 1, nil
	}
	return 0, nil
}

func (m *memDB) UpdateActive(_ context.Context, id uint64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].IsActive = active
	return nil
}

func (m *memDB) ListUsers(_ context.Context, limit, offset int) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), nil
}

func (m *memDB) CountUsers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memDB) CountByRole(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make(map[string]int64, len(model.Roles))
	for _, r := range model.Roles {
		res[r] = 0
	}
	for _, u := range m.users {
		res[u.Role]++
	}
	return res, nil
}

// ---- UserFollowRepo ----

func (m *memDB) CreateUserFollow(_ context.Context, followerID, followingID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pair{followerID, followingID}
	if _, ok := m.follows[key]; ok {
		return false, nil
	}
	m.follows[key] = m.tick()
	return true, nil
}

func (m *memDB) DeleteUserFollow(_ context.Context, followerID, followingID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pair{followerID, followingID}
	if _, ok := m.follows[key]; !ok {
		return false, nil
	}
	delete(m.follows, key)
	return true, nil
}

func (m *memDB) GetUserFollow(_ context.Context, followerID, followingID uint64) (*model.UserFollow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if at, ok := m.follows[pair{followerID, followingID}]; ok {
		return &model.UserFollow{FollowerID: followerID, FollowingID: followingID, CreatedAt: at}, nil
	}
	return nil, nil
}

func (m *memDB) followList(match func(p pair) bool) []*model.UserFollow {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]*model.UserFollow, 0)
	for p, at := range m.follows {
		if match(p) {
			res = append(res, &model.UserFollow{FollowerID: p[0], FollowingID: p[1], CreatedAt: at})
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (m *memDB) GetUserFollowers(_ context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return page(m.followList(func(p pair) bool { return p[1] == userID }), limit, offset), nil
}

func (m *memDB) GetUserFollowing(_ context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return page(m.followList(func(p pair) bool { return p[0] == userID }), limit, offset), nil
}

func (m *memDB) GetAllFollowing(_ context.Context, userID uint64) ([]*model.UserFollow, error) {
	list := m.followList(func(p pair) bool { return p[0] == userID })
	m.mu.Lock()
	hook := m.afterFollowingLoad
	m.afterFollowingLoad = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return list, nil
}

func (m *memDB) GetUserFollowingCount(_ context.Context, userID uint64) (int64, error) {
	return int64(len(m.followList(func(p pair) bool { return p[0] == userID }))), nil
}

// ---- RecipeRepo ----

func (m *memDB) CreateRecipe(_ context.Context, recipe *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe.ID = m.id()
	recipe.CreatedAt = m.tick()
	recipe.UpdatedAt = recipe.CreatedAt
	c := *recipe
	m.recipes[recipe.ID] = &c
	return nil
}

func (m *memDB) GetRecipeByID(_ context.Context, id uint64) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.recipes[id]; ok && !r.IsDeleted {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (m *memDB) GetRecipesByIDs(_ context.Context, ids []uint64) ([]*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]*model.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := m.recipes[id]; ok && !r.IsDeleted {
			c := *r
			res = append(res, &c)
		}
	}
	return res, nil
}

func (m *memDB) UpdateRecipe(_ context.Context, id uint64, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.recipes[id]
	for k, v := range fields {
		switch k {
		case "title":
			r.Title = v.(string)
		case "description":
			r.Description = v.(string)
		case "image":
			r.Image = v.(string)
		case "is_paid":
			r.IsPaid = v.(bool)
		case "price":
			r.Price = v.(float64)
		case "category":
			r.Category = v.(string)
		case "tags":
			r.Tags = v.([]string)
		case "steps":
			r.Steps = v.([]model.Step)
		}
	}
	r.UpdatedAt = m.tick()
	return nil
}

func (m *memDB) DeleteRecipe(_ context.Context, id uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok || r.IsDeleted {
		return false, nil
	}
	r.IsDeleted = true
	for p := range m.likes {
		if p[1] == id {
			delete(m.likes, p)
		}
	}
	for p := range m.saves {
		if p[1] == id {
			delete(m.saves, p)
		}
	}
	for _, c := range m.comments {
		if c.RecipeID == id {
			c.IsDeleted = true
		}
	}
	return true, nil
}

func (m *memDB) listRecipes(match func(r *model.Recipe) bool, less func(a, b *model.Recipe) bool) []*model.Recipe {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]*model.Recipe, 0)
	for _, r := range m.recipes {
		if !r.IsDeleted && r.IsApproved && match(r) {
			c := *r
			res = append(res, &c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return less(res[i], res[j]) })
	return res
}

func newestFirst(a, b *model.Recipe) bool { return a.ID > b.ID }

func (m *memDB) ListRecipes(_ context.Context, filter repository.RecipeFilter, limit, offset int) ([]*model.Recipe, error) {
	all := m.listRecipes(func(r *model.Recipe) bool {
		return (filter.Category == "" || r.Category == filter.Category) &&
			(filter.AuthorID == 0 || r.AuthorID == filter.AuthorID) &&
			(!filter.FeaturedOnly || r.IsFeatured)
	}, newestFirst)
	return page(all, limit, offset), nil
}

func (m *memDB) ListByAuthors(_ context.Context, authorIDs []uint64, excludeAuthorID uint64, limit, offset int) ([]*model.Recipe, error) {
	authors := idSet(authorIDs)
	all := m.listRecipes(func(r *model.Recipe) bool {
		_, ok := authors[r.AuthorID]
		return ok && r.AuthorID != excludeAuthorID
	}, newestFirst)
	return page(all, limit, offset), nil
}

func (m *memDB) ListPopular(_ context.Context, limit, offset int) ([]*model.Recipe, error) {
	all := m.listRecipes(func(*model.Recipe) bool { return true }, func(a, b *model.Recipe) bool {
		if a.LikesCount != b.LikesCount {
			return a.LikesCount > b.LikesCount
		}
		return a.ID > b.ID
	})
	return page(all, limit, offset), nil
}

func (m *memDB) ListRecent(_ context.Context, limit, offset int) ([]*model.Recipe, error) {
	return page(m.listRecipes(func(*model.Recipe) bool { return true }, newestFirst), limit, offset), nil
}

func (m *memDB) SearchRecipes(_ context.Context, keyword string, limit, offset int) ([]*model.Recipe, error) {
	kw := strings.ToLower(keyword)
	all := m.listRecipes(func(r *model.Recipe) bool {
		return strings.Contains(strings.ToLower(r.Title), kw) || strings.Contains(strings.ToLower(r.Description), kw)
	}, newestFirst)
	return page(all, limit, offset), nil
}

func (m *memDB) CountRecipes(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.recipes {
		if !r.IsDeleted {
			n++
		}
	}
	return n, nil
}

// ---- RecipeActionRepo ----

func toggleCreate(set map[pair]int64, p pair, seq int64) bool {
	if _, ok := set[p]; ok {
		return false
	}
	set[p] = seq
	return true
}

func toggleDelete(set map[pair]int64, p pair) bool {
	if _, ok := set[p]; !ok {
		return false
	}
	delete(set, p)
	return true
}

func (m *memDB) CreateLike(_ context.Context, userID, recipeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock++
	return toggleCreate(m.likes, pair{userID, recipeID}, m.clock), nil
}

func (m *memDB) DeleteLike(_ context.Context, userID, recipeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toggleDelete(m.likes, pair{userID, recipeID}), nil
}

func (m *memDB) CheckLikeExists(_ context.Context, userID, recipeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.likes[pair{userID, recipeID}]
	return ok, nil
}

func filterIDs(set map[pair]int64, userID uint64, recipeIDs []uint64) []uint64 {
	res := make([]uint64, 0)
	for _, id := range recipeIDs {
		if _, ok := set[pair{userID, id}]; ok {
			res = append(res, id)
		}
	}
	return res
}

func (m *memDB) GetLikedRecipeIDs(_ context.Context, userID uint64, recipeIDs []uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterIDs(m.likes, userID, recipeIDs), nil
}

func (m *memDB) CreateSave(_ context.Context, userID, recipeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock++
	return toggleCreate(m.saves, pair{userID, recipeID}, m.clock), nil
}

func (m *memDB) DeleteSave(_ context.Context, userID, recipeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toggleDelete(m.saves, pair{userID, recipeID}), nil
}

func (m *memDB) CheckSaveExists(_ context.Context, userID, recipeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.saves[pair{userID, recipeID}]
	return ok, nil
}

func (m *memDB) GetSavedRecipeIDs(_ context.Context, userID uint64, recipeIDs []uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterIDs(m.saves, userID, recipeIDs), nil
}

func (m *memDB) ListSavedRecipeIDs(_ context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type saved struct {
		id  uint64
		seq int64
	}
	list := make([]saved, 0)
	for p, seq := range m.saves {
		if p[0] == userID {
			list = append(list, saved{p[1], seq})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq > list[j].seq })
	ids := make([]uint64, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.id)
	}
	return page(ids, limit, offset), nil
}

func (m *memDB) CreateComment(_ context.Context, comment *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.id()
	comment.CreatedAt = m.tick()
	c := *comment
	m.comments[comment.ID] = &c
	return nil
}

func (m *memDB) GetCommentByID(_ context.Context, commentID uint64) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comments[commentID]; ok && !c.IsDeleted {
		cc := *c
		return &cc, nil
	}
	return nil, nil
}

func (m *memDB) ListComments(_ context.Context, recipeID uint64, limit, offset int) ([]*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]*model.Comment, 0)
	for _, c := range m.comments {
		if c.RecipeID == recipeID && !c.IsDeleted {
			cc := *c
			res = append(res, &cc)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return page(res, limit, offset), nil
}

func (m *memDB) DeleteComment(_ context.Context, commentID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok || c.IsDeleted {
		return false, nil
	}
	c.IsDeleted = true
	return true, nil
}

func (m *memDB) CountComments(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.comments {
		if !c.IsDeleted {
			n++
		}
	}
	return n, nil
}

// ---- CounterRepo ----

func (m *memDB) counterPtr(field model.CounterField, id uint64) *int64 {
	switch field.Name {
	case model.RecipeLikes.Name:
		return &m.recipes[id].LikesCount
	case model.RecipeSaves.Name:
		return &m.recipes[id].SavesCount
	case model.RecipeComments.Name:
		return &m.recipes[id].CommentsCount
	case model.UserFollowers.Name:
		return &m.users[id].FollowersCount
	case model.UserFollowing.Name:
		return &m.users[id].FollowingCount
	case model.UserRecipes.Name:
		return &m.users[id].RecipesCount
	}
	return nil
}

// truth 关系表中的真实数量，调用方需持有锁
func (m *memDB) truth(field model.CounterField, id uint64) int64 {
	var n int64
	switch field.Name {
	case model.RecipeLikes.Name:
		for p := range m.likes {
			if p[1] == id {
				n++
			}
		}
	case model.RecipeSaves.Name:
		for p := range m.saves {
			if p[1] == id {
				n++
			}
		}
	case model.RecipeComments.Name:
		for _, c := range m.comments {
			if c.RecipeID == id && !c.IsDeleted {
				n++
			}
		}
	case model.UserFollowers.Name:
		for p := range m.follows {
			if p[1] == id {
				n++
			}
		}
	case model.UserFollowing.Name:
		for p := range m.follows {
			if p[0] == id {
				n++
			}
		}
	case model.UserRecipes.Name:
		for _, r := range m.recipes {
			if r.AuthorID == id && !r.IsDeleted {
				n++
			}
		}
	}
	return n
}

func (m *memDB) truthOf(field model.CounterField, id uint64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.truth(field, id)
}

func (m *memDB) Recount(_ context.Context, field model.CounterField, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRecount {
		return errFake
	}
	*m.counterPtr(field, id) = m.truth(field, id)
	return nil
}

func (m *memDB) ListIDs(_ context.Context, table string, afterID uint64, limit int) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint64, 0)
	if table == "users" {
		for id := range m.users {
			ids = append(ids, id)
		}
	} else {
		for id := range m.recipes {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	res := make([]uint64, 0, limit)
	for _, id := range ids {
		if id > afterID && len(res) < limit {
			res = append(res, id)
		}
	}
	return res, nil
}

// ---- PurchaseRepo ----

func (m *memDB) CreatePurchase(_ context.Context, purchase *model.Purchase) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pair{purchase.UserID, purchase.RecipeID}
	if _, ok := m.purchase[key]; ok {
		return false, nil
	}
	purchase.ID = m.id()
	purchase.CreatedAt = m.tick()
	m.purchase[key] = purchase
	return true, nil
}

func (m *memDB) CheckPurchaseExists(_ context.Context, userID, recipeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.purchase[pair{userID, recipeID}]
	return ok, nil
}

func (m *memDB) ListPurchasedRecipeIDs(_ context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*model.Purchase, 0)
	for p, v := range m.purchase {
		if p[0] == userID {
			list = append(list, v)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	ids := make([]uint64, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.RecipeID)
	}
	return page(ids, limit, offset), nil
}

// ---- OutboxRepo ----

func (m *memDB) CreateOutbox(_ context.Context, cmd model.NotifyCommand, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbox = append(m.outbox, &model.NotificationOutbox{
		ID: m.id(), RecipientID: cmd.RecipientID, Payload: cmd, LastError: lastError,
	})
	return nil
}

func (m *memDB) ListPending(_ context.Context, limit int) ([]*model.NotificationOutbox, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]*model.NotificationOutbox, 0)
	for _, o := range m.outbox {
		if o.Status == model.OutboxStatusPending && len(res) < limit {
			c := *o
			res = append(res, &c)
		}
	}
	return res, nil
}

func (m *memDB) MarkSent(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMarkSent {
		return errFake
	}
	for _, o := range m.outbox {
		if o.ID == id {
			o.Status = model.OutboxStatusSent
		}
	}
	return nil
}

func (m *memDB) MarkRetry(_ context.Context, id uint64, retry int, lastError string, failed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.outbox {
		if o.ID == id {
			o.Retry = retry
			o.LastError = lastError
			if failed {
				o.Status = model.OutboxStatusFailed
			}
		}
	}
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ---- mongo fakes ----

type memNotifications struct {
	mu    sync.Mutex
	items []*mongorepo.Notification
}

func (f *memNotifications) Create(_ context.Context, n *mongorepo.Notification) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.EventID != "" {
		for _, item := range f.items {
			if item.EventID == n.EventID {
				return false, nil
			}
		}
	}
	n.ID = primitive.NewObjectID()
	c := *n
	f.items = append(f.items, &c)
	return true, nil
}

func (f *memNotifications) forRecipient(recipientID uint64) []*mongorepo.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]*mongorepo.Notification, 0)
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].RecipientID == recipientID {
			c := *f.items[i]
			res = append(res, &c)
		}
	}
	return res
}

func (f *memNotifications) List(_ context.Context, recipientID uint64, skip, limit int64) ([]*mongorepo.Notification, error) {
	return page(f.forRecipient(recipientID), int(limit), int(skip)), nil
}

func (f *memNotifications) CountUnread(_ context.Context, recipientID uint64) (int64, error) {
	var n int64
	for _, item := range f.forRecipient(recipientID) {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *memNotifications) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*mongorepo.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]*mongorepo.Notification, 0)
	for _, item := range f.items {
		for _, id := range ids {
			if item.ID == id {
				c := *item
				res = append(res, &c)
			}
		}
	}
	return res, nil
}

func (f *memNotifications) MarkRead(_ context.Context, recipientID uint64, ids []primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		for _, id := range ids {
			if item.ID == id && item.RecipientID == recipientID && !item.IsRead {
				item.IsRead = true
				n++
			}
		}
	}
	return n, nil
}

func (f *memNotifications) MarkAllRead(_ context.Context, recipientID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if item.RecipientID == recipientID && !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

type memChat struct {
	messages []*mongorepo.ChatMessage
}

func (f *memChat) SaveMessage(_ context.Context, msg *mongorepo.ChatMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *memChat) GetHistory(_ context.Context, userID uint64, sessionID string, limit int) ([]*mongorepo.ChatMessage, error) {
	res := make([]*mongorepo.ChatMessage, 0)
	for _, m := range f.messages {
		if m.UserID == userID && (sessionID == "" || m.SessionID == sessionID) {
			res = append(res, m)
		}
	}
	if len(res) > limit {
		res = res[len(res)-limit:]
	}
	return res, nil
}

func (f *memChat) ListSessions(_ context.Context, userID uint64, limit int) ([]*mongorepo.ChatSession, error) {
	bySession := make(map[string]*mongorepo.ChatSession)
	order := make([]string, 0)
	for _, m := range f.messages {
		if m.UserID != userID {
			continue
		}
		s, ok := bySession[m.SessionID]
		if !ok {
			s = &mongorepo.ChatSession{SessionID: m.SessionID}
			bySession[m.SessionID] = s
			order = append(order, m.SessionID)
		}
		s.LastMessage = m.Content
		s.MessageCount++
		s.UpdatedAt = m.CreatedAt
	}
	res := make([]*mongorepo.ChatSession, 0, len(order))
	for _, id := range order {
		res = append(res, bySession[id])
	}
	return page(res, limit, 0), nil
}

func (f *memChat) DeleteSession(_ context.Context, userID uint64, sessionID string) (int64, error) {
	kept := f.messages[:0]
	var n int64
	for _, m := range f.messages {
		if m.UserID == userID && m.SessionID == sessionID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept
	return n, nil
}

// ---- infrastructure fakes ----

type memDirty struct {
	mu   sync.Mutex
	refs map[string]model.CounterRef
}

func newMemDirty() *memDirty {
	return &memDirty{refs: make(map[string]model.CounterRef)}
}

func (d *memDirty) MarkDirty(_ context.Context, ref model.CounterRef) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs[ref.String()] = ref
	return nil
}

func (d *memDirty) Drain(ctx context.Context, fn func(ctx context.Context, ref model.CounterRef) error) (int, int, error) {
	d.mu.Lock()
	refs := d.refs
	d.refs = make(map[string]model.CounterRef)
	d.mu.Unlock()

	ok := 0
	for _, ref := range refs {
		if err := fn(ctx, ref); err != nil {
			_ = d.MarkDirty(ctx, ref)
			continue
		}
		ok++
	}
	return len(refs), ok, nil
}

func (d *memDirty) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.refs)
}

// memFollowCache 与 redis.FollowCache 相同的版本语义
type memFollowCache struct {
	mu       sync.Mutex
	data     map[string][]uint64
	versions map[string]int64
	gets     int
	hits     int
	skipped  int
}

func newMemFollowCache() *memFollowCache {
	return &memFollowCache{data: make(map[string][]uint64), versions: make(map[string]int64)}
}

func (c *memFollowCache) Get(_ context.Context, key string, offset, limit int) ([]uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	ids := page(c.data[key], limit, offset)
	if len(ids) == 0 {
		return nil, false
	}
	c.hits++
	return ids, true
}

func (c *memFollowCache) Version(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[key], nil
}

func (c *memFollowCache) Set(_ context.Context, key string, version int64, ids []uint64, _ []float64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 {
		return false, nil
	}
	if c.versions[key] != version {
		c.skipped++
		return false, nil
	}
	c.data[key] = append([]uint64(nil), ids...)
	return true, nil
}

func (c *memFollowCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key]++
	delete(c.data, key)
	return nil
}

type memTokens struct {
	revoked map[string]time.Duration
}

func (t *memTokens) Revoke(_ context.Context, signature string, ttl time.Duration) error {
	t.revoked[signature] = ttl
	return nil
}

func (t *memTokens) IsRevoked(_ context.Context, signature string) (bool, error) {
	_, ok := t.revoked[signature]
	return ok, nil
}

type recordPublisher struct {
	mu     sync.Mutex
	counts map[uint64]int64
}

func (p *recordPublisher) PublishUnread(_ context.Context, userID uint64, count int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counts == nil {
		p.counts = make(map[uint64]int64)
	}
	p.counts[userID] = count
	return nil
}

type failingDispatcher struct {
	err     error
	cmds    []model.NotifyCommand
	deliver func(ctx context.Context, cmd model.NotifyCommand) error
}

func (d *failingDispatcher) Dispatch(ctx context.Context, cmd model.NotifyCommand) error {
	if d.err != nil {
		return d.err
	}
	d.cmds = append(d.cmds, cmd)
	if d.deliver != nil {
		return d.deliver(ctx, cmd)
	}
	return nil
}

type fakeImages struct {
	saved   []string
	deleted []string
	err     error
}

func (f *fakeImages) Save(_ context.Context, prefix, src string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := prefix + "/" + src
	f.saved = append(f.saved, key)
	return key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) URL(key string) string {
	if key == "" {
		return ""
	}
	return "http://cdn/" + key
}

type fakeIndex struct {
	indexed map[uint64]string
	ids     []uint64
	err     error
}

func (f *fakeIndex) IndexRecipe(_ context.Context, recipe *model.Recipe) error {
	if f.indexed == nil {
		f.indexed = make(map[uint64]string)
	}
	f.indexed[recipe.ID] = recipe.Title
	return nil
}

func (f *fakeIndex) DeleteRecipe(_ context.Context, id uint64) error {
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) SearchRecipes(_ context.Context, _ string, _, _ int) ([]uint64, error) {
	return f.ids, f.err
}

type fakeChatModel struct {
	history  []llm.Turn
	question string
	reply    string
	err      error
}

func (f *fakeChatModel) Reply(_ context.Context, history []llm.Turn, question string) (string, error) {
	f.history = history
	f.question = question
	return f.reply, f.err
}

// env 组装一套基于内存存储的服务
type env struct {
	db        *memDB
	dirty     *memDirty
	cache     *memFollowCache
	notes     *memNotifications
	publisher *recordPublisher
	images    *fakeImages

	counters      CounterService
	notifications NotificationService
	follows       UserFollowService
	recipes       RecipeService
	actions       RecipeActionService
	feed          FeedService
	users         UserService
	purchases     PurchaseService
	admin         AdminService
}

func newEnv() *env {
	e := &env{
		db:        newMemDB(),
		dirty:     newMemDirty(),
		cache:     newMemFollowCache(),
		notes:     &memNotifications{},
		publisher: &recordPublisher{},
		images:    &fakeImages{},
	}
	policy := NewAccessPolicy()
	locker := NewKeyedMutex()
	assembler := NewRecipeAssembler(e.db, e.db, e.images)

	e.counters = NewCounterService(e.db, e.dirty)
	e.notifications = NewNotificationService(e.notes, e.db, e.db, nil, e.publisher, policy, e.images, 10, 3)
	e.follows = NewUserFollowService(e.db, e.db, e.counters, e.notifications, locker, e.cache, e.images)
	e.recipes = NewRecipeService(e.db, e.db, e.counters, policy, assembler, e.images, nil)
	e.actions = NewRecipeActionService(e.db, e.db, e.db, e.counters, e.notifications, policy, locker, e.images)
	e.feed = NewFeedService(e.db, e.follows, assembler, "")
	e.users = NewUserService(e.db, &memTokens{revoked: make(map[string]time.Duration)}, policy, e.images)
	e.purchases = NewPurchaseService(e.db, e.db, policy, assembler)
	e.admin = NewAdminService(e.db, e.db, e.db, e.counters, policy)
	return e
}

func actorOf(u *model.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
