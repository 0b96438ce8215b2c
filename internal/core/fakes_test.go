package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"animehub/pkg/models"
)

// In-memory repository fakes. Tx variants ignore the transaction handle;
// fakeTxManager passes a nil tx through.

type fakeTxManager struct {
	fail error
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if m.fail != nil {
		return m.fail
	}
	return fn(nil)
}

type fakeContentRepo struct {
	versions    map[string]*models.ContentVersion
	insertCalls int
	failInsert  error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{versions: make(map[string]*models.ContentVersion)}
}

func (r *fakeContentRepo) sameTuple(v *models.ContentVersion, tuple models.ContentTuple) bool {
	return v.EntityType == tuple.EntityType && v.EntityID == tuple.EntityID &&
		v.ContentType == tuple.ContentType && v.Language == tuple.Language
}

func (r *fakeContentRepo) Insert(ctx context.Context, version *models.ContentVersion) error {
	r.insertCalls++
	if r.failInsert != nil {
		return r.failInsert
	}
	for _, v := range r.versions {
		if r.sameTuple(v, models.ContentTuple{
			EntityType: version.EntityType, EntityID: version.EntityID,
			ContentType: version.ContentType, Language: version.Language,
		}) && v.Status == models.VersionStatusPending {
			return models.ErrDuplicatePending
		}
	}
	cp := *version
	r.versions[version.ID] = &cp
	return nil
}

func (r *fakeContentRepo) GetByID(ctx context.Context, id string) (*models.ContentVersion, error) {
	v, ok := r.versions[id]
	if !ok {
		return nil, models.ErrVersionNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeContentRepo) GetLatestApproved(ctx context.Context, tuple models.ContentTuple) (*models.ContentVersion, error) {
	var latest *models.ContentVersion
	for _, v := range r.versions {
		if r.sameTuple(v, tuple) && v.Status == models.VersionStatusApproved {
			if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
				latest = v
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeContentRepo) HasPending(ctx context.Context, tuple models.ContentTuple) (bool, error) {
	for _, v := range r.versions {
		if r.sameTuple(v, tuple) && v.Status == models.VersionStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeContentRepo) List(ctx context.Context, filter models.VersionFilter) ([]*models.ModerationVersion, int, error) {
	var out []*models.ModerationVersion
	for _, v := range r.versions {
		if filter.Status != "" && filter.Status != "all" && string(v.Status) != filter.Status {
			continue
		}
		if filter.ContentType != "" && string(v.ContentType) != filter.ContentType {
			continue
		}
		if filter.EntityType != "" && string(v.EntityType) != filter.EntityType {
			continue
		}
		if filter.Language != "" && v.Language != filter.Language {
			continue
		}
		out = append(out, &models.ModerationVersion{ContentVersion: *v, SubmitterName: v.CreatedBy})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *fakeContentRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ContentVersion, int, error) {
	var out []*models.ContentVersion
	for _, v := range r.versions {
		if v.CreatedBy == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *fakeContentRepo) CountApprovedByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, v := range r.versions {
		if v.CreatedBy == userID && v.Status == models.VersionStatusApproved {
			count++
		}
	}
	return count, nil
}

func (r *fakeContentRepo) ResolveTx(ctx context.Context, tx pgx.Tx, id string, decision models.VersionStatus) (*models.ContentVersion, error) {
	v, ok := r.versions[id]
	if !ok {
		return nil, models.ErrVersionNotFound
	}
	if v.Status != models.VersionStatusPending {
		return nil, models.ErrAlreadyResolved
	}
	now := time.Now()
	v.Status = decision
	v.UpdatedAt = &now
	if decision == models.VersionStatusRejected {
		v.RejectedAt = &now
	}
	cp := *v
	return &cp, nil
}

type fakePointsRepo struct {
	totals map[string]int
	fail   error
}

func newFakePointsRepo() *fakePointsRepo {
	return &fakePointsRepo{totals: make(map[string]int)}
}

func (r *fakePointsRepo) Get(ctx context.Context, userID string) (*models.UserPoints, error) {
	points := r.totals[userID]
	return &models.UserPoints{UserID: userID, Points: points, Level: models.LevelForPoints(points)}, nil
}

func (r *fakePointsRepo) Award(ctx context.Context, userID string, amount int) (*models.UserPoints, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	r.totals[userID] += amount
	return r.Get(ctx, userID)
}

func (r *fakePointsRepo) AwardTx(ctx context.Context, tx pgx.Tx, userID string, amount int) (*models.UserPoints, error) {
	return r.Award(ctx, userID, amount)
}

func (r *fakePointsRepo) Top(ctx context.Context, limit int) ([]*models.UserPoints, error) {
	var out []*models.UserPoints
	for id := range r.totals {
		up, _ := r.Get(ctx, id)
		out = append(out, up)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
	fail          error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if r.fail != nil {
		return r.fail
	}
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *fakeNotificationRepo) CreateTx(ctx context.Context, tx pgx.Tx, n *models.Notification) error {
	return r.Create(ctx, n)
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error) {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) byType(notificationType string) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.Type == notificationType {
			out = append(out, n)
		}
	}
	return out
}

type fakeAchievementRepo struct {
	granted map[string]map[string]bool // userID -> achievementID
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{granted: make(map[string]map[string]bool)}
}

func (r *fakeAchievementRepo) ListByUser(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	var out []*models.UserAchievement
	for id := range r.granted[userID] {
		out = append(out, &models.UserAchievement{UserID: userID, AchievementID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementID < out[j].AchievementID })
	return out, nil
}

func (r *fakeAchievementRepo) Grant(ctx context.Context, grant *models.UserAchievement) (bool, error) {
	if r.granted[grant.UserID] == nil {
		r.granted[grant.UserID] = make(map[string]bool)
	}
	if r.granted[grant.UserID][grant.AchievementID] {
		return false, nil
	}
	r.granted[grant.UserID][grant.AchievementID] = true
	return true, nil
}

type fakeReviewRepo struct {
	reviews map[string]*models.Review // key: userID|jikanID|language
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func reviewKey(userID string, jikanID int64, language string) string {
	return fmt.Sprintf("%s|%d|%s", userID, jikanID, language)
}

func (r *fakeReviewRepo) Upsert(ctx context.Context, review *models.Review) (bool, error) {
	key := reviewKey(review.UserID, review.JikanID, review.Language)
	_, exists := r.reviews[key]
	cp := *review
	r.reviews[key] = &cp
	return !exists, nil
}

func (r *fakeReviewRepo) ListByAnime(ctx context.Context, jikanID int64, language string, limit, offset int) ([]*models.ReviewWithUser, int, error) {
	var out []*models.ReviewWithUser
	for _, rv := range r.reviews {
		if rv.JikanID == jikanID && (language == "" || rv.Language == language) {
			out = append(out, &models.ReviewWithUser{Review: *rv, Username: rv.UserID})
		}
	}
	return out, len(out), nil
}

func (r *fakeReviewRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeBookmarkRepo struct {
	bookmarks map[string]*models.Bookmark
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{bookmarks: make(map[string]*models.Bookmark)}
}

func (r *fakeBookmarkRepo) Create(ctx context.Context, b *models.Bookmark) error {
	cp := *b
	r.bookmarks[b.ID] = &cp
	return nil
}

func (r *fakeBookmarkRepo) Delete(ctx context.Context, userID, bookmarkID string) error {
	b, ok := r.bookmarks[bookmarkID]
	if !ok || b.UserID != userID {
		return models.ErrNotFound
	}
	delete(r.bookmarks, bookmarkID)
	return nil
}

func (r *fakeBookmarkRepo) DeleteByTuple(ctx context.Context, userID string, entityID int64, entityType models.EntityType, category models.BookmarkCategory) (bool, error) {
	for id, b := range r.bookmarks {
		if b.UserID == userID && b.EntityID == entityID && b.EntityType == entityType && b.Category == category {
			delete(r.bookmarks, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookmarkRepo) ListByUser(ctx context.Context, userID string, category string) ([]*models.Bookmark, error) {
	var out []*models.Bookmark
	for _, b := range r.bookmarks {
		if b.UserID == userID && (category == "" || string(b.Category) == category) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBookmarkRepo) Exists(ctx context.Context, userID string, entityID int64, entityType models.EntityType, category models.BookmarkCategory) (bool, error) {
	for _, b := range r.bookmarks {
		if b.UserID == userID && b.EntityID == entityID && b.EntityType == entityType && b.Category == category {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return models.ErrUsernameExists
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	u, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) ListModerators(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.Role == models.UserRoleModerator || u.Role == models.UserRoleAdmin {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type capturePublisher struct {
	published []*models.Notification
}

func (p *capturePublisher) Publish(userID string, n *models.Notification) {
	p.published = append(p.published, n)
}
