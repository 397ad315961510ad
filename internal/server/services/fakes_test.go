package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/config"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/activitylog"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/addons"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/blocklists"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/collections"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/groups"
	refreshtokensrepo "github.com/dmitrijs2005/addonaccounts/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/translations"
	usersrepo "github.com/dmitrijs2005/addonaccounts/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		MediaURL:                     "https://cdn.example/user-media/",
		StaticURL:                    "https://cdn.example/static/",
		DefaultApp:                   "firefox",
	}
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager, opts ...UserServiceOption) *UserService {
	t.Helper()
	return NewUserService(db, rm, testConfig(), opts...)
}

func strp(s string) *string { return &s }

// --- users ---

type fakeUsersRepo struct {
	byID    map[int64]*models.User
	history map[int64][]string
	nextID  int64

	createErr error
	getErr    error
	swapErr   error
	saveErr   error
	// swapLoses makes SwapPassword behave as if another writer got there first.
	swapLoses bool
	swaps     int
	// afterGet runs once GetByID has copied the row, to interleave a writer.
	afterGet func()
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[int64]*models.User{}, history: map[int64][]string{}, nextID: 100}
	for _, u := range users {
		cp := *u
		f.byID[u.ID] = &cp
	}
	return f
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, err := f.find(func(x *models.User) bool { return x.Username == u.Username }); err == nil {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, err := f.find(func(u *models.User) bool { return u.ID == id })
	if err == nil && f.afterGet != nil {
		f.afterGet()
	}
	return u, err
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.find(func(u *models.User) bool { return u.Username == username && !u.Deleted })
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.find(func(u *models.User) bool { return u.Email != nil && *u.Email == email && !u.Deleted })
}

func (f *fakeUsersRepo) SwapPassword(ctx context.Context, userID int64, expected, encoded string) (bool, error) {
	f.swaps++
	if f.swapErr != nil {
		return false, f.swapErr
	}
	u, ok := f.byID[userID]
	if !ok || f.swapLoses || u.Password != expected {
		return false, nil
	}
	u.Password = encoded
	return true, nil
}

func (f *fakeUsersRepo) DisablePassword(ctx context.Context, userID int64, encoded string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if u, ok := f.byID[userID]; ok {
		u.Password = encoded
	}
	return nil
}

// Save keeps the stored password, like the real UPDATE.
func (f *fakeUsersRepo) Save(ctx context.Context, u *models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *u
	if old, ok := f.byID[u.ID]; ok {
		cp.Password = old.Password
	}
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) ([]*models.User, error) {
	var out []*models.User
	for id, u := range f.byID {
		match := u.Email != nil && *u.Email == email
		for _, old := range f.history[id] {
			match = match || old == email
		}
		if match {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsersRepo) RecordEmail(ctx context.Context, userID int64, email string) error {
	f.history[userID] = append(f.history[userID], email)
	return nil
}

// --- groups ---

type fakeGroupsRepo struct {
	byName  map[string]*models.Group
	members map[int64][]int64
	nextID  int64
	err     error
}

func newFakeGroupsRepo() *fakeGroupsRepo {
	return &fakeGroupsRepo{byName: map[string]*models.Group{}, members: map[int64][]int64{}}
}

func (f *fakeGroupsRepo) GetByName(ctx context.Context, name string) (*models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	g, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroupsRepo) Create(ctx context.Context, name, rules string) (*models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	g := &models.Group{ID: f.nextID, Name: name, Rules: rules}
	f.byName[name] = g
	cp := *g
	return &cp, nil
}

func (f *fakeGroupsRepo) AddMember(ctx context.Context, groupID, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.members[userID] = append(f.members[userID], groupID)
	return nil
}

func (f *fakeGroupsRepo) RemoveMember(ctx context.Context, groupID, userID int64) error {
	ids := f.members[userID][:0]
	for _, id := range f.members[userID] {
		if id != groupID {
			ids = append(ids, id)
		}
	}
	f.members[userID] = ids
	return nil
}

func (f *fakeGroupsRepo) ForUser(ctx context.Context, userID int64) ([]models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Group
	for _, g := range f.byName {
		for _, id := range f.members[userID] {
			if id == g.ID {
				out = append(out, *g)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr    error
	createErr error

	created        []string
	deleted        []string
	deletedForUser []int64
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.findOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	for _, d := range f.deleted {
		if d == token {
			return common.ErrorNotFound
		}
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteForUser(ctx context.Context, userID int64) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deletedForUser = append(f.deletedForUser, userID)
	return nil
}

// --- addons ---

type fakeAddonsRepo struct {
	addons   map[int64]*models.Addon
	versions map[int64]*models.Version
	authors  map[int64][]models.AddonUser
	err      error

	forUserLimit        int
	forUserWithUnlisted bool
}

func newFakeAddonsRepo() *fakeAddonsRepo {
	return &fakeAddonsRepo{
		addons:   map[int64]*models.Addon{},
		versions: map[int64]*models.Version{},
		authors:  map[int64][]models.AddonUser{},
	}
}

func (f *fakeAddonsRepo) Get(ctx context.Context, id int64) (*models.Addon, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.addons[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAddonsRepo) GetVersion(ctx context.Context, addonID, versionID int64) (*models.Version, error) {
	v, ok := f.versions[versionID]
	if !ok || v.AddonID != addonID {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeAddonsRepo) IsAuthor(ctx context.Context, addonID, userID int64) (bool, error) {
	for _, au := range f.authors[userID] {
		if au.AddonID == addonID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAddonsRepo) ListedForUser(ctx context.Context, userID int64) ([]models.Addon, error) {
	var out []models.Addon
	seen := map[int64]bool{}
	for _, au := range f.authors[userID] {
		if au.Listed && !seen[au.AddonID] {
			seen[au.AddonID] = true
			out = append(out, *f.addons[au.AddonID])
		}
	}
	return out, nil
}

func (f *fakeAddonsRepo) ForUser(ctx context.Context, userID int64, limit int, withUnlisted bool) ([]models.Addon, error) {
	f.forUserLimit, f.forUserWithUnlisted = limit, withUnlisted
	var out []models.Addon
	for _, au := range f.authors[userID] {
		if au.Listed || withUnlisted {
			out = append(out, *f.addons[au.AddonID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- reviews ---

type fakeReviewsRepo struct {
	reviews []models.Review
}

func (f *fakeReviewsRepo) ForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.UserID == userID && r.ReplyTo == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewsRepo) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	cp := *r
	cp.ID = int64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, cp)
	return &cp, nil
}

// --- collections ---

type fakeCollectionsRepo struct {
	collections []*models.Collection
	addons      map[int64][]int64
	watched     map[int64][]int64
	created     int
}

func newFakeCollectionsRepo() *fakeCollectionsRepo {
	return &fakeCollectionsRepo{addons: map[int64][]int64{}, watched: map[int64][]int64{}}
}

func (f *fakeCollectionsRepo) GetForAuthor(ctx context.Context, authorID int64, typ models.CollectionType) (*models.Collection, error) {
	for _, c := range f.collections {
		if c.AuthorID != nil && *c.AuthorID == authorID && c.Type == typ {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCollectionsRepo) Create(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	f.created++
	cp := *c
	cp.ID = int64(len(f.collections) + 1)
	f.collections = append(f.collections, &cp)
	return &cp, nil
}

func (f *fakeCollectionsRepo) AddAddon(ctx context.Context, collectionID, addonID int64) error {
	f.addons[collectionID] = append(f.addons[collectionID], addonID)
	return nil
}

func (f *fakeCollectionsRepo) AddonIDs(ctx context.Context, collectionID int64) ([]int64, error) {
	return f.addons[collectionID], nil
}

func (f *fakeCollectionsRepo) WatchedBy(ctx context.Context, userID int64) ([]int64, error) {
	return f.watched[userID], nil
}

func (f *fakeCollectionsRepo) Watch(ctx context.Context, collectionID, userID int64) error {
	f.watched[userID] = append(f.watched[userID], collectionID)
	return nil
}

// --- activity log ---

type fakeActivityRepo struct {
	// byVersion holds entries newest first.
	byVersion map[int64][]models.ActivityLog
	err       error
}

func (f *fakeActivityRepo) ForVersion(ctx context.Context, versionID int64, actions []models.ActivityAction) ([]models.ActivityLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ActivityLog
	for _, e := range f.byVersion[versionID] {
		for _, a := range actions {
			if e.Action == a {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) Create(ctx context.Context, e *models.ActivityLog, versionID int64) (*models.ActivityLog, error) {
	if f.byVersion == nil {
		f.byVersion = map[int64][]models.ActivityLog{}
	}
	f.byVersion[versionID] = append([]models.ActivityLog{*e}, f.byVersion[versionID]...)
	return e, nil
}

// --- blocklists ---

type fakeBlocklistsRepo struct {
	names, domains, passwords []string
	err                       error
}

func (f *fakeBlocklistsRepo) NameBlocked(ctx context.Context, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, n := range f.names {
		if strings.Contains(strings.ToLower(name), strings.ToLower(n)) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlocklistsRepo) EmailDomainBlocked(ctx context.Context, domain string) (bool, error) {
	for _, d := range f.domains {
		if d == domain {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlocklistsRepo) PasswordBlocked(ctx context.Context, password string) (bool, error) {
	for _, p := range f.passwords {
		if p == password {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlocklistsRepo) AddName(ctx context.Context, name string) error {
	f.names = append(f.names, name)
	return nil
}

func (f *fakeBlocklistsRepo) AddEmailDomain(ctx context.Context, domain string) error {
	f.domains = append(f.domains, domain)
	return nil
}

func (f *fakeBlocklistsRepo) AddPassword(ctx context.Context, password string) error {
	f.passwords = append(f.passwords, password)
	return nil
}

// --- translations ---

type fakeTranslationsRepo struct {
	values map[int64]map[string]string
	nextID int64
}

func newFakeTranslationsRepo() *fakeTranslationsRepo {
	return &fakeTranslationsRepo{values: map[int64]map[string]string{}}
}

func (f *fakeTranslationsRepo) Get(ctx context.Context, id int64) (map[string]string, error) {
	return f.values[id], nil
}

func (f *fakeTranslationsRepo) Set(ctx context.Context, id int64, locale, value string) (int64, error) {
	if id == 0 {
		f.nextID++
		id = f.nextID
	}
	if f.values[id] == nil {
		f.values[id] = map[string]string{}
	}
	f.values[id][locale] = value
	return id, nil
}

func (f *fakeTranslationsRepo) DeleteLocale(ctx context.Context, id int64, locale string) (bool, error) {
	for l := range f.values[id] {
		if strings.EqualFold(l, locale) {
			delete(f.values[id], l)
			return true, nil
		}
	}
	return false, nil
}

// --- manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	g  *fakeGroupsRepo
	r  *fakeRefreshRepo
	a  *fakeAddonsRepo
	rv *fakeReviewsRepo
	c  *fakeCollectionsRepo
	al *fakeActivityRepo
	b  *fakeBlocklistsRepo
	t  *fakeTranslationsRepo
}

func newFakeRepoManager(users ...*models.User) *fakeRepoManager {
	return &fakeRepoManager{
		u:  newFakeUsersRepo(users...),
		g:  newFakeGroupsRepo(),
		r:  &fakeRefreshRepo{},
		a:  newFakeAddonsRepo(),
		rv: &fakeReviewsRepo{},
		c:  newFakeCollectionsRepo(),
		al: &fakeActivityRepo{},
		b:  &fakeBlocklistsRepo{},
		t:  newFakeTranslationsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) Groups(db dbx.DBTX) groups.Repository                   { return m.g }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Addons(db dbx.DBTX) addons.Repository                   { return m.a }
func (m *fakeRepoManager) Reviews(db dbx.DBTX) reviews.Repository                 { return m.rv }
func (m *fakeRepoManager) Collections(db dbx.DBTX) collections.Repository         { return m.c }
func (m *fakeRepoManager) ActivityLog(db dbx.DBTX) activitylog.Repository         { return m.al }
func (m *fakeRepoManager) Blocklists(db dbx.DBTX) blocklists.Repository           { return m.b }
func (m *fakeRepoManager) Translations(db dbx.DBTX) translations.Repository       { return m.t }

// --- limiter ---

type fakeLimiter struct {
	checkErr error
	failErr  error
	fails    []string
	resets   []string
}

func (f *fakeLimiter) Check(ctx context.Context, username string) error { return f.checkErr }

func (f *fakeLimiter) Fail(ctx context.Context, username string) error {
	f.fails = append(f.fails, username)
	return f.failErr
}

func (f *fakeLimiter) Reset(ctx context.Context, username string) error {
	f.resets = append(f.resets, username)
	return nil
}
