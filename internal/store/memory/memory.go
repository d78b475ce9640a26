// Package memory implementa los repositorios del dominio en RAM. Se usa en
// tests y en modo dev sin base; la semántica (errores, transiciones,
// unicidad) replica la del driver postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]*repository.User
	usersByEmail  map[string]string // email → id
	cards         map[string]*repository.Card
	cardsBySlug   map[string]string // slug → id
	invoices      map[string]*repository.Invoice
	coupons       map[string]*repository.Coupon
	couponsByCode map[string]string // code → id
	rewards       map[string]*repository.Reward
	orders        map[string]*repository.CardOrder
	subscriptions map[string]*repository.Subscription
}

func New() *Store {
	return &Store{
		users:         make(map[string]*repository.User),
		usersByEmail:  make(map[string]string),
		cards:         make(map[string]*repository.Card),
		cardsBySlug:   make(map[string]string),
		invoices:      make(map[string]*repository.Invoice),
		coupons:       make(map[string]*repository.Coupon),
		couponsByCode: make(map[string]string),
		rewards:       make(map[string]*repository.Reward),
		orders:        make(map[string]*repository.CardOrder),
		subscriptions: make(map[string]*repository.Subscription),
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

// ====================== USERS ======================

func cloneUser(u *repository.User) *repository.User {
	cp := *u
	cp.Permissions = append([]string(nil), u.Permissions...)
	return &cp
}

func (s *Store) CreateUser(_ context.Context, in repository.UserInput) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(in.Email)
	if _, dup := s.usersByEmail[email]; dup {
		return nil, repository.ErrConflict
	}
	now := time.Now().UTC()
	u := &repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Permissions:  append([]string(nil), in.Permissions...),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.usersByEmail[email] = u.ID
	return cloneUser(u), nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) ListUsers(_ context.Context, f repository.UserFilter) ([]repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []repository.User
	for _, u := range s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(u.Email, q) && !strings.Contains(strings.ToLower(u.Name), q) {
				continue
			}
		}
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (s *Store) SetUserStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) SetUserVerified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailVerified = true
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) UpdateUserGrants(_ context.Context, id string, permissions []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Permissions = append([]string(nil), permissions...)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ====================== CARDS ======================

func cloneCard(c *repository.Card) *repository.Card {
	cp := *c
	cp.Links = append([]repository.SocialLink(nil), c.Links...)
	cp.Gallery = append([]repository.MediaItem(nil), c.Gallery...)
	return &cp
}

func applyCardInput(c *repository.Card, in repository.CardInput) {
	c.Slug = strings.ToLower(in.Slug)
	c.Name = in.Name
	c.Title = in.Title
	c.Company = in.Company
	c.Phone = in.Phone
	c.Email = in.Email
	c.Website = in.Website
	c.Bio = in.Bio
	c.Links = append([]repository.SocialLink(nil), in.Links...)
	c.Gallery = append([]repository.MediaItem(nil), in.Gallery...)
	c.Published = in.Published
	c.UpdatedAt = time.Now().UTC()
}

func (s *Store) CreateCard(_ context.Context, userID string, in repository.CardInput) (*repository.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug := strings.ToLower(in.Slug)
	if _, dup := s.cardsBySlug[slug]; dup {
		return nil, repository.ErrConflict
	}
	c := &repository.Card{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now().UTC()}
	applyCardInput(c, in)
	s.cards[c.ID] = c
	s.cardsBySlug[slug] = c.ID
	return cloneCard(c), nil
}

func (s *Store) GetCardByID(_ context.Context, id string) (*repository.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCard(c), nil
}

func (s *Store) GetCardBySlug(_ context.Context, slug string) (*repository.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.cardsBySlug[strings.ToLower(slug)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := s.cards[id]
	if !c.Published {
		return nil, repository.ErrNotFound
	}
	return cloneCard(c), nil
}

func (s *Store) ListCardsByUser(_ context.Context, userID string) ([]repository.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Card
	for _, c := range s.cards {
		if c.UserID == userID {
			out = append(out, *cloneCard(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateCard(_ context.Context, id string, in repository.CardInput) (*repository.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	slug := strings.ToLower(in.Slug)
	if other, dup := s.cardsBySlug[slug]; dup && other != id {
		return nil, repository.ErrConflict
	}
	delete(s.cardsBySlug, c.Slug)
	applyCardInput(c, in)
	s.cardsBySlug[slug] = id
	return cloneCard(c), nil
}

func (s *Store) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.cardsBySlug, c.Slug)
	delete(s.cards, id)
	return nil
}

// ====================== INVOICES ======================

func (s *Store) CreateInvoice(_ context.Context, inv repository.Invoice) (*repository.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = repository.InvoicePending
	}
	for _, other := range s.invoices {
		if other.Number == inv.Number {
			return nil, repository.ErrConflict
		}
	}
	inv.CreatedAt = time.Now().UTC()
	cp := inv
	s.invoices[inv.ID] = &cp
	out := inv
	return &out, nil
}

func (s *Store) GetInvoiceByID(_ context.Context, id string) (*repository.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *inv
	return &out, nil
}

func (s *Store) ListInvoices(_ context.Context, f repository.InvoiceFilter) ([]repository.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Invoice
	for _, inv := range s.invoices {
		if f.UserID != "" && inv.UserID != f.UserID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (s *Store) MarkInvoicePaid(_ context.Context, id string, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	if inv.Status != repository.InvoicePending {
		return repository.ErrInvalidTransition
	}
	inv.Status = repository.InvoicePaid
	inv.PaidAt = &paidAt
	return nil
}

func (s *Store) VoidInvoice(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	if inv.Status != repository.InvoicePending {
		return repository.ErrInvalidTransition
	}
	inv.Status = repository.InvoiceVoid
	return nil
}

func (s *Store) DeleteInvoice(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.invoices, id)
	return nil
}

func (s *Store) ExpirePendingCheckouts(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, inv := range s.invoices {
		if inv.Status == repository.InvoicePending &&
			inv.CheckoutKind == repository.CheckoutCrypto &&
			inv.ExpiresAt != nil && !inv.ExpiresAt.After(now) {
			inv.Status = repository.InvoiceExpired
			n++
		}
	}
	return n, nil
}

// ====================== COUPONS ======================

func applyCouponInput(c *repository.Coupon, in repository.CouponInput) {
	c.Code = strings.ToUpper(in.Code)
	c.PercentOff = in.PercentOff
	c.AmountOff = in.AmountOff
	c.Currency = in.Currency
	c.MaxUses = in.MaxUses
	c.Active = in.Active
	c.ValidFrom = in.ValidFrom
	c.ValidUntil = in.ValidUntil
}

func (s *Store) CreateCoupon(_ context.Context, in repository.CouponInput) (*repository.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := strings.ToUpper(in.Code)
	if _, dup := s.couponsByCode[code]; dup {
		return nil, repository.ErrConflict
	}
	c := &repository.Coupon{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	applyCouponInput(c, in)
	s.coupons[c.ID] = c
	s.couponsByCode[code] = c.ID
	out := *c
	return &out, nil
}

func (s *Store) GetCouponByCode(_ context.Context, code string) (*repository.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.couponsByCode[strings.ToUpper(code)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *s.coupons[id]
	return &out, nil
}

func (s *Store) ListCoupons(_ context.Context, onlyActive bool) ([]repository.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Coupon
	for _, c := range s.coupons {
		if onlyActive && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateCoupon(_ context.Context, id string, in repository.CouponInput) (*repository.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	code := strings.ToUpper(in.Code)
	if other, dup := s.couponsByCode[code]; dup && other != id {
		return nil, repository.ErrConflict
	}
	delete(s.couponsByCode, c.Code)
	applyCouponInput(c, in)
	s.couponsByCode[code] = id
	out := *c
	return &out, nil
}

func (s *Store) DeleteCoupon(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.couponsByCode, c.Code)
	delete(s.coupons, id)
	return nil
}

// ====================== REWARDS ======================

func (s *Store) CreateReward(_ context.Context, r repository.Reward) (*repository.Reward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Status = repository.RewardPending
	r.CreatedAt = time.Now().UTC()
	cp := r
	s.rewards[r.ID] = &cp
	out := r
	return &out, nil
}

func (s *Store) GetRewardByID(_ context.Context, id string) (*repository.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rewards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *Store) ListRewards(_ context.Context, status string, limit, offset int) ([]repository.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Reward
	for _, r := range s.rewards {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (s *Store) ResolveReward(_ context.Context, id, status, reviewerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rewards[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.Status != repository.RewardPending {
		return repository.ErrInvalidTransition
	}
	r.Status = status
	r.ReviewedBy = reviewerID
	r.ReviewedAt = &at
	return nil
}

// ====================== ORDERS ======================

func (s *Store) CreateOrder(_ context.Context, o repository.CardOrder) (*repository.CardOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Status = repository.OrderNew
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	cp := o
	s.orders[o.ID] = &cp
	out := o
	return &out, nil
}

func (s *Store) GetOrderByID(_ context.Context, id string) (*repository.CardOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *o
	return &out, nil
}

func (s *Store) ListOrders(_ context.Context, status string, limit, offset int) ([]repository.CardOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.CardOrder
	for _, o := range s.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (s *Store) AdvanceOrder(_ context.Context, id, trackingID string) (*repository.CardOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := repository.NextOrderStatus(o.Status)
	if next == "" {
		return nil, repository.ErrInvalidTransition
	}
	o.Status = next
	if trackingID != "" {
		o.TrackingID = trackingID
	}
	o.UpdatedAt = time.Now().UTC()
	out := *o
	return &out, nil
}

// ====================== SUBSCRIPTIONS ======================

func (s *Store) CreateSubscription(_ context.Context, sub repository.Subscription) (*repository.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Status == "" {
		sub.Status = repository.SubActive
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	cp := sub
	s.subscriptions[sub.ID] = &cp
	out := sub
	return &out, nil
}

func (s *Store) GetSubscriptionByUser(_ context.Context, userID string) (*repository.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *repository.Subscription
	for _, sub := range s.subscriptions {
		if sub.UserID != userID {
			continue
		}
		if latest == nil || sub.CreatedAt.After(latest.CreatedAt) {
			latest = sub
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (s *Store) ListSubscriptions(_ context.Context, status string, limit, offset int) ([]repository.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Subscription
	for _, sub := range s.subscriptions {
		if status != "" && sub.Status != status {
			continue
		}
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (s *Store) CancelSubscription(_ context.Context, id string, immediate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if sub.Status == repository.SubCanceled {
		return repository.ErrInvalidTransition
	}
	if immediate {
		sub.Status = repository.SubCanceled
		sub.CancelAtEnd = false
	} else {
		sub.CancelAtEnd = true
	}
	sub.UpdatedAt = time.Now().UTC()
	return nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

var (
	_ repository.UserRepository         = (*Store)(nil)
	_ repository.CardRepository         = (*Store)(nil)
	_ repository.InvoiceRepository      = (*Store)(nil)
	_ repository.CouponRepository       = (*Store)(nil)
	_ repository.RewardRepository       = (*Store)(nil)
	_ repository.OrderRepository        = (*Store)(nil)
	_ repository.SubscriptionRepository = (*Store)(nil)
)
