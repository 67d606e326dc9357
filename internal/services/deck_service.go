package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/validate"

	"vibes/internal/catalog"
	"vibes/internal/deck"
	"vibes/internal/models"
	"vibes/internal/storage"
)

const (
	ScopePublic = "public"
	ScopeMine   = "mine"

	copySuffix     = " (Copy)"
	publishTimeout = 5 * time.Second
)

type DeckServiceInterface interface {
	Save(ctx context.Context, identity *models.Identity, draft *models.DeckDraft, existingID string) (*SaveResult, error)
	Delete(ctx context.Context, identity *models.Identity, deckID string) error
	Get(ctx context.Context, deckID string) (*models.Deck, error)
	Groups(ctx context.Context, deckID string) (map[string][]deck.CardQuantity, error)
	ToggleUpvote(ctx context.Context, identity *models.Identity, deckID string) (bool, int, error)
	Copy(ctx context.Context, identity *models.Identity, deckID string) (string, error)
	ListPublic(ctx context.Context, limit int) ([]*models.Deck, error)
	ListMine(ctx context.Context, identity *models.Identity) ([]*models.Deck, error)
	Validate(entries []models.DeckCardEntry) deck.Result
	Subscribe(ctx context.Context, q LiveQuery) (*Subscription, error)
	Subscribers() int
}

// SaveResult carries the stored deck id and the legality report. An illegal
// deck is still saved.
type SaveResult struct {
	ID         string      `json:"id"`
	Validation deck.Result `json:"validation"`
}

// LiveQuery selects the deck list a subscriber follows.
type LiveQuery struct {
	Scope   string
	OwnerID string
	Limit   int
}

func (q LiveQuery) key() string {
	if q.Scope == ScopeMine {
		return ScopeMine + ":" + q.OwnerID
	}
	return fmt.Sprintf("%s:%d", ScopePublic, q.Limit)
}

// Subscription receives the latest result of its query after every deck
// mutation. Slow readers only ever see the newest list.
type Subscription struct {
	C     <-chan []*models.Deck
	ch    chan []*models.Deck
	query LiveQuery
	once  sync.Once
	svc   *DeckService
}

func (s *Subscription) Close() {
	s.once.Do(func() { s.svc.unsubscribe(s) })
}

func (s *Subscription) deliver(decks []*models.Deck) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- decks
}

type DeckService struct {
	repo    storage.DeckRepositoryInterface
	catalog *catalog.Catalog
	now     func() time.Time

	subsMu    sync.Mutex
	subs      map[*Subscription]struct{}
	publishMu sync.Mutex
}

func NewDeckService(repo storage.DeckRepositoryInterface, cat *catalog.Catalog) DeckServiceInterface {
	return &DeckService{
		repo:    repo,
		catalog: cat,
		now:     time.Now,
		subs:    make(map[*Subscription]struct{}),
	}
}

func (s *DeckService) Save(ctx context.Context, identity *models.Identity, draft *models.DeckDraft, existingID string) (*SaveResult, error) {
	if !identity.Authenticated() {
		return nil, models.ErrUnauthorized
	}
	if draft == nil {
		return nil, fmt.Errorf("%w: deck is required", models.ErrMalformedInput)
	}
	draft.Name = strings.TrimSpace(draft.Name)
	if v := validate.Struct(draft); !v.Validate() {
		return nil, fmt.Errorf("%w: %s", models.ErrMalformedInput, v.Errors.One())
	}

	cards := deck.Normalize(draft.Cards)
	now := s.now().UTC().Truncate(time.Millisecond)
	d := &models.Deck{
		Name:             draft.Name,
		Description:      draft.Description,
		Cards:            cards,
		IsPublic:         true,
		Colors:           deck.DeriveColors(cards, s.catalog),
		OwnerID:          identity.UserID,
		OwnerDisplayName: identity.Name(),
		UpdatedAt:        now,
	}

	if existingID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
		if draft.IsPublic != nil {
			d.IsPublic = *draft.IsPublic
		}
		if err := s.repo.Create(ctx, d); err != nil {
			return nil, err
		}
	} else {
		existing, err := s.repo.GetByID(ctx, existingID)
		if err != nil {
			return nil, err
		}
		if existing.OwnerID != identity.UserID {
			return nil, models.ErrUnauthorized
		}
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
		d.IsPublic = existing.IsPublic
		if draft.IsPublic != nil {
			d.IsPublic = *draft.IsPublic
		}
		if err := s.repo.Update(ctx, d); err != nil {
			return nil, err
		}
	}

	s.publish()
	return &SaveResult{ID: d.ID, Validation: deck.Validate(cards, s.catalog)}, nil
}

// Delete removes a deck the caller owns. Missing or foreign decks are left alone.
func (s *DeckService) Delete(ctx context.Context, identity *models.Identity, deckID string) error {
	if !identity.Authenticated() {
		return models.ErrUnauthorized
	}
	deleted, err := s.repo.Delete(ctx, deckID, identity.UserID)
	if err != nil {
		return err
	}
	if deleted {
		s.publish()
	}
	return nil
}

func (s *DeckService) Get(ctx context.Context, deckID string) (*models.Deck, error) {
	if deckID == "" {
		return nil, models.ErrNotFound
	}
	return s.repo.GetByID(ctx, deckID)
}

func (s *DeckService) Groups(ctx context.Context, deckID string) (map[string][]deck.CardQuantity, error) {
	d, err := s.Get(ctx, deckID)
	if err != nil {
		return nil, err
	}
	return deck.GroupByPrimaryColor(d.Cards, s.catalog), nil
}

func (s *DeckService) ToggleUpvote(ctx context.Context, identity *models.Identity, deckID string) (bool, int, error) {
	if !identity.Authenticated() {
		return false, 0, models.ErrUnauthorized
	}
	upvoted, count, err := s.repo.ToggleUpvote(ctx, deckID, identity.UserID)
	if err != nil {
		return false, 0, err
	}
	s.publish()
	return upvoted, count, nil
}

// Copy clones a public or own deck into a new private deck of the caller.
func (s *DeckService) Copy(ctx context.Context, identity *models.Identity, deckID string) (string, error) {
	if !identity.Authenticated() {
		return "", models.ErrUnauthorized
	}
	src, err := s.Get(ctx, deckID)
	if err != nil {
		return "", err
	}
	if !src.IsPublic && src.OwnerID != identity.UserID {
		return "", models.ErrNotFound
	}
	private := false
	res, err := s.Save(ctx, identity, &models.DeckDraft{
		Name:        src.Name + copySuffix,
		Description: src.Description,
		Cards:       src.Cards,
		IsPublic:    &private,
	}, "")
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

func (s *DeckService) ListPublic(ctx context.Context, limit int) ([]*models.Deck, error) {
	if limit <= 0 || limit > models.PublicDeckLimit {
		limit = models.PublicDeckLimit
	}
	return s.repo.ListPublic(ctx, limit)
}

func (s *DeckService) ListMine(ctx context.Context, identity *models.Identity) ([]*models.Deck, error) {
	if !identity.Authenticated() {
		return nil, models.ErrUnauthorized
	}
	return s.repo.ListByOwner(ctx, identity.UserID)
}

func (s *DeckService) Validate(entries []models.DeckCardEntry) deck.Result {
	return deck.Validate(entries, s.catalog)
}

// Subscribe registers a live query and queues its current result.
func (s *DeckService) Subscribe(ctx context.Context, q LiveQuery) (*Subscription, error) {
	switch q.Scope {
	case ScopeMine:
		if q.OwnerID == "" {
			return nil, models.ErrUnauthorized
		}
	case ScopePublic, "":
		q.Scope = ScopePublic
		if q.Limit <= 0 || q.Limit > models.PublicDeckLimit {
			q.Limit = models.PublicDeckLimit
		}
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", models.ErrMalformedInput, q.Scope)
	}

	decks, err := s.run(ctx, q)
	if err != nil {
		return nil, err
	}
	ch := make(chan []*models.Deck, 1)
	sub := &Subscription{C: ch, ch: ch, query: q, svc: s}
	sub.deliver(decks)

	s.subsMu.Lock()
	s.subs[sub] = struct{}{}
	s.subsMu.Unlock()
	return sub, nil
}

func (s *DeckService) Subscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

func (s *DeckService) unsubscribe(sub *Subscription) {
	s.subsMu.Lock()
	delete(s.subs, sub)
	s.subsMu.Unlock()
}

func (s *DeckService) run(ctx context.Context, q LiveQuery) ([]*models.Deck, error) {
	if q.Scope == ScopeMine {
		return s.repo.ListByOwner(ctx, q.OwnerID)
	}
	return s.repo.ListPublic(ctx, q.Limit)
}

// publish re-runs every distinct live query once and hands the result to its
// subscribers. A failed query keeps the previous result in place.
func (s *DeckService) publish() {
	s.subsMu.Lock()
	if len(s.subs) == 0 {
		s.subsMu.Unlock()
		return
	}
	byKey := make(map[string][]*Subscription)
	queries := make(map[string]LiveQuery)
	for sub := range s.subs {
		k := sub.query.key()
		byKey[k] = append(byKey[k], sub)
		queries[k] = sub.query
	}
	s.subsMu.Unlock()

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	for k, q := range queries {
		decks, err := s.run(ctx, q)
		if err != nil {
			continue
		}
		for _, sub := range byKey[k] {
			sub.deliver(decks)
		}
	}
}
