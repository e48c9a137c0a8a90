package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sachi-ghani/storefront-service/internal/domain"
	"github.com/sachi-ghani/storefront-service/internal/events"
	"github.com/sachi-ghani/storefront-service/internal/repository"
)

// stubUserRepo is an in-memory repository.UserRepository.
type stubUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*domain.User // keyed by id
	carts  map[string][]domain.CartItem

	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users: make(map[string]*domain.User),
		carts: make(map[string][]domain.CartItem),
	}
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	user.ID = fmt.Sprintf("user-%d", s.nextID)
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) GetCart(_ context.Context, userID string) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem{}, s.carts[userID]...), nil
}

func (s *stubUserRepo) ReplaceCart(_ context.Context, userID string, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = append([]domain.CartItem{}, items...)
	return nil
}

// stubResetRepo is an in-memory repository.PasswordResetRepository. It holds
// the user repo because Consume spans both tables, like the real thing.
type stubResetRepo struct {
	mu     sync.Mutex
	nextID int
	tokens map[string]*repository.PasswordResetToken // keyed by token string
	users  *stubUserRepo

	consumeErr error
}

func newStubResetRepo(users *stubUserRepo) *stubResetRepo {
	return &stubResetRepo{
		tokens: make(map[string]*repository.PasswordResetToken),
		users:  users,
	}
}

func (s *stubResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	token.ID = fmt.Sprintf("reset-%d", s.nextID)
	clone := *token
	s.tokens[token.Token] = &clone
	return nil
}

func (s *stubResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *token
	return &clone, nil
}

func (s *stubResetRepo) Consume(_ context.Context, tokenID, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumeErr != nil {
		return s.consumeErr
	}

	s.users.mu.Lock()
	user, ok := s.users.users[userID]
	if ok {
		user.PasswordHash = passwordHash
	}
	s.users.mu.Unlock()
	if !ok {
		return pgx.ErrNoRows
	}

	for _, token := range s.tokens {
		if token.ID == tokenID {
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *stubResetRepo) InvalidateForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, token := range s.tokens {
		if token.UserID == userID && token.UsedAt == nil {
			delete(s.tokens, key)
		}
	}
	return nil
}

func (s *stubResetRepo) latestForUser(userID string) *repository.PasswordResetToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *repository.PasswordResetToken
	for _, token := range s.tokens {
		if token.UserID == userID && (latest == nil || token.ID > latest.ID) {
			latest = token
		}
	}
	return latest
}

// stubOrderRepo is an in-memory repository.OrderRepository.
type stubOrderRepo struct {
	mu       sync.Mutex
	nextID   int
	orders   []domain.Order
	failWith []error // popped per Create call before inserting
}

func (s *stubOrderRepo) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failWith) > 0 {
		err := s.failWith[0]
		s.failWith = s.failWith[1:]
		if err != nil {
			return err
		}
	}
	s.nextID++
	order.ID = fmt.Sprintf("order-%d", s.nextID)
	s.orders = append(s.orders, *order)
	return nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			result = append(result, s.orders[i])
		}
	}
	return result, nil
}

func (s *stubOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Order, 0, len(s.orders))
	for i := len(s.orders) - 1; i >= 0; i-- {
		order := s.orders[i]
		order.Owner = &domain.OrderOwner{Name: "Owner", Email: "owner@example.com"}
		result = append(result, order)
	}
	return result, nil
}

func (s *stubOrderRepo) CountAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders), nil
}

// stubFeedbackRepo is an in-memory repository.FeedbackRepository.
type stubFeedbackRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]*domain.Feedback
}

func newStubFeedbackRepo() *stubFeedbackRepo {
	return &stubFeedbackRepo{items: make(map[string]*domain.Feedback)}
}

func (s *stubFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	feedback.ID = fmt.Sprintf("feedback-%d", s.nextID)
	clone := *feedback
	s.items[feedback.ID] = &clone
	return nil
}

func (s *stubFeedbackRepo) List(_ context.Context, limit int) ([]domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Feedback
	for i := s.nextID; i > 0 && len(result) < limit; i-- {
		if item, ok := s.items[fmt.Sprintf("feedback-%d", i)]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (s *stubFeedbackRepo) GetByID(_ context.Context, id string) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (s *stubFeedbackRepo) Update(_ context.Context, feedback *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[feedback.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *feedback
	s.items[feedback.ID] = &clone
	return nil
}

func (s *stubFeedbackRepo) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
