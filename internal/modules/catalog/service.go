package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrItemNotFound  = errors.New("catalog: item not found")
	ErrAgentNotFound = errors.New("catalog: agent not found")
	ErrNotLoaded     = errors.New("catalog: feed not loaded")
)

// Feed fetches the read-only reference data from the remote system.
type Feed interface {
	Categories(ctx context.Context) ([]Category, error)
	Items(ctx context.Context) ([]Item, error)
	Agents(ctx context.Context) ([]Agent, error)
}

// Service exposes the per-session catalog snapshot and the chosen tax
// agent. The feed is loaded once per session and never revalidated.
type Service interface {
	Load(ctx context.Context) error
	Loaded() bool
	Categories() []Category
	Items() []Item
	ItemByID(id int64) (Item, error)
	Agents() []Agent
	ChosenAgent() *Agent
	ChooseAgent(id int64) error
	ChooseCustomRate(tvaRate float64)
	ClearAgent()
}

type service struct {
	feed Feed

	mu          sync.RWMutex
	loaded      bool
	categories  []Category
	items       []Item
	agents      []Agent
	chosenAgent *Agent
}

// NewService creates a catalog service backed by the given feed.
func NewService(feed Feed) Service {
	return &service{feed: feed}
}

func (s *service) Load(ctx context.Context) error {
	categories, err := s.feed.Categories(ctx)
	if err != nil {
		return fmt.Errorf("catalog: fetch categories: %w", err)
	}
	items, err := s.feed.Items(ctx)
	if err != nil {
		return fmt.Errorf("catalog: fetch items: %w", err)
	}
	agents, err := s.feed.Agents(ctx)
	if err != nil {
		return fmt.Errorf("catalog: fetch agents: %w", err)
	}

	s.mu.Lock()
	s.categories = categories
	s.items = items
	s.agents = agents
	s.loaded = true
	s.mu.Unlock()

	log.Info().
		Int("categories", len(categories)).
		Int("items", len(items)).
		Int("agents", len(agents)).
		Msg("catalog loaded")
	return nil
}

func (s *service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *service) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *service) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *service) ItemByID(id int64) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Item{}, ErrNotLoaded
	}
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, ErrItemNotFound
}

func (s *service) Agents() []Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Agent, len(s.agents))
	copy(out, s.agents)
	return out
}

func (s *service) ChosenAgent() *Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.chosenAgent == nil {
		return nil
	}
	agent := *s.chosenAgent
	return &agent
}

func (s *service) ChooseAgent(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, agent := range s.agents {
		if agent.ID == id {
			chosen := agent
			chosen.Type = AgentExisting
			s.chosenAgent = &chosen
			return nil
		}
	}
	return ErrAgentNotFound
}

func (s *service) ChooseCustomRate(tvaRate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chosenAgent = &Agent{TVARate: tvaRate, Type: AgentCustom}
}

func (s *service) ClearAgent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chosenAgent = nil
}
