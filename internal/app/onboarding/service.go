package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"euchre/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	DisplayName string
	// NameErr is set when naming the account failed but onboarding continued.
	NameErr error
	// StatsCreated is false when the player already had a stats record.
	StatsCreated bool
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	stats    ports.StatsPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/stats must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, stats ports.StatsPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		stats:    stats,
		rng:      rng,
	}
}

// OnboardNewUser gives a new account a friendly display name and a zeroed stats record.
// A failed profile update is reported in Result; a failed stats initialization is an error,
// since game results cannot be recorded without it.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.stats == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}
	if userID == "" {
		return Result{}, fmt.Errorf("userID is required")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.SetDisplayName(ctx, userID, result.DisplayName); err != nil {
		result.NameErr = err
	}

	created, err := s.stats.InitPlayerStats(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to initialize player stats: %w", err)
	}
	result.StatsCreated = created
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Lucky", "Bold", "Sharp", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Steady"}
	nouns := []string{"Bower", "Dealer", "Trumper", "Loner", "Partner", "Marcher", "Caller", "Euchrer", "Shuffler", "Ace"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
