package engine

import (
	"context"
	"sync"

	"github.com/arjun-mehta/portfolio-agent/internal/profile"
	"github.com/arjun-mehta/portfolio-agent/internal/store"
	"github.com/arjun-mehta/portfolio-agent/pkg/llm"
)

// testSnapshot mirrors the shape of the repo's data/ files.
func testSnapshot() *profile.Snapshot {
	return &profile.Snapshot{
		About: "Backend engineer focused on reliable B2B systems.",
		Skills: profile.SkillSet{
			ProgrammingLanguages: map[string][]string{
				"primary": {"Go", "Python"},
				"core":    {"SQL", "JavaScript"},
			},
			Backend:        []string{"Go", "FastAPI", "gRPC", "REST APIs", "PostgreSQL"},
			Frontend:       []string{"React", "TypeScript", "Tailwind"},
			ToolsPlatforms: []string{"Docker", "Kubernetes", "AWS", "Kafka", "Grafana"},
		},
		Projects: []profile.Project{
			{
				ID: "ledgerlink", Title: "LedgerLink", Domain: "Fintech",
				Description: "B2B invoicing and reconciliation platform.",
				KeyFeatures: []string{"Automated reconciliation", "Webhook delivery with retry"},
				TechStack:   []string{"Go", "PostgreSQL", "Redis", "Docker"},
				Status:      "production",
			},
			{
				ID: "shopstack", Title: "ShopStack", Domain: "E-commerce",
				Description: "Storefront and inventory backend for retailers.",
				KeyFeatures: []string{"Catalog sync", "Order tracking"},
				TechStack:   []string{"Python", "FastAPI", "PostgreSQL", "React"},
				Status:      "production",
			},
		},
		Experience: []profile.Experience{
			{Role: "Backend Engineer", Company: "Brightline Systems", Duration: "2023 - Present"},
			{Role: "Software Developer", Company: "Kirana Labs", Duration: "2021 - 2023"},
		},
		Education: []profile.Education{
			{Degree: "BE in Computer Science", Institution: "Pune Institute of Technology", Duration: "2017 - 2021"},
		},
		Certificates: []profile.Certificate{
			{Name: "CKA: Certified Kubernetes Administrator", Issuer: "CNCF", Year: "2023"},
		},
		Contact: profile.Contact{
			Email:  "arjun.mehta.dev@gmail.com",
			GitHub: "https://github.com/arjun-mehta",
		},
	}
}

// stubRewriter returns a fixed answer or error.
type stubRewriter struct {
	answer string
	err    error
	calls  int
}

func (s *stubRewriter) Rewrite(_ context.Context, _ llm.RewriteRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

var _ llm.Rewriter = (*stubRewriter)(nil)

// captureStore records interactions in memory.
type captureStore struct {
	mu           sync.Mutex
	interactions []store.Interaction
}

func (c *captureStore) RecordInteraction(_ context.Context, in store.Interaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interactions = append(c.interactions, in)
	return nil
}

func (c *captureStore) ListRecent(_ context.Context, _ int) ([]store.Interaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.Interaction(nil), c.interactions...), nil
}

func (c *captureStore) Migrate(context.Context) error { return nil }

func (c *captureStore) Close() error { return nil }

var _ store.Store = (*captureStore)(nil)
