// Seed loads editorial fixture content from a YAML file. Taxonomy records
// are upserted by slug; articles already present are left untouched, so the
// seeder is safe to re-run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pressdeck/pressdeck/internal/apperr"
	"github.com/pressdeck/pressdeck/internal/domain"
	"github.com/pressdeck/pressdeck/internal/editorial"
	"github.com/pressdeck/pressdeck/internal/storage/factory"
	"github.com/pressdeck/pressdeck/internal/storage/pg"
	"github.com/pressdeck/pressdeck/pkg/config/env"
)

type cliConfig struct {
	FixturePath string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}
	flag.StringVar(&cfg.FixturePath, "fixture", "db/fixtures/seed.yaml", "Path to the seed fixture YAML")
	flag.Parse()
	return cfg
}

type fixture struct {
	Categories []taxonomyFixture `yaml:"categories"`
	Series     []taxonomyFixture `yaml:"series"`
	Authors    []authorFixture   `yaml:"authors"`
	Tags       []taxonomyFixture `yaml:"tags"`
	Articles   []articleFixture  `yaml:"articles"`
}

type taxonomyFixture struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type authorFixture struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
	Bio  string `yaml:"bio"`
}

type articleFixture struct {
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug"`
	Dek        string   `yaml:"dek"`
	Body       string   `yaml:"body"`
	Category   string   `yaml:"category"`
	Series     string   `yaml:"series"`
	Authors    []string `yaml:"authors"`
	Tags       []string `yaml:"tags"`
	EditorPick bool     `yaml:"editor_pick"`
	Publish    bool     `yaml:"publish"`
}

func main() {
	cliCfg := parseFlags()

	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/seed/.env"); err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(cliCfg.FixturePath)
	if err != nil {
		slog.Error("Failed to read fixture file", "path", cliCfg.FixturePath, "error", err)
		os.Exit(1)
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		slog.Error("Failed to parse fixture file", "path", cliCfg.FixturePath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pg.NewConnectionPool(ctx, storageCfg.Pg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	articles := pg.NewArticleRepository(pool)
	taxonomy := pg.NewTaxonomyRepository(pool)
	indexer, err := factory.NewSearchIndexer(ctx, pool, articles, storageCfg)
	if err != nil {
		slog.Error("Failed to create search indexer", "error", err)
		os.Exit(1)
	}
	workflow := editorial.NewWorkflow(articles, indexer)

	s := &seeder{
		articles: articles,
		taxonomy: taxonomy,
		workflow: workflow,
	}
	if err := s.run(ctx, fx); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Seeding done", "articles", len(fx.Articles))
}

type seeder struct {
	articles *pg.ArticleRepository
	taxonomy *pg.TaxonomyRepository
	workflow *editorial.Workflow

	categories map[string]domain.Category
	series     map[string]domain.Series
	authors    map[string]domain.Author
	tags       map[string]domain.Tag
}

func (s *seeder) run(ctx context.Context, fx fixture) error {
	if err := s.seedTaxonomy(ctx, fx); err != nil {
		return err
	}
	for _, af := range fx.Articles {
		if err := s.seedArticle(ctx, af); err != nil {
			return fmt.Errorf("article %q: %w", af.Slug, err)
		}
	}
	return nil
}

func (s *seeder) seedTaxonomy(ctx context.Context, fx fixture) error {
	s.categories = make(map[string]domain.Category, len(fx.Categories))
	for _, f := range fx.Categories {
		c := domain.Category{Name: f.Name, Slug: f.Slug, Description: f.Description}
		if err := s.taxonomy.UpsertCategory(ctx, &c); err != nil {
			return err
		}
		s.categories[c.Slug] = c
	}

	s.series = make(map[string]domain.Series, len(fx.Series))
	for _, f := range fx.Series {
		sr := domain.Series{Name: f.Name, Slug: f.Slug, Description: f.Description}
		if err := s.taxonomy.UpsertSeries(ctx, &sr); err != nil {
			return err
		}
		s.series[sr.Slug] = sr
	}

	s.authors = make(map[string]domain.Author, len(fx.Authors))
	for _, f := range fx.Authors {
		a := domain.Author{Name: f.Name, Slug: f.Slug, Bio: f.Bio}
		if err := s.taxonomy.UpsertAuthor(ctx, &a); err != nil {
			return err
		}
		s.authors[a.Slug] = a
	}

	s.tags = make(map[string]domain.Tag, len(fx.Tags))
	for _, f := range fx.Tags {
		t := domain.Tag{Name: f.Name, Slug: f.Slug}
		if err := s.taxonomy.UpsertTag(ctx, &t); err != nil {
			return err
		}
		s.tags[t.Slug] = t
	}
	return nil
}

func (s *seeder) seedArticle(ctx context.Context, af articleFixture) error {
	_, err := s.articles.GetBySlug(ctx, af.Slug)
	if err == nil {
		slog.Info("Article exists, skipping", "slug", af.Slug)
		return nil
	}
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		return err
	}

	article := &domain.Article{
		Title:        af.Title,
		Slug:         af.Slug,
		Dek:          af.Dek,
		Body:         af.Body,
		Status:       domain.StatusDraft,
		IsEditorPick: af.EditorPick,
	}
	if af.Category != "" {
		c, ok := s.categories[af.Category]
		if !ok {
			return fmt.Errorf("unknown category slug %q", af.Category)
		}
		article.Category = &c
	}
	if af.Series != "" {
		sr, ok := s.series[af.Series]
		if !ok {
			return fmt.Errorf("unknown series slug %q", af.Series)
		}
		article.Series = &sr
	}
	for _, slug := range af.Authors {
		a, ok := s.authors[slug]
		if !ok {
			return fmt.Errorf("unknown author slug %q", slug)
		}
		article.Authors = append(article.Authors, a)
	}
	for _, slug := range af.Tags {
		t, ok := s.tags[slug]
		if !ok {
			return fmt.Errorf("unknown tag slug %q", slug)
		}
		article.Tags = append(article.Tags, t)
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return err
	}
	if !af.Publish {
		return nil
	}

	if _, err := s.workflow.Submit(ctx, article.ID); err != nil {
		return err
	}
	if _, err := s.workflow.Approve(ctx, article.ID); err != nil {
		return err
	}
	if _, err := s.workflow.PublishNow(ctx, article.ID); err != nil {
		return err
	}
	return nil
}
