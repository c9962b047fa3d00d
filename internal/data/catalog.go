// Package data loads the game content catalog: bills, tips, personas,
// scenarios and the puzzle decks. The catalog ships embedded in the binary;
// a content directory with the same layout can override individual files.
package data

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	apperrors "finops-arcade/internal/errors"
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"

	"gopkg.in/yaml.v3"
)

//go:embed content
var embedded embed.FS

const (
	billsFile     = "bills.json"
	tipsFile      = "tips.yaml"
	personasFile  = "personas.yaml"
	orderingFile  = "ordering.yaml"
	matchingFile  = "matching.yaml"
	pairsFile     = "pairs.yaml"
	maturityFile  = "maturity.yaml"
	flipcardsFile = "flipcards.json"
	scenarioGlob  = "scenarios/*.yaml"
)

// Ordering is the workflow-ordering puzzle deck.
type Ordering struct {
	Title    string               `json:"title" yaml:"title"`
	Scenario string               `json:"scenario" yaml:"scenario"`
	Steps    []model.OrderingStep `json:"steps" yaml:"steps"`
}

// Catalog holds every piece of static content. It is read-only after Load.
type Catalog struct {
	Bills     []model.Bill
	Tips      []string
	Personas  []model.Persona
	Ordering  Ordering
	Matching  model.MatchingContent
	Pairs     []model.ResponsibilityPair
	Maturity  []model.MaturityScenario
	Flipcards []model.Flipcard

	scenarios map[string]*model.Scenario
}

// layered reads a file from the override directory when it exists there and
// from the embedded content otherwise.
type layered struct {
	base    fs.FS
	overlay fs.FS
}

func (l layered) ReadFile(name string) ([]byte, error) {
	if l.overlay != nil {
		raw, err := fs.ReadFile(l.overlay, name)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return fs.ReadFile(l.base, name)
}

// Glob merges matches from both layers, deduplicated and sorted.
func (l layered) Glob(pattern string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, fsys := range []fs.FS{l.base, l.overlay} {
		if fsys == nil {
			continue
		}
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func embeddedContent() fs.FS {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load reads the catalog. An empty dir uses only the embedded content.
// The result is validated; invalid content yields an INVALID_CONTENT error.
func Load(dir string) (*Catalog, error) {
	src := layered{base: embeddedContent()}
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("content directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("content directory: %s is not a directory", dir)
		}
		src.overlay = os.DirFS(dir)
	}

	c, err := load(src)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidContent, "failed to load content", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func load(src layered) (*Catalog, error) {
	c := &Catalog{scenarios: map[string]*model.Scenario{}}

	if err := readJSON(src, billsFile, &c.Bills); err != nil {
		return nil, err
	}
	if err := readJSON(src, flipcardsFile, &c.Flipcards); err != nil {
		return nil, err
	}

	var tips struct {
		Tips []string `yaml:"tips"`
	}
	if err := readYAML(src, tipsFile, &tips); err != nil {
		return nil, err
	}
	c.Tips = tips.Tips

	personas, err := src.ReadFile(personasFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", personasFile, err)
	}
	if c.Personas, err = ParsePersonas(personas); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", personasFile, err)
	}

	if err := readYAML(src, orderingFile, &c.Ordering); err != nil {
		return nil, err
	}
	if err := readYAML(src, matchingFile, &c.Matching); err != nil {
		return nil, err
	}

	var pairs struct {
		Pairs []model.ResponsibilityPair `yaml:"pairs"`
	}
	if err := readYAML(src, pairsFile, &pairs); err != nil {
		return nil, err
	}
	c.Pairs = pairs.Pairs

	var maturity struct {
		Scenarios []model.MaturityScenario `yaml:"scenarios"`
	}
	if err := readYAML(src, maturityFile, &maturity); err != nil {
		return nil, err
	}
	c.Maturity = maturity.Scenarios

	files, err := src.Glob(scenarioGlob)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		var sc model.Scenario
		if err := readYAML(src, f, &sc); err != nil {
			return nil, err
		}
		if _, dup := c.scenarios[sc.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate scenario id %q", f, sc.ID)
		}
		c.scenarios[sc.ID] = &sc
	}
	return c, nil
}

func readJSON(src layered, name string, v any) error {
	raw, err := src.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func readYAML(src layered, name string, v any) error {
	raw, err := src.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// ParsePersonas decodes a personas document (a top-level `personas:` list).
func ParsePersonas(raw []byte) ([]model.Persona, error) {
	var w struct {
		Personas []model.Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return w.Personas, nil
}

// Validate checks every content file and reports all problems at once.
func (c *Catalog) Validate() error {
	var errs []error
	if len(c.Bills) == 0 {
		errs = append(errs, errors.New("bills: at least one bill is required"))
	}
	billIDs := map[string]struct{}{}
	for _, b := range c.Bills {
		if _, dup := billIDs[b.ID]; dup {
			errs = append(errs, fmt.Errorf("bills: duplicate bill id %q", b.ID))
		}
		billIDs[b.ID] = struct{}{}
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bills: %w", err))
		}
	}
	if len(c.Tips) == 0 {
		errs = append(errs, errors.New("tips: at least one tip is required"))
	}
	for _, p := range c.Personas {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("personas: %w", err))
		}
	}
	for _, id := range c.ScenarioIDs() {
		if err := c.scenarios[id].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, c.validateOrdering()...)
	errs = append(errs, c.validateMatching()...)
	for _, m := range c.Maturity {
		if !contains(m.StageOptions, m.CorrectStage) {
			errs = append(errs, fmt.Errorf("maturity %q: correct stage %q is not an option", m.Title, m.CorrectStage))
		}
	}
	for i, p := range c.Pairs {
		if p.Persona == "" || p.Responsibility == "" {
			errs = append(errs, fmt.Errorf("pairs: entry %d is incomplete", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidContent, "content catalog failed validation", err)
	}
	return nil
}

func (c *Catalog) validateOrdering() []error {
	var errs []error
	ids := map[string]struct{}{}
	for _, s := range c.Ordering.Steps {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("ordering: step %q has no id", s.Title))
			continue
		}
		if _, dup := ids[s.ID]; dup {
			errs = append(errs, fmt.Errorf("ordering: duplicate step id %q", s.ID))
		}
		ids[s.ID] = struct{}{}
	}
	return errs
}

func (c *Catalog) validateMatching() []error {
	var errs []error
	roles := map[string]struct{}{}
	for _, r := range c.Matching.Roles {
		roles[r.Name] = struct{}{}
	}
	problems := map[int]struct{}{}
	for _, p := range c.Matching.Problems {
		if _, dup := problems[p.ID]; dup {
			errs = append(errs, fmt.Errorf("matching: duplicate problem id %d", p.ID))
		}
		problems[p.ID] = struct{}{}
		if _, ok := roles[p.CorrectPersona]; !ok {
			errs = append(errs, fmt.Errorf("matching: problem %d names unknown persona %q", p.ID, p.CorrectPersona))
		}
	}
	for _, m := range c.Matching.Missions {
		if _, ok := problems[m.ProblemID]; !ok {
			errs = append(errs, fmt.Errorf("matching: mission %q references unknown problem %d", m.Title, m.ProblemID))
		}
		correct := 0
		for _, o := range m.Options {
			if o.Correct {
				correct++
			}
		}
		if correct != 1 {
			errs = append(errs, fmt.Errorf("matching: mission %q has %d correct options, want 1", m.Title, correct))
		}
	}
	return errs
}

func contains(items []string, v string) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}

// Bill returns the bill with the given id.
func (c *Catalog) Bill(id string) (model.Bill, error) {
	for _, b := range c.Bills {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Bill{}, apperrors.NotFound("bill", id)
}

// RandomBill picks one bill uniformly.
func (c *Catalog) RandomBill(src random.Source) (model.Bill, error) {
	b, ok := random.Pick(src, c.Bills)
	if !ok {
		return model.Bill{}, apperrors.New(apperrors.CodeNotFound, "no bills available")
	}
	return b, nil
}

// Tip picks one tip uniformly; empty when there are none.
func (c *Catalog) Tip(src random.Source) string {
	t, _ := random.Pick(src, c.Tips)
	return t
}

// Scenario returns the scenario with the given id.
func (c *Catalog) Scenario(id string) (*model.Scenario, error) {
	sc, ok := c.scenarios[id]
	if !ok {
		return nil, apperrors.NotFound("scenario", id)
	}
	return sc, nil
}

// ScenarioIDs lists scenario ids in sorted order.
func (c *Catalog) ScenarioIDs() []string {
	ids := make([]string, 0, len(c.scenarios))
	for id := range c.scenarios {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Export writes the embedded content to dir so it can be edited and loaded
// back as an override. Existing files are overwritten.
func Export(dir string) ([]string, error) {
	content := embeddedContent()
	var written []string
	err := fs.WalkDir(content, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := fs.ReadFile(content, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(p))
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		if err := os.WriteFile(dst, raw, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
		written = append(written, path.Clean(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}
