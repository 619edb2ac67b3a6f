package preview

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/mikajoos-cmyk/pfotencard/internal/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func int64p(v int64) *int64 { return &v }

func testConfig() *product.Config {
	return &product.Config{
		SchoolName: "Hundeschule Wuff",
		Branding: product.Branding{
			PrimaryColor:   "#2f6f4f",
			SecondaryColor: "#f0e9dd",
			LogoURL:        "https://cdn.example.com/logo.png",
		},
		Wording: product.Wording{LevelTerm: "Level", VIPTerm: "VIP"},
		Services: []product.Service{
			{ID: int64p(3), Name: "Gruppenstunde", Category: product.CategoryTraining, Price: decimal.NewFromInt(15)},
		},
		Levels: []product.Level{
			{ID: int64p(1), Name: "Welpe", RankOrder: 1, Requirements: []product.Requirement{
				{ServiceID: 3, RequiredCount: 6},
			}},
		},
	}
}

func TestProjectResolvesServiceNames(t *testing.T) {
	p := Project(testConfig(), "mobile", "member")

	assert.Equal(t, "#2f6f4f", p.PrimaryColor)
	assert.Equal(t, "Hundeschule Wuff", p.SchoolName)
	assert.Equal(t, "mobile", p.ViewMode)
	assert.Equal(t, "member", p.Role)

	req := p.Levels[0].Requirements[0]
	assert.Equal(t, "Gruppenstunde", req.Name)
	assert.Equal(t, 6, req.Required)
	assert.Equal(t, int64(3), req.ServiceID)
}

func TestProjectDanglingReferenceFallsBackToPlaceholder(t *testing.T) {
	cfg := testConfig()
	cfg.Levels[0].Requirements[0].ServiceID = 99

	p := Project(cfg, "mobile", "member")

	assert.Equal(t, UnknownServiceName, p.Levels[0].Requirements[0].Name)
}

func TestProjectSyntheticIDEmbedsServiceID(t *testing.T) {
	p := Project(testConfig(), "mobile", "member")

	// no persisted requirement id, so the synthetic one is service id plus
	// a random component
	assert.Regexp(t, regexp.MustCompile(`^3-[0-9a-f]{8}$`), p.Levels[0].Requirements[0].ID)
}

func TestProjectUsesPersistedRequirementID(t *testing.T) {
	cfg := testConfig()
	cfg.Levels[0].Requirements[0].ID = int64p(42)

	p := Project(cfg, "mobile", "member")

	assert.Equal(t, "42", p.Levels[0].Requirements[0].ID)
}

func TestProjectIsIdempotentModuloSyntheticIDs(t *testing.T) {
	cfg := testConfig()

	a, err := json.Marshal(Project(cfg, "mobile", "member"))
	assert.NoError(t, err)
	b, err := json.Marshal(Project(cfg, "mobile", "member"))
	assert.NoError(t, err)

	// scrub the randomized synthetic requirement ids, everything else must
	// be byte-identical
	re := regexp.MustCompile(`"id":"3-[0-9a-f]{8}"`)
	assert.Equal(t,
		re.ReplaceAllString(string(a), `"id":"3-x"`),
		re.ReplaceAllString(string(b), `"id":"3-x"`))
}

func TestEnvelopeShape(t *testing.T) {
	env := NewEnvelope(Project(testConfig(), "mobile", "member"))

	data, err := json.Marshal(env)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"type":"UPDATE_CONFIG"`)
	assert.Contains(t, string(data), `"version":1`)
	assert.Contains(t, string(data), `"primary_color":"#2f6f4f"`)
}
