package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotRoundTrip(t *testing.T) {
	p := Project(testConfig(), "desktop", "admin")

	encoded, err := EncodePayload(p)
	assert.NoError(t, err)

	decoded, err := DecodePayload(encoded)
	assert.NoError(t, err)

	assert.Equal(t, p.SchoolName, decoded.SchoolName)
	assert.Equal(t, p.PrimaryColor, decoded.PrimaryColor)
	assert.Equal(t, p.ViewMode, decoded.ViewMode)
	assert.Equal(t, p.Role, decoded.Role)
	assert.Equal(t, p.Levels, decoded.Levels)
	assert.Len(t, decoded.Services, 1)
	assert.True(t, p.Services[0].Price.Equal(decoded.Services[0].Price))
}

func TestSnapshotRoundTripSurvivesUmlauts(t *testing.T) {
	cfg := testConfig()
	cfg.SchoolName = "Hündeschule Müller & Söhne"
	cfg.Services[0].Name = "Prüfungsvorbereitung"
	p := Project(cfg, "mobile", "member")

	encoded, err := EncodePayload(p)
	assert.NoError(t, err)

	decoded, err := DecodePayload(encoded)
	assert.NoError(t, err)
	assert.Equal(t, "Hündeschule Müller & Söhne", decoded.SchoolName)
	assert.Equal(t, "Prüfungsvorbereitung", decoded.Services[0].Name)
}

func TestSnapshotURL(t *testing.T) {
	p := Project(testConfig(), "mobile", "member")

	u, err := SnapshotURL("https://preview.pfotencard.de/", p)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://preview.pfotencard.de/#config="))

	decoded, err := PayloadFromSnapshotURL(u)
	assert.NoError(t, err)
	assert.Equal(t, p.SchoolName, decoded.SchoolName)
}

func TestPayloadFromSnapshotURLRejectsMissingFragment(t *testing.T) {
	_, err := PayloadFromSnapshotURL("https://preview.pfotencard.de/")
	assert.Error(t, err)
}
