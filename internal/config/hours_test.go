package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validHoursYAML = `week:
  - day: "Lunedì"
    closed: true
  - day: "Martedì"
    hours: "12:00 - 14:30, 19:00 - 23:00"
  - day: "Mercoledì"
    hours: "12:00 - 14:30, 19:00 - 23:00"
  - day: "Giovedì"
    hours: "12:00 - 14:30, 19:00 - 23:00"
  - day: "Venerdì"
    hours: "12:00 - 14:30, 19:00 - 00:00"
  - day: "Sabato"
    hours: "19:00 - 00:00"
  - day: "Domenica"
    hours: "12:00 - 15:00"
`

func TestLoadHoursConfig(t *testing.T) {
	path := writeTempFile(t, "hours.yaml", validHoursYAML)

	cfg, err := LoadHoursConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Week, 7)

	week := cfg.Schedule()
	assert.True(t, week[0].Closed)
	assert.Equal(t, "12:00 - 14:30, 19:00 - 23:00", week[1].Hours)
	assert.Equal(t, "Domenica", week[6].Day)
}

func TestLoadHoursConfigRejectsShortWeek(t *testing.T) {
	path := writeTempFile(t, "hours.yaml", `week:
  - day: "Lunedì"
    hours: "12:00 - 14:30"
`)

	_, err := LoadHoursConfig(path)
	assert.ErrorContains(t, err, "exactly 7 entries")
}

func TestLoadHoursConfigRejectsMissingLabel(t *testing.T) {
	path := writeTempFile(t, "hours.yaml", `week:
  - {hours: "12:00 - 14:30"}
  - {day: b}
  - {day: c}
  - {day: d}
  - {day: e}
  - {day: f}
  - {day: g}
`)

	_, err := LoadHoursConfig(path)
	assert.ErrorContains(t, err, "missing day label")
}

func TestLoadMenuConfig(t *testing.T) {
	path := writeTempFile(t, "menu.yaml", `categories:
  - name: "Pizze"
    products:
      - name: "Margherita"
        description: "pomodoro, mozzarella, basilico"
        price: "7.50"
        tags: [classica]
      - name: "Diavola"
        price: "9.00"
        visible: false
  - name: "Dolci"
    products:
      - name: "Tiramisù"
        price: "5.00"
`)

	cfg, err := LoadMenuConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Categories, 2)
	assert.Equal(t, "Pizze", cfg.Categories[0].Name)
	assert.True(t, IsVisible(cfg.Categories[0].Products[0].Visible))
	assert.False(t, IsVisible(cfg.Categories[0].Products[1].Visible))
}

func TestLoadMenuConfigRejectsBadPrice(t *testing.T) {
	path := writeTempFile(t, "menu.yaml", `categories:
  - name: "Pizze"
    products:
      - name: "Margherita"
        price: "gratis"
`)

	_, err := LoadMenuConfig(path)
	assert.ErrorContains(t, err, "invalid price")
}

func TestLoadMenuConfigRejectsDuplicateCategory(t *testing.T) {
	path := writeTempFile(t, "menu.yaml", `categories:
  - name: "Pizze"
    products: [{name: "Margherita", price: "7.50"}]
  - name: "Pizze"
    products: [{name: "Diavola", price: "9.00"}]
`)

	_, err := LoadMenuConfig(path)
	assert.ErrorContains(t, err, "duplicate name")
}
