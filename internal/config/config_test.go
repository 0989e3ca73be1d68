package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklistPorDefecto(t *testing.T) {
	cl := ChecklistPorDefecto()
	assert.Equal(t, 1, cl.Version)
	assert.Len(t, cl.Tareas, 22)
}

func TestParseChecklist(t *testing.T) {
	cl, err := ParseChecklist([]byte("version: 3\ntareas:\n  - \" Encender hornos \"\n  - \"\"\n  - Limpiar mesones\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cl.Version)
	assert.Equal(t, []string{"Encender hornos", "Limpiar mesones"}, cl.Tareas)
}

func TestParseChecklist_Invalido(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"sin version", "tareas:\n  - a\n"},
		{"sin tareas", "version: 1\ntareas: []\n"},
		{"duplicada", "version: 1\ntareas:\n  - a\n  - a\n"},
		{"yaml roto", "version: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChecklist([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadChecklist(t *testing.T) {
	cl, err := LoadChecklist("")
	require.NoError(t, err)
	assert.Len(t, cl.Tareas, 22)

	path := filepath.Join(t.TempDir(), "checklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 2\ntareas:\n  - Uno\n"), 0o600))
	cl, err = LoadChecklist(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cl.Version)

	_, err = LoadChecklist(filepath.Join(t.TempDir(), "no-existe.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultsYEntorno(t *testing.T) {
	t.Setenv("MIN_CLOSE_PERCENTAGE", "75")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 12, cfg.JWTExpirationHours)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)

	reglas := cfg.Reglas()
	assert.Equal(t, 75, reglas.PorcentajeMinimoCierre)
	assert.Equal(t, 20, reglas.PorcentajeStockBajo)
	assert.Equal(t, "salsas", reglas.CategoriaSalsa)
}
