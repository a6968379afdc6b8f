package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tpq-attendance/internal/keys"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/ui"
)

func testConfig() *model.AppConfig {
	cfg := model.DefaultAppConfig()
	cfg.Database.Path = "/tmp/tpq.db"
	return cfg
}

func TestPersistSavesEditedValues(t *testing.T) {
	var saved *model.AppConfig
	save := func(cfg *model.AppConfig) error { saved = cfg; return nil }

	m := New(testConfig(), save, keys.DefaultKeyMap(), 100, 40)
	m.Open()
	m.fb.schoolName = "  TPQ Al-Falah "
	m.fb.theme = "green"

	msg := m.persist()()
	m, cmd := m.Update(msg)
	require.NotNil(t, saved)
	assert.Equal(t, "TPQ Al-Falah", saved.School.Name)
	assert.Equal(t, "green", saved.Display.Theme)
	assert.Equal(t, "Settings saved", m.status)

	require.NotNil(t, cmd)
	out, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.False(t, out.Restart)
	assert.Same(t, saved, out.Config)
}

func TestPersistFlagsDatabaseChange(t *testing.T) {
	m := New(testConfig(), func(*model.AppConfig) error { return nil }, keys.DefaultKeyMap(), 100, 40)
	m.Open()
	m.fb.dbPath = "/tmp/other.db"

	msg := m.persist()().(savedInternalMsg)
	assert.True(t, msg.restart)
}

func TestPersistError(t *testing.T) {
	m := New(testConfig(), func(*model.AppConfig) error { return errors.New("read-only") }, keys.DefaultKeyMap(), 100, 40)
	m.Open()
	m.form = nil

	m, cmd := m.Update(m.persist()())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "read-only")
	assert.Equal(t, "TPQ", m.current.School.Name)
}

func TestBackWhenIdle(t *testing.T) {
	m := New(testConfig(), nil, keys.DefaultKeyMap(), 100, 40)
	assert.False(t, m.Capturing())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.BackMsg{}, cmd())
}
