package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kchat-ai/kchat/pkg/testutils"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type testPGConfig struct {
	DSN string
}

func (m testPGConfig) FormatDSN() string {
	return m.DSN
}

func setupTestProvider(t *testing.T) *Provider {
	testutils.LoadTestEnv()
	dsn := os.Getenv("KCHAT_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("KCHAT_POSTGRES_DSN not set")
	}

	p := MustSetup(testPGConfig{DSN: dsn})()
	require.NoError(t, p.Install())
	return p
}

func TestFolderStoreRoundTrip(t *testing.T) {
	p := setupTestProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	folder := types.Folder{
		ID:            utils.GenRandomID(),
		Name:          "test-folder",
		Path:          "/test-" + utils.GenRandomID(),
		KnowledgeMode: types.KNOWLEDGE_MODE_HYBRID,
		Status:        types.FOLDER_STATUS_ACTIVE,
	}
	require.NoError(t, p.FolderStore().Create(ctx, folder))
	defer p.FolderStore().Delete(ctx, folder.ID)

	got, err := p.FolderStore().Get(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.Path, got.Path)
	assert.Equal(t, types.KNOWLEDGE_MODE_HYBRID, got.KnowledgeMode)

	byPath, err := p.FolderStore().GetByPath(ctx, folder.Path)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, byPath.ID)
}

func TestTransactionRollback(t *testing.T) {
	p := setupTestProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	id := utils.GenRandomID()
	err := p.Transaction(ctx, func(ctx context.Context) error {
		if err := p.GroupStore().Create(ctx, types.Group{ID: id, Name: "tx-test"}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.Error(t, err)

	_, err = p.GroupStore().Get(ctx, id)
	assert.Error(t, err) // rolled back, must not exist
}
