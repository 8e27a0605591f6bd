package srv

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kchat-ai/kchat/pkg/ai"
)

type fakeDriver struct {
	err  error
	resp ai.GenerateResponse
}

func (d *fakeDriver) Generate(ctx context.Context, req ai.GenerateRequest, opts ai.GenerateOptions) (ai.GenerateResponse, error) {
	return d.resp, d.err
}

func (d *fakeDriver) Embed(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, 4), nil
}

func newTestSrv(driver ai.Driver) *Srv {
	return SetupSrvs(ApplyAIDriver(driver))
}

func TestGeneratePassthrough(t *testing.T) {
	srv := newTestSrv(&fakeDriver{resp: ai.GenerateResponse{
		Content:          "Antwort",
		PromptTokens:     12,
		CompletionTokens: 4,
	}})

	resp, degraded, err := srv.AI().Generate(context.Background(), "de", ai.GenerateRequest{}, ai.GenerateOptions{})
	assert.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, "Antwort", resp.Content)
	assert.Equal(t, 12, resp.PromptTokens)
}

func TestGenerateRateLimitedDegrades(t *testing.T) {
	srv := newTestSrv(&fakeDriver{err: fmt.Errorf("backend: %w", ai.ErrRateLimited)})

	resp, degraded, err := srv.AI().Generate(context.Background(), "de", ai.GenerateRequest{}, ai.GenerateOptions{})
	assert.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, resp.Content)
	assert.Zero(t, resp.PromptTokens)
	assert.Zero(t, resp.CompletionTokens)
}

func TestGenerateContextTooLongDegrades(t *testing.T) {
	srv := newTestSrv(&fakeDriver{err: fmt.Errorf("backend: %w", ai.ErrContextTooLong)})

	resp, degraded, err := srv.AI().Generate(context.Background(), "en", ai.GenerateRequest{}, ai.GenerateOptions{})
	assert.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, resp.Content)
}

func TestGenerateUnknownErrorSurfaces(t *testing.T) {
	srv := newTestSrv(&fakeDriver{err: fmt.Errorf("connection refused")})

	_, degraded, err := srv.AI().Generate(context.Background(), "de", ai.GenerateRequest{}, ai.GenerateOptions{})
	assert.Error(t, err)
	assert.False(t, degraded)
}

func TestRBACHierarchy(t *testing.T) {
	rbac := SetupRBACSrv()

	assert.True(t, rbac.CheckPermission("USER", PermissionChat))
	assert.False(t, rbac.CheckPermission("USER", PermissionManage))

	assert.True(t, rbac.CheckPermission("ADMIN", PermissionChat))
	assert.True(t, rbac.CheckPermission("ADMIN", PermissionManage))
	assert.False(t, rbac.CheckPermission("ADMIN", PermissionAdmin))

	assert.True(t, rbac.CheckPermission("SUPER_ADMIN", PermissionChat))
	assert.True(t, rbac.CheckPermission("SUPER_ADMIN", PermissionManage))
	assert.True(t, rbac.CheckPermission("SUPER_ADMIN", PermissionAdmin))
}
