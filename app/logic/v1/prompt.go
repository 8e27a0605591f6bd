package v1

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/kchat-ai/kchat/app/core"
	pkgerrs "github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/types"
	"github.com/kchat-ai/kchat/pkg/utils"
)

type PromptLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewPromptLogic(ctx context.Context, core *core.Core) *PromptLogic {
	return &PromptLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx),
	}
}

type CreatePromptArgs struct {
	Name    string           `json:"name" binding:"required"`
	Type    types.PromptType `json:"type"`
	Content string           `json:"content" binding:"required"`
}

// CreatePrompt stores a new prompt. Editing under the same name creates the
// next version rather than overwriting, so UpdatePrompt is also a create.
func (l *PromptLogic) CreatePrompt(args CreatePromptArgs) (*types.Prompt, error) {
	if args.Type == "" {
		args.Type = types.PROMPT_TYPE_SYSTEM
	}
	if args.Type != types.PROMPT_TYPE_SYSTEM && args.Type != types.PROMPT_TYPE_TEMPLATE {
		return nil, pkgerrs.New("PromptLogic.CreatePrompt", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	version, err := l.core.Store().PromptStore().LatestVersion(l.ctx, args.Name)
	if err != nil {
		return nil, pkgerrs.Trace("PromptLogic.CreatePrompt", err)
	}

	prompt := types.Prompt{
		ID:      utils.GenRandomID(),
		Name:    args.Name,
		Type:    args.Type,
		Content: args.Content,
		Version: version + 1,
	}
	if err = l.core.Store().PromptStore().Create(l.ctx, prompt); err != nil {
		return nil, pkgerrs.Trace("PromptLogic.CreatePrompt", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_PROMPT_UPDATE, "prompt", prompt.ID, types.AuditDetails{
		"name":    prompt.Name,
		"version": prompt.Version,
	}, "")
	return &prompt, nil
}

type UpdatePromptArgs struct {
	Content string `json:"content" binding:"required"`
}

// UpdatePrompt writes the edited content as a new version of the same prompt
// name. The previous version stays untouched and stays active.
func (l *PromptLogic) UpdatePrompt(id string, args UpdatePromptArgs) (*types.Prompt, error) {
	existing, err := l.GetPrompt(id)
	if err != nil {
		return nil, err
	}
	return l.CreatePrompt(CreatePromptArgs{
		Name:    existing.Name,
		Type:    existing.Type,
		Content: args.Content,
	})
}

func (l *PromptLogic) GetPrompt(id string) (*types.Prompt, error) {
	prompt, err := l.core.Store().PromptStore().Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrs.New("PromptLogic.GetPrompt", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrs.Trace("PromptLogic.GetPrompt", err)
	}
	return prompt, nil
}

func (l *PromptLogic) ListPrompts(promptType types.PromptType, page, pageSize uint64) ([]types.Prompt, error) {
	list, err := l.core.Store().PromptStore().List(l.ctx, promptType, page, pageSize)
	if err != nil {
		return nil, pkgerrs.Trace("PromptLogic.ListPrompts", err)
	}
	return list, nil
}

// ActivatePrompt makes the given version the single active prompt of its
// type. Deactivation and activation run in one transaction so there is never
// a window with two active SYSTEM prompts.
func (l *PromptLogic) ActivatePrompt(id string) error {
	prompt, err := l.GetPrompt(id)
	if err != nil {
		return err
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().PromptStore().DeactivateAll(ctx, prompt.Type); err != nil {
			return err
		}
		return l.core.Store().PromptStore().Activate(ctx, id)
	})
	if err != nil {
		return pkgerrs.Trace("PromptLogic.ActivatePrompt", err)
	}

	NewAuditLogic(l.ctx, l.core).Record(l.User, types.AUDIT_ACTION_PROMPT_UPDATE, "prompt", id, types.AuditDetails{
		"name":      prompt.Name,
		"version":   prompt.Version,
		"activated": true,
	}, "")
	return nil
}
