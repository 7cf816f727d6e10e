package prototype

import (
	"context"
	"fmt"

	"github.com/andrescamacho/batchreactor-go/internal/application/common"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// SavePrototypeCommand stores a named facility configuration, replacing any prototype of the same name
type SavePrototypeCommand struct {
	Config reactor.Config
}

// SavePrototypeResponse echoes the stored configuration
type SavePrototypeResponse struct {
	Config reactor.Config
}

// SavePrototypeHandler handles SavePrototypeCommand
type SavePrototypeHandler struct {
	repo reactor.PrototypeRepository
}

// NewSavePrototypeHandler creates a new save prototype handler
func NewSavePrototypeHandler(repo reactor.PrototypeRepository) *SavePrototypeHandler {
	return &SavePrototypeHandler{repo: repo}
}

// Handle validates and stores the prototype
func (h *SavePrototypeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SavePrototypeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SavePrototypeCommand")
	}

	if cmd.Config.Name == "" {
		return nil, shared.NewConfigurationError("Name", "is required for a prototype")
	}
	if err := cmd.Config.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, cmd.Config); err != nil {
		return nil, fmt.Errorf("failed to save prototype %s: %w", cmd.Config.Name, err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "prototype saved", map[string]interface{}{
		"prototype": cmd.Config.Name,
	})
	return &SavePrototypeResponse{Config: cmd.Config}, nil
}

// DeletePrototypeCommand removes a stored prototype
type DeletePrototypeCommand struct {
	Name string
}

// DeletePrototypeResponse confirms the deletion
type DeletePrototypeResponse struct {
	Name string
}

// DeletePrototypeHandler handles DeletePrototypeCommand
type DeletePrototypeHandler struct {
	repo reactor.PrototypeRepository
}

// NewDeletePrototypeHandler creates a new delete prototype handler
func NewDeletePrototypeHandler(repo reactor.PrototypeRepository) *DeletePrototypeHandler {
	return &DeletePrototypeHandler{repo: repo}
}

// Handle removes the prototype; deleting an unknown name returns reactor.ErrPrototypeNotFound
func (h *DeletePrototypeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeletePrototypeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeletePrototypeCommand")
	}
	if cmd.Name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}

	if err := h.repo.Delete(ctx, cmd.Name); err != nil {
		return nil, fmt.Errorf("failed to delete prototype %s: %w", cmd.Name, err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "prototype deleted", map[string]interface{}{
		"prototype": cmd.Name,
	})
	return &DeletePrototypeResponse{Name: cmd.Name}, nil
}
