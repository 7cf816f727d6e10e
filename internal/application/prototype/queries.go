package prototype

import (
	"context"
	"fmt"

	"github.com/andrescamacho/batchreactor-go/internal/application/common"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// GetPrototypeQuery fetches one prototype by name
type GetPrototypeQuery struct {
	Name string
}

// GetPrototypeResponse carries the stored configuration
type GetPrototypeResponse struct {
	Config reactor.Config
}

// GetPrototypeHandler handles GetPrototypeQuery
type GetPrototypeHandler struct {
	repo reactor.PrototypeRepository
}

// NewGetPrototypeHandler creates a new get prototype handler
func NewGetPrototypeHandler(repo reactor.PrototypeRepository) *GetPrototypeHandler {
	return &GetPrototypeHandler{repo: repo}
}

// Handle executes the GetPrototype query
func (h *GetPrototypeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetPrototypeQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPrototypeQuery")
	}
	if query.Name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}

	cfg, err := h.repo.FindByName(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	return &GetPrototypeResponse{Config: *cfg}, nil
}

// ListPrototypesQuery lists every stored prototype
type ListPrototypesQuery struct{}

// ListPrototypesResponse carries the prototypes ordered by name
type ListPrototypesResponse struct {
	Prototypes []reactor.Config
}

// ListPrototypesHandler handles ListPrototypesQuery
type ListPrototypesHandler struct {
	repo reactor.PrototypeRepository
}

// NewListPrototypesHandler creates a new list prototypes handler
func NewListPrototypesHandler(repo reactor.PrototypeRepository) *ListPrototypesHandler {
	return &ListPrototypesHandler{repo: repo}
}

// Handle executes the ListPrototypes query
func (h *ListPrototypesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListPrototypesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPrototypesQuery")
	}

	prototypes, err := h.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prototypes: %w", err)
	}
	return &ListPrototypesResponse{Prototypes: prototypes}, nil
}

// RegisterHandlers wires every prototype handler into the mediator
func RegisterHandlers(m common.Mediator, repo reactor.PrototypeRepository) error {
	if err := common.RegisterHandler[*SavePrototypeCommand](m, NewSavePrototypeHandler(repo)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*DeletePrototypeCommand](m, NewDeletePrototypeHandler(repo)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*GetPrototypeQuery](m, NewGetPrototypeHandler(repo)); err != nil {
		return err
	}
	return common.RegisterHandler[*ListPrototypesQuery](m, NewListPrototypesHandler(repo))
}
