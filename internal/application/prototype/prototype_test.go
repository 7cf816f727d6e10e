package prototype_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/batchreactor-go/internal/application/common"
	"github.com/andrescamacho/batchreactor-go/internal/application/prototype"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// memoryRepository is an in-memory PrototypeRepository
type memoryRepository struct {
	prototypes map[string]reactor.Config
	failSave   bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{prototypes: make(map[string]reactor.Config)}
}

func (r *memoryRepository) Save(ctx context.Context, cfg reactor.Config) error {
	if r.failSave {
		return errors.New("disk full")
	}
	r.prototypes[cfg.Name] = cfg
	return nil
}

func (r *memoryRepository) FindByName(ctx context.Context, name string) (*reactor.Config, error) {
	cfg, ok := r.prototypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", reactor.ErrPrototypeNotFound, name)
	}
	return &cfg, nil
}

func (r *memoryRepository) ListAll(ctx context.Context) ([]reactor.Config, error) {
	out := make([]reactor.Config, 0, len(r.prototypes))
	for _, cfg := range r.prototypes {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepository) Delete(ctx context.Context, name string) error {
	if _, ok := r.prototypes[name]; !ok {
		return fmt.Errorf("%w: %s", reactor.ErrPrototypeNotFound, name)
	}
	delete(r.prototypes, name)
	return nil
}

func prototypeConfig(name string) reactor.Config {
	cfg := reactor.DefaultConfig()
	cfg.Name = name
	cfg.InCommodity = "fresh_fuel"
	cfg.InRecipe = "uox"
	cfg.OutCommodity = "spent_fuel"
	cfg.OutRecipe = "spent_uox"
	cfg.BatchSize = 10
	cfg.NBatches = 3
	cfg.ProcessTime = 5
	return cfg
}

func newMediator(t *testing.T, repo reactor.PrototypeRepository) common.Mediator {
	t.Helper()
	m := common.NewMediator()
	require.NoError(t, prototype.RegisterHandlers(m, repo))
	return m
}

func TestSavePrototype_StoresValidConfig(t *testing.T) {
	repo := newMemoryRepository()
	m := newMediator(t, repo)

	resp, err := m.Send(context.Background(), &prototype.SavePrototypeCommand{Config: prototypeConfig("lwr")})

	require.NoError(t, err)
	assert.Equal(t, "lwr", resp.(*prototype.SavePrototypeResponse).Config.Name)
	assert.Contains(t, repo.prototypes, "lwr")
}

func TestSavePrototype_RejectsInvalidConfig(t *testing.T) {
	repo := newMemoryRepository()
	m := newMediator(t, repo)
	cfg := prototypeConfig("lwr")
	cfg.NBatches = 0

	_, err := m.Send(context.Background(), &prototype.SavePrototypeCommand{Config: cfg})

	var cfgErr *shared.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, repo.prototypes)
}

func TestSavePrototype_RequiresName(t *testing.T) {
	m := newMediator(t, newMemoryRepository())

	_, err := m.Send(context.Background(), &prototype.SavePrototypeCommand{Config: prototypeConfig("")})

	var cfgErr *shared.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Name", cfgErr.Field)
}

func TestSavePrototype_WrapsRepositoryFailure(t *testing.T) {
	repo := newMemoryRepository()
	repo.failSave = true
	m := newMediator(t, repo)

	_, err := m.Send(context.Background(), &prototype.SavePrototypeCommand{Config: prototypeConfig("lwr")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestGetPrototype(t *testing.T) {
	repo := newMemoryRepository()
	repo.prototypes["lwr"] = prototypeConfig("lwr")
	m := newMediator(t, repo)

	resp, err := m.Send(context.Background(), &prototype.GetPrototypeQuery{Name: "lwr"})
	require.NoError(t, err)
	assert.Equal(t, prototypeConfig("lwr"), resp.(*prototype.GetPrototypeResponse).Config)

	_, err = m.Send(context.Background(), &prototype.GetPrototypeQuery{Name: "missing"})
	assert.ErrorIs(t, err, reactor.ErrPrototypeNotFound)

	_, err = m.Send(context.Background(), &prototype.GetPrototypeQuery{})
	assert.Error(t, err)
}

func TestListPrototypes_OrderedByName(t *testing.T) {
	repo := newMemoryRepository()
	repo.prototypes["b"] = prototypeConfig("b")
	repo.prototypes["a"] = prototypeConfig("a")
	m := newMediator(t, repo)

	resp, err := m.Send(context.Background(), &prototype.ListPrototypesQuery{})

	require.NoError(t, err)
	list := resp.(*prototype.ListPrototypesResponse).Prototypes
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)
}

func TestDeletePrototype(t *testing.T) {
	repo := newMemoryRepository()
	repo.prototypes["lwr"] = prototypeConfig("lwr")
	m := newMediator(t, repo)

	_, err := m.Send(context.Background(), &prototype.DeletePrototypeCommand{Name: "lwr"})
	require.NoError(t, err)
	assert.Empty(t, repo.prototypes)

	_, err = m.Send(context.Background(), &prototype.DeletePrototypeCommand{Name: "lwr"})
	assert.ErrorIs(t, err, reactor.ErrPrototypeNotFound)
}
