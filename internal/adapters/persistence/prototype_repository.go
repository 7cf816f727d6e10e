package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// GormPrototypeRepository implements reactor.PrototypeRepository using GORM
type GormPrototypeRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormPrototypeRepository creates a new GORM prototype repository.
// If clock is nil, uses RealClock for production.
func NewGormPrototypeRepository(db *gorm.DB, clock shared.Clock) *GormPrototypeRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormPrototypeRepository{db: db, clock: clock}
}

// Save upserts a prototype keyed by name, keeping the original creation time
func (r *GormPrototypeRepository) Save(ctx context.Context, cfg reactor.Config) error {
	model, err := r.configToModel(cfg)
	if err != nil {
		return fmt.Errorf("failed to convert prototype to model: %w", err)
	}

	now := r.clock.Now()
	model.UpdatedAt = now

	var existing PrototypeModel
	result := r.db.WithContext(ctx).Where("name = ?", cfg.Name).First(&existing)
	switch {
	case result.Error == nil:
		model.CreatedAt = existing.CreatedAt
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		model.CreatedAt = now
	default:
		return fmt.Errorf("failed to look up prototype: %w", result.Error)
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save prototype: %w", err)
	}
	return nil
}

// FindByName retrieves a prototype by name
func (r *GormPrototypeRepository) FindByName(ctx context.Context, name string) (*reactor.Config, error) {
	var model PrototypeModel
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", reactor.ErrPrototypeNotFound, name)
		}
		return nil, fmt.Errorf("failed to find prototype: %w", result.Error)
	}

	return r.modelToConfig(&model)
}

// ListAll retrieves every prototype ordered by name
func (r *GormPrototypeRepository) ListAll(ctx context.Context) ([]reactor.Config, error) {
	var models []PrototypeModel
	result := r.db.WithContext(ctx).Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list prototypes: %w", result.Error)
	}

	configs := make([]reactor.Config, 0, len(models))
	for i := range models {
		cfg, err := r.modelToConfig(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to list prototypes: %w", err)
		}
		configs = append(configs, *cfg)
	}

	return configs, nil
}

// Delete removes a prototype by name
func (r *GormPrototypeRepository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&PrototypeModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete prototype: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", reactor.ErrPrototypeNotFound, name)
	}
	return nil
}

// modelToConfig converts database model to domain config
func (r *GormPrototypeRepository) modelToConfig(model *PrototypeModel) (*reactor.Config, error) {
	var production reactor.Production
	if model.Production != "" {
		if err := json.Unmarshal([]byte(model.Production), &production); err != nil {
			return nil, fmt.Errorf("invalid production data for prototype %s: %w", model.Name, err)
		}
	}

	return &reactor.Config{
		Name:         model.Name,
		InCommodity:  model.InCommodity,
		InRecipe:     model.InRecipe,
		OutCommodity: model.OutCommodity,
		OutRecipe:    model.OutRecipe,
		BatchSize:    model.BatchSize,
		NBatches:     model.NBatches,
		NLoad:        model.NLoad,
		NReserves:    model.NReserves,
		ProcessTime:  model.ProcessTime,
		RefuelTime:   model.RefuelTime,
		PreorderTime: model.PreorderTime,
		OrderPolicy:  model.OrderPolicy,
		Production:   production,
	}, nil
}

// configToModel converts domain config to database model
func (r *GormPrototypeRepository) configToModel(cfg reactor.Config) (*PrototypeModel, error) {
	production, err := json.Marshal(cfg.Production)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal production: %w", err)
	}

	policy := cfg.OrderPolicy
	if policy == "" {
		policy = reactor.OrderPolicyImmediate
	}

	return &PrototypeModel{
		Name:         cfg.Name,
		InCommodity:  cfg.InCommodity,
		InRecipe:     cfg.InRecipe,
		OutCommodity: cfg.OutCommodity,
		OutRecipe:    cfg.OutRecipe,
		BatchSize:    cfg.BatchSize,
		NBatches:     cfg.NBatches,
		NLoad:        cfg.NLoad,
		NReserves:    cfg.NReserves,
		ProcessTime:  cfg.ProcessTime,
		RefuelTime:   cfg.RefuelTime,
		PreorderTime: cfg.PreorderTime,
		OrderPolicy:  policy,
		Production:   string(production),
	}, nil
}
