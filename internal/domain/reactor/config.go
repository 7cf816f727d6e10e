package reactor

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// Order policy names accepted by Config.OrderPolicy
const (
	OrderPolicyImmediate = "immediate"
	OrderPolicyLookahead = "lookahead"
)

// Production declares the commodity a facility produces, reported to capacity tracking only
type Production struct {
	Commodity string  `mapstructure:"commodity" json:"commodity"`
	Capacity  float64 `mapstructure:"capacity" json:"capacity" validate:"min=0"`
	Cost      float64 `mapstructure:"cost" json:"cost" validate:"min=0"`
}

// Config holds the immutable parameters of a batch reactor.
// Copying a Config and passing it to NewReactor yields an independent facility with empty buffers.
type Config struct {
	Name string `mapstructure:"name" json:"name"`

	// Fuel in/out
	InCommodity  string `mapstructure:"in_commodity" json:"in_commodity" validate:"required"`
	InRecipe     string `mapstructure:"in_recipe" json:"in_recipe" validate:"required"`
	OutCommodity string `mapstructure:"out_commodity" json:"out_commodity" validate:"required"`
	OutRecipe    string `mapstructure:"out_recipe" json:"out_recipe" validate:"required"`

	// Mass of one batch
	BatchSize float64 `mapstructure:"batch_size" json:"batch_size" validate:"gt=0"`

	// Batches held by a full core
	NBatches int `mapstructure:"n_batches" json:"n_batches" validate:"min=1"`

	// Batches discharged at the end of each processing run
	NLoad int `mapstructure:"n_load" json:"n_load" validate:"min=1,ltefield=NBatches"`

	// Full batches kept staged in reserves
	NReserves int `mapstructure:"n_reserves" json:"n_reserves" validate:"min=0"`

	// Ticks a full core irradiates
	ProcessTime int `mapstructure:"process_time" json:"process_time" validate:"min=0"`

	// Minimum ticks between the end of a run and the next start
	RefuelTime int `mapstructure:"refuel_time" json:"refuel_time" validate:"min=0"`

	// Ticks before need that an order may be placed (lookahead policy only)
	PreorderTime int `mapstructure:"preorder_time" json:"preorder_time" validate:"min=0"`

	OrderPolicy string `mapstructure:"order_policy" json:"order_policy" validate:"omitempty,oneof=immediate lookahead"`

	Production Production `mapstructure:"production" json:"production"`
}

// DefaultConfig returns a Config carrying the optional parameter defaults
func DefaultConfig() Config {
	return Config{
		NLoad:       1,
		NReserves:   1,
		RefuelTime:  0,
		OrderPolicy: OrderPolicyImmediate,
	}
}

// CoreLoading is the mass of a full core
func (c Config) CoreLoading() float64 {
	return float64(c.NBatches) * c.BatchSize
}

// Validate checks every parameter and returns a *shared.ConfigurationError for the first violation
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return shared.NewConfigurationError(fe.Field(), describeRule(fe))
		}
		return shared.NewConfigurationError("config", err.Error())
	}
	return nil
}

var configValidator = validator.New()

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s (got %v)", fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "ltefield":
		return fmt.Sprintf("must not exceed %s (got %v)", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got %v)", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation (got %v)", fe.Tag(), fe.Value())
	}
}
