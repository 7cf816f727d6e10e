package persistence

import (
	"time"
)

// PrototypeModel represents the facility_prototypes table
type PrototypeModel struct {
	Name         string    `gorm:"column:name;primaryKey;not null"`
	InCommodity  string    `gorm:"column:in_commodity;not null"`
	InRecipe     string    `gorm:"column:in_recipe;not null"`
	OutCommodity string    `gorm:"column:out_commodity;not null"`
	OutRecipe    string    `gorm:"column:out_recipe;not null"`
	BatchSize    float64   `gorm:"column:batch_size;not null"`
	NBatches     int       `gorm:"column:n_batches;not null"`
	NLoad        int       `gorm:"column:n_load;not null;default:1"`
	NReserves    int       `gorm:"column:n_reserves;not null;default:1"`
	ProcessTime  int       `gorm:"column:process_time;not null"`
	RefuelTime   int       `gorm:"column:refuel_time;not null;default:0"`
	PreorderTime int       `gorm:"column:preorder_time;not null;default:0"`
	OrderPolicy  string    `gorm:"column:order_policy;not null;default:immediate"`
	Production   string    `gorm:"column:production;type:text"` // JSON as text
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (PrototypeModel) TableName() string {
	return "facility_prototypes"
}
