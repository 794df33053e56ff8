package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table. Dishes are stored as two parallel arrays.
type orderRecord struct {
	ID             string         `gorm:"primaryKey;column:id;size:64"`
	DeliverTo      string         `gorm:"column:deliver_to"`
	MobileNumber   string         `gorm:"column:mobile_number"`
	Status         string         `gorm:"column:status;type:varchar(32);index"`
	DishNames      pq.StringArray `gorm:"column:dish_names;type:text[]"`
	DishQuantities pq.Int64Array  `gorm:"column:dish_quantities;type:bigint[]"`
	CreatedAt      time.Time      `gorm:"column:created_at;index"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateID
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Update overwrites every mutable column of an existing order.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"deliver_to":      record.DeliverTo,
			"mobile_number":   record.MobileNumber,
			"status":          record.Status,
			"dish_names":      record.DishNames,
			"dish_quantities": record.DishQuantities,
			"updated_at":      gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes an order by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&orderRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all orders in insertion order.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	names := make(pq.StringArray, 0, len(order.Dishes))
	quantities := make(pq.Int64Array, 0, len(order.Dishes))
	for _, dish := range order.Dishes {
		names = append(names, dish.Name)
		quantities = append(quantities, int64(dish.Quantity))
	}
	return orderRecord{
		ID:             order.ID,
		DeliverTo:      order.DeliverTo,
		MobileNumber:   order.MobileNumber,
		Status:         string(order.Status),
		DishNames:      names,
		DishQuantities: quantities,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	dishes := make([]domain.Dish, 0, len(r.DishNames))
	for i, name := range r.DishNames {
		var quantity int
		if i < len(r.DishQuantities) {
			quantity = int(r.DishQuantities[i])
		}
		dishes = append(dishes, domain.Dish{Name: name, Quantity: quantity})
	}
	return &domain.Order{
		ID:           r.ID,
		DeliverTo:    r.DeliverTo,
		MobileNumber: r.MobileNumber,
		Status:       domain.Status(r.Status),
		Dishes:       dishes,
	}
}
