package rporder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"freshmart/common/entity"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/pkg/errorx"
)

const mysqlDuplicateEntry = 1062

// OrderRepositoryImpl gorm implementation (MySQL in production, sqlite in tests)
type OrderRepositoryImpl struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOrderRepository creates the repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db, now: time.Now}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *etorder.Order) error {
	po, err := r.toGormModel(order)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("insert order %s: %w", order.OrderID, errorx.ErrDuplicateOrderID)
		}
		return errorx.Persistence("insert order", err)
	}

	order.ID = po.ID
	order.Revision = po.Revision
	order.CreatedAt = po.CreatedAt
	order.UpdatedAt = po.UpdatedAt
	return nil
}

func (r *OrderRepositoryImpl) GetByOrderID(ctx context.Context, orderID string) (*etorder.Order, error) {
	return r.first(ctx, "order_id = ?", orderID)
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id int64) (*etorder.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *OrderRepositoryImpl) first(ctx context.Context, query string, arg interface{}) (*etorder.Order, error) {
	var po entity.Order
	err := r.db.WithContext(ctx).Where(query, arg).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrOrderNotFound
		}
		return nil, errorx.Persistence("get order", err)
	}
	return r.toDomainModel(&po)
}

func (r *OrderRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]*etorder.Order, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Slot != "" {
		query = query.Where("delivery_slot = ?", string(filter.Slot))
	}

	var pos []entity.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&pos).Error; err != nil {
		return nil, errorx.Persistence("list orders", err)
	}

	orders := make([]*etorder.Order, 0, len(pos))
	for i := range pos {
		order, err := r.toDomainModel(&pos[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *OrderRepositoryImpl) Save(ctx context.Context, order *etorder.Order) error {
	itemsJSON, historyJSON, err := marshalDocuments(order)
	if err != nil {
		return err
	}

	expected := order.Revision
	now := r.now()
	res := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ? AND revision = ?", order.ID, expected).
		Updates(map[string]interface{}{
			"items":           itemsJSON,
			"status":          string(order.Status()),
			"status_history":  historyJSON,
			"total_amount":    order.TotalAmount(),
			"delivery_charge": order.DeliveryCharge(),
			"revision":        expected + 1,
			"updated_at":      now,
		})
	if res.Error != nil {
		return errorx.Persistence("update order", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return errorx.Persistence("update order", err)
		}
		if count == 0 {
			return errorx.ErrOrderNotFound
		}
		return fmt.Errorf("update order %s at revision %d: %w", order.OrderID, expected, errorx.ErrConflict)
	}

	order.Revision = expected + 1
	order.UpdatedAt = now
	return nil
}

func marshalDocuments(order *etorder.Order) (datatypes.JSON, datatypes.JSON, error) {
	itemsJSON, err := json.Marshal(order.Items())
	if err != nil {
		return nil, nil, fmt.Errorf("marshal items failed: %w", err)
	}
	historyJSON, err := json.Marshal(order.StatusHistory())
	if err != nil {
		return nil, nil, fmt.Errorf("marshal status history failed: %w", err)
	}
	return itemsJSON, historyJSON, nil
}

// toGormModel domain object -> persisted row
func (r *OrderRepositoryImpl) toGormModel(order *etorder.Order) (*entity.Order, error) {
	itemsJSON, historyJSON, err := marshalDocuments(order)
	if err != nil {
		return nil, err
	}

	return &entity.Order{
		ID:              order.ID,
		OrderID:         order.OrderID,
		CustomerName:    order.CustomerName,
		Items:           itemsJSON,
		DeliveryAddress: order.DeliveryAddress,
		Phone:           order.Phone,
		DeliverySlot:    string(order.DeliverySlot),
		Status:          string(order.Status()),
		StatusHistory:   historyJSON,
		PaymentMethod:   order.PaymentMethod,
		TotalAmount:     order.TotalAmount(),
		DeliveryCharge:  order.DeliveryCharge(),
		Revision:        order.Revision,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}, nil
}

// toDomainModel persisted row -> domain object
func (r *OrderRepositoryImpl) toDomainModel(po *entity.Order) (*etorder.Order, error) {
	var items []etorder.Line
	if len(po.Items) > 0 {
		if err := json.Unmarshal(po.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items of %s: %w", po.OrderID, err)
		}
	}

	var history []etorder.StatusEntry
	if len(po.StatusHistory) > 0 {
		if err := json.Unmarshal(po.StatusHistory, &history); err != nil {
			return nil, fmt.Errorf("unmarshal status history of %s: %w", po.OrderID, err)
		}
	}

	return etorder.Restore(etorder.RestoreParams{
		ID:              po.ID,
		OrderID:         po.OrderID,
		CustomerName:    po.CustomerName,
		Items:           items,
		DeliveryAddress: po.DeliveryAddress,
		Phone:           po.Phone,
		DeliverySlot:    etorder.Slot(po.DeliverySlot),
		Status:          etorder.Status(po.Status),
		StatusHistory:   history,
		PaymentMethod:   po.PaymentMethod,
		DeliveryCharge:  po.DeliveryCharge,
		Revision:        po.Revision,
		CreatedAt:       po.CreatedAt,
		UpdatedAt:       po.UpdatedAt,
	}), nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
