package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/domain/repository"
)

type itemDocument struct {
	ProductID   string  `bson:"productId"`
	ProductName string  `bson:"productName"`
	Quantity    int     `bson:"quantity"`
	Price       float64 `bson:"price"`
	Subtotal    float64 `bson:"subtotal"`
}

type addressDocument struct {
	Street  string `bson:"street,omitempty"`
	City    string `bson:"city,omitempty"`
	State   string `bson:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty"`
	Country string `bson:"country,omitempty"`
}

type orderDocument struct {
	ID              string              `bson:"_id"`
	OrderNumber     string              `bson:"orderNumber"`
	UserID          string              `bson:"userId"`
	UserEmail       string              `bson:"userEmail"`
	UserName        string              `bson:"userName"`
	Items           []itemDocument      `bson:"items"`
	TotalAmount     float64             `bson:"totalAmount"`
	TotalItems      int                 `bson:"totalItems"`
	Status          model.OrderStatus   `bson:"status"`
	ShippingAddress addressDocument     `bson:"shippingAddress"`
	PaymentMethod   model.PaymentMethod `bson:"paymentMethod"`
	PaymentStatus   model.PaymentStatus `bson:"paymentStatus"`
	Notes           string              `bson:"notes"`
	CreatedAt       time.Time           `bson:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt"`
}

func toDocument(o *model.Order) orderDocument {
	items := make([]itemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDocument(it))
	}
	return orderDocument{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		UserEmail:       o.UserEmail,
		UserName:        o.UserName,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		TotalItems:      o.TotalItems,
		Status:          o.Status,
		ShippingAddress: addressDocument(o.ShippingAddress),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (d orderDocument) toModel() model.Order {
	items := make([]model.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, model.OrderItem(it))
	}
	return model.Order{
		ID:              d.ID,
		OrderNumber:     d.OrderNumber,
		UserID:          d.UserID,
		UserEmail:       d.UserEmail,
		UserName:        d.UserName,
		Items:           items,
		TotalAmount:     d.TotalAmount,
		TotalItems:      d.TotalItems,
		Status:          d.Status,
		ShippingAddress: model.ShippingAddress(d.ShippingAddress),
		PaymentMethod:   d.PaymentMethod,
		PaymentStatus:   d.PaymentStatus,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

// OrderRepository stores orders as documents keyed by order id.
type OrderRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository wraps collection.
func NewOrderRepository(collection *mongo.Collection) *OrderRepository {
	return &OrderRepository{collection: collection, now: time.Now}
}

// Create inserts order. A taken id or order number yields ErrAlreadyExists.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now().UTC()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	if _, err := r.collection.InsertOne(ctx, toDocument(order)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order %s: %w", order.OrderNumber, domainErrors.ErrAlreadyExists)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetForUser loads order id when it belongs to userID.
func (r *OrderRepository) GetForUser(ctx context.Context, id, userID string) (*model.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

// GetByNumberForUser loads order by number when it belongs to userID.
func (r *OrderRepository) GetByNumberForUser(ctx context.Context, number, userID string) (*model.Order, error) {
	return r.findOne(ctx, bson.M{"orderNumber": number, "userId": userID})
}

func (r *OrderRepository) findOne(ctx context.Context, filter bson.M) (*model.Order, error) {
	var doc orderDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	order := doc.toModel()
	return &order, nil
}

func listFilter(filter model.OrderFilter) bson.M {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

// List returns one page of matching orders, newest first, and the total match count.
func (r *OrderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error) {
	query := listFilter(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]model.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toModel())
	}
	return orders, total, nil
}

// UpdateStatus sets status on order id. With expected set the write only
// applies while the stored status still equals it; otherwise ErrNotFound.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, expected *model.OrderStatus) (*model.Order, error) {
	filter := bson.M{"_id": id}
	if expected != nil {
		filter["status"] = *expected
	}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": r.now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order := doc.toModel()
	return &order, nil
}

type statusGroup struct {
	Status      model.OrderStatus `bson:"_id"`
	Count       int64             `bson:"count"`
	TotalAmount float64           `bson:"totalAmount"`
}

// Stats groups every order by status.
func (r *OrderRepository) Stats(ctx context.Context) (*model.OrderStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	var groups []statusGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	stats := &model.OrderStats{ByStatus: make([]model.StatusStat, 0, len(groups))}
	for _, g := range groups {
		stats.TotalOrders += g.Count
		stats.TotalRevenue += g.TotalAmount
		stats.ByStatus = append(stats.ByStatus, model.StatusStat(g))
	}
	return stats, nil
}

// Ping checks that the primary is reachable.
func (r *OrderRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
