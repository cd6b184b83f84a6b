package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:text;not null;default:'';index"`
	PriceCents  int64     `gorm:"not null"`
	Stock       int32     `gorm:"not null;default:0"` // CHECK stock >= 0 in migration
	IsActive    bool      `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Item) TableName() string { return "items" }

type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Recipient string    `gorm:"type:text;not null"`
	Phone     string    `gorm:"type:text;not null"`
	Detail    string    `gorm:"type:text;not null"`
	IsDefault bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Address) TableName() string { return "addresses" }

// Order carries a denormalized ship-to snapshot so it stays readable after the
// source address is edited or deleted.
type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	SellerID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status     OrderStatus `gorm:"type:text;not null;default:'pending';index"`
	TotalCents int64       `gorm:"not null;default:0"`

	AddressID       *uuid.UUID `gorm:"type:uuid;index"`
	ShipToRecipient string     `gorm:"type:text;not null"`
	ShipToPhone     string     `gorm:"type:text;not null"`
	ShipToDetail    string     `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderLine struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_lines_order_item"`
	ItemID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_order_lines_order_item"`
	Quantity       int32     `gorm:"type:int;not null"` // CHECK quantity > 0 in migration
	UnitPriceCents int64     `gorm:"not null"`
	LineTotalCents int64     `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderLine) TableName() string { return "order_lines" }

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_reviews_order_item_user"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_reviews_order_item_user"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_reviews_order_item_user"`
	Rating     int32     `gorm:"type:int;not null"` // CHECK 1..5 in migration
	Comment    string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Review) TableName() string { return "reviews" }

type Favorite struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_favorites_user_item"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_favorites_user_item"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Favorite) TableName() string { return "favorites" }
