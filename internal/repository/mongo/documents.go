package mongo

import (
	"time"

	"github.com/rookgm/gofood/internal/models"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Phone        string    `bson:"phone"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

type menuItemDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Price     float64   `bson:"price"`
	Category  string    `bson:"category"`
	Available bool      `bson:"available"`
	Image     string    `bson:"image"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type orderDocument struct {
	ID                  string             `bson:"_id"`
	UserID              string             `bson:"user_id"`
	UserName            string             `bson:"user_name"`
	Items               []models.OrderItem `bson:"items"`
	Contact             string             `bson:"contact"`
	Location            *models.Location   `bson:"location,omitempty"`
	Address             string             `bson:"address"`
	RiderID             string             `bson:"rider_id"`
	AssignedAt          *time.Time         `bson:"assigned_at,omitempty"`
	models.StatusFields `bson:",inline"`
	Version             int64     `bson:"version"`
	CreatedAt           time.Time `bson:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at"`
}

type finishedDocument struct {
	ID                  string             `bson:"_id"`
	UserID              string             `bson:"user_id"`
	UserName            string             `bson:"user_name"`
	Items               []models.OrderItem `bson:"items"`
	Contact             string             `bson:"contact"`
	Location            *models.Location   `bson:"location,omitempty"`
	Address             string             `bson:"address"`
	RiderID             string             `bson:"rider_id"`
	RiderName           string             `bson:"rider_name"`
	RiderPhone          string             `bson:"rider_phone"`
	AssignedAt          *time.Time         `bson:"assigned_at,omitempty"`
	models.StatusFields `bson:",inline"`
	CreatedAt           time.Time `bson:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at"`
	DeliveredAt         time.Time `bson:"delivered_at"`
}

type riderDeliveryDocument struct {
	ID          string             `bson:"_id"`
	UserID      string             `bson:"user_id"`
	UserName    string             `bson:"user_name"`
	RiderID     string             `bson:"rider_id"`
	Items       []models.OrderItem `bson:"items"`
	Contact     string             `bson:"contact"`
	Location    *models.Location   `bson:"location,omitempty"`
	Address     string             `bson:"address"`
	DeliveredAt time.Time          `bson:"delivered_at"`
}

func toUserDocument(u *models.User) *userDocument {
	return &userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func toUserEntity(doc *userDocument) *models.User {
	return &models.User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Phone:        doc.Phone,
		Role:         doc.Role,
		CreatedAt:    doc.CreatedAt,
	}
}

func toMenuItemDocument(item *models.MenuItem) *menuItemDocument {
	return &menuItemDocument{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Category:  item.Category,
		Available: item.Available,
		Image:     item.Image,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toMenuItemEntity(doc *menuItemDocument) *models.MenuItem {
	return &models.MenuItem{
		ID:        doc.ID,
		Name:      doc.Name,
		Price:     doc.Price,
		Category:  doc.Category,
		Available: doc.Available,
		Image:     doc.Image,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func toOrderDocument(o *models.Order) *orderDocument {
	return &orderDocument{
		ID:           o.ID,
		UserID:       o.UserID,
		UserName:     o.UserName,
		Items:        o.Items,
		Contact:      o.Contact,
		Location:     o.Location,
		Address:      o.Address,
		RiderID:      o.RiderID,
		AssignedAt:   o.AssignedAt,
		StatusFields: o.StatusFields,
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toOrderEntity(doc *orderDocument) *models.Order {
	return &models.Order{
		ID:           doc.ID,
		UserID:       doc.UserID,
		UserName:     doc.UserName,
		Items:        doc.Items,
		Contact:      doc.Contact,
		Location:     doc.Location,
		Address:      doc.Address,
		RiderID:      doc.RiderID,
		AssignedAt:   doc.AssignedAt,
		StatusFields: doc.StatusFields,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func toFinishedDocument(f *models.FinishedOrder) *finishedDocument {
	return &finishedDocument{
		ID:           f.ID,
		UserID:       f.UserID,
		UserName:     f.UserName,
		Items:        f.Items,
		Contact:      f.Contact,
		Location:     f.Location,
		Address:      f.Address,
		RiderID:      f.RiderID,
		RiderName:    f.RiderName,
		RiderPhone:   f.RiderPhone,
		AssignedAt:   f.AssignedAt,
		StatusFields: f.StatusFields,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
		DeliveredAt:  f.DeliveredAt,
	}
}

func toFinishedEntity(doc *finishedDocument) *models.FinishedOrder {
	return &models.FinishedOrder{
		ID:           doc.ID,
		UserID:       doc.UserID,
		UserName:     doc.UserName,
		Items:        doc.Items,
		Contact:      doc.Contact,
		Location:     doc.Location,
		Address:      doc.Address,
		RiderID:      doc.RiderID,
		RiderName:    doc.RiderName,
		RiderPhone:   doc.RiderPhone,
		AssignedAt:   doc.AssignedAt,
		StatusFields: doc.StatusFields,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		DeliveredAt:  doc.DeliveredAt,
	}
}

func toRiderDeliveryDocument(r *models.RiderDelivery) *riderDeliveryDocument {
	return &riderDeliveryDocument{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		RiderID:     r.RiderID,
		Items:       r.Items,
		Contact:     r.Contact,
		Location:    r.Location,
		Address:     r.Address,
		DeliveredAt: r.DeliveredAt,
	}
}

func toRiderDeliveryEntity(doc *riderDeliveryDocument) *models.RiderDelivery {
	return &models.RiderDelivery{
		ID:          doc.ID,
		UserID:      doc.UserID,
		UserName:    doc.UserName,
		RiderID:     doc.RiderID,
		Items:       doc.Items,
		Contact:     doc.Contact,
		Location:    doc.Location,
		Address:     doc.Address,
		DeliveredAt: doc.DeliveredAt,
	}
}
