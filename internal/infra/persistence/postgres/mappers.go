package postgres

import (
	"storefront/internal/domain/entity"
	"storefront/internal/infra/persistence/model"
)

func toProductEntity(m *model.ProductModel) *entity.Product {
	if m == nil {
		return nil
	}

	return &entity.Product{
		ID:                  m.ID,
		Name:                m.Name,
		Price:               m.Price,
		Image:               m.Image,
		Description:         m.Description,
		Category:            entity.Category(m.Category),
		InStock:             m.InStock,
		SustainabilityScore: m.SustainabilityScore,
		CommunityImpact:     m.CommunityImpact,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func fromProductEntity(p *entity.Product) *model.ProductModel {
	return &model.ProductModel{
		ID:                  p.ID,
		Name:                p.Name,
		Price:               p.Price,
		Image:               p.Image,
		Description:         p.Description,
		Category:            string(p.Category),
		InStock:             p.InStock,
		SustainabilityScore: p.SustainabilityScore,
		CommunityImpact:     p.CommunityImpact,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toUserEntity(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         entity.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromUserEntity(u *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toOrderEntity(m *model.OrderModel) *entity.Order {
	items := make([]entity.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, entity.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return &entity.Order{
		ID:          m.ID,
		UserID:      m.UserID,
		Items:       items,
		TotalAmount: m.TotalAmount,
		ShippingAddress: entity.ShippingAddress{
			Street:  m.ShippingAddress.Street,
			City:    m.ShippingAddress.City,
			State:   m.ShippingAddress.State,
			ZipCode: m.ShippingAddress.ZipCode,
			Country: m.ShippingAddress.Country,
		},
		Status:    entity.OrderStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func toWishlistEntity(m *model.WishlistModel) *entity.WishlistItem {
	return &entity.WishlistItem{
		ID:        m.ID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		Product:   toProductEntity(m.Product),
		CreatedAt: m.CreatedAt,
	}
}
